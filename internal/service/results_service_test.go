package service

import (
	"audit_survey_backend/internal/model"
	"context"
	"sync"
	"testing"
	"time"
)

func TestAggregateCountsAndPercentages(t *testing.T) {
	sv := &model.Survey{CompletionCount: 5, TotalAssignments: 8}
	sv.ID = "s"
	q1 := model.Question{Type: model.QuestionRadio, Options: []string{"Daily", "Weekly", "Never"}, Order: 1}
	q1.ID = "q1"
	q2 := model.Question{Type: model.QuestionCheckbox, Options: []string{"A", "B"}, Order: 2}
	q2.ID = "q2"
	q3 := model.Question{Type: model.QuestionText, Order: 3}
	q3.ID = "q3"

	at := time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC)
	responses := []model.Response{
		{Answers: []model.Answer{{QuestionID: "q1", Value: []string{"Weekly"}}, {QuestionID: "q2", Value: []string{"A", "B"}}, {QuestionID: "q3", TextValue: "more training"}}, SubmittedAt: at},
		{Answers: []model.Answer{{QuestionID: "q1", Value: []string{"Weekly"}}, {QuestionID: "q2", Value: []string{"B"}}}, SubmittedAt: at.Add(2 * time.Hour)},
		{Answers: []model.Answer{{QuestionID: "q1", Value: []string{"Daily"}}, {QuestionID: "q9", Value: []string{"x"}}}, SubmittedAt: at.Add(time.Hour)},
		{Answers: []model.Answer{{QuestionID: "q1", Value: []string{"Yearly"}}}, SubmittedAt: at},
	}

	r := Aggregate(sv, []model.Question{q3, q2, q1}, nil, responses)
	if r.TotalResponses != 4 || r.CompletionRate != 62.5 || r.CompletionPercent != 63 {
		t.Fatalf("unexpected totals %+v", r.SurveyResults)
	}
	if got := r.AggregatedData["q1"]; got["Weekly"] != 2 || got["Daily"] != 1 || got["Never"] != 0 || len(got) != 3 {
		t.Fatalf("q1 counts %v", got)
	}
	if _, ok := r.AggregatedData["q3"]; ok {
		t.Fatal("text questions are not aggregated")
	}
	if r.Questions[0].QuestionID != "q1" || r.Questions[2].QuestionID != "q3" {
		t.Fatal("breakdown not ordered by question order")
	}
	weekly := r.Questions[0].Options[1]
	if weekly.Option != "Weekly" || weekly.Percentage != 50 {
		t.Fatalf("weekly breakdown %+v", weekly)
	}
	if b := r.Questions[1].Options[1]; b.Count != 2 || b.Percentage != 50 {
		t.Fatalf("checkbox B breakdown %+v", b)
	}
	if got := r.Questions[2].TextAnswers; len(got) != 1 || got[0] != "more training" {
		t.Fatalf("text answers %v", got)
	}
	if r.LastSubmissionAt == nil || !r.LastSubmissionAt.Equal(at.Add(2*time.Hour)) {
		t.Fatalf("last submission %v", r.LastSubmissionAt)
	}
}

func TestAggregateNoResponses(t *testing.T) {
	sv := &model.Survey{}
	q := model.Question{Type: model.QuestionScale, Options: []string{"1", "2"}}
	q.ID = "q"
	r := Aggregate(sv, []model.Question{q}, nil, nil)
	if r.TotalResponses != 0 || r.CompletionRate != 0 || r.CompletionPercent != 0 {
		t.Fatalf("unexpected totals %+v", r.SurveyResults)
	}
	for _, o := range r.Questions[0].Options {
		if o.Count != 0 || o.Percentage != 0 {
			t.Fatalf("zero division guard failed: %+v", o)
		}
	}
}

func TestAvgCompletionHours(t *testing.T) {
	at := time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC)
	s1 := at.Add(3 * time.Hour)
	s2 := at.Add(6 * time.Hour)
	list := []model.Assignment{
		{Status: model.AssignmentSubmitted, AssignedAt: at, SubmittedAt: &s1},
		{Status: model.AssignmentSubmitted, AssignedAt: at, SubmittedAt: &s2},
		{Status: model.AssignmentPending, AssignedAt: at},
	}
	if got := avgCompletionHours(list); got != 4.5 {
		t.Fatalf("want 4.5, got %v", got)
	}
	if got := avgCompletionHours(nil); got != 0 {
		t.Fatalf("want 0, got %v", got)
	}
}

func TestGetResultsFromStore(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	r, err := env.results.GetResults(ctx, "1")
	if err != nil {
		t.Fatal(err)
	}
	if r.TotalResponses != 5 || r.CompletionRate != 62.5 {
		t.Fatalf("unexpected totals %+v", r.SurveyResults)
	}
	q1 := env.questionID(t, "1", 1)
	if got := r.AggregatedData[q1]; got["Weekly"] != 2 || got["Daily"] != 2 || got["Monthly"] != 1 || got["Quarterly"] != 0 {
		t.Fatalf("q1 counts %v", got)
	}
	if got := r.Questions[3].TextAnswers; len(got) != 3 {
		t.Fatalf("want 3 text answers, got %v", got)
	}
	if r.AvgCompletionHours <= 0 || r.LastSubmissionAt == nil {
		t.Fatalf("kpis missing: %+v", r)
	}

	// 无缓存与订阅者时回调不应出错
	env.results.ResultsChanged(ctx, "1")

	if _, err := env.results.GetResults(ctx, "missing"); err == nil {
		t.Fatal("expected error for unknown survey")
	}
}

type mapCache struct {
	mu      sync.Mutex
	reports map[string]*model.ResultsReport
}

func (c *mapCache) Get(ctx context.Context, surveyID string) (*model.ResultsReport, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.reports[surveyID]
	return r, ok
}

func (c *mapCache) Set(ctx context.Context, surveyID string, report *model.ResultsReport) {
	c.mu.Lock()
	c.reports[surveyID] = report
	c.mu.Unlock()
}

func (c *mapCache) Invalidate(ctx context.Context, surveyID string) {
	c.mu.Lock()
	delete(c.reports, surveyID)
	c.mu.Unlock()
}

func TestGetResultsSkipsCacheWhenInvalidatedMidCompute(t *testing.T) {
	env := newTestEnv(t)
	cache := &mapCache{reports: map[string]*model.ResultsReport{}}
	env.results.cache = cache
	env.store.SetLatency(80*time.Millisecond, 0)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := env.results.GetResults(ctx, "1")
		done <- err
	}()
	time.Sleep(20 * time.Millisecond)
	env.results.ResultsChanged(ctx, "1")
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	if _, ok := cache.Get(ctx, "1"); ok {
		t.Fatal("report computed before the change was cached")
	}

	if _, err := env.results.GetResults(ctx, "1"); err != nil {
		t.Fatal(err)
	}
	if _, ok := cache.Get(ctx, "1"); !ok {
		t.Fatal("fresh report not cached")
	}
}
