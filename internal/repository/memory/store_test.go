package memory

import (
	"audit_survey_backend/internal/model"
	"audit_survey_backend/internal/repository/fixtures"
	"audit_survey_backend/internal/util"
	"context"
	"errors"
	"testing"
	"time"
)

func templates() []model.SurveyTemplate {
	q := model.TemplateQuestion{Text: "How often?", Type: model.QuestionRadio, Options: []string{"Weekly", "Daily", "Monthly", "Effective", "Very Effective", "Neutral"}, Required: true, Order: 1}
	return []model.SurveyTemplate{
		{ID: "security-audit", Questions: []model.TemplateQuestion{q}},
		{ID: "code-quality", Questions: []model.TemplateQuestion{q}},
		{ID: "process-evaluation", Questions: []model.TemplateQuestion{q}},
	}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	ds, err := fixtures.Build(templates(), time.Now())
	if err != nil {
		t.Fatalf("fixtures: %v", err)
	}
	return NewStore(ds)
}

func TestGetSurveyNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetSurvey(context.Background(), "missing")
	if !errors.Is(err, util.ErrSurveyNotFound) {
		t.Fatalf("want ErrSurveyNotFound, got %v", err)
	}
}

func TestReturnsCopies(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	qs, err := s.ListQuestions(ctx, "1")
	if err != nil || len(qs) == 0 {
		t.Fatalf("list questions: %v %d", err, len(qs))
	}
	qs[0].Options[0] = "mutated"

	again, _ := s.ListQuestions(ctx, "1")
	if again[0].Options[0] == "mutated" {
		t.Fatal("store leaked internal slice")
	}
}

func TestSubmitResponseUpdatesCounters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a, err := s.FindAssignment(ctx, "1", "user2")
	if err != nil {
		t.Fatalf("find assignment: %v", err)
	}
	if !a.Transition(model.AssignmentSubmitted, time.Now()) {
		t.Fatal("transition refused")
	}
	r := &model.Response{SurveyID: "1", UserID: "user2", UserRole: a.UserRole}
	if err := s.SubmitResponse(ctx, r, a); err != nil {
		t.Fatalf("submit: %v", err)
	}

	sv, _ := s.GetSurvey(ctx, "1")
	if sv.CompletionCount != 6 {
		t.Fatalf("completion count: want 6, got %d", sv.CompletionCount)
	}
	rs, _ := s.ListResponses(ctx, "1")
	if len(rs) != 6 {
		t.Fatalf("responses: want 6, got %d", len(rs))
	}

	// 同一分配重复提交
	if err := s.SubmitResponse(ctx, r, a); !errors.Is(err, util.ErrAlreadySubmitted) {
		t.Fatalf("want ErrAlreadySubmitted, got %v", err)
	}
}

func TestLatencyHonoursCancellation(t *testing.T) {
	s := newTestStore(t)
	s.SetLatency(time.Hour, time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := s.ListSurveys(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("want deadline exceeded, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Fatal("cancelled fetch kept waiting")
	}
}

func TestCreateSurveyAssignsIDs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	sv := &model.Survey{Title: "New", Status: model.SurveyDraft}
	qs := []model.Question{{Text: "q", Type: model.QuestionText}}
	as := []model.Assignment{{UserID: "user1", UserRole: "DEVELOPER", Status: model.AssignmentPending}}
	if err := s.CreateSurvey(ctx, sv, qs, as); err != nil {
		t.Fatalf("create: %v", err)
	}
	if sv.ID == "" || qs[0].SurveyID != sv.ID || as[0].SurveyID != sv.ID {
		t.Fatal("ids not propagated")
	}
	got, err := s.GetSurvey(ctx, sv.ID)
	if err != nil || got.TotalAssignments != 1 {
		t.Fatalf("stored survey: %v %+v", err, got)
	}

	if err := s.SetEmailStatuses(ctx, sv.ID, map[string]model.EmailStatus{"user1": model.EmailFailed}); err != nil {
		t.Fatalf("email statuses: %v", err)
	}
	list, _ := s.ListAssignments(ctx, sv.ID)
	if len(list) != 1 || list[0].EmailStatus != model.EmailFailed {
		t.Fatalf("email status not recorded: %+v", list)
	}
}

func TestFindByEmailCaseInsensitive(t *testing.T) {
	s := newTestStore(t)
	u, err := s.FindByEmail(context.Background(), "USER1@audit.local")
	if err != nil || u.ID != "user1" {
		t.Fatalf("find by email: %v %+v", err, u)
	}
}

func TestSaveAssignmentRejectsStaleCopy(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	stale, _ := s.FindAssignment(ctx, "1", "user2")
	submitted, _ := s.FindAssignment(ctx, "1", "user2")
	submitted.Transition(model.AssignmentSubmitted, time.Now())
	if err := s.SubmitResponse(ctx, &model.Response{SurveyID: "1", UserID: "user2"}, submitted); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if !stale.Transition(model.AssignmentDiscarded, time.Now()) {
		t.Fatal("stale copy should still look open")
	}
	if err := s.SaveAssignment(ctx, stale); !errors.Is(err, util.ErrInvalidTransition) {
		t.Fatalf("want ErrInvalidTransition, got %v", err)
	}
	got, _ := s.GetAssignment(ctx, stale.ID)
	if got.Status != model.AssignmentSubmitted {
		t.Fatalf("submitted assignment overwritten with %s", got.Status)
	}
}

func TestUpdateSurveyStatusOnlyMovesForward(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.UpdateSurveyStatus(ctx, "2", model.SurveyClosed); err != nil {
		t.Fatalf("close draft: %v", err)
	}
	if err := s.UpdateSurveyStatus(ctx, "2", model.SurveyActive); !errors.Is(err, util.ErrInvalidTransition) {
		t.Fatalf("activate closed: want ErrInvalidTransition, got %v", err)
	}
	sv, _ := s.GetSurvey(ctx, "2")
	if sv.Status != model.SurveyClosed {
		t.Fatalf("status %s", sv.Status)
	}
	if err := s.UpdateSurveyStatus(ctx, "missing", model.SurveyClosed); !errors.Is(err, util.ErrSurveyNotFound) {
		t.Fatalf("want ErrSurveyNotFound, got %v", err)
	}
}
