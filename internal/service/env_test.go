package service

import (
	"audit_survey_backend/internal/model"
	"audit_survey_backend/internal/repository/fixtures"
	"audit_survey_backend/internal/repository/memory"
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

var testNow = time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

type stubNotifier struct {
	mu   sync.Mutex
	sent []string
	fail map[string]bool
}

func (n *stubNotifier) NotifyAssignment(ctx context.Context, survey *model.Survey, user *model.User) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fail[user.ID] {
		return errors.New("mailbox unavailable")
	}
	n.sent = append(n.sent, user.ID)
	return nil
}

type recordingListener struct {
	mu  sync.Mutex
	ids []string
}

func (l *recordingListener) ResultsChanged(ctx context.Context, surveyID string) {
	l.mu.Lock()
	l.ids = append(l.ids, surveyID)
	l.mu.Unlock()
}

type testEnv struct {
	store     *memory.Store
	templates *TemplateService
	notifier  *stubNotifier
	listener  *recordingListener
	surveys   *SurveyService
	results   *ResultsService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	tpls, err := LoadTemplates("")
	if err != nil {
		t.Fatalf("templates: %v", err)
	}
	ds, err := fixtures.Build(tpls, testNow)
	if err != nil {
		t.Fatalf("fixtures: %v", err)
	}
	store := memory.NewStore(ds)
	stores := Stores{Surveys: store, Questions: store, Assignments: store, Responses: store, Users: store}

	env := &testEnv{
		store:     store,
		templates: NewTemplateService(tpls),
		notifier:  &stubNotifier{fail: map[string]bool{}},
		listener:  &recordingListener{},
	}
	env.surveys = NewSurveyService(stores, env.templates, NewNotificationService(env.notifier, true), 7)
	env.surveys.now = func() time.Time { return testNow }
	env.surveys.AddListener(env.listener)
	env.results = NewResultsService(store, store, store, store, nil, nil)
	return env
}

// questionID 按题目顺序取问卷的第 n 题（从 1 开始）
func (e *testEnv) questionID(t *testing.T, surveyID string, n int) string {
	t.Helper()
	qs, err := e.store.ListQuestions(context.Background(), surveyID)
	if err != nil || len(qs) < n {
		t.Fatalf("questions of %s: %v", surveyID, err)
	}
	return qs[n-1].ID
}

func securityAnswers(e *testEnv, t *testing.T) []model.Answer {
	return []model.Answer{
		{QuestionID: e.questionID(t, "1", 1), Value: []string{"Weekly"}},
		{QuestionID: e.questionID(t, "1", 2), Value: []string{"Code reviews for security", "Automated security scanning"}},
		{QuestionID: e.questionID(t, "1", 3), Value: []string{"8"}},
	}
}
