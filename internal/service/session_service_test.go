package service

import (
	"audit_survey_backend/internal/model"
	"audit_survey_backend/internal/util"
	"context"
	"errors"
	"testing"
	"time"
)

func newSessions(env *testEnv) *SessionService {
	s := NewSessionService(env.surveys, 30*time.Minute)
	s.now = func() time.Time { return testNow }
	return s
}

func TestSessionWalkthrough(t *testing.T) {
	env := newTestEnv(t)
	sessions := newSessions(env)
	ctx := context.Background()

	v, err := sessions.Start(ctx, "1", "user2")
	if err != nil {
		t.Fatal(err)
	}
	if v.Index != 0 || v.Total != 4 || v.Progress != 25 || v.CanProceed {
		t.Fatalf("unexpected initial state %+v", v.FlowState)
	}

	if _, err := sessions.Next(v.SessionID, "user2"); !errors.Is(err, util.ErrRequiredAnswerMissing) {
		t.Fatalf("want ErrRequiredAnswerMissing, got %v", err)
	}

	for i, a := range securityAnswers(env, t) {
		if _, err := sessions.SetAnswer(v.SessionID, "user2", a.QuestionID, a.Value, ""); err != nil {
			t.Fatalf("answer %d: %v", i, err)
		}
		if v, err = sessions.Next(v.SessionID, "user2"); err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
	}
	if !v.IsLast || v.Progress != 100 {
		t.Fatalf("want last question, got %+v", v.FlowState)
	}

	v, _ = sessions.Previous(v.SessionID, "user2")
	if v.Index != 2 {
		t.Fatalf("previous: want index 2, got %d", v.Index)
	}

	resp, err := sessions.Submit(ctx, v.SessionID, "user2")
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Answers) != 3 {
		t.Fatalf("want 3 answers, got %d", len(resp.Answers))
	}
	if _, err := sessions.Get(v.SessionID, "user2"); !errors.Is(err, util.ErrSessionNotFound) {
		t.Fatalf("session should end after submit, got %v", err)
	}
}

func TestSessionOwnership(t *testing.T) {
	env := newTestEnv(t)
	sessions := newSessions(env)

	v, err := sessions.Start(context.Background(), "1", "user2")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := sessions.Get(v.SessionID, "user6"); !errors.Is(err, util.ErrSessionNotFound) {
		t.Fatalf("foreign session: want ErrSessionNotFound, got %v", err)
	}
}

func TestSessionResumesDraftAndReusesSession(t *testing.T) {
	env := newTestEnv(t)
	sessions := newSessions(env)
	ctx := context.Background()

	v, err := sessions.Start(ctx, "1", "user5")
	if err != nil {
		t.Fatal(err)
	}
	if v.Answered != 2 || !v.CanProceed {
		t.Fatalf("draft not restored: %+v", v.FlowState)
	}
	again, _ := sessions.Start(ctx, "1", "user5")
	if again.SessionID != v.SessionID {
		t.Fatal("expected the live session to be reused")
	}
}

func TestSessionStartRefusedForSubmitted(t *testing.T) {
	env := newTestEnv(t)
	sessions := newSessions(env)
	if _, err := sessions.Start(context.Background(), "1", "user1"); !errors.Is(err, util.ErrAlreadySubmitted) {
		t.Fatalf("want ErrAlreadySubmitted, got %v", err)
	}
}

func TestSessionSweep(t *testing.T) {
	env := newTestEnv(t)
	sessions := newSessions(env)

	v, err := sessions.Start(context.Background(), "1", "user2")
	if err != nil {
		t.Fatal(err)
	}
	if n := sessions.Sweep(); n != 0 {
		t.Fatalf("nothing should expire yet, swept %d", n)
	}

	sessions.now = func() time.Time { return testNow.Add(31 * time.Minute) }
	if _, err := sessions.Get(v.SessionID, "user2"); !errors.Is(err, util.ErrSessionNotFound) {
		t.Fatalf("idle session should expire, got %v", err)
	}
	if n := sessions.Sweep(); n != 1 {
		t.Fatalf("want 1 swept, got %d", n)
	}
}

func TestSessionSubmitMissingRequired(t *testing.T) {
	env := newTestEnv(t)
	sessions := newSessions(env)
	ctx := context.Background()

	v, _ := sessions.Start(ctx, "1", "user6")
	if _, err := sessions.Submit(ctx, v.SessionID, "user6"); !errors.Is(err, util.ErrRequiredAnswerMissing) {
		t.Fatalf("want ErrRequiredAnswerMissing, got %v", err)
	}
	a, _ := env.store.FindAssignment(ctx, "1", "user6")
	if a.Status != model.AssignmentPending {
		t.Fatalf("status changed to %s", a.Status)
	}
}
