package model

import (
	"testing"
	"time"
)

func TestPercent(t *testing.T) {
	cases := []struct {
		part, total, want int
	}{
		{5, 8, 63},
		{0, 0, 0},
		{3, 0, 0},
		{4, 4, 100},
		{1, 3, 33},
		{1, 2, 50},
	}
	for _, c := range cases {
		if got := Percent(c.part, c.total); got != c.want {
			t.Fatalf("Percent(%d,%d): want %d, got %d", c.part, c.total, c.want, got)
		}
	}
}

func TestSurveyExpiredIncludesDeadlineDay(t *testing.T) {
	s := Survey{Deadline: time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)}
	if s.Expired(time.Date(2024, 12, 31, 23, 59, 0, 0, time.UTC)) {
		t.Fatal("deadline day should still be open")
	}
	if !s.Expired(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatal("day after deadline should be expired")
	}
	if (&Survey{}).Expired(time.Now()) {
		t.Fatal("no deadline never expires")
	}
}

func TestSurveyStatusTransitions(t *testing.T) {
	if !SurveyDraft.CanTransitionTo(SurveyActive) || !SurveyActive.CanTransitionTo(SurveyClosed) {
		t.Fatal("forward transitions must be allowed")
	}
	if SurveyClosed.CanTransitionTo(SurveyActive) || SurveyActive.CanTransitionTo(SurveyDraft) {
		t.Fatal("backward transitions must be refused")
	}
}

func TestAssignmentTransition(t *testing.T) {
	now := time.Date(2024, 11, 5, 10, 0, 0, 0, time.UTC)
	a := Assignment{Status: AssignmentPending}
	if !a.Transition(AssignmentDraft, now) {
		t.Fatal("PENDING -> DRAFT")
	}
	if !a.Transition(AssignmentSubmitted, now) {
		t.Fatal("DRAFT -> SUBMITTED")
	}
	if a.SubmittedAt == nil || !a.SubmittedAt.Equal(now) {
		t.Fatalf("submittedAt not stamped: %v", a.SubmittedAt)
	}
	if a.Transition(AssignmentDiscarded, now) {
		t.Fatal("SUBMITTED is terminal")
	}
	if a.Status != AssignmentSubmitted {
		t.Fatalf("status changed on refused transition: %s", a.Status)
	}
}

func TestParseAssignmentStatus(t *testing.T) {
	if st, ok := ParseAssignmentStatus("completed"); !ok || st != AssignmentSubmitted {
		t.Fatalf("COMPLETED alias: %s %v", st, ok)
	}
	if _, ok := ParseAssignmentStatus("DONE"); ok {
		t.Fatal("unknown status accepted")
	}
}

func TestAssignmentOverdue(t *testing.T) {
	assigned := time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC)
	a := Assignment{Status: AssignmentPending, AssignedAt: assigned}
	if a.Overdue(assigned.Add(6*24*time.Hour), 7) {
		t.Fatal("6 days is not overdue")
	}
	if !a.Overdue(assigned.Add(7*24*time.Hour), 7) {
		t.Fatal("7 days is overdue")
	}
	a.Status = AssignmentSubmitted
	if a.Overdue(assigned.Add(30*24*time.Hour), 7) {
		t.Fatal("submitted assignments are never overdue")
	}
}

func TestAnswerEmpty(t *testing.T) {
	if !(Answer{}).Empty() {
		t.Fatal("zero answer is empty")
	}
	if !(Answer{Value: []string{"  "}}).Empty() {
		t.Fatal("whitespace answer is empty")
	}
	if (Answer{TextValue: "concern"}).Empty() {
		t.Fatal("text answer is not empty")
	}
	if (Answer{Value: []string{"Weekly"}}).Empty() {
		t.Fatal("selected answer is not empty")
	}
}

func TestQuestionTargetsRole(t *testing.T) {
	q := Question{TargetRoles: []string{"DEVELOPER"}}
	if !q.TargetsRole("DEVELOPER") || q.TargetsRole("PROJECT_MANAGER") {
		t.Fatal("role targeting mismatch")
	}
	if !(&Question{}).TargetsRole("ANY") {
		t.Fatal("untargeted question is visible to everyone")
	}
}

func TestRate(t *testing.T) {
	if got := Rate(5, 8); got != 62.5 {
		t.Fatalf("Rate(5,8): want 62.5, got %v", got)
	}
	if got := Rate(1, 3); got != 33.3 {
		t.Fatalf("Rate(1,3): want 33.3, got %v", got)
	}
	if got := Rate(2, 0); got != 0 {
		t.Fatalf("Rate(2,0): want 0, got %v", got)
	}
}
