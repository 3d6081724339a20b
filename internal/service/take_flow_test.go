package service

import (
	"audit_survey_backend/internal/model"
	"audit_survey_backend/internal/util"
	"errors"
	"testing"
)

func flowQuestions() []model.Question {
	mk := func(id string, typ model.QuestionType, order int, required bool, roles []string, opts ...string) model.Question {
		q := model.Question{Type: typ, Order: order, Required: required, TargetRoles: roles, Options: opts}
		q.ID = id
		return q
	}
	dev := []string{"DEVELOPER", "LEAD_DEVELOPER"}
	return []model.Question{
		mk("q3", model.QuestionScale, 3, true, dev, "1", "2", "3"),
		mk("q1", model.QuestionRadio, 1, true, dev, "Daily", "Weekly"),
		mk("q2", model.QuestionCheckbox, 2, true, dev, "Code reviews", "Scanning", "Training"),
		mk("q4", model.QuestionText, 4, false, dev),
		mk("pm", model.QuestionText, 5, true, []string{"PROJECT_MANAGER"}),
	}
}

func TestVisibleQuestionsFilteredAndOrdered(t *testing.T) {
	got := VisibleQuestions(flowQuestions(), "DEVELOPER")
	gotIDs := ids(got, func(q model.Question) string { return q.ID })
	if want := []string{"q1", "q2", "q3", "q4"}; !equal(gotIDs, want) {
		t.Fatalf("want %v, got %v", want, gotIDs)
	}
}

func TestNextGatedByRequiredAnswer(t *testing.T) {
	f := NewTakeFlow(flowQuestions(), "DEVELOPER", nil)
	if f.CanProceed() {
		t.Fatal("required question unanswered, next must be disabled")
	}
	if err := f.Next(); !errors.Is(err, util.ErrRequiredAnswerMissing) {
		t.Fatalf("want ErrRequiredAnswerMissing, got %v", err)
	}
	if err := f.SetAnswer("q1", []string{"Weekly"}, ""); err != nil {
		t.Fatal(err)
	}
	if !f.CanProceed() {
		t.Fatal("answered question should enable next")
	}
	if err := f.Next(); err != nil {
		t.Fatal(err)
	}
	if f.Current().ID != "q2" {
		t.Fatalf("want q2, got %s", f.Current().ID)
	}
}

func TestWhitespaceAnswerDoesNotCount(t *testing.T) {
	f := NewTakeFlow(flowQuestions(), "DEVELOPER", nil)
	_ = f.SetAnswer("q1", []string{"   "}, "")
	if f.CanProceed() {
		t.Fatal("whitespace is not an answer")
	}
}

func TestCheckboxKeepsSelectionOrder(t *testing.T) {
	f := NewTakeFlow(flowQuestions(), "DEVELOPER", nil)
	if err := f.SetAnswer("q2", []string{"Scanning", "Code reviews", "Scanning"}, ""); err != nil {
		t.Fatal(err)
	}
	a, _ := f.Answer("q2")
	if want := []string{"Scanning", "Code reviews"}; !equal(a.Value, want) {
		t.Fatalf("want %v, got %v", want, a.Value)
	}
}

func TestSetAnswerRejectsUnknownOption(t *testing.T) {
	f := NewTakeFlow(flowQuestions(), "DEVELOPER", nil)
	if err := f.SetAnswer("q1", []string{"Yearly"}, ""); !errors.Is(err, util.ErrInvalidAnswer) {
		t.Fatalf("want ErrInvalidAnswer, got %v", err)
	}
	if err := f.SetAnswer("q1", []string{"Daily", "Weekly"}, ""); !errors.Is(err, util.ErrInvalidAnswer) {
		t.Fatalf("radio with two values: want ErrInvalidAnswer, got %v", err)
	}
	if err := f.SetAnswer("pm", nil, "hidden"); !errors.Is(err, util.ErrInvalidAnswer) {
		t.Fatalf("question hidden from role: want ErrInvalidAnswer, got %v", err)
	}
}

func TestPreviousFloorAndLastQuestion(t *testing.T) {
	f := NewTakeFlow(flowQuestions(), "DEVELOPER", nil)
	f.Previous()
	if f.Index() != 0 {
		t.Fatalf("previous below zero: %d", f.Index())
	}

	_ = f.SetAnswer("q1", []string{"Daily"}, "")
	_ = f.SetAnswer("q2", []string{"Training"}, "")
	_ = f.SetAnswer("q3", []string{"2"}, "")
	for i := 0; i < 3; i++ {
		if err := f.Next(); err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
	}
	if !f.IsLast() || f.Progress() != 100 {
		t.Fatalf("want last question at 100%%, got index %d progress %d", f.Index(), f.Progress())
	}
	if err := f.Next(); !errors.Is(err, util.ErrNoNextQuestion) {
		t.Fatalf("want ErrNoNextQuestion, got %v", err)
	}

	f.Previous()
	if f.Index() != 2 || f.Progress() != 75 {
		t.Fatalf("want index 2 progress 75, got %d %d", f.Index(), f.Progress())
	}
}

func TestSubmitOrdersAnswersAndChecksRequired(t *testing.T) {
	f := NewTakeFlow(flowQuestions(), "DEVELOPER", nil)
	_ = f.SetAnswer("q3", []string{"3"}, "")
	_ = f.SetAnswer("q1", []string{"Daily"}, "")
	if _, err := f.Submit(); !errors.Is(err, util.ErrRequiredAnswerMissing) {
		t.Fatalf("want ErrRequiredAnswerMissing, got %v", err)
	}

	_ = f.SetAnswer("q2", []string{"Code reviews", "Scanning"}, "")
	answers, err := f.Submit()
	if err != nil {
		t.Fatal(err)
	}
	gotIDs := ids(answers, func(a model.Answer) string { return a.QuestionID })
	if want := []string{"q1", "q2", "q3"}; !equal(gotIDs, want) {
		t.Fatalf("want %v, got %v", want, gotIDs)
	}
	if want := []string{"Code reviews", "Scanning"}; !equal(answers[1].Value, want) {
		t.Fatalf("checkbox answer: want %v, got %v", want, answers[1].Value)
	}
}

func TestDraftAnswersRestored(t *testing.T) {
	draft := []model.Answer{
		{QuestionID: "q1", Value: []string{"Weekly"}},
		{QuestionID: "pm", TextValue: "not visible"},
		{QuestionID: "q3", Value: []string{"99"}},
	}
	f := NewTakeFlow(flowQuestions(), "DEVELOPER", draft)
	if _, ok := f.Answer("q1"); !ok {
		t.Fatal("valid draft answer dropped")
	}
	if _, ok := f.Answer("q3"); ok {
		t.Fatal("invalid draft answer kept")
	}
	if st := f.State(); st.Answered != 1 || !st.CanProceed || st.Total != 4 || st.Progress != 25 {
		t.Fatalf("unexpected state %+v", st)
	}
}

func TestEmptyFlow(t *testing.T) {
	f := NewTakeFlow(flowQuestions(), "DEVOPS_ENGINEER", nil)
	if f.Current() != nil || f.Progress() != 0 {
		t.Fatal("no visible questions expected")
	}
	if err := f.Next(); !errors.Is(err, util.ErrNoNextQuestion) {
		t.Fatalf("want ErrNoNextQuestion, got %v", err)
	}
	if answers, err := f.Submit(); err != nil || len(answers) != 0 {
		t.Fatalf("empty submit: %v %v", answers, err)
	}
}
