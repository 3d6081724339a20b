package service

import (
	"audit_survey_backend/internal/model"
	"audit_survey_backend/internal/util"
	"errors"
	"testing"
	"time"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func survey(id, title string, status model.SurveyStatus, deadline time.Time) model.Survey {
	s := model.Survey{Title: title, Status: status, Deadline: deadline}
	s.ID = id
	return s
}

func ids[T any](list []T, id func(T) string) []string {
	out := make([]string, len(list))
	for i, v := range list {
		out[i] = id(v)
	}
	return out
}

func surveyIDs(list []model.Survey) []string {
	return ids(list, func(s model.Survey) string { return s.ID })
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSortSurveysByDeadlineAscending(t *testing.T) {
	list := []model.Survey{
		survey("a", "A", model.SurveyActive, date("2024-12-31")),
		survey("b", "B", model.SurveyActive, date("2024-12-15")),
		survey("c", "C", model.SurveyActive, date("2024-11-30")),
	}
	got, err := SortSurveys(list, "deadline", SortAsc)
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"c", "b", "a"}; !equal(surveyIDs(got), want) {
		t.Fatalf("want %v, got %v", want, surveyIDs(got))
	}
	if list[0].ID != "a" {
		t.Fatal("input slice was reordered")
	}
}

func TestSortSurveysZeroDatesLast(t *testing.T) {
	list := []model.Survey{
		survey("none", "N", model.SurveyDraft, time.Time{}),
		survey("late", "L", model.SurveyDraft, date("2025-01-10")),
		survey("early", "E", model.SurveyDraft, date("2025-01-01")),
	}
	for _, order := range []SortOrder{SortAsc, SortDesc} {
		got, _ := SortSurveys(list, "deadline", order)
		if got[len(got)-1].ID != "none" {
			t.Fatalf("%s: unset deadline should be last, got %v", order, surveyIDs(got))
		}
	}
}

func TestSortSurveysStableAndCaseInsensitive(t *testing.T) {
	list := []model.Survey{
		survey("1", "beta", model.SurveyActive, time.Time{}),
		survey("2", "Alpha", model.SurveyActive, time.Time{}),
		survey("3", "BETA", model.SurveyActive, time.Time{}),
	}
	got, _ := SortSurveys(list, "title", SortAsc)
	if want := []string{"2", "1", "3"}; !equal(surveyIDs(got), want) {
		t.Fatalf("want %v, got %v", want, surveyIDs(got))
	}
	got, _ = SortSurveys(list, "title", SortDesc)
	if want := []string{"1", "3", "2"}; !equal(surveyIDs(got), want) {
		t.Fatalf("desc: want %v, got %v", want, surveyIDs(got))
	}
}

func TestSortSurveysByCompletion(t *testing.T) {
	a := survey("a", "A", model.SurveyActive, time.Time{})
	a.CompletionCount, a.TotalAssignments = 5, 8
	b := survey("b", "B", model.SurveyActive, time.Time{})
	c := survey("c", "C", model.SurveyActive, time.Time{})
	c.CompletionCount, c.TotalAssignments = 4, 4

	got, _ := SortSurveys([]model.Survey{a, b, c}, "completion", SortDesc)
	if want := []string{"c", "a", "b"}; !equal(surveyIDs(got), want) {
		t.Fatalf("want %v, got %v", want, surveyIDs(got))
	}
}

func TestSortSurveysUnknownField(t *testing.T) {
	_, err := SortSurveys(nil, "colour", SortAsc)
	if !errors.Is(err, util.ErrInvalidRequest) {
		t.Fatalf("want ErrInvalidRequest, got %v", err)
	}
}

func TestFilterSurveysByStatus(t *testing.T) {
	list := []model.Survey{
		survey("1", "A", model.SurveyActive, time.Time{}),
		survey("2", "B", model.SurveyDraft, time.Time{}),
		survey("3", "C", model.SurveyClosed, time.Time{}),
	}
	got, err := FilterSurveys(list, "ACTIVE", "")
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"1"}; !equal(surveyIDs(got), want) {
		t.Fatalf("want %v, got %v", want, surveyIDs(got))
	}

	all, _ := FilterSurveys(list, "all", "")
	if len(all) != 3 {
		t.Fatalf("ALL should keep everything, got %d", len(all))
	}

	if _, err := FilterSurveys(list, "ARCHIVED", ""); !errors.Is(err, util.ErrInvalidRequest) {
		t.Fatalf("want ErrInvalidRequest, got %v", err)
	}
}

func TestFilterSurveysSearch(t *testing.T) {
	a := survey("1", "Q4 Security Audit", model.SurveyActive, time.Time{})
	a.Project = "Portfolio Frontend"
	b := survey("2", "Process Evaluation", model.SurveyClosed, time.Time{})
	b.Project = "YouTube Integration"

	got, _ := FilterSurveys([]model.Survey{a, b}, "", "youtube")
	if want := []string{"2"}; !equal(surveyIDs(got), want) {
		t.Fatalf("want %v, got %v", want, surveyIDs(got))
	}
}

func TestAssignmentQuery(t *testing.T) {
	at := date("2024-11-01")
	mk := func(id, user string, st model.AssignmentStatus, offset int) model.Assignment {
		a := model.Assignment{UserID: user, Status: st, AssignedAt: at.AddDate(0, 0, offset)}
		a.ID = id
		return a
	}
	list := []model.Assignment{
		mk("a1", "user1", model.AssignmentSubmitted, 0),
		mk("a2", "user2", model.AssignmentPending, 2),
		mk("a3", "user12", model.AssignmentPending, 1),
	}

	got, err := ApplyAssignmentQuery(list, ListQuery{Status: "pending", Order: SortDesc})
	if err != nil {
		t.Fatal(err)
	}
	gotIDs := ids(got, func(a model.Assignment) string { return a.ID })
	if want := []string{"a2", "a3"}; !equal(gotIDs, want) {
		t.Fatalf("want %v, got %v", want, gotIDs)
	}

	got, _ = ApplyAssignmentQuery(list, ListQuery{Search: "USER1", Sort: "assignee", Order: SortAsc})
	gotIDs = ids(got, func(a model.Assignment) string { return a.ID })
	if want := []string{"a1", "a3"}; !equal(gotIDs, want) {
		t.Fatalf("search: want %v, got %v", want, gotIDs)
	}

	got, _ = ApplyAssignmentQuery(list, ListQuery{Status: "COMPLETED"})
	if len(got) != 1 || got[0].ID != "a1" {
		t.Fatalf("COMPLETED alias should match submitted, got %+v", got)
	}
}

func TestSortAssignmentsSubmittedAtMissingLast(t *testing.T) {
	t1 := date("2024-11-03")
	done := model.Assignment{SubmittedAt: &t1}
	done.ID = "done"
	open := model.Assignment{}
	open.ID = "open"

	got, _ := SortAssignments([]model.Assignment{open, done}, "submittedAt", SortDesc)
	if got[0].ID != "done" {
		t.Fatalf("unsubmitted should sort last, got %s first", got[0].ID)
	}
}

func TestParseSortOrder(t *testing.T) {
	if o, _ := ParseSortOrder("", SortDesc); o != SortDesc {
		t.Fatalf("default: %s", o)
	}
	if o, _ := ParseSortOrder("ASC", SortDesc); o != SortAsc {
		t.Fatalf("case-insensitive: %s", o)
	}
	if _, err := ParseSortOrder("up", SortAsc); err == nil {
		t.Fatal("expected error")
	}
}
