package fixtures

import (
	"audit_survey_backend/internal/model"
	"testing"
	"time"
)

func demoTemplates() []model.SurveyTemplate {
	radio := model.TemplateQuestion{Text: "r", Type: model.QuestionRadio, Options: []string{"Weekly", "Daily", "Monthly", "Effective", "Very Effective", "Neutral"}, Required: true, TargetRoles: []string{"DEVELOPER", "LEAD_DEVELOPER", "SECURITY_ENGINEER", "DEVOPS_ENGINEER"}, Order: 1}
	text := model.TemplateQuestion{Text: "t", Type: model.QuestionText, Order: 2}
	return []model.SurveyTemplate{
		{ID: "security-audit", Questions: []model.TemplateQuestion{radio, text}},
		{ID: "code-quality", Questions: []model.TemplateQuestion{radio, text}},
		{ID: "process-evaluation", Questions: []model.TemplateQuestion{radio, text}},
	}
}

func TestBuildCounters(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	ds, err := Build(demoTemplates(), now)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(ds.Surveys) != 3 {
		t.Fatalf("want 3 surveys, got %d", len(ds.Surveys))
	}
	want := map[string][2]int{"1": {5, 8}, "2": {0, 6}, "3": {4, 4}}
	for _, s := range ds.Surveys {
		w := want[s.ID]
		if s.CompletionCount != w[0] || s.TotalAssignments != w[1] {
			t.Fatalf("survey %s: want %d/%d, got %d/%d", s.ID, w[0], w[1], s.CompletionCount, s.TotalAssignments)
		}
	}
	if got := ds.Surveys[0].CompletionPercent(); got != 63 {
		t.Fatalf("survey 1 completion: want 63, got %d", got)
	}
	if len(ds.Responses) != 9 {
		t.Fatalf("want 9 responses, got %d", len(ds.Responses))
	}
}

func TestBuildAnonymousResponsesHaveNoUser(t *testing.T) {
	ds, err := Build(demoTemplates(), time.Now())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	for _, r := range ds.Responses {
		if r.SurveyID == "3" && (r.UserID != "" || !r.IsAnonymous) {
			t.Fatalf("anonymous response %s leaks user %q", r.ID, r.UserID)
		}
		if r.SurveyID == "1" && r.UserID == "" {
			t.Fatalf("named response %s lost its user", r.ID)
		}
	}
}

func TestBuildActiveSurveyAcceptsResponses(t *testing.T) {
	now := time.Now()
	ds, err := Build(demoTemplates(), now)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !ds.Surveys[0].AcceptsResponses(now) {
		t.Fatal("demo survey 1 should be open")
	}
	if !ds.Surveys[2].Expired(now) {
		t.Fatal("demo survey 3 deadline should have passed")
	}
}

func TestBuildMissingTemplate(t *testing.T) {
	if _, err := Build(nil, time.Now()); err == nil {
		t.Fatal("expected error for missing template")
	}
}
