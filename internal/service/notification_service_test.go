package service

import (
	"audit_survey_backend/internal/config"
	"audit_survey_backend/internal/model"
	"context"
	"strings"
	"testing"
	"time"
)

func TestNotifyAssigneesRecordsOutcome(t *testing.T) {
	n := &stubNotifier{fail: map[string]bool{"u2": true}}
	svc := NewNotificationService(n, true)

	users := []model.User{{Email: "a@x"}, {Email: "b@x"}, {Email: "c@x"}}
	users[0].ID, users[1].ID, users[2].ID = "u1", "u2", "u3"

	got := svc.NotifyAssignees(context.Background(), &model.Survey{Title: "Audit"}, users)
	want := map[string]model.EmailStatus{"u1": model.EmailSent, "u2": model.EmailFailed, "u3": model.EmailSent}
	if len(got) != len(want) {
		t.Fatalf("want %v, got %v", want, got)
	}
	for k, v := range want {
		if got[k] != v {
			t.Fatalf("%s: want %s, got %s", k, v, got[k])
		}
	}
}

func TestNotifyDisabled(t *testing.T) {
	n := &stubNotifier{}
	svc := NewNotificationService(n, false)
	if got := svc.NotifyAssignees(context.Background(), &model.Survey{}, []model.User{{}}); got != nil {
		t.Fatalf("disabled service should not notify, got %v", got)
	}
}

func TestNewNotifierFallsBackToLog(t *testing.T) {
	if _, ok := NewNotifier(&config.EmailConfig{Provider: "resend"}).(LogNotifier); !ok {
		t.Fatal("resend without api key should fall back to log notifier")
	}
	if _, ok := NewNotifier(&config.EmailConfig{Provider: "resend", ResendAPIKey: "re_test"}).(*ResendNotifier); !ok {
		t.Fatal("resend with api key should use resend")
	}
}

func TestAssignmentBodyEscapes(t *testing.T) {
	s := &model.Survey{Title: "<script>", Project: "Portfolio Frontend", Deadline: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)}
	s.ID = "s1"
	body := assignmentBody(s, &model.User{Name: "Ann"}, "https://audit.example.com")
	if strings.Contains(body, "<script>") {
		t.Fatal("title not escaped")
	}
	if !strings.Contains(body, "2026-04-01") || !strings.Contains(body, "https://audit.example.com/surveys/s1/take") {
		t.Fatalf("body missing details: %s", body)
	}
}
