package service

import (
	"audit_survey_backend/internal/model"
	"audit_survey_backend/internal/util"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newExports(env *testEnv, archive ArchiveStore) *ExportService {
	e := NewExportService(env.surveys, env.results, archive)
	e.now = func() time.Time { return testNow }
	return e
}

func TestExportResultsCSV(t *testing.T) {
	env := newTestEnv(t)
	file, err := newExports(env, nil).ExportResults(context.Background(), "1", "csv", false)
	if err != nil {
		t.Fatal(err)
	}
	if file.ContentType != util.MimeCSV || file.Filename != "survey-1-results.csv" {
		t.Fatalf("unexpected file %+v", file)
	}

	rows, err := csv.NewReader(strings.NewReader(string(file.Data))).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(rows[0], ",") != "Question,Response,Count" {
		t.Fatalf("header %v", rows[0])
	}
	// 5 + 5 + 10 个选项，TEXT 题不输出
	if len(rows) != 21 {
		t.Fatalf("want 21 rows, got %d", len(rows))
	}
	want := []string{"How often do you review security vulnerabilities in dependencies?", "Daily", "2"}
	if strings.Join(rows[1], "|") != strings.Join(want, "|") {
		t.Fatalf("first row %v", rows[1])
	}
}

func TestExportResultsJSON(t *testing.T) {
	env := newTestEnv(t)
	file, err := newExports(env, nil).ExportResults(context.Background(), "3", "JSON", false)
	if err != nil {
		t.Fatal(err)
	}
	var report model.ResultsReport
	if err := json.Unmarshal(file.Data, &report); err != nil {
		t.Fatal(err)
	}
	if report.SurveyID != "3" || report.TotalResponses != 4 || report.CompletionRate != 100 {
		t.Fatalf("unexpected report %+v", report.SurveyResults)
	}
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	env := newTestEnv(t)
	_, err := newExports(env, nil).ExportResults(context.Background(), "1", "XLSX", false)
	if !errors.Is(err, util.ErrInvalidRequest) {
		t.Fatalf("want ErrInvalidRequest, got %v", err)
	}
}

func TestExportArchivesToLocalStorage(t *testing.T) {
	env := newTestEnv(t)
	dir := t.TempDir()
	file, err := newExports(env, &LocalArchive{Root: dir}).ExportResults(context.Background(), "1", "", true)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(file.URL, "/exports/1/") {
		t.Fatalf("unexpected url %s", file.URL)
	}
	key := strings.TrimPrefix(file.URL, "/exports/")
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(key)))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != string(file.Data) {
		t.Fatal("archived content differs")
	}
}

func TestExportAssignmentsCSV(t *testing.T) {
	env := newTestEnv(t)
	file, err := newExports(env, nil).ExportAssignments(context.Background(), "1", ListQuery{Status: "SUBMITTED", Sort: "assignee", Order: SortAsc}, false)
	if err != nil {
		t.Fatal(err)
	}
	rows, _ := csv.NewReader(strings.NewReader(string(file.Data))).ReadAll()
	if strings.Join(rows[0], ",") != "userId,userRole,status,assignedAt,submittedAt" {
		t.Fatalf("header %v", rows[0])
	}
	if len(rows) != 6 || rows[1][0] != "user1" || rows[1][2] != "SUBMITTED" || rows[1][4] == "" {
		t.Fatalf("rows %v", rows)
	}
}

func TestExportSurveysCSV(t *testing.T) {
	env := newTestEnv(t)
	file, err := newExports(env, nil).ExportSurveys(context.Background(), ListQuery{Sort: "title", Order: SortAsc}, false)
	if err != nil {
		t.Fatal(err)
	}
	rows, _ := csv.NewReader(strings.NewReader(string(file.Data))).ReadAll()
	if len(rows) != 4 || rows[1][1] != "Code Quality Assessment" || rows[3][7] != "63" {
		t.Fatalf("rows %v", rows)
	}
}
