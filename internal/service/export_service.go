package service

import (
	"audit_survey_backend/internal/model"
	"audit_survey_backend/internal/util"
	"audit_survey_backend/pkg/logger"
	"audit_survey_backend/pkg/monitoring"
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ExportFile 导出内容；URL 仅在归档后设置
type ExportFile struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Data        []byte `json:"-"`
	URL         string `json:"url,omitempty"`
}

type ExportService struct {
	surveys *SurveyService
	results *ResultsService
	archive ArchiveStore
	now     func() time.Time
}

func NewExportService(surveys *SurveyService, results *ResultsService, archive ArchiveStore) *ExportService {
	return &ExportService{surveys: surveys, results: results, archive: archive, now: time.Now}
}

// ParseExportFormat 忽略大小写，空值为 CSV
func ParseExportFormat(s string) (string, error) {
	switch f := strings.ToUpper(strings.TrimSpace(s)); f {
	case "":
		return util.ExportCSV, nil
	case util.ExportCSV, util.ExportJSON:
		return f, nil
	}
	return "", fmt.Errorf("%w: export format %q", util.ErrInvalidRequest, s)
}

// ResultsCSV 表头 Question,Response,Count，按题目顺序每个选项一行
func ResultsCSV(report *model.ResultsReport) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"Question", "Response", "Count"}); err != nil {
		return nil, err
	}
	for _, q := range report.Questions {
		for _, o := range q.Options {
			if err := w.Write([]string{q.Text, o.Option, strconv.Itoa(o.Count)}); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func (s *ExportService) ExportResults(ctx context.Context, surveyID, format string, archive bool) (*ExportFile, error) {
	format, err := ParseExportFormat(format)
	if err != nil {
		return nil, err
	}
	report, err := s.results.GetResults(ctx, surveyID)
	if err != nil {
		return nil, err
	}

	file := &ExportFile{}
	switch format {
	case util.ExportJSON:
		file.Data, err = json.MarshalIndent(report, "", "  ")
		file.ContentType = util.MimeJSON
		file.Filename = fmt.Sprintf("survey-%s-results.json", surveyID)
	default:
		file.Data, err = ResultsCSV(report)
		file.ContentType = util.MimeCSV
		file.Filename = fmt.Sprintf("survey-%s-results.csv", surveyID)
	}
	if err != nil {
		return nil, err
	}
	monitoring.ExportsTotal.WithLabelValues(format).Inc()

	if archive {
		if err := s.store(ctx, surveyID, file); err != nil {
			return nil, err
		}
	}
	return file, nil
}

func (s *ExportService) store(ctx context.Context, surveyID string, file *ExportFile) error {
	if s.archive == nil {
		return fmt.Errorf("%w: archive storage not configured", util.ErrInvalidRequest)
	}
	key := fmt.Sprintf("%s/%s-%s", surveyID, s.now().UTC().Format("20060102T150405"), file.Filename)
	url, err := s.archive.Put(ctx, key, bytes.NewReader(file.Data), int64(len(file.Data)), file.ContentType)
	if err != nil {
		return err
	}
	file.URL = url
	logger.Log.Info("Export archived", zap.String("surveyId", surveyID), zap.String("url", url))
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// SurveysCSV 管理端问卷列表
func SurveysCSV(list []model.SurveySummary) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"id", "title", "project", "status", "deadline", "completionCount", "totalAssignments", "completionPercent", "createdAt"})
	for _, s := range list {
		deadline := ""
		if !s.Deadline.IsZero() {
			deadline = s.Deadline.Format(util.DateFormat)
		}
		_ = w.Write([]string{
			s.ID,
			s.Title,
			s.Project,
			string(s.Status),
			deadline,
			strconv.Itoa(s.CompletionCount),
			strconv.Itoa(s.TotalAssignments),
			strconv.Itoa(s.CompletionPercent),
			formatTime(s.CreatedAt),
		})
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// AssignmentsCSV 列：userId,userRole,status,assignedAt,submittedAt
func AssignmentsCSV(list []model.Assignment) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"userId", "userRole", "status", "assignedAt", "submittedAt"})
	for _, a := range list {
		_ = w.Write([]string{
			a.UserID,
			a.UserRole,
			string(a.Status),
			formatTime(a.AssignedAt),
			formatTime(derefTime(a.SubmittedAt)),
		})
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func (s *ExportService) ExportSurveys(ctx context.Context, q ListQuery, archive bool) (*ExportFile, error) {
	list, err := s.surveys.ListAdminSurveys(ctx, q)
	if err != nil {
		return nil, err
	}
	data, err := SurveysCSV(list)
	if err != nil {
		return nil, err
	}
	file := &ExportFile{Filename: "surveys.csv", ContentType: util.MimeCSV, Data: data}
	monitoring.ExportsTotal.WithLabelValues("SURVEYS_CSV").Inc()
	if archive {
		if err := s.store(ctx, "all", file); err != nil {
			return nil, err
		}
	}
	return file, nil
}

func (s *ExportService) ExportAssignments(ctx context.Context, surveyID string, q ListQuery, archive bool) (*ExportFile, error) {
	list, err := s.surveys.ListAssignments(ctx, surveyID, q)
	if err != nil {
		return nil, err
	}
	data, err := AssignmentsCSV(list.Assignments)
	if err != nil {
		return nil, err
	}
	file := &ExportFile{Filename: fmt.Sprintf("assignments-%s.csv", surveyID), ContentType: util.MimeCSV, Data: data}
	monitoring.ExportsTotal.WithLabelValues("ASSIGNMENTS_CSV").Inc()
	if archive {
		if err := s.store(ctx, surveyID, file); err != nil {
			return nil, err
		}
	}
	return file, nil
}
