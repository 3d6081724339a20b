package service

import (
	"audit_survey_backend/internal/model"
	"audit_survey_backend/pkg/logger"
	"audit_survey_backend/pkg/tracing"
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Aggregate 统计每题每个选项的选择次数；所有选项从 0 开始，未知取值忽略，TEXT 题单独收集
func Aggregate(survey *model.Survey, questions []model.Question, assignments []model.Assignment, responses []model.Response) *model.ResultsReport {
	ordered := make([]model.Question, len(questions))
	copy(ordered, questions)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Order < ordered[j].Order })

	data := make(map[string]map[string]int)
	texts := make(map[string][]string)
	byID := make(map[string]*model.Question, len(ordered))
	for i := range ordered {
		q := &ordered[i]
		byID[q.ID] = q
		if q.Type.HasOptions() {
			counts := make(map[string]int, len(q.Options))
			for _, o := range q.Options {
				counts[o] = 0
			}
			data[q.ID] = counts
		}
	}

	var last *time.Time
	for _, r := range responses {
		if last == nil || r.SubmittedAt.After(*last) {
			t := r.SubmittedAt
			last = &t
		}
		for _, a := range r.Answers {
			q, ok := byID[a.QuestionID]
			if !ok {
				continue
			}
			if q.Type == model.QuestionText {
				if a.TextValue != "" {
					texts[q.ID] = append(texts[q.ID], a.TextValue)
				}
				continue
			}
			counts := data[q.ID]
			for _, v := range a.Value {
				if _, known := counts[v]; known {
					counts[v]++
				}
			}
		}
	}

	total := len(responses)
	report := &model.ResultsReport{
		SurveyResults: model.SurveyResults{
			SurveyID:       survey.ID,
			TotalResponses: total,
			CompletionRate: model.Rate(survey.CompletionCount, survey.TotalAssignments),
			AggregatedData: data,
		},
		CompletionPercent:  survey.CompletionPercent(),
		AvgCompletionHours: avgCompletionHours(assignments),
		LastSubmissionAt:   last,
		Questions:          make([]model.QuestionBreakdown, 0, len(ordered)),
	}

	for _, q := range ordered {
		b := model.QuestionBreakdown{
			QuestionID: q.ID,
			Text:       q.Text,
			Type:       q.Type,
			Order:      q.Order,
		}
		if q.Type.HasOptions() {
			for _, o := range q.Options {
				c := data[q.ID][o]
				b.Options = append(b.Options, model.OptionBreakdown{
					Option:     o,
					Count:      c,
					Percentage: model.Percent(c, total),
				})
			}
		} else {
			b.TextAnswers = texts[q.ID]
		}
		report.Questions = append(report.Questions, b)
	}
	return report
}

// avgCompletionHours 分配到提交的平均小时数，保留一位小数
func avgCompletionHours(assignments []model.Assignment) float64 {
	sum := decimal.Zero
	n := 0
	for _, a := range assignments {
		if a.Status != model.AssignmentSubmitted || a.SubmittedAt == nil || a.AssignedAt.IsZero() {
			continue
		}
		sum = sum.Add(decimal.NewFromFloat(a.SubmittedAt.Sub(a.AssignedAt).Hours()))
		n++
	}
	if n == 0 {
		return 0
	}
	avg, _ := sum.Div(decimal.NewFromInt(int64(n))).Round(1).Float64()
	return avg
}

type reportCache interface {
	Get(ctx context.Context, surveyID string) (*model.ResultsReport, bool)
	Set(ctx context.Context, surveyID string, report *model.ResultsReport)
	Invalidate(ctx context.Context, surveyID string)
}

type ResultsService struct {
	surveys     SurveyStore
	questions   QuestionStore
	assignments AssignmentStore
	responses   ResponseStore
	cache       reportCache
	hub         *ResultsHub

	// 每次失效递增；计算期间发生过失效的结果不写回缓存
	mu          sync.Mutex
	generations map[string]uint64
}

func NewResultsService(surveys SurveyStore, questions QuestionStore, assignments AssignmentStore, responses ResponseStore, cache *ResultsCache, hub *ResultsHub) *ResultsService {
	return &ResultsService{
		surveys:     surveys,
		questions:   questions,
		assignments: assignments,
		responses:   responses,
		cache:       cache,
		hub:         hub,
		generations: make(map[string]uint64),
	}
}

func (s *ResultsService) generation(surveyID string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generations[surveyID]
}

func (s *ResultsService) bumpGeneration(surveyID string) {
	s.mu.Lock()
	s.generations[surveyID]++
	s.mu.Unlock()
}

func (s *ResultsService) GetResults(ctx context.Context, surveyID string) (report *model.ResultsReport, err error) {
	ctx, span := tracing.StartSpan(ctx, "ResultsService.GetResults", surveyID)
	defer func() { tracing.End(span, err) }()

	if cached, ok := s.cache.Get(ctx, surveyID); ok {
		return cached, nil
	}
	gen := s.generation(surveyID)
	report, err = s.compute(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	if s.generation(surveyID) == gen {
		s.cache.Set(ctx, surveyID, report)
	}
	return report, nil
}

// compute 问卷、题目、分配、答卷并行读取
func (s *ResultsService) compute(ctx context.Context, surveyID string) (*model.ResultsReport, error) {
	var (
		survey      *model.Survey
		questions   []model.Question
		assignments []model.Assignment
		responses   []model.Response
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		survey, err = s.surveys.GetSurvey(gctx, surveyID)
		return err
	})
	g.Go(func() (err error) {
		questions, err = s.questions.ListQuestions(gctx, surveyID)
		return err
	})
	g.Go(func() (err error) {
		assignments, err = s.assignments.ListAssignments(gctx, surveyID)
		return err
	})
	g.Go(func() (err error) {
		responses, err = s.responses.ListResponses(gctx, surveyID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return Aggregate(survey, questions, assignments, responses), nil
}

// ResultsChanged 提交或关闭后清除缓存，并向实时订阅者推送新结果
func (s *ResultsService) ResultsChanged(ctx context.Context, surveyID string) {
	s.bumpGeneration(surveyID)
	s.cache.Invalidate(ctx, surveyID)
	if s.hub == nil || !s.hub.Interested(surveyID) {
		return
	}
	go func() {
		bg, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		report, err := s.GetResults(bg, surveyID)
		if err != nil {
			logger.Log.Warn("Failed to refresh live results", zap.String("surveyId", surveyID), zap.Error(err))
			return
		}
		s.hub.Publish(bg, surveyID, report)
	}()
}
