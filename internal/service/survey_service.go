package service

import (
	"audit_survey_backend/internal/model"
	"audit_survey_backend/internal/util"
	"audit_survey_backend/pkg/logger"
	"audit_survey_backend/pkg/monitoring"
	"audit_survey_backend/pkg/tracing"
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Stores 数据源集合，内存模拟与数据库仓储均可组装
type Stores struct {
	Surveys     SurveyStore
	Questions   QuestionStore
	Assignments AssignmentStore
	Responses   ResponseStore
	Users       UserStore
}

// ResultsListener 答卷提交或问卷关闭后回调
type ResultsListener interface {
	ResultsChanged(ctx context.Context, surveyID string)
}

type SurveyService struct {
	stores        Stores
	templates     *TemplateService
	notifications *NotificationService
	listeners     []ResultsListener
	overdueDays   int
	now           func() time.Time
}

func NewSurveyService(stores Stores, templates *TemplateService, notifications *NotificationService, overdueDays int) *SurveyService {
	return &SurveyService{
		stores:        stores,
		templates:     templates,
		notifications: notifications,
		overdueDays:   overdueDays,
		now:           time.Now,
	}
}

func (s *SurveyService) AddListener(l ResultsListener) {
	s.listeners = append(s.listeners, l)
}

func (s *SurveyService) resultsChanged(ctx context.Context, surveyID string) {
	for _, l := range s.listeners {
		l.ResultsChanged(ctx, surveyID)
	}
}

// ---------- 管理端 ----------

func (s *SurveyService) ListAdminSurveys(ctx context.Context, q ListQuery) ([]model.SurveySummary, error) {
	surveys, err := s.stores.Surveys.ListSurveys(ctx)
	if err != nil {
		return nil, err
	}
	surveys, err = ApplySurveyQuery(surveys, q)
	if err != nil {
		return nil, err
	}
	out := make([]model.SurveySummary, len(surveys))
	for i := range surveys {
		out[i] = surveys[i].Summary()
	}
	return out, nil
}

func (s *SurveyService) GetSurvey(ctx context.Context, id string) (*model.Survey, error) {
	return s.stores.Surveys.GetSurvey(ctx, id)
}

func (s *SurveyService) ListQuestions(ctx context.Context, surveyID string) ([]model.Question, error) {
	if _, err := s.stores.Surveys.GetSurvey(ctx, surveyID); err != nil {
		return nil, err
	}
	questions, err := s.stores.Questions.ListQuestions(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(questions, func(i, j int) bool { return questions[i].Order < questions[j].Order })
	return questions, nil
}

type AssignmentList struct {
	Assignments []model.Assignment    `json:"assignments"`
	Stats       model.AssignmentStats `json:"stats"`
}

// AssignmentStatsOf 统计全部分配，超过 overdueDays 未完成记为逾期
func AssignmentStatsOf(list []model.Assignment, now time.Time, overdueDays int) model.AssignmentStats {
	st := model.AssignmentStats{Total: len(list)}
	for i := range list {
		a := &list[i]
		switch a.Status {
		case model.AssignmentSubmitted:
			st.Submitted++
		case model.AssignmentPending:
			st.Pending++
		case model.AssignmentDraft:
			st.Draft++
		case model.AssignmentDiscarded:
			st.Discarded++
		}
		if a.Overdue(now, overdueDays) {
			st.Overdue++
		}
	}
	return st
}

func (s *SurveyService) ListAssignments(ctx context.Context, surveyID string, q ListQuery) (*AssignmentList, error) {
	if _, err := s.stores.Surveys.GetSurvey(ctx, surveyID); err != nil {
		return nil, err
	}
	all, err := s.stores.Assignments.ListAssignments(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	list, err := ApplyAssignmentQuery(all, q)
	if err != nil {
		return nil, err
	}
	for i := range list {
		list[i].DraftAnswers = nil
	}
	return &AssignmentList{
		Assignments: list,
		Stats:       AssignmentStatsOf(all, s.now(), s.overdueDays),
	}, nil
}

type ResponseList struct {
	Responses []model.Response    `json:"responses"`
	Stats     model.ResponseStats `json:"stats"`
}

// ListResponses 匿名问卷的答卷不返回用户 ID
func (s *SurveyService) ListResponses(ctx context.Context, surveyID string) (*ResponseList, error) {
	survey, err := s.stores.Surveys.GetSurvey(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	responses, err := s.stores.Responses.ListResponses(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	out := &ResponseList{Responses: responses, Stats: model.ResponseStats{Total: len(responses)}}
	for i := range out.Responses {
		r := &out.Responses[i]
		if survey.IsAnonymous || r.IsAnonymous {
			r.UserID = ""
			r.IsAnonymous = true
			out.Stats.Anonymous++
		} else {
			out.Stats.Named++
		}
	}
	return out, nil
}

// SurveyOverview 详情页头部：问卷、题目数与分配、答卷统计
type SurveyOverview struct {
	Survey      model.SurveySummary   `json:"survey"`
	IsAnonymous bool                  `json:"isAnonymous"`
	TemplateID  string                `json:"templateId"`
	Questions   int                   `json:"questions"`
	Assignments model.AssignmentStats `json:"assignments"`
	Responses   int                   `json:"responses"`
}

func (s *SurveyService) Overview(ctx context.Context, surveyID string) (*SurveyOverview, error) {
	var (
		survey      *model.Survey
		questions   []model.Question
		assignments []model.Assignment
		responses   []model.Response
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		survey, err = s.stores.Surveys.GetSurvey(gctx, surveyID)
		return err
	})
	g.Go(func() (err error) {
		questions, err = s.stores.Questions.ListQuestions(gctx, surveyID)
		return err
	})
	g.Go(func() (err error) {
		assignments, err = s.stores.Assignments.ListAssignments(gctx, surveyID)
		return err
	})
	g.Go(func() (err error) {
		responses, err = s.stores.Responses.ListResponses(gctx, surveyID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &SurveyOverview{
		Survey:      survey.Summary(),
		IsAnonymous: survey.IsAnonymous,
		TemplateID:  survey.TemplateID,
		Questions:   len(questions),
		Assignments: AssignmentStatsOf(assignments, s.now(), s.overdueDays),
		Responses:   len(responses),
	}, nil
}

type AssigneeInput struct {
	UserID string   `json:"userId" binding:"required"`
	Roles  []string `json:"roles"`
}

type CreateSurveyRequest struct {
	Title       string          `json:"title" binding:"required"`
	Project     string          `json:"project" binding:"required"`
	Deadline    string          `json:"deadline" binding:"required"`
	IsAnonymous bool            `json:"isAnonymous"`
	TemplateID  string          `json:"templateId" binding:"required"`
	Assignments []AssigneeInput `json:"assignments" binding:"required"`
	Publish     bool            `json:"publish"`
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", util.ErrInvalidRequest, fmt.Sprintf(format, args...))
}

// CreateSurvey 按模板生成题目，每个用户一条分配，角色取第一个列出的角色
func (s *SurveyService) CreateSurvey(ctx context.Context, creatorID string, req CreateSurveyRequest) (survey *model.Survey, err error) {
	ctx, span := tracing.StartSpan(ctx, "SurveyService.CreateSurvey", "")
	defer func() { tracing.End(span, err) }()

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, invalid("title is required")
	}
	if !model.IsKnownProject(req.Project) {
		return nil, invalid("unknown project %q", req.Project)
	}
	deadline, err := util.ParseDate(req.Deadline)
	if err != nil {
		return nil, invalid("deadline must be YYYY-MM-DD")
	}
	tpl, err := s.templates.Get(req.TemplateID)
	if err != nil {
		return nil, err
	}
	if len(req.Assignments) == 0 {
		return nil, invalid("at least one assignee is required")
	}

	now := s.now()
	survey = &model.Survey{
		Title:       title,
		Project:     req.Project,
		Deadline:    deadline,
		Status:      model.SurveyDraft,
		IsAnonymous: req.IsAnonymous,
		TemplateID:  tpl.ID,
		CreatedBy:   creatorID,
	}
	if survey.Expired(now) {
		return nil, invalid("deadline %s is in the past", req.Deadline)
	}
	if req.Publish {
		survey.Status = model.SurveyActive
	}

	users, err := s.stores.Users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]model.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	seen := make(map[string]bool, len(req.Assignments))
	var assignees []model.User
	var assignments []model.Assignment
	for _, in := range req.Assignments {
		if seen[in.UserID] {
			continue
		}
		u, ok := byID[in.UserID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", util.ErrUserNotFound, in.UserID)
		}
		role := u.PrimaryRole()
		if len(in.Roles) > 0 {
			role = in.Roles[0]
		}
		if !model.IsKnownRole(role) {
			return nil, invalid("unknown role %q for user %s", role, in.UserID)
		}
		seen[in.UserID] = true
		assignees = append(assignees, u)
		assignments = append(assignments, model.Assignment{
			UserID:     u.ID,
			UserRole:   role,
			Status:     model.AssignmentPending,
			AssignedAt: now,
		})
	}

	survey.ID = model.GenerateUUID()
	questions := tpl.Instantiate(survey.ID, nil)
	if err = s.stores.Surveys.CreateSurvey(ctx, survey, questions, assignments); err != nil {
		return nil, err
	}
	monitoring.SurveysCreated.Inc()
	logger.Log.Info("Survey created",
		zap.String("surveyId", survey.ID),
		zap.String("template", tpl.ID),
		zap.Int("assignments", len(assignments)),
		zap.String("status", string(survey.Status)),
	)

	if survey.Status == model.SurveyActive {
		s.notify(ctx, survey, assignees)
	}
	return survey, nil
}

// notify 通知结果写回分配的 emailStatus，失败只记录日志
func (s *SurveyService) notify(ctx context.Context, survey *model.Survey, users []model.User) {
	statuses := s.notifications.NotifyAssignees(ctx, survey, users)
	if len(statuses) == 0 {
		return
	}
	if err := s.stores.Assignments.SetEmailStatuses(ctx, survey.ID, statuses); err != nil {
		logger.Log.Error("Failed to record email statuses", zap.String("surveyId", survey.ID), zap.Error(err))
	}
}

// ActivateSurvey DRAFT → ACTIVE，并通知尚未收到邮件的用户
func (s *SurveyService) ActivateSurvey(ctx context.Context, id string) (*model.Survey, error) {
	survey, err := s.stores.Surveys.GetSurvey(ctx, id)
	if err != nil {
		return nil, err
	}
	if !survey.Status.CanTransitionTo(model.SurveyActive) {
		return nil, fmt.Errorf("%w: %s -> %s", util.ErrInvalidTransition, survey.Status, model.SurveyActive)
	}
	if survey.Expired(s.now()) {
		return nil, invalid("deadline has passed")
	}
	if err := s.stores.Surveys.UpdateSurveyStatus(ctx, id, model.SurveyActive); err != nil {
		return nil, err
	}
	survey.Status = model.SurveyActive

	assignments, err := s.stores.Assignments.ListAssignments(ctx, id)
	if err != nil {
		return nil, err
	}
	users, err := s.stores.Users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	pending := make(map[string]bool)
	for _, a := range assignments {
		if a.EmailStatus == "" && a.Status.Open() {
			pending[a.UserID] = true
		}
	}
	var targets []model.User
	for _, u := range users {
		if pending[u.ID] {
			targets = append(targets, u)
		}
	}
	s.notify(ctx, survey, targets)
	return survey, nil
}

func (s *SurveyService) CloseSurvey(ctx context.Context, id string) (*model.Survey, error) {
	survey, err := s.stores.Surveys.GetSurvey(ctx, id)
	if err != nil {
		return nil, err
	}
	if !survey.Status.CanTransitionTo(model.SurveyClosed) {
		return nil, fmt.Errorf("%w: %s -> %s", util.ErrInvalidTransition, survey.Status, model.SurveyClosed)
	}
	if err := s.stores.Surveys.UpdateSurveyStatus(ctx, id, model.SurveyClosed); err != nil {
		return nil, err
	}
	survey.Status = model.SurveyClosed
	logger.Log.Info("Survey closed", zap.String("surveyId", id))
	s.resultsChanged(ctx, id)
	return survey, nil
}

// CloseExpired 关闭已过截止日的 ACTIVE 问卷，返回关闭数量
func (s *SurveyService) CloseExpired(ctx context.Context) (int, error) {
	surveys, err := s.stores.Surveys.ListSurveys(ctx)
	if err != nil {
		return 0, err
	}
	now := s.now()
	closed := 0
	for i := range surveys {
		sv := &surveys[i]
		if sv.Status != model.SurveyActive || !sv.Expired(now) {
			continue
		}
		if err := s.stores.Surveys.UpdateSurveyStatus(ctx, sv.ID, model.SurveyClosed); err != nil {
			return closed, err
		}
		closed++
		logger.Log.Info("Survey auto-closed after deadline", zap.String("surveyId", sv.ID))
		s.resultsChanged(ctx, sv.ID)
	}
	return closed, nil
}

func (s *SurveyService) DiscardAssignment(ctx context.Context, id string) (*model.Assignment, error) {
	a, err := s.stores.Assignments.GetAssignment(ctx, id)
	if err != nil {
		return nil, err
	}
	if !a.Transition(model.AssignmentDiscarded, s.now()) {
		return nil, fmt.Errorf("%w: %s -> %s", util.ErrInvalidTransition, a.Status, model.AssignmentDiscarded)
	}
	a.DraftAnswers = nil
	if err := s.stores.Assignments.SaveAssignment(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// ---------- 用户端 ----------

// UserSurveySummary 用户看到的问卷，附带自己的分配状态
type UserSurveySummary struct {
	model.SurveySummary
	AssignmentID      string                 `json:"assignmentId"`
	AssignmentStatus  model.AssignmentStatus `json:"assignmentStatus"`
	UserRole          string                 `json:"userRole"`
	DaysUntilDeadline int                    `json:"daysUntilDeadline"`
	Urgent            bool                   `json:"urgent"`
	CanTake           bool                   `json:"canTake"`
}

type UserSurveyStats struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Closed    int `json:"closed"`
	Urgent    int `json:"urgent"`
	Submitted int `json:"submitted"`
}

type UserSurveyList struct {
	Surveys []UserSurveySummary `json:"surveys"`
	Stats   UserSurveyStats     `json:"stats"`
}

const urgentDays = 3

// daysUntil 向上取整的剩余天数，截止日已过为负
func daysUntil(deadline, now time.Time) int {
	if deadline.IsZero() {
		return 0
	}
	d := deadline.Sub(now)
	days := int(d / (24 * time.Hour))
	if d > 0 && d%(24*time.Hour) != 0 {
		days++
	}
	return days
}

// ListUserSurveys 草稿问卷与已作废的分配对用户不可见
func (s *SurveyService) ListUserSurveys(ctx context.Context, userID string, q ListQuery) (*UserSurveyList, error) {
	assignments, err := s.stores.Assignments.ListAssignmentsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]model.Assignment, len(assignments))
	ids := make([]string, 0, len(assignments))
	for _, a := range assignments {
		if a.Status == model.AssignmentDiscarded {
			continue
		}
		byID[a.SurveyID] = a
		ids = append(ids, a.SurveyID)
	}

	surveys, err := s.stores.Surveys.ListSurveysByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	visible := surveys[:0]
	for _, sv := range surveys {
		if sv.Status != model.SurveyDraft {
			visible = append(visible, sv)
		}
	}
	sorted, err := ApplySurveyQuery(visible, q)
	if err != nil {
		return nil, err
	}

	now := s.now()
	out := &UserSurveyList{Surveys: make([]UserSurveySummary, 0, len(sorted))}
	for i := range sorted {
		sv := &sorted[i]
		a := byID[sv.ID]
		days := daysUntil(sv.Deadline, now)
		item := UserSurveySummary{
			SurveySummary:     sv.Summary(),
			AssignmentID:      a.ID,
			AssignmentStatus:  a.Status,
			UserRole:          a.UserRole,
			DaysUntilDeadline: days,
			Urgent:            sv.Status == model.SurveyActive && days <= urgentDays,
			CanTake:           sv.AcceptsResponses(now) && a.Status.Open(),
		}
		out.Surveys = append(out.Surveys, item)
	}

	for _, sv := range visible {
		out.Stats.Total++
		switch sv.Status {
		case model.SurveyActive:
			out.Stats.Active++
			if daysUntil(sv.Deadline, now) <= urgentDays {
				out.Stats.Urgent++
			}
		case model.SurveyClosed:
			out.Stats.Closed++
		}
		if byID[sv.ID].Status == model.AssignmentSubmitted {
			out.Stats.Submitted++
		}
	}
	return out, nil
}

// TakeView 用户作答页：可见题目与已保存的草稿
type TakeView struct {
	Survey       model.SurveySummary    `json:"survey"`
	Status       model.AssignmentStatus `json:"assignmentStatus"`
	UserRole     string                 `json:"userRole"`
	Questions    []model.Question       `json:"questions"`
	DraftAnswers []model.Answer         `json:"draftAnswers,omitempty"`
	CanTake      bool                   `json:"canTake"`
}

// assignmentFor 草稿问卷对用户不可见
func (s *SurveyService) assignmentFor(ctx context.Context, surveyID, userID string) (*model.Survey, *model.Assignment, error) {
	survey, err := s.stores.Surveys.GetSurvey(ctx, surveyID)
	if err != nil {
		return nil, nil, err
	}
	if survey.Status == model.SurveyDraft {
		return nil, nil, fmt.Errorf("%w: %s", util.ErrSurveyNotFound, surveyID)
	}
	a, err := s.stores.Assignments.FindAssignment(ctx, surveyID, userID)
	if err != nil {
		return nil, nil, err
	}
	if a.Status == model.AssignmentDiscarded {
		return nil, nil, util.ErrNotAssigned
	}
	return survey, a, nil
}

func (s *SurveyService) UserQuestions(ctx context.Context, surveyID, userID string) (*TakeView, error) {
	survey, a, err := s.assignmentFor(ctx, surveyID, userID)
	if err != nil {
		return nil, err
	}
	questions, err := s.stores.Questions.ListQuestions(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	return &TakeView{
		Survey:       survey.Summary(),
		Status:       a.Status,
		UserRole:     a.UserRole,
		Questions:    VisibleQuestions(questions, a.UserRole),
		DraftAnswers: a.DraftAnswers,
		CanTake:      survey.AcceptsResponses(s.now()) && a.Status.Open(),
	}, nil
}

// openFlow 校验问卷可作答并按分配角色构造作答流程
func (s *SurveyService) openFlow(ctx context.Context, surveyID, userID string, answers []model.Answer) (*model.Survey, *model.Assignment, *TakeFlow, error) {
	survey, a, err := s.assignmentFor(ctx, surveyID, userID)
	if err != nil {
		return nil, nil, nil, err
	}
	if !survey.AcceptsResponses(s.now()) {
		return nil, nil, nil, fmt.Errorf("%w: %s", util.ErrSurveyNotOpen, surveyID)
	}
	if !a.Status.Open() {
		return nil, nil, nil, util.ErrAlreadySubmitted
	}
	questions, err := s.stores.Questions.ListQuestions(ctx, surveyID)
	if err != nil {
		return nil, nil, nil, err
	}
	flow := NewTakeFlow(questions, a.UserRole, nil)
	for _, ans := range answers {
		if err := flow.SetAnswer(ans.QuestionID, ans.Value, ans.TextValue); err != nil {
			return nil, nil, nil, err
		}
	}
	return survey, a, flow, nil
}

// SaveDraft 保存部分答案，分配进入 DRAFT
func (s *SurveyService) SaveDraft(ctx context.Context, surveyID, userID string, answers []model.Answer) (*model.Assignment, error) {
	_, a, flow, err := s.openFlow(ctx, surveyID, userID, answers)
	if err != nil {
		return nil, err
	}
	if !a.Transition(model.AssignmentDraft, s.now()) {
		return nil, fmt.Errorf("%w: %s -> %s", util.ErrInvalidTransition, a.Status, model.AssignmentDraft)
	}
	a.DraftAnswers = flow.Answers()
	if err := s.stores.Assignments.SaveAssignment(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// SubmitResponse 答案按题目顺序保存，缺少必答题时拒绝
func (s *SurveyService) SubmitResponse(ctx context.Context, surveyID, userID string, answers []model.Answer) (resp *model.Response, err error) {
	ctx, span := tracing.StartSpan(ctx, "SurveyService.SubmitResponse", surveyID)
	defer func() { tracing.End(span, err) }()

	survey, a, flow, err := s.openFlow(ctx, surveyID, userID, answers)
	if err != nil {
		return nil, err
	}
	ordered, err := flow.Submit()
	if err != nil {
		return nil, err
	}

	now := s.now()
	if !a.Transition(model.AssignmentSubmitted, now) {
		return nil, fmt.Errorf("%w: %s -> %s", util.ErrInvalidTransition, a.Status, model.AssignmentSubmitted)
	}
	resp = &model.Response{
		SurveyID:    surveyID,
		UserRole:    a.UserRole,
		Answers:     ordered,
		SubmittedAt: now,
		IsAnonymous: survey.IsAnonymous,
	}
	if !survey.IsAnonymous {
		resp.UserID = userID
	}
	if err = s.stores.Responses.SubmitResponse(ctx, resp, a); err != nil {
		return nil, err
	}

	monitoring.ResponsesSubmitted.WithLabelValues(surveyID).Inc()
	logger.Log.Info("Survey response submitted",
		zap.String("surveyId", surveyID),
		zap.String("role", a.UserRole),
		zap.Int("answers", len(ordered)),
	)
	s.resultsChanged(ctx, surveyID)
	return resp, nil
}
