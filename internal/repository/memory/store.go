// Package memory 模拟数据源：固定延迟的内存存储，接口与数据库仓储一致
package memory

import (
	"audit_survey_backend/internal/model"
	"audit_survey_backend/internal/repository/fixtures"
	"audit_survey_backend/internal/util"
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

type Store struct {
	mu          sync.RWMutex
	users       map[string]model.User
	surveys     map[string]model.Survey
	questions   map[string][]model.Question
	assignments map[string]model.Assignment
	responses   map[string][]model.Response

	latency sync.RWMutex
	fetch   time.Duration
	mutate  time.Duration
}

func NewStore(ds fixtures.Dataset) *Store {
	s := &Store{
		users:       make(map[string]model.User),
		surveys:     make(map[string]model.Survey),
		questions:   make(map[string][]model.Question),
		assignments: make(map[string]model.Assignment),
		responses:   make(map[string][]model.Response),
	}
	for _, u := range ds.Users {
		s.users[u.ID] = cloneUser(u)
	}
	for _, sv := range ds.Surveys {
		s.surveys[sv.ID] = sv
	}
	for _, q := range ds.Questions {
		s.questions[q.SurveyID] = append(s.questions[q.SurveyID], cloneQuestion(q))
	}
	for _, a := range ds.Assignments {
		s.assignments[a.ID] = cloneAssignment(a)
	}
	for _, r := range ds.Responses {
		s.responses[r.SurveyID] = append(s.responses[r.SurveyID], cloneResponse(r))
	}
	return s
}

// SetLatency 配置热更新时调整模拟延迟
func (s *Store) SetLatency(fetch, mutate time.Duration) {
	s.latency.Lock()
	s.fetch, s.mutate = fetch, mutate
	s.latency.Unlock()
}

func (s *Store) waitFetch(ctx context.Context) error {
	s.latency.RLock()
	d := s.fetch
	s.latency.RUnlock()
	return util.Wait(ctx, d)
}

func (s *Store) waitMutate(ctx context.Context) error {
	s.latency.RLock()
	d := s.mutate
	s.latency.RUnlock()
	return util.Wait(ctx, d)
}

// ---------- surveys ----------

func (s *Store) ListSurveys(ctx context.Context) ([]model.Survey, error) {
	if err := s.waitFetch(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]model.Survey, 0, len(s.surveys))
	for _, sv := range s.surveys {
		list = append(list, sv)
	}
	sortByCreated(list)
	return list, nil
}

func (s *Store) ListSurveysByIDs(ctx context.Context, ids []string) ([]model.Survey, error) {
	if err := s.waitFetch(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]model.Survey, 0, len(ids))
	for _, id := range ids {
		if sv, ok := s.surveys[id]; ok {
			list = append(list, sv)
		}
	}
	sortByCreated(list)
	return list, nil
}

func (s *Store) GetSurvey(ctx context.Context, id string) (*model.Survey, error) {
	if err := s.waitFetch(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	sv, ok := s.surveys[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", util.ErrSurveyNotFound, id)
	}
	return &sv, nil
}

func (s *Store) CreateSurvey(ctx context.Context, survey *model.Survey, questions []model.Question, assignments []model.Assignment) error {
	if err := s.waitMutate(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if survey.ID == "" {
		survey.ID = model.GenerateUUID()
	}
	if _, exists := s.surveys[survey.ID]; exists {
		return fmt.Errorf("survey %s already exists", survey.ID)
	}
	stamp(&survey.UUIDBase, now)
	survey.TotalAssignments = len(assignments)
	s.surveys[survey.ID] = *survey

	qs := make([]model.Question, 0, len(questions))
	for i := range questions {
		q := &questions[i]
		q.SurveyID = survey.ID
		if q.ID == "" {
			q.ID = model.GenerateUUID()
		}
		stamp(&q.UUIDBase, now)
		qs = append(qs, cloneQuestion(*q))
	}
	s.questions[survey.ID] = qs

	for i := range assignments {
		a := &assignments[i]
		a.SurveyID = survey.ID
		if a.ID == "" {
			a.ID = model.GenerateUUID()
		}
		stamp(&a.UUIDBase, now)
		s.assignments[a.ID] = cloneAssignment(*a)
	}
	return nil
}

func (s *Store) UpdateSurveyStatus(ctx context.Context, id string, status model.SurveyStatus) error {
	if err := s.waitMutate(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sv, ok := s.surveys[id]
	if !ok {
		return fmt.Errorf("%w: %s", util.ErrSurveyNotFound, id)
	}
	if !sv.Status.CanTransitionTo(status) {
		return fmt.Errorf("%w: %s -> %s", util.ErrInvalidTransition, sv.Status, status)
	}
	sv.Status = status
	sv.UpdatedAt = time.Now()
	s.surveys[id] = sv
	return nil
}

// ---------- questions ----------

func (s *Store) ListQuestions(ctx context.Context, surveyID string) ([]model.Question, error) {
	if err := s.waitFetch(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	src := s.questions[surveyID]
	list := make([]model.Question, 0, len(src))
	for _, q := range src {
		list = append(list, cloneQuestion(q))
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].Order < list[j].Order })
	return list, nil
}

// ---------- assignments ----------

func (s *Store) ListAssignments(ctx context.Context, surveyID string) ([]model.Assignment, error) {
	return s.filterAssignments(ctx, func(a *model.Assignment) bool { return a.SurveyID == surveyID })
}

func (s *Store) ListAssignmentsByUser(ctx context.Context, userID string) ([]model.Assignment, error) {
	return s.filterAssignments(ctx, func(a *model.Assignment) bool { return a.UserID == userID })
}

func (s *Store) filterAssignments(ctx context.Context, keep func(*model.Assignment) bool) ([]model.Assignment, error) {
	if err := s.waitFetch(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var list []model.Assignment
	for _, a := range s.assignments {
		if keep(&a) {
			list = append(list, cloneAssignment(a))
		}
	}
	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].AssignedAt.Equal(list[j].AssignedAt) {
			return list[i].AssignedAt.Before(list[j].AssignedAt)
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

func (s *Store) GetAssignment(ctx context.Context, id string) (*model.Assignment, error) {
	if err := s.waitFetch(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.assignments[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", util.ErrAssignmentNotFound, id)
	}
	a = cloneAssignment(a)
	return &a, nil
}

func (s *Store) FindAssignment(ctx context.Context, surveyID, userID string) (*model.Assignment, error) {
	if err := s.waitFetch(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.assignments {
		if a.SurveyID == surveyID && a.UserID == userID {
			a = cloneAssignment(a)
			return &a, nil
		}
	}
	return nil, fmt.Errorf("%w: survey %s user %s", util.ErrNotAssigned, surveyID, userID)
}

func (s *Store) SaveAssignment(ctx context.Context, assignment *model.Assignment) error {
	if err := s.waitMutate(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.assignments[assignment.ID]
	if !ok {
		return fmt.Errorf("%w: %s", util.ErrAssignmentNotFound, assignment.ID)
	}
	// 以写入时的状态为准，读取后被提交或作废的分配不会被覆盖
	if !current.Status.CanTransitionTo(assignment.Status) {
		return fmt.Errorf("%w: %s -> %s", util.ErrInvalidTransition, current.Status, assignment.Status)
	}
	assignment.UpdatedAt = time.Now()
	s.assignments[assignment.ID] = cloneAssignment(*assignment)
	return nil
}

func (s *Store) SetEmailStatuses(ctx context.Context, surveyID string, statuses map[string]model.EmailStatus) error {
	if err := s.waitMutate(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, a := range s.assignments {
		if a.SurveyID != surveyID {
			continue
		}
		if st, ok := statuses[a.UserID]; ok {
			a.EmailStatus = st
			s.assignments[id] = a
		}
	}
	return nil
}

// ---------- responses ----------

func (s *Store) ListResponses(ctx context.Context, surveyID string) ([]model.Response, error) {
	if err := s.waitFetch(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	src := s.responses[surveyID]
	list := make([]model.Response, 0, len(src))
	for _, r := range src {
		list = append(list, cloneResponse(r))
	}
	return list, nil
}

func (s *Store) SubmitResponse(ctx context.Context, response *model.Response, assignment *model.Assignment) error {
	if err := s.waitMutate(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.assignments[assignment.ID]
	if !ok {
		return fmt.Errorf("%w: %s", util.ErrAssignmentNotFound, assignment.ID)
	}
	if !current.Status.Open() {
		return util.ErrAlreadySubmitted
	}
	sv, ok := s.surveys[response.SurveyID]
	if !ok {
		return fmt.Errorf("%w: %s", util.ErrSurveyNotFound, response.SurveyID)
	}

	now := time.Now()
	if response.ID == "" {
		response.ID = model.GenerateUUID()
	}
	stamp(&response.UUIDBase, now)
	s.responses[sv.ID] = append(s.responses[sv.ID], cloneResponse(*response))

	assignment.UpdatedAt = now
	s.assignments[assignment.ID] = cloneAssignment(*assignment)

	if sv.CompletionCount < sv.TotalAssignments {
		sv.CompletionCount++
	}
	sv.UpdatedAt = now
	s.surveys[sv.ID] = sv
	return nil
}

// ---------- users ----------

func (s *Store) FindByID(ctx context.Context, id string) (*model.User, error) {
	if err := s.waitFetch(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", util.ErrUserNotFound, id)
	}
	u = cloneUser(u)
	return &u, nil
}

func (s *Store) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if err := s.waitFetch(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			u = cloneUser(u)
			return &u, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", util.ErrUserNotFound, email)
}

func (s *Store) ListUsers(ctx context.Context) ([]model.User, error) {
	if err := s.waitFetch(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]model.User, 0, len(s.users))
	for _, u := range s.users {
		list = append(list, cloneUser(u))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func stamp(b *model.UUIDBase, now time.Time) {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
}

func sortByCreated(list []model.Survey) {
	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.Before(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})
}
