package service

import (
	"audit_survey_backend/internal/model"
	"audit_survey_backend/internal/util"
	"audit_survey_backend/pkg/monitoring"
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type takeSession struct {
	id       string
	surveyID string
	title    string
	userID   string
	flow     *TakeFlow
	lastSeen time.Time
}

type SessionView struct {
	SessionID   string    `json:"sessionId"`
	SurveyID    string    `json:"surveyId"`
	SurveyTitle string    `json:"surveyTitle"`
	ExpiresAt   time.Time `json:"expiresAt"`
	FlowState
}

// SessionService 服务端保存的逐题作答会话，空闲超过 ttl 后失效
type SessionService struct {
	mu       sync.Mutex
	sessions map[string]*takeSession
	surveys  *SurveyService
	ttl      time.Duration
	now      func() time.Time
}

func NewSessionService(surveys *SurveyService, ttl time.Duration) *SessionService {
	return &SessionService{
		sessions: make(map[string]*takeSession),
		surveys:  surveys,
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *SessionService) view(sess *takeSession) *SessionView {
	return &SessionView{
		SessionID:   sess.id,
		SurveyID:    sess.surveyID,
		SurveyTitle: sess.title,
		ExpiresAt:   sess.lastSeen.Add(s.ttl),
		FlowState:   sess.flow.State(),
	}
}

// Start 同一用户同一问卷复用未过期的会话；已保存的草稿会被载入
func (s *SessionService) Start(ctx context.Context, surveyID, userID string) (*SessionView, error) {
	s.mu.Lock()
	for _, sess := range s.sessions {
		if sess.surveyID == surveyID && sess.userID == userID && !s.expired(sess) {
			sess.lastSeen = s.now()
			v := s.view(sess)
			s.mu.Unlock()
			return v, nil
		}
	}
	s.mu.Unlock()

	survey, a, flow, err := s.surveys.openFlow(ctx, surveyID, userID, nil)
	if err != nil {
		return nil, err
	}
	for _, d := range a.DraftAnswers {
		_ = flow.SetAnswer(d.QuestionID, d.Value, d.TextValue)
	}

	sess := &takeSession{
		id:       uuid.New().String(),
		surveyID: surveyID,
		title:    survey.Title,
		userID:   userID,
		flow:     flow,
		lastSeen: s.now(),
	}
	s.mu.Lock()
	s.sessions[sess.id] = sess
	monitoring.ActiveSessions.Set(float64(len(s.sessions)))
	v := s.view(sess)
	s.mu.Unlock()
	return v, nil
}

func (s *SessionService) expired(sess *takeSession) bool {
	return s.now().Sub(sess.lastSeen) > s.ttl
}

// with 在锁内操作会话；他人的会话按不存在处理
func (s *SessionService) with(sessionID, userID string, fn func(*takeSession) error) (*SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok || sess.userID != userID || s.expired(sess) {
		return nil, util.ErrSessionNotFound
	}
	sess.lastSeen = s.now()
	if fn != nil {
		if err := fn(sess); err != nil {
			return nil, err
		}
	}
	return s.view(sess), nil
}

func (s *SessionService) Get(sessionID, userID string) (*SessionView, error) {
	return s.with(sessionID, userID, nil)
}

func (s *SessionService) SetAnswer(sessionID, userID, questionID string, values []string, text string) (*SessionView, error) {
	return s.with(sessionID, userID, func(sess *takeSession) error {
		return sess.flow.SetAnswer(questionID, values, text)
	})
}

func (s *SessionService) Next(sessionID, userID string) (*SessionView, error) {
	return s.with(sessionID, userID, func(sess *takeSession) error {
		return sess.flow.Next()
	})
}

func (s *SessionService) Previous(sessionID, userID string) (*SessionView, error) {
	return s.with(sessionID, userID, func(sess *takeSession) error {
		sess.flow.Previous()
		return nil
	})
}

// Submit 提交成功后会话结束
func (s *SessionService) Submit(ctx context.Context, sessionID, userID string) (*model.Response, error) {
	var surveyID string
	var answers []model.Answer
	_, err := s.with(sessionID, userID, func(sess *takeSession) error {
		var err error
		answers, err = sess.flow.Submit()
		surveyID = sess.surveyID
		return err
	})
	if err != nil {
		return nil, err
	}

	resp, err := s.surveys.SubmitResponse(ctx, surveyID, userID, answers)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	delete(s.sessions, sessionID)
	monitoring.ActiveSessions.Set(float64(len(s.sessions)))
	s.mu.Unlock()
	return resp, nil
}

// Sweep 清理过期会话，返回清理数量
func (s *SessionService) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, sess := range s.sessions {
		if s.expired(sess) {
			delete(s.sessions, id)
			n++
		}
	}
	monitoring.ActiveSessions.Set(float64(len(s.sessions)))
	return n
}
