package service

import (
	"audit_survey_backend/internal/model"
	"context"
)

// 以下接口由 repository（gorm）与 repository/memory（模拟数据源）实现

type SurveyStore interface {
	ListSurveys(ctx context.Context) ([]model.Survey, error)
	ListSurveysByIDs(ctx context.Context, ids []string) ([]model.Survey, error)
	GetSurvey(ctx context.Context, id string) (*model.Survey, error)
	// CreateSurvey 问卷、题目、分配在同一事务中写入
	CreateSurvey(ctx context.Context, survey *model.Survey, questions []model.Question, assignments []model.Assignment) error
	UpdateSurveyStatus(ctx context.Context, id string, status model.SurveyStatus) error
}

type QuestionStore interface {
	ListQuestions(ctx context.Context, surveyID string) ([]model.Question, error)
}

type AssignmentStore interface {
	ListAssignments(ctx context.Context, surveyID string) ([]model.Assignment, error)
	ListAssignmentsByUser(ctx context.Context, userID string) ([]model.Assignment, error)
	GetAssignment(ctx context.Context, id string) (*model.Assignment, error)
	FindAssignment(ctx context.Context, surveyID, userID string) (*model.Assignment, error)
	SaveAssignment(ctx context.Context, assignment *model.Assignment) error
	SetEmailStatuses(ctx context.Context, surveyID string, statuses map[string]model.EmailStatus) error
}

type ResponseStore interface {
	ListResponses(ctx context.Context, surveyID string) ([]model.Response, error)
	// SubmitResponse 写入答卷、分配置为 SUBMITTED、问卷完成数 +1；分配已不在可作答状态时返回 util.ErrAlreadySubmitted
	SubmitResponse(ctx context.Context, response *model.Response, assignment *model.Assignment) error
}

type UserStore interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
}
