package repository

import (
	"audit_survey_backend/internal/model"
	"audit_survey_backend/internal/util"
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type SurveyRepository struct {
	DB *gorm.DB
}

func NewSurveyRepository(db *gorm.DB) *SurveyRepository {
	return &SurveyRepository{DB: db}
}

func (r *SurveyRepository) ListSurveys(ctx context.Context) ([]model.Survey, error) {
	var surveys []model.Survey
	err := r.DB.WithContext(ctx).Order("created_at ASC, id ASC").Find(&surveys).Error
	return surveys, errors.Wrap(err, "list surveys")
}

func (r *SurveyRepository) ListSurveysByIDs(ctx context.Context, ids []string) ([]model.Survey, error) {
	if len(ids) == 0 {
		return []model.Survey{}, nil
	}
	var surveys []model.Survey
	err := r.DB.WithContext(ctx).Where("id IN ?", ids).Order("created_at ASC, id ASC").Find(&surveys).Error
	return surveys, errors.Wrap(err, "list surveys by ids")
}

func (r *SurveyRepository) GetSurvey(ctx context.Context, id string) (*model.Survey, error) {
	var survey model.Survey
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&survey).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrap(util.ErrSurveyNotFound, id)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get survey %s", id)
	}
	return &survey, nil
}

// CreateSurvey 问卷、题目、分配在同一事务中写入
func (r *SurveyRepository) CreateSurvey(ctx context.Context, survey *model.Survey, questions []model.Question, assignments []model.Assignment) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		survey.TotalAssignments = len(assignments)
		if err := tx.Create(survey).Error; err != nil {
			return errors.Wrap(err, "create survey")
		}
		for i := range questions {
			questions[i].SurveyID = survey.ID
		}
		if len(questions) > 0 {
			if err := tx.Create(&questions).Error; err != nil {
				return errors.Wrap(err, "create questions")
			}
		}
		for i := range assignments {
			assignments[i].SurveyID = survey.ID
		}
		if len(assignments) > 0 {
			if err := tx.Create(&assignments).Error; err != nil {
				return errors.Wrap(err, "create assignments")
			}
		}
		return nil
	})
}

// UpdateSurveyStatus 状态只前进；并发关闭后再激活返回 util.ErrInvalidTransition
func (r *SurveyRepository) UpdateSurveyStatus(ctx context.Context, id string, status model.SurveyStatus) error {
	res := r.DB.WithContext(ctx).Model(&model.Survey{}).
		Where("id = ? AND status IN ?", id, model.SurveySourcesOf(status)).
		Update("status", status)
	if res.Error != nil {
		return errors.Wrapf(res.Error, "update survey %s status", id)
	}
	if res.RowsAffected > 0 {
		return nil
	}
	current, err := r.GetSurvey(ctx, id)
	if err != nil {
		return err
	}
	return errors.Wrapf(util.ErrInvalidTransition, "%s -> %s", current.Status, status)
}

func (r *SurveyRepository) ListQuestions(ctx context.Context, surveyID string) ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.WithContext(ctx).Where("survey_id = ?", surveyID).Order("sort_order ASC").Find(&questions).Error
	return questions, errors.Wrap(err, "list questions")
}

// Count 用于判断是否需要写入演示数据
func (r *SurveyRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Survey{}).Count(&count).Error
	return count, errors.Wrap(err, "count surveys")
}
