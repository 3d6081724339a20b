package repository

import (
	"audit_survey_backend/internal/model"
	"audit_survey_backend/internal/util"
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type ResponseRepository struct {
	DB *gorm.DB
}

func NewResponseRepository(db *gorm.DB) *ResponseRepository {
	return &ResponseRepository{DB: db}
}

func (r *ResponseRepository) ListResponses(ctx context.Context, surveyID string) ([]model.Response, error) {
	var responses []model.Response
	err := r.DB.WithContext(ctx).Where("survey_id = ?", surveyID).Order("submitted_at ASC").Find(&responses).Error
	return responses, errors.Wrap(err, "list responses")
}

// SubmitResponse 条件更新分配状态，防止并发重复提交
func (r *ResponseRepository) SubmitResponse(ctx context.Context, response *model.Response, assignment *model.Assignment) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Assignment{}).
			Where("id = ? AND status IN ?", assignment.ID, []model.AssignmentStatus{model.AssignmentPending, model.AssignmentDraft}).
			Updates(map[string]interface{}{
				"status":        assignment.Status,
				"submitted_at":  assignment.SubmittedAt,
				"draft_answers": assignment.DraftAnswers,
			})
		if res.Error != nil {
			return errors.Wrap(res.Error, "update assignment")
		}
		if res.RowsAffected == 0 {
			return util.ErrAlreadySubmitted
		}

		if err := tx.Create(response).Error; err != nil {
			return errors.Wrap(err, "create response")
		}

		err := tx.Model(&model.Survey{}).
			Where("id = ? AND completion_count < total_assignments", response.SurveyID).
			Update("completion_count", gorm.Expr("completion_count + ?", 1)).Error
		return errors.Wrap(err, "increment completion count")
	})
}
