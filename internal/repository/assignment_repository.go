package repository

import (
	"audit_survey_backend/internal/model"
	"audit_survey_backend/internal/util"
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type AssignmentRepository struct {
	DB *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) *AssignmentRepository {
	return &AssignmentRepository{DB: db}
}

func (r *AssignmentRepository) ListAssignments(ctx context.Context, surveyID string) ([]model.Assignment, error) {
	var assignments []model.Assignment
	err := r.DB.WithContext(ctx).Where("survey_id = ?", surveyID).Order("assigned_at ASC, id ASC").Find(&assignments).Error
	return assignments, errors.Wrap(err, "list assignments")
}

func (r *AssignmentRepository) ListAssignmentsByUser(ctx context.Context, userID string) ([]model.Assignment, error) {
	var assignments []model.Assignment
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Order("assigned_at ASC, id ASC").Find(&assignments).Error
	return assignments, errors.Wrap(err, "list user assignments")
}

func (r *AssignmentRepository) GetAssignment(ctx context.Context, id string) (*model.Assignment, error) {
	var a model.Assignment
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrap(util.ErrAssignmentNotFound, id)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get assignment %s", id)
	}
	return &a, nil
}

func (r *AssignmentRepository) FindAssignment(ctx context.Context, surveyID, userID string) (*model.Assignment, error) {
	var a model.Assignment
	err := r.DB.WithContext(ctx).Where("survey_id = ? AND user_id = ?", surveyID, userID).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrapf(util.ErrNotAssigned, "survey %s user %s", surveyID, userID)
	}
	if err != nil {
		return nil, errors.Wrap(err, "find assignment")
	}
	return &a, nil
}

// SaveAssignment 条件更新：仅当库中状态仍可流转到目标状态时写入
func (r *AssignmentRepository) SaveAssignment(ctx context.Context, assignment *model.Assignment) error {
	res := r.DB.WithContext(ctx).Model(&model.Assignment{}).
		Where("id = ? AND status IN ?", assignment.ID, model.AssignmentSourcesOf(assignment.Status)).
		Updates(map[string]interface{}{
			"status":        assignment.Status,
			"submitted_at":  assignment.SubmittedAt,
			"draft_answers": assignment.DraftAnswers,
			"updated_at":    time.Now(),
		})
	if res.Error != nil {
		return errors.Wrapf(res.Error, "save assignment %s", assignment.ID)
	}
	if res.RowsAffected > 0 {
		return nil
	}
	current, err := r.GetAssignment(ctx, assignment.ID)
	if err != nil {
		return err
	}
	return errors.Wrapf(util.ErrInvalidTransition, "%s -> %s", current.Status, assignment.Status)
}

// SetEmailStatuses 按用户批量记录通知结果
func (r *AssignmentRepository) SetEmailStatuses(ctx context.Context, surveyID string, statuses map[string]model.EmailStatus) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for userID, status := range statuses {
			err := tx.Model(&model.Assignment{}).
				Where("survey_id = ? AND user_id = ?", surveyID, userID).
				Update("email_status", status).Error
			if err != nil {
				return errors.Wrapf(err, "set email status for %s", userID)
			}
		}
		return nil
	})
}
