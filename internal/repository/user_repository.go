package repository

import (
	"audit_survey_backend/internal/model"
	"audit_survey_backend/internal/util"
	"context"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	return errors.Wrap(r.DB.WithContext(ctx).Create(user).Error, "create user")
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrap(util.ErrUserNotFound, id)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "find user %s", id)
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).Where("LOWER(email) = ?", strings.ToLower(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrap(util.ErrUserNotFound, email)
	}
	if err != nil {
		return nil, errors.Wrap(err, "find user by email")
	}
	return &user, nil
}

func (r *UserRepository) ListUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := r.DB.WithContext(ctx).Order("id ASC").Find(&users).Error
	return users, errors.Wrap(err, "list users")
}
