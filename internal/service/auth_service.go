package service

import (
	"audit_survey_backend/internal/config"
	"audit_survey_backend/internal/model"
	"audit_survey_backend/internal/util"
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	Users UserStore
	Cfg   *config.Config
}

func NewAuthService(users UserStore, cfg *config.Config) *AuthService {
	return &AuthService{
		Users: users,
		Cfg:   cfg,
	}
}

// LoginResult 登录返回的令牌与用户信息
type LoginResult struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.Users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			return nil, util.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, util.ErrInvalidCredentials
	}

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, User: user}, nil
}

func (s *AuthService) GetCurrentUser(c *gin.Context) (*model.User, error) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		return nil, util.ErrPermissionDenied
	}
	return s.Users.FindByID(c.Request.Context(), claims.UserID)
}

// ListUsers 管理端选择被分配人
func (s *AuthService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.Users.ListUsers(ctx)
}
