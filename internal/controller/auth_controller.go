package controller

import (
	"audit_survey_backend/internal/service"
	"audit_survey_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

// swagger:model LoginRequest
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"admin@audit.local"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// Login godoc
// @Summary 用户登录
// @Description 验证用户身份并返回JWT令牌
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body LoginRequest true "用户登录凭据"
// @Success 200 {object} util.Response{data=service.LoginResult} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 401 {object} util.Response "邮箱或密码错误"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.AuthService.Login(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		util.HandleError(ctx, err, "login")
		return
	}
	util.Success(ctx, result)
}

// GetProfile godoc
// @Summary 获取当前用户资料
// @Tags 认证
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.User} "成功"
// @Failure 401 {object} util.Response "未授权"
// @Router /user/me [get]
func (c *AuthController) GetProfile(ctx *gin.Context) {
	user, err := c.AuthService.GetCurrentUser(ctx)
	if err != nil {
		util.HandleError(ctx, err, "load profile")
		return
	}
	util.Success(ctx, user)
}

// ListUsers godoc
// @Summary 可分配用户列表
// @Tags 问卷管理
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.User} "成功"
// @Router /admin/users [get]
func (c *AuthController) ListUsers(ctx *gin.Context) {
	users, err := c.AuthService.ListUsers(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err, "load users")
		return
	}
	util.Success(ctx, users)
}
