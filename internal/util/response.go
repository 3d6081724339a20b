package util

import (
	"audit_survey_backend/pkg/logger"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// PageResponse 分页响应结构
type PageResponse struct {
	List  interface{} `json:"list"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    http.StatusCreated,
		Message: "created",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, "Unauthorized")
}

func Forbidden(c *gin.Context) {
	Error(c, http.StatusForbidden, "Forbidden")
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func NotFound(c *gin.Context) {
	Error(c, http.StatusNotFound, "Resource not found")
}

func InternalServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "Internal server error")
}

// StatusOf 业务错误对应的 HTTP 状态码，未知错误返回 500
func StatusOf(err error) int {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, ErrRequiredAnswerMissing),
		errors.Is(err, ErrInvalidAnswer),
		errors.Is(err, ErrNoNextQuestion):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, ErrPermissionDenied), errors.Is(err, ErrNotAssigned):
		return http.StatusForbidden
	case errors.Is(err, ErrSurveyNotFound),
		errors.Is(err, ErrResultsNotFound),
		errors.Is(err, ErrTemplateNotFound),
		errors.Is(err, ErrAssignmentNotFound),
		errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrSurveyNotOpen),
		errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrAlreadySubmitted):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// HandleError 已知业务错误原样返回；其余记录日志并返回 "failed to <action>"
func HandleError(c *gin.Context, err error, action string) {
	code := StatusOf(err)
	if code == http.StatusInternalServerError {
		logger.Log.Error("failed to "+action, zap.Error(err), zap.String("path", c.FullPath()))
		Error(c, code, "failed to "+action)
		return
	}
	Error(c, code, err.Error())
}
