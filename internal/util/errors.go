package util

import "errors"

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrPermissionDenied      = errors.New("permission denied")
	ErrInvalidRequest        = errors.New("invalid request")
	ErrSurveyNotFound        = errors.New("survey not found")
	ErrResultsNotFound       = errors.New("results not found")
	ErrTemplateNotFound      = errors.New("template not found")
	ErrAssignmentNotFound    = errors.New("assignment not found")
	ErrNotAssigned           = errors.New("survey not assigned to user")
	ErrSessionNotFound       = errors.New("session not found or expired")
	ErrSurveyNotOpen         = errors.New("survey is not accepting responses")
	ErrInvalidTransition     = errors.New("invalid status transition")
	ErrAlreadySubmitted      = errors.New("response already submitted")
	ErrRequiredAnswerMissing = errors.New("required question not answered")
	ErrInvalidAnswer         = errors.New("invalid answer")
	ErrNoNextQuestion        = errors.New("already at last question")
)
