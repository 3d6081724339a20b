package model

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

type AssignmentStatus string

const (
	AssignmentPending   AssignmentStatus = "PENDING"
	AssignmentDraft     AssignmentStatus = "DRAFT"
	AssignmentSubmitted AssignmentStatus = "SUBMITTED"
	AssignmentDiscarded AssignmentStatus = "DISCARDED"
)

// ParseAssignmentStatus 兼容旧版的 COMPLETED
func ParseAssignmentStatus(s string) (AssignmentStatus, bool) {
	switch st := AssignmentStatus(strings.ToUpper(strings.TrimSpace(s))); st {
	case AssignmentPending, AssignmentDraft, AssignmentSubmitted, AssignmentDiscarded:
		return st, true
	case "COMPLETED":
		return AssignmentSubmitted, true
	}
	return "", false
}

// Open 仍可作答
func (s AssignmentStatus) Open() bool {
	return s == AssignmentPending || s == AssignmentDraft
}

// CanTransitionTo PENDING→DRAFT→SUBMITTED，或未完成时 →DISCARDED
func (s AssignmentStatus) CanTransitionTo(next AssignmentStatus) bool {
	switch s {
	case AssignmentPending:
		return next == AssignmentDraft || next == AssignmentSubmitted || next == AssignmentDiscarded
	case AssignmentDraft:
		return next == AssignmentDraft || next == AssignmentSubmitted || next == AssignmentDiscarded
	}
	return false
}

// AssignmentSourcesOf 可流转到 next 的状态集合，用于条件更新
func AssignmentSourcesOf(next AssignmentStatus) []AssignmentStatus {
	var from []AssignmentStatus
	for _, s := range []AssignmentStatus{AssignmentPending, AssignmentDraft, AssignmentSubmitted, AssignmentDiscarded} {
		if s.CanTransitionTo(next) {
			from = append(from, s)
		}
	}
	return from
}

type EmailStatus string

const (
	EmailSent   EmailStatus = "SENT"
	EmailFailed EmailStatus = "FAILED"
)

// swagger:model Assignment
type Assignment struct {
	UUIDBase
	SurveyID     string                      `gorm:"uniqueIndex:idx_assignment_survey_user;type:varchar(36)" json:"surveyId"`
	UserID       string                      `gorm:"uniqueIndex:idx_assignment_survey_user;type:varchar(36)" json:"userId"`
	UserRole     string                      `gorm:"size:50" json:"userRole"`
	Status       AssignmentStatus            `gorm:"size:20;index;default:'PENDING'" json:"status"`
	EmailStatus  EmailStatus                 `gorm:"size:10" json:"emailStatus,omitempty"`
	AssignedAt   time.Time                   `json:"assignedAt"`
	SubmittedAt  *time.Time                  `json:"submittedAt,omitempty"`
	DraftAnswers datatypes.JSONSlice[Answer] `json:"draftAnswers,omitempty"`
}

func (Assignment) TableName() string {
	return "assignments"
}

// Transition 非法流转返回 false，状态不变
func (a *Assignment) Transition(next AssignmentStatus, at time.Time) bool {
	if !a.Status.CanTransitionTo(next) {
		return false
	}
	a.Status = next
	if next == AssignmentSubmitted {
		t := at
		a.SubmittedAt = &t
		a.DraftAnswers = nil
	}
	return true
}

// Overdue 分配超过 days 天仍未完成
func (a *Assignment) Overdue(now time.Time, days int) bool {
	if !a.Status.Open() {
		return false
	}
	return now.Sub(a.AssignedAt) >= time.Duration(days)*24*time.Hour
}

// AssignmentStats 分配统计
type AssignmentStats struct {
	Total     int `json:"total"`
	Submitted int `json:"submitted"`
	Pending   int `json:"pending"`
	Draft     int `json:"draft"`
	Discarded int `json:"discarded"`
	Overdue   int `json:"overdue"`
}
