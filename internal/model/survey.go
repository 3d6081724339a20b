package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type SurveyStatus string

const (
	SurveyDraft  SurveyStatus = "DRAFT"
	SurveyActive SurveyStatus = "ACTIVE"
	SurveyClosed SurveyStatus = "CLOSED"
)

func (s SurveyStatus) Valid() bool {
	switch s {
	case SurveyDraft, SurveyActive, SurveyClosed:
		return true
	}
	return false
}

// CanTransitionTo 状态只能前进：DRAFT→ACTIVE，DRAFT/ACTIVE→CLOSED
func (s SurveyStatus) CanTransitionTo(next SurveyStatus) bool {
	switch s {
	case SurveyDraft:
		return next == SurveyActive || next == SurveyClosed
	case SurveyActive:
		return next == SurveyClosed
	}
	return false
}

func SurveySourcesOf(next SurveyStatus) []SurveyStatus {
	var from []SurveyStatus
	for _, s := range []SurveyStatus{SurveyDraft, SurveyActive, SurveyClosed} {
		if s.CanTransitionTo(next) {
			from = append(from, s)
		}
	}
	return from
}

// swagger:model Survey
type Survey struct {
	UUIDBase
	Title            string       `gorm:"size:255;not null" json:"title"`
	Project          string       `gorm:"size:100;index" json:"project"`
	Deadline         time.Time    `json:"deadline"`
	Status           SurveyStatus `gorm:"size:20;index;default:'DRAFT'" json:"status"`
	IsAnonymous      bool         `gorm:"default:false" json:"isAnonymous"`
	TemplateID       string       `gorm:"size:64" json:"templateId"`
	CreatedBy        string       `gorm:"size:64" json:"createdBy"`
	CompletionCount  int          `gorm:"default:0" json:"completionCount"`
	TotalAssignments int          `gorm:"default:0" json:"totalAssignments"`
}

func (Survey) TableName() string {
	return "surveys"
}

// CompletionPercent 完成百分比，四舍五入；无分配时为 0
func (s *Survey) CompletionPercent() int {
	return Percent(s.CompletionCount, s.TotalAssignments)
}

// Expired 截止日当天仍可作答
func (s *Survey) Expired(now time.Time) bool {
	if s.Deadline.IsZero() {
		return false
	}
	y, m, d := s.Deadline.Date()
	endOfDay := time.Date(y, m, d, 0, 0, 0, 0, s.Deadline.Location()).AddDate(0, 0, 1)
	return !now.Before(endOfDay)
}

// AcceptsResponses 仅 ACTIVE 且未过截止日的问卷可提交
func (s *Survey) AcceptsResponses(now time.Time) bool {
	return s.Status == SurveyActive && !s.Expired(now)
}

// SurveySummary 列表视图
type SurveySummary struct {
	ID                string       `json:"id"`
	Title             string       `json:"title"`
	Project           string       `json:"project"`
	Deadline          time.Time    `json:"deadline"`
	Status            SurveyStatus `json:"status"`
	CompletionCount   int          `json:"completionCount"`
	TotalAssignments  int          `json:"totalAssignments"`
	CompletionPercent int          `json:"completionPercent"`
	CreatedBy         string       `json:"createdBy"`
	CreatedAt         time.Time    `json:"createdAt"`
}

func (s *Survey) Summary() SurveySummary {
	return SurveySummary{
		ID:                s.ID,
		Title:             s.Title,
		Project:           s.Project,
		Deadline:          s.Deadline,
		Status:            s.Status,
		CompletionCount:   s.CompletionCount,
		TotalAssignments:  s.TotalAssignments,
		CompletionPercent: s.CompletionPercent(),
		CreatedBy:         s.CreatedBy,
		CreatedAt:         s.CreatedAt,
	}
}

// Percent round(part / total × 100)，total 为 0 时返回 0
func Percent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(ratio(part, total).Round(0).IntPart())
}

// Rate 百分比保留一位小数（5/8 → 62.5）
func Rate(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	f, _ := ratio(part, total).Round(1).Float64()
	return f
}

func ratio(part, total int) decimal.Decimal {
	return decimal.NewFromInt(int64(part)).
		Mul(decimal.NewFromInt(100)).
		DivRound(decimal.NewFromInt(int64(total)), 8)
}
