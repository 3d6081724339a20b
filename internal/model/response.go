package model

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

// Answer Value 保留选择顺序；TEXT 题使用 TextValue
type Answer struct {
	QuestionID string   `json:"questionId"`
	Value      []string `json:"value,omitempty"`
	TextValue  string   `json:"textValue,omitempty"`
}

// Empty 多选至少一个值，其余题型去空白后非空
func (a Answer) Empty() bool {
	for _, v := range a.Value {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return strings.TrimSpace(a.TextValue) == ""
}

// swagger:model Response
type Response struct {
	UUIDBase
	SurveyID    string                      `gorm:"index;type:varchar(36)" json:"surveyId"`
	UserID      string                      `gorm:"index;type:varchar(36)" json:"userId,omitempty"`
	UserRole    string                      `gorm:"size:50" json:"userRole"`
	Answers     datatypes.JSONSlice[Answer] `json:"answers"`
	SubmittedAt time.Time                   `json:"submittedAt"`
	IsAnonymous bool                        `gorm:"default:false" json:"isAnonymous"`
}

func (Response) TableName() string {
	return "responses"
}

type ResponseStats struct {
	Total     int `json:"total"`
	Anonymous int `json:"anonymous"`
	Named     int `json:"named"`
}
