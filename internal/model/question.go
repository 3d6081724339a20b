package model

import "gorm.io/datatypes"

type QuestionType string

const (
	QuestionRadio    QuestionType = "RADIO"
	QuestionCheckbox QuestionType = "CHECKBOX"
	QuestionText     QuestionType = "TEXT"
	QuestionScale    QuestionType = "SCALE"
)

func (t QuestionType) Valid() bool {
	switch t {
	case QuestionRadio, QuestionCheckbox, QuestionText, QuestionScale:
		return true
	}
	return false
}

// HasOptions TEXT 以外的题型都从选项中作答
func (t QuestionType) HasOptions() bool {
	return t == QuestionRadio || t == QuestionCheckbox || t == QuestionScale
}

// swagger:model Question
type Question struct {
	UUIDBase
	SurveyID    string                      `gorm:"index;type:varchar(36)" json:"surveyId"`
	Text        string                      `gorm:"type:text;not null" json:"text"`
	Type        QuestionType                `gorm:"size:20;not null" json:"type"`
	Options     datatypes.JSONSlice[string] `json:"options,omitempty"`
	Required    bool                        `gorm:"default:false" json:"required"`
	TargetRoles datatypes.JSONSlice[string] `json:"targetRoles"`
	Order       int                         `gorm:"column:sort_order;default:0" json:"order"`
}

func (Question) TableName() string {
	return "questions"
}

// TargetsRole targetRoles 为空时所有角色可见
func (q *Question) TargetsRole(role string) bool {
	if len(q.TargetRoles) == 0 {
		return true
	}
	for _, r := range q.TargetRoles {
		if r == role {
			return true
		}
	}
	return false
}

func (q *Question) HasOption(v string) bool {
	for _, o := range q.Options {
		if o == v {
			return true
		}
	}
	return false
}
