package model

import "time"

// SurveyResults 每题每个选项的计数
type SurveyResults struct {
	SurveyID       string                    `json:"surveyId"`
	TotalResponses int                       `json:"totalResponses"`
	CompletionRate float64                   `json:"completionRate"`
	AggregatedData map[string]map[string]int `json:"aggregatedData"`
}

type OptionBreakdown struct {
	Option     string `json:"option"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

type QuestionBreakdown struct {
	QuestionID  string            `json:"questionId"`
	Text        string            `json:"text"`
	Type        QuestionType      `json:"type"`
	Order       int               `json:"order"`
	Options     []OptionBreakdown `json:"options,omitempty"`
	TextAnswers []string          `json:"textAnswers,omitempty"`
}

// ResultsReport 管理端结果页
type ResultsReport struct {
	SurveyResults
	CompletionPercent  int                 `json:"completionPercent"`
	AvgCompletionHours float64             `json:"avgCompletionHours"`
	LastSubmissionAt   *time.Time          `json:"lastSubmissionAt,omitempty"`
	Questions          []QuestionBreakdown `json:"questions"`
}
