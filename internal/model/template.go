package model

// TemplateQuestion 模板题目，实例化时生成 ID 与 SurveyID
type TemplateQuestion struct {
	Text        string       `yaml:"text" json:"text"`
	Type        QuestionType `yaml:"type" json:"type"`
	Options     []string     `yaml:"options,omitempty" json:"options,omitempty"`
	Required    bool         `yaml:"required" json:"required"`
	TargetRoles []string     `yaml:"targetRoles" json:"targetRoles"`
	Order       int          `yaml:"order" json:"order"`
}

// swagger:model SurveyTemplate
type SurveyTemplate struct {
	ID          string             `yaml:"id" json:"id"`
	Name        string             `yaml:"name" json:"name"`
	Description string             `yaml:"description" json:"description"`
	Questions   []TemplateQuestion `yaml:"questions" json:"questions"`
}

// Instantiate 按模板生成问卷题目，ids 为空时使用 UUID
func (t *SurveyTemplate) Instantiate(surveyID string, ids func(i int) string) []Question {
	questions := make([]Question, 0, len(t.Questions))
	for i, tq := range t.Questions {
		id := GenerateUUID()
		if ids != nil {
			id = ids(i)
		}
		q := Question{
			SurveyID:    surveyID,
			Text:        tq.Text,
			Type:        tq.Type,
			Required:    tq.Required,
			TargetRoles: append([]string{}, tq.TargetRoles...),
			Order:       tq.Order,
		}
		q.ID = id
		if tq.Type.HasOptions() {
			q.Options = append([]string{}, tq.Options...)
		}
		questions = append(questions, q)
	}
	return questions
}
