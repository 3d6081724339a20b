package service

import (
	"audit_survey_backend/internal/model"
	"audit_survey_backend/internal/util"
	"fmt"
	"sort"
	"strings"
)

// VisibleQuestions 角色可见的题目，按 order 排序
func VisibleQuestions(questions []model.Question, role string) []model.Question {
	out := make([]model.Question, 0, len(questions))
	for _, q := range questions {
		if q.TargetsRole(role) {
			out = append(out, q)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// NormalizeAnswer 校验答案并规范化：选项必须属于题目，多选去重保留首次选择顺序
func NormalizeAnswer(q *model.Question, values []string, text string) (model.Answer, error) {
	a := model.Answer{QuestionID: q.ID}

	var picked []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			picked = append(picked, v)
		}
	}

	switch q.Type {
	case model.QuestionText:
		if text == "" && len(picked) > 0 {
			text = picked[0]
		}
		a.TextValue = text
		return a, nil
	case model.QuestionRadio, model.QuestionScale:
		if len(picked) > 1 {
			return a, fmt.Errorf("%w: %s accepts a single value", util.ErrInvalidAnswer, q.Type)
		}
	case model.QuestionCheckbox:
	default:
		return a, fmt.Errorf("%w: unsupported question type %q", util.ErrInvalidAnswer, q.Type)
	}

	if strings.TrimSpace(text) != "" {
		return a, fmt.Errorf("%w: %s question takes option values", util.ErrInvalidAnswer, q.Type)
	}
	seen := make(map[string]bool, len(picked))
	for _, v := range picked {
		if !q.HasOption(v) {
			return a, fmt.Errorf("%w: %q is not an option of question %s", util.ErrInvalidAnswer, v, q.ID)
		}
		if seen[v] {
			continue
		}
		seen[v] = true
		a.Value = append(a.Value, v)
	}
	return a, nil
}

// TakeFlow 逐题作答：必答题未答时不能前进，最后一题只能提交
type TakeFlow struct {
	questions []model.Question
	answers   map[string]model.Answer
	index     int
}

// NewTakeFlow draft 中不可见或不合法的答案会被丢弃
func NewTakeFlow(questions []model.Question, role string, draft []model.Answer) *TakeFlow {
	f := &TakeFlow{
		questions: VisibleQuestions(questions, role),
		answers:   make(map[string]model.Answer),
	}
	for _, a := range draft {
		_ = f.SetAnswer(a.QuestionID, a.Value, a.TextValue)
	}
	return f
}

func (f *TakeFlow) Len() int   { return len(f.questions) }
func (f *TakeFlow) Index() int { return f.index }

func (f *TakeFlow) Questions() []model.Question {
	return f.questions
}

func (f *TakeFlow) Current() *model.Question {
	if len(f.questions) == 0 {
		return nil
	}
	return &f.questions[f.index]
}

func (f *TakeFlow) IsLast() bool {
	return f.index >= len(f.questions)-1
}

func (f *TakeFlow) question(id string) *model.Question {
	for i := range f.questions {
		if f.questions[i].ID == id {
			return &f.questions[i]
		}
	}
	return nil
}

// SetAnswer 空答案视为清除
func (f *TakeFlow) SetAnswer(questionID string, values []string, text string) error {
	q := f.question(questionID)
	if q == nil {
		return fmt.Errorf("%w: question %s is not part of this survey", util.ErrInvalidAnswer, questionID)
	}
	a, err := NormalizeAnswer(q, values, text)
	if err != nil {
		return err
	}
	if a.Empty() {
		delete(f.answers, questionID)
		return nil
	}
	f.answers[questionID] = a
	return nil
}

func (f *TakeFlow) Answer(questionID string) (model.Answer, bool) {
	a, ok := f.answers[questionID]
	return a, ok
}

func (f *TakeFlow) answered(q *model.Question) bool {
	a, ok := f.answers[q.ID]
	return ok && !a.Empty()
}

// CanProceed 当前题已作答或非必答
func (f *TakeFlow) CanProceed() bool {
	q := f.Current()
	if q == nil {
		return false
	}
	return !q.Required || f.answered(q)
}

func (f *TakeFlow) Next() error {
	q := f.Current()
	if q == nil || f.IsLast() {
		return util.ErrNoNextQuestion
	}
	if !f.CanProceed() {
		return fmt.Errorf("%w: %s", util.ErrRequiredAnswerMissing, q.ID)
	}
	f.index++
	return nil
}

func (f *TakeFlow) Previous() {
	if f.index > 0 {
		f.index--
	}
}

// Progress round((index+1)/total × 100)
func (f *TakeFlow) Progress() int {
	if len(f.questions) == 0 {
		return 0
	}
	return model.Percent(f.index+1, len(f.questions))
}

// Answers 按题目顺序输出已作答的答案
func (f *TakeFlow) Answers() []model.Answer {
	out := make([]model.Answer, 0, len(f.answers))
	for _, q := range f.questions {
		if a, ok := f.answers[q.ID]; ok {
			out = append(out, a)
		}
	}
	return out
}

// Validate 所有可见必答题都需作答
func (f *TakeFlow) Validate() error {
	var missing []string
	for i := range f.questions {
		q := &f.questions[i]
		if q.Required && !f.answered(q) {
			missing = append(missing, q.ID)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", util.ErrRequiredAnswerMissing, strings.Join(missing, ", "))
	}
	return nil
}

// Submit 校验后返回有序答案列表
func (f *TakeFlow) Submit() ([]model.Answer, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f.Answers(), nil
}

// FlowState 会话当前视图
type FlowState struct {
	Index      int             `json:"index"`
	Total      int             `json:"total"`
	Progress   int             `json:"progress"`
	Question   *model.Question `json:"question,omitempty"`
	Answer     *model.Answer   `json:"answer,omitempty"`
	CanProceed bool            `json:"canProceed"`
	IsLast     bool            `json:"isLast"`
	Answered   int             `json:"answered"`
}

func (f *TakeFlow) State() FlowState {
	st := FlowState{
		Index:      f.index,
		Total:      len(f.questions),
		Progress:   f.Progress(),
		CanProceed: f.CanProceed(),
		IsLast:     f.IsLast(),
		Answered:   len(f.answers),
	}
	if q := f.Current(); q != nil {
		qc := *q
		st.Question = &qc
		if a, ok := f.answers[q.ID]; ok {
			st.Answer = &a
		}
	}
	return st
}
