// Package fixtures 演示数据：内存数据源与数据库 seed 共用
package fixtures

import (
	"audit_survey_backend/internal/model"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// DemoPassword 所有演示账号的初始密码
const DemoPassword = "password123"

type Dataset struct {
	Users       []model.User
	Surveys     []model.Survey
	Questions   []model.Question
	Assignments []model.Assignment
	Responses   []model.Response
}

type member struct {
	id    string
	name  string
	roles []string
}

var members = []member{
	{"admin", "Audit Admin", []string{model.RoleAdmin}},
	{"user1", "Alice Developer", []string{"DEVELOPER"}},
	{"user2", "Bob Lead", []string{"LEAD_DEVELOPER"}},
	{"user3", "Carol Security", []string{"SECURITY_ENGINEER"}},
	{"user4", "Dan Developer", []string{"DEVELOPER"}},
	{"user5", "Eve DevOps", []string{"DEVOPS_ENGINEER", "DEVELOPER"}},
	{"user6", "Frank Manager", []string{"PROJECT_MANAGER", "LEAD_DEVELOPER"}},
	{"user7", "Grace Developer", []string{"DEVELOPER"}},
	{"user8", "Heidi Security", []string{"SECURITY_ENGINEER"}},
}

type seat struct {
	userID string
	role   string
	status model.AssignmentStatus
}

type surveySeed struct {
	survey   model.Survey
	template string
	seats    []seat
	answers  map[string][][]string
}

// Build 生成以 now 为基准的演示数据，截止日期始终相对当前时间
func Build(templates []model.SurveyTemplate, now time.Time) (Dataset, error) {
	var ds Dataset

	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.MinCost)
	if err != nil {
		return ds, err
	}
	for _, m := range members {
		u := model.User{
			Name:     m.name,
			Email:    m.id + "@audit.local",
			Password: string(hash),
			Roles:    append([]string{}, m.roles...),
		}
		u.ID = m.id
		u.CreatedAt = now.AddDate(0, -3, 0)
		u.UpdatedAt = u.CreatedAt
		ds.Users = append(ds.Users, u)
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	byID := make(map[string]*model.SurveyTemplate, len(templates))
	for i := range templates {
		byID[templates[i].ID] = &templates[i]
	}

	qn, an, rn := 0, 0, 0
	for _, seed := range seeds(now, today) {
		tpl, ok := byID[seed.template]
		if !ok {
			return ds, fmt.Errorf("fixture template %q missing", seed.template)
		}
		s := seed.survey
		s.TemplateID = tpl.ID
		s.TotalAssignments = len(seed.seats)

		questions := tpl.Instantiate(s.ID, func(int) string {
			qn++
			return fmt.Sprintf("q%d", qn)
		})
		for i := range questions {
			questions[i].CreatedAt = s.CreatedAt
			questions[i].UpdatedAt = s.CreatedAt
		}

		for i, st := range seed.seats {
			an++
			a := model.Assignment{
				SurveyID:   s.ID,
				UserID:     st.userID,
				UserRole:   st.role,
				Status:     st.status,
				AssignedAt: s.CreatedAt.Add(time.Duration(i) * time.Minute),
			}
			a.ID = fmt.Sprintf("a%d", an)
			a.CreatedAt = a.AssignedAt
			a.UpdatedAt = a.AssignedAt
			if s.Status != model.SurveyDraft {
				a.EmailStatus = model.EmailSent
			}

			switch st.status {
			case model.AssignmentSubmitted:
				rn++
				submitted := a.AssignedAt.Add(time.Duration(6+rn*5) * time.Hour)
				a.SubmittedAt = &submitted
				s.CompletionCount++
				r := model.Response{
					SurveyID:    s.ID,
					UserRole:    st.role,
					Answers:     answersFor(questions, st.role, seed.answers[st.userID]),
					SubmittedAt: submitted,
					IsAnonymous: s.IsAnonymous,
				}
				r.ID = fmt.Sprintf("r%d", rn)
				if !s.IsAnonymous {
					r.UserID = st.userID
				}
				r.CreatedAt = submitted
				r.UpdatedAt = submitted
				ds.Responses = append(ds.Responses, r)
			case model.AssignmentDraft:
				a.DraftAnswers = answersFor(questions, st.role, seed.answers[st.userID])
			}
			ds.Assignments = append(ds.Assignments, a)
		}

		ds.Surveys = append(ds.Surveys, s)
		ds.Questions = append(ds.Questions, questions...)
	}
	return ds, nil
}

// answersFor 按可见题目顺序配对答案；TEXT 题取第一个值作为文本
func answersFor(questions []model.Question, role string, values [][]string) []model.Answer {
	var answers []model.Answer
	i := 0
	for _, q := range questions {
		if !q.TargetsRole(role) {
			continue
		}
		if i >= len(values) {
			break
		}
		v := values[i]
		i++
		if len(v) == 0 {
			continue
		}
		a := model.Answer{QuestionID: q.ID}
		if q.Type == model.QuestionText {
			a.TextValue = v[0]
		} else {
			a.Value = append([]string{}, v...)
		}
		answers = append(answers, a)
	}
	return answers
}

func newSurvey(id, title, project string, status model.SurveyStatus, anonymous bool, created, deadline time.Time) model.Survey {
	s := model.Survey{
		Title:       title,
		Project:     project,
		Deadline:    deadline,
		Status:      status,
		IsAnonymous: anonymous,
		CreatedBy:   "admin",
	}
	s.ID = id
	s.CreatedAt = created
	s.UpdatedAt = created
	return s
}

func seeds(now, today time.Time) []surveySeed {
	return []surveySeed{
		{
			survey:   newSurvey("1", "Q4 Security Audit", "Portfolio Frontend", model.SurveyActive, false, now.AddDate(0, 0, -10), today.AddDate(0, 0, 20)),
			template: "security-audit",
			seats: []seat{
				{"user1", "DEVELOPER", model.AssignmentSubmitted},
				{"user2", "LEAD_DEVELOPER", model.AssignmentPending},
				{"user3", "SECURITY_ENGINEER", model.AssignmentSubmitted},
				{"user4", "DEVELOPER", model.AssignmentSubmitted},
				{"user5", "DEVELOPER", model.AssignmentDraft},
				{"user6", "LEAD_DEVELOPER", model.AssignmentPending},
				{"user7", "DEVELOPER", model.AssignmentSubmitted},
				{"user8", "SECURITY_ENGINEER", model.AssignmentSubmitted},
			},
			answers: map[string][][]string{
				"user1": {{"Weekly"}, {"Code reviews for security", "Automated security scanning"}, {"7"}, {"Need more security training for the team"}},
				"user3": {{"Daily"}, {"Code reviews for security", "Automated security scanning", "Dependency vulnerability checks", "Incident response procedures"}, {"9"}, {}},
				"user4": {{"Monthly"}, {"Code reviews for security"}, {"5"}, {"Dependency updates are often delayed"}},
				"user5": {{"Weekly"}, {"Dependency vulnerability checks"}},
				"user7": {{"Weekly"}, {"Automated security scanning", "Security training completion"}, {"6"}, {}},
				"user8": {{"Daily"}, {"Automated security scanning", "Dependency vulnerability checks", "Incident response procedures"}, {"8"}, {"Secrets handling in CI needs review"}},
			},
		},
		{
			survey:   newSurvey("2", "Code Quality Assessment", "System Designer", model.SurveyDraft, false, now.AddDate(0, 0, -3), today.AddDate(0, 0, 30)),
			template: "code-quality",
			seats: []seat{
				{"user1", "DEVELOPER", model.AssignmentPending},
				{"user2", "LEAD_DEVELOPER", model.AssignmentPending},
				{"user4", "DEVELOPER", model.AssignmentPending},
				{"user5", "DEVELOPER", model.AssignmentPending},
				{"user6", "LEAD_DEVELOPER", model.AssignmentPending},
				{"user7", "DEVELOPER", model.AssignmentPending},
			},
		},
		{
			survey:   newSurvey("3", "Process Evaluation", "YouTube Integration", model.SurveyClosed, true, now.AddDate(0, 0, -40), today.AddDate(0, 0, -5)),
			template: "process-evaluation",
			seats: []seat{
				{"user1", "DEVELOPER", model.AssignmentSubmitted},
				{"user2", "LEAD_DEVELOPER", model.AssignmentSubmitted},
				{"user5", "DEVOPS_ENGINEER", model.AssignmentSubmitted},
				{"user6", "PROJECT_MANAGER", model.AssignmentSubmitted},
			},
			answers: map[string][][]string{
				"user1": {{"Effective"}, {"Daily standups", "Sprint planning", "Continuous integration"}, {"7"}, {"Shorter review cycles"}},
				"user2": {{"Very Effective"}, {"Sprint planning", "Retrospectives", "Continuous integration"}, {"8"}, {}},
				"user5": {{"Neutral"}},
				"user6": {{"Daily standups", "Sprint planning", "Retrospectives", "User story mapping"}, {"6"}, {"Better estimation of integration work"}},
			},
		},
	}
}
