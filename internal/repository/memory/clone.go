package memory

import "audit_survey_backend/internal/model"

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string{}, in...)
}

func cloneAnswers(in []model.Answer) []model.Answer {
	if in == nil {
		return nil
	}
	out := make([]model.Answer, len(in))
	for i, a := range in {
		out[i] = model.Answer{QuestionID: a.QuestionID, Value: cloneStrings(a.Value), TextValue: a.TextValue}
	}
	return out
}

func cloneUser(u model.User) model.User {
	u.Roles = cloneStrings(u.Roles)
	return u
}

func cloneQuestion(q model.Question) model.Question {
	q.Options = cloneStrings(q.Options)
	q.TargetRoles = cloneStrings(q.TargetRoles)
	return q
}

func cloneAssignment(a model.Assignment) model.Assignment {
	if a.SubmittedAt != nil {
		t := *a.SubmittedAt
		a.SubmittedAt = &t
	}
	a.DraftAnswers = cloneAnswers(a.DraftAnswers)
	return a
}

func cloneResponse(r model.Response) model.Response {
	r.Answers = cloneAnswers(r.Answers)
	return r
}
