package service

import (
	"audit_survey_backend/internal/model"
	"audit_survey_backend/internal/util"
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

const (
	DefaultSurveySort     = "createdAt"
	DefaultAssignmentSort = "assignedAt"
	statusAll             = "ALL"
)

// ListQuery 列表筛选、搜索与排序参数
type ListQuery struct {
	Status string
	Search string
	Sort   string
	Order  SortOrder
}

// ParseSortOrder 空值时使用 def；其他非法值报错
func ParseSortOrder(s string, def SortOrder) (SortOrder, error) {
	switch SortOrder(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return def, nil
	case SortAsc:
		return SortAsc, nil
	case SortDesc:
		return SortDesc, nil
	}
	return "", fmt.Errorf("%w: sort order %q", util.ErrInvalidRequest, s)
}

func directed(c int, desc bool) int {
	if desc {
		return -c
	}
	return c
}

func compareFold(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

// compareDates 未设置的时间在两个方向上都排在最后
func compareDates(a, b time.Time, desc bool) int {
	switch {
	case a.IsZero() && b.IsZero():
		return 0
	case a.IsZero():
		return 1
	case b.IsZero():
		return -1
	}
	return directed(a.Compare(b), desc)
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

type comparator[T any] func(a, b *T, desc bool) int

var surveySorters = map[string]comparator[model.Survey]{
	"title": func(a, b *model.Survey, desc bool) int {
		return directed(compareFold(a.Title, b.Title), desc)
	},
	"project": func(a, b *model.Survey, desc bool) int {
		return directed(compareFold(a.Project, b.Project), desc)
	},
	"status": func(a, b *model.Survey, desc bool) int {
		return directed(compareFold(string(a.Status), string(b.Status)), desc)
	},
	"deadline": func(a, b *model.Survey, desc bool) int {
		return compareDates(a.Deadline, b.Deadline, desc)
	},
	"createdAt": func(a, b *model.Survey, desc bool) int {
		return compareDates(a.CreatedAt, b.CreatedAt, desc)
	},
	"completion": func(a, b *model.Survey, desc bool) int {
		return directed(cmp.Compare(a.CompletionPercent(), b.CompletionPercent()), desc)
	},
}

var assignmentSorters = map[string]comparator[model.Assignment]{
	"assignee": func(a, b *model.Assignment, desc bool) int {
		return directed(compareFold(a.UserID, b.UserID), desc)
	},
	"userRole": func(a, b *model.Assignment, desc bool) int {
		return directed(compareFold(a.UserRole, b.UserRole), desc)
	},
	"status": func(a, b *model.Assignment, desc bool) int {
		return directed(compareFold(string(a.Status), string(b.Status)), desc)
	},
	"emailStatus": func(a, b *model.Assignment, desc bool) int {
		return directed(compareFold(string(a.EmailStatus), string(b.EmailStatus)), desc)
	},
	"assignedAt": func(a, b *model.Assignment, desc bool) int {
		return compareDates(a.AssignedAt, b.AssignedAt, desc)
	},
	"submittedAt": func(a, b *model.Assignment, desc bool) int {
		return compareDates(derefTime(a.SubmittedAt), derefTime(b.SubmittedAt), desc)
	},
}

func sortStable[T any](list []T, sorters map[string]comparator[T], field, def string, order SortOrder) ([]T, error) {
	if field == "" {
		field = def
	}
	less, ok := sorters[field]
	if !ok {
		return nil, fmt.Errorf("%w: unknown sort field %q", util.ErrInvalidRequest, field)
	}
	out := slices.Clone(list)
	desc := order == SortDesc
	slices.SortStableFunc(out, func(a, b T) int {
		return less(&a, &b, desc)
	})
	return out, nil
}

// FilterSurveys status 为空或 ALL 时不过滤；search 匹配标题或项目
func FilterSurveys(list []model.Survey, status, search string) ([]model.Survey, error) {
	status = strings.ToUpper(strings.TrimSpace(status))
	if status != "" && status != statusAll && !model.SurveyStatus(status).Valid() {
		return nil, fmt.Errorf("%w: survey status %q", util.ErrInvalidRequest, status)
	}
	search = strings.ToLower(strings.TrimSpace(search))

	out := make([]model.Survey, 0, len(list))
	for _, s := range list {
		if status != "" && status != statusAll && string(s.Status) != status {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(s.Title), search) &&
			!strings.Contains(strings.ToLower(s.Project), search) {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func SortSurveys(list []model.Survey, field string, order SortOrder) ([]model.Survey, error) {
	return sortStable(list, surveySorters, field, DefaultSurveySort, order)
}

// ApplySurveyQuery 先过滤后排序
func ApplySurveyQuery(list []model.Survey, q ListQuery) ([]model.Survey, error) {
	filtered, err := FilterSurveys(list, q.Status, q.Search)
	if err != nil {
		return nil, err
	}
	return SortSurveys(filtered, q.Sort, q.Order)
}

// FilterAssignments search 按用户 ID 子串匹配，忽略大小写
func FilterAssignments(list []model.Assignment, status, search string) ([]model.Assignment, error) {
	var want model.AssignmentStatus
	status = strings.TrimSpace(status)
	if status != "" && !strings.EqualFold(status, statusAll) {
		st, ok := model.ParseAssignmentStatus(status)
		if !ok {
			return nil, fmt.Errorf("%w: assignment status %q", util.ErrInvalidRequest, status)
		}
		want = st
	}
	search = strings.ToLower(strings.TrimSpace(search))

	out := make([]model.Assignment, 0, len(list))
	for _, a := range list {
		if want != "" && a.Status != want {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(a.UserID), search) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func SortAssignments(list []model.Assignment, field string, order SortOrder) ([]model.Assignment, error) {
	return sortStable(list, assignmentSorters, field, DefaultAssignmentSort, order)
}

func ApplyAssignmentQuery(list []model.Assignment, q ListQuery) ([]model.Assignment, error) {
	filtered, err := FilterAssignments(list, q.Status, q.Search)
	if err != nil {
		return nil, err
	}
	return SortAssignments(filtered, q.Sort, q.Order)
}
