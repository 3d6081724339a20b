package service

import (
	"audit_survey_backend/internal/model"
	"audit_survey_backend/internal/util"
	"context"
	_ "embed"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed templates/default.yaml
var defaultTemplates []byte

// ParseTemplates 解析 YAML 模板目录，题目按 order 排序
func ParseTemplates(data []byte) ([]model.SurveyTemplate, error) {
	var templates []model.SurveyTemplate
	if err := yaml.Unmarshal(data, &templates); err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	seen := make(map[string]bool, len(templates))
	for i := range templates {
		t := &templates[i]
		if t.ID == "" {
			return nil, fmt.Errorf("template #%d has no id", i+1)
		}
		if seen[t.ID] {
			return nil, fmt.Errorf("duplicate template id %q", t.ID)
		}
		seen[t.ID] = true
		for j, q := range t.Questions {
			if !q.Type.Valid() {
				return nil, fmt.Errorf("template %s question %d: unknown type %q", t.ID, j+1, q.Type)
			}
			if q.Type.HasOptions() && len(q.Options) == 0 {
				return nil, fmt.Errorf("template %s question %d: %s needs options", t.ID, j+1, q.Type)
			}
		}
		sort.SliceStable(t.Questions, func(a, b int) bool {
			return t.Questions[a].Order < t.Questions[b].Order
		})
	}
	return templates, nil
}

// LoadTemplates path 为空时使用内置模板
func LoadTemplates(path string) ([]model.SurveyTemplate, error) {
	if path == "" {
		return ParseTemplates(defaultTemplates)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseTemplates(data)
}

type TemplateService struct {
	mu        sync.RWMutex
	templates []model.SurveyTemplate
	delay     time.Duration
}

func NewTemplateService(templates []model.SurveyTemplate) *TemplateService {
	return &TemplateService{templates: templates}
}

// SetDelay 模拟数据源下的接口延迟
func (s *TemplateService) SetDelay(d time.Duration) {
	s.mu.Lock()
	s.delay = d
	s.mu.Unlock()
}

// Replace 模板文件热更新
func (s *TemplateService) Replace(templates []model.SurveyTemplate) {
	s.mu.Lock()
	s.templates = templates
	s.mu.Unlock()
}

func (s *TemplateService) List(ctx context.Context) ([]model.SurveyTemplate, error) {
	s.mu.RLock()
	delay := s.delay
	s.mu.RUnlock()
	if err := util.Wait(ctx, delay); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.SurveyTemplate, len(s.templates))
	copy(out, s.templates)
	return out, nil
}

func (s *TemplateService) Get(id string) (*model.SurveyTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.templates {
		if s.templates[i].ID == id {
			t := s.templates[i]
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", util.ErrTemplateNotFound, id)
}
