package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"repodocs/internal/assets"
	"repodocs/internal/models"
)

type ModelService interface {
	ListModels() []models.LLMModel
	GetModel(modelKey string) (*models.LLMModel, error)
	DefaultModel() (*models.LLMModel, error)
}

type modelService struct {
	order      []string
	byKey      map[string]models.LLMModel
	defaultKey string
}

type rawModelFile struct {
	Providers []rawProvider `json:"providers"`
}

type rawProvider struct {
	ID     string     `json:"id"`
	Name   string     `json:"name"`
	Models []rawModel `json:"models"`
}

type rawModel struct {
	Key         string `json:"key"`
	DisplayName string `json:"displayName"`
	APIName     string `json:"apiName"`
	Default     bool   `json:"default"`
}

// NewModelService loads the embedded provider/model catalog.
func NewModelService() (ModelService, error) {
	var raw rawModelFile
	if err := json.Unmarshal(assets.ModelsData, &raw); err != nil {
		return nil, fmt.Errorf("parse model catalog: %w", err)
	}

	s := &modelService{byKey: make(map[string]models.LLMModel)}
	for _, provider := range raw.Providers {
		for _, m := range provider.Models {
			key := strings.TrimSpace(m.Key)
			if key == "" {
				continue
			}
			entry := models.LLMModel{
				Key:          key,
				DisplayName:  m.DisplayName,
				APIName:      m.APIName,
				ProviderID:   provider.ID,
				ProviderName: provider.Name,
				Default:      m.Default,
			}
			s.byKey[key] = entry
			s.order = append(s.order, key)
			if m.Default && s.defaultKey == "" {
				s.defaultKey = key
			}
		}
	}
	if len(s.order) == 0 {
		return nil, fmt.Errorf("model catalog is empty")
	}
	if s.defaultKey == "" {
		s.defaultKey = s.order[0]
	}
	return s, nil
}

func (s *modelService) ListModels() []models.LLMModel {
	out := make([]models.LLMModel, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, s.byKey[key])
	}
	return out
}

func (s *modelService) GetModel(modelKey string) (*models.LLMModel, error) {
	modelKey = strings.TrimSpace(modelKey)
	if modelKey == "" {
		return s.DefaultModel()
	}
	m, ok := s.byKey[modelKey]
	if !ok {
		return nil, fmt.Errorf("model %s not found", modelKey)
	}
	return &m, nil
}

func (s *modelService) DefaultModel() (*models.LLMModel, error) {
	m, ok := s.byKey[s.defaultKey]
	if !ok {
		return nil, fmt.Errorf("no default model configured")
	}
	return &m, nil
}
