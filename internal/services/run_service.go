package services

import (
	"fmt"

	"repodocs/internal/models"
	"repodocs/internal/repositories"
)

type RunService interface {
	Create(run *models.GenerationRun) (*models.GenerationRun, error)
	GetByID(id uint) (*models.GenerationRun, error)
	GetByKey(runKey string) (*models.GenerationRun, error)
	List(limit int) ([]models.GenerationRun, error)
	UpdateByID(id uint, updates map[string]interface{}) error
}

type runService struct {
	repo repositories.GenerationRunRepository
}

func NewRunService(repo repositories.GenerationRunRepository) RunService {
	return &runService{repo: repo}
}

func (s *runService) Create(run *models.GenerationRun) (*models.GenerationRun, error) {
	if run == nil {
		return nil, fmt.Errorf("run is required")
	}
	return s.repo.Create(run)
}

func (s *runService) GetByID(id uint) (*models.GenerationRun, error) {
	if id == 0 {
		return nil, fmt.Errorf("run ID is required")
	}
	return s.repo.GetByID(id)
}

func (s *runService) GetByKey(runKey string) (*models.GenerationRun, error) {
	if runKey == "" {
		return nil, fmt.Errorf("run key is required")
	}
	return s.repo.GetByKey(runKey)
}

func (s *runService) List(limit int) ([]models.GenerationRun, error) {
	return s.repo.List(limit)
}

func (s *runService) UpdateByID(id uint, updates map[string]interface{}) error {
	if id == 0 {
		return fmt.Errorf("run ID is required")
	}
	return s.repo.UpdateByID(id, updates)
}
