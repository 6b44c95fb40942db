package repositories

import (
	"errors"

	"gorm.io/gorm"

	"repodocs/internal/models"
)

type GenerationRunRepository interface {
	Create(run *models.GenerationRun) (*models.GenerationRun, error)
	GetByID(id uint) (*models.GenerationRun, error)
	GetByKey(runKey string) (*models.GenerationRun, error)
	List(limit int) ([]models.GenerationRun, error)
	UpdateByID(id uint, updates map[string]interface{}) error
}

type generationRunRepository struct {
	db *gorm.DB
}

func NewGenerationRunRepository(db *gorm.DB) GenerationRunRepository {
	return &generationRunRepository{db: db}
}

func (r *generationRunRepository) Create(run *models.GenerationRun) (*models.GenerationRun, error) {
	if err := r.db.Create(run).Error; err != nil {
		return nil, err
	}
	return run, nil
}

func (r *generationRunRepository) GetByID(id uint) (*models.GenerationRun, error) {
	var run models.GenerationRun
	if err := r.db.First(&run, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &run, nil
}

func (r *generationRunRepository) GetByKey(runKey string) (*models.GenerationRun, error) {
	var run models.GenerationRun
	if err := r.db.Where("run_key = ?", runKey).First(&run).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &run, nil
}

func (r *generationRunRepository) List(limit int) ([]models.GenerationRun, error) {
	if limit <= 0 {
		limit = 50
	}
	var runs []models.GenerationRun
	if err := r.db.Order("created_at DESC").Limit(limit).Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}

func (r *generationRunRepository) UpdateByID(id uint, updates map[string]interface{}) error {
	return r.db.Model(&models.GenerationRun{}).Where("id = ?", id).Updates(updates).Error
}
