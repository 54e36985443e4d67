package repositories

import (
	"barber_backend/internal/models"

	"gorm.io/gorm"
)

type ImportRunRepository interface {
	Create(db *gorm.DB, run *models.ImportRun) error
	FindRecent(db *gorm.DB, limit int) ([]models.ImportRun, error)
}

type ImportRunRepositoryImpl struct{}

func NewImportRunRepository() ImportRunRepository {
	return &ImportRunRepositoryImpl{}
}

func (r *ImportRunRepositoryImpl) Create(db *gorm.DB, run *models.ImportRun) error {
	return db.Create(run).Error
}

func (r *ImportRunRepositoryImpl) FindRecent(db *gorm.DB, limit int) ([]models.ImportRun, error) {
	var runs []models.ImportRun
	err := db.Order("started_at DESC").Order("id DESC").Limit(limit).Find(&runs).Error
	return runs, err
}
