package repository

import (
	"github.com/sherifbea1/task-manager/internal/models"
	"gorm.io/gorm"
)

// GormStatusRepository is a GORM implementation of StatusRepository
type GormStatusRepository struct {
	db *gorm.DB
}

// NewStatusRepository creates a new StatusRepository
func NewStatusRepository(db *gorm.DB) StatusRepository {
	return &GormStatusRepository{db: db}
}

// Create creates a new status
func (r *GormStatusRepository) Create(status *models.Status) error {
	return r.db.Create(status).Error
}

// FindByID finds a status by ID
func (r *GormStatusRepository) FindByID(id uint64) (*models.Status, error) {
	var status models.Status
	if err := r.db.First(&status, id).Error; err != nil {
		return nil, err
	}
	return &status, nil
}

// FindByName finds a status by name
func (r *GormStatusRepository) FindByName(name string) (*models.Status, error) {
	var status models.Status
	if err := r.db.Where("name = ?", name).First(&status).Error; err != nil {
		return nil, err
	}
	return &status, nil
}

// List returns all statuses, oldest first
func (r *GormStatusRepository) List() ([]models.Status, error) {
	var statuses []models.Status
	if err := r.db.Order("statuses.id ASC").Find(&statuses).Error; err != nil {
		return nil, err
	}
	return statuses, nil
}

// Update updates a status
func (r *GormStatusRepository) Update(status *models.Status) error {
	return r.db.Save(status).Error
}

// Delete removes a status unless live tasks still reference it.
// Check and delete run in one transaction.
func (r *GormStatusRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var referencing int64
		if err := tx.Model(&models.Task{}).Where("status_id = ?", id).Count(&referencing).Error; err != nil {
			return err
		}
		if referencing > 0 {
			return &ReferenceError{Entity: "status", Dependent: "task", Count: referencing}
		}

		return tx.Delete(&models.Status{}, id).Error
	})
}
