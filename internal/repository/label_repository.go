package repository

import (
	"github.com/sherifbea1/task-manager/internal/models"
	"gorm.io/gorm"
)

// GormLabelRepository is a GORM implementation of LabelRepository
type GormLabelRepository struct {
	db *gorm.DB
}

// NewLabelRepository creates a new LabelRepository
func NewLabelRepository(db *gorm.DB) LabelRepository {
	return &GormLabelRepository{db: db}
}

// Create creates a new label
func (r *GormLabelRepository) Create(label *models.Label) error {
	return r.db.Create(label).Error
}

// FindByID finds a label by ID
func (r *GormLabelRepository) FindByID(id uint64) (*models.Label, error) {
	var label models.Label
	if err := r.db.First(&label, id).Error; err != nil {
		return nil, err
	}
	return &label, nil
}

// FindByName finds a label by name
func (r *GormLabelRepository) FindByName(name string) (*models.Label, error) {
	var label models.Label
	if err := r.db.Where("name = ?", name).First(&label).Error; err != nil {
		return nil, err
	}
	return &label, nil
}

// List returns all labels, oldest first
func (r *GormLabelRepository) List() ([]models.Label, error) {
	var labels []models.Label
	if err := r.db.Order("labels.id ASC").Find(&labels).Error; err != nil {
		return nil, err
	}
	return labels, nil
}

// Update updates a label
func (r *GormLabelRepository) Update(label *models.Label) error {
	return r.db.Save(label).Error
}

// Delete removes a label unless a live task still holds it.
// Check and delete run in one transaction.
func (r *GormLabelRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var referencing int64
		if err := tx.Model(&models.TaskLabel{}).Where("label_id = ?", id).Count(&referencing).Error; err != nil {
			return err
		}
		if referencing > 0 {
			return &ReferenceError{Entity: "label", Dependent: "task", Count: referencing}
		}

		return tx.Delete(&models.Label{}, id).Error
	})
}
