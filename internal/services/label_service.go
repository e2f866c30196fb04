package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sherifbea1/task-manager/internal/constants"
	"github.com/sherifbea1/task-manager/internal/models"
	"github.com/sherifbea1/task-manager/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrLabelNotFound    = errors.New("label not found")
	ErrLabelNameEmpty   = errors.New("label name cannot be empty")
	ErrLabelNameTooLong = errors.New("label name too long")
	ErrLabelNameTaken   = errors.New("label name already exists")
)

// LabelService provides business logic for task labels.
type LabelService struct {
	labelRepo repository.LabelRepository
}

// NewLabelService creates a new LabelService.
func NewLabelService(labelRepo repository.LabelRepository) *LabelService {
	return &LabelService{
		labelRepo: labelRepo,
	}
}

// ListLabels returns all labels.
func (s *LabelService) ListLabels() ([]models.Label, error) {
	labels, err := s.labelRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list labels: %w", err)
	}
	return labels, nil
}

// CreateLabel creates a new label.
func (s *LabelService) CreateLabel(name string) (*models.Label, error) {
	name = strings.TrimSpace(name)
	if err := s.validateName(name, 0); err != nil {
		return nil, err
	}

	label := &models.Label{Name: name}
	if err := s.labelRepo.Create(label); err != nil {
		return nil, fmt.Errorf("failed to create label: %w", err)
	}

	return label, nil
}

// UpdateLabel renames a label. CreatedAt is never touched.
func (s *LabelService) UpdateLabel(id uint64, name string) (*models.Label, error) {
	label, err := s.labelRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLabelNotFound
		}
		return nil, fmt.Errorf("failed to find label: %w", err)
	}

	name = strings.TrimSpace(name)
	if err := s.validateName(name, id); err != nil {
		return nil, err
	}

	label.Name = name
	if err := s.labelRepo.Update(label); err != nil {
		return nil, fmt.Errorf("failed to update label: %w", err)
	}

	return label, nil
}

// DeleteLabel removes a label unless a task still holds it.
func (s *LabelService) DeleteLabel(id uint64) error {
	if _, err := s.labelRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLabelNotFound
		}
		return fmt.Errorf("failed to find label: %w", err)
	}

	if err := s.labelRepo.Delete(id); err != nil {
		var refErr *repository.ReferenceError
		if errors.As(err, &refErr) {
			return err
		}
		return fmt.Errorf("failed to delete label: %w", err)
	}

	return nil
}

func (s *LabelService) validateName(name string, selfID uint64) error {
	if name == "" {
		return ErrLabelNameEmpty
	}
	if len(name) > constants.MaxLabelNameLen {
		return ErrLabelNameTooLong
	}

	existing, err := s.labelRepo.FindByName(name)
	if err == nil && existing.ID != selfID {
		return ErrLabelNameTaken
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check label name: %w", err)
	}

	return nil
}
