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
	ErrStatusNotFound    = errors.New("status not found")
	ErrStatusNameEmpty   = errors.New("status name cannot be empty")
	ErrStatusNameTooLong = errors.New("status name too long")
	ErrStatusNameTaken   = errors.New("status name already exists")
)

// StatusService provides business logic for task statuses.
type StatusService struct {
	statusRepo repository.StatusRepository
}

// NewStatusService creates a new StatusService.
func NewStatusService(statusRepo repository.StatusRepository) *StatusService {
	return &StatusService{
		statusRepo: statusRepo,
	}
}

// ListStatuses returns all statuses.
func (s *StatusService) ListStatuses() ([]models.Status, error) {
	statuses, err := s.statusRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list statuses: %w", err)
	}
	return statuses, nil
}

// CreateStatus creates a new status.
func (s *StatusService) CreateStatus(name string) (*models.Status, error) {
	name = strings.TrimSpace(name)
	if err := s.validateName(name, 0); err != nil {
		return nil, err
	}

	status := &models.Status{Name: name}
	if err := s.statusRepo.Create(status); err != nil {
		return nil, fmt.Errorf("failed to create status: %w", err)
	}

	return status, nil
}

// UpdateStatus renames a status.
func (s *StatusService) UpdateStatus(id uint64, name string) (*models.Status, error) {
	status, err := s.statusRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStatusNotFound
		}
		return nil, fmt.Errorf("failed to find status: %w", err)
	}

	name = strings.TrimSpace(name)
	if err := s.validateName(name, id); err != nil {
		return nil, err
	}

	status.Name = name
	if err := s.statusRepo.Update(status); err != nil {
		return nil, fmt.Errorf("failed to update status: %w", err)
	}

	return status, nil
}

// DeleteStatus removes a status unless tasks still reference it.
func (s *StatusService) DeleteStatus(id uint64) error {
	if _, err := s.statusRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStatusNotFound
		}
		return fmt.Errorf("failed to find status: %w", err)
	}

	if err := s.statusRepo.Delete(id); err != nil {
		var refErr *repository.ReferenceError
		if errors.As(err, &refErr) {
			return err
		}
		return fmt.Errorf("failed to delete status: %w", err)
	}

	return nil
}

func (s *StatusService) validateName(name string, selfID uint64) error {
	if name == "" {
		return ErrStatusNameEmpty
	}
	if len(name) > constants.MaxStatusNameLen {
		return ErrStatusNameTooLong
	}

	existing, err := s.statusRepo.FindByName(name)
	if err == nil && existing.ID != selfID {
		return ErrStatusNameTaken
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check status name: %w", err)
	}

	return nil
}
