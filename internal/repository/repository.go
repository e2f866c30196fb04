package repository

import (
	"fmt"

	"github.com/sherifbea1/task-manager/internal/models"
	"github.com/sherifbea1/task-manager/internal/utils"
)

// ReferenceError is returned when a delete is blocked because live rows
// of a dependent kind still reference the entity. State is left unchanged.
type ReferenceError struct {
	Entity    string // kind being deleted
	Dependent string // kind holding the blocking references
	Count     int64  // number of blocking rows
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("cannot delete %s: referenced by %d %s(s)", e.Entity, e.Count, e.Dependent)
}

// TaskFilter holds filtering options for listing tasks.
// Every criterion is optional; all supplied criteria apply as a logical AND.
type TaskFilter struct {
	StatusID   *uint64
	ExecutorID *uint64
	LabelID    *uint64
	AuthorID   *uint64
	Pagination utils.PaginationParams
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// List returns all users, oldest first
	List() ([]models.User, error)

	// Update updates a user
	Update(user *models.User) error

	// Delete deletes a user. Authored tasks block the deletion with a
	// ReferenceError; executor assignments are cleared in the same
	// transaction instead of blocking.
	Delete(id uint64) error
}

// StatusRepository defines the interface for status data access
type StatusRepository interface {
	Create(status *models.Status) error
	FindByID(id uint64) (*models.Status, error)
	FindByName(name string) (*models.Status, error)
	List() ([]models.Status, error)
	Update(status *models.Status) error

	// Delete removes a status. Referencing tasks block the deletion
	// with a ReferenceError.
	Delete(id uint64) error
}

// LabelRepository defines the interface for label data access
type LabelRepository interface {
	Create(label *models.Label) error
	FindByID(id uint64) (*models.Label, error)
	FindByName(name string) (*models.Label, error)
	List() ([]models.Label, error)
	Update(label *models.Label) error

	// Delete removes a label. Tasks holding the label block the
	// deletion with a ReferenceError.
	Delete(id uint64) error
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a task together with its label association rows
	Create(task *models.Task, labelIDs []uint64) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks matching the filter, newest first
	List(filter TaskFilter) ([]models.Task, int64, error)

	// Update updates a task; a non-nil labelIDs replaces its label set
	Update(task *models.Task, labelIDs []uint64) error

	// Delete removes a task and its label association rows
	Delete(id uint64) error

	// CountLabelsByIDs counts how many of the given label IDs exist
	CountLabelsByIDs(labelIDs []uint64) (int64, error)

	// CountByStatusID counts live tasks referencing a status
	CountByStatusID(statusID uint64) (int64, error)

	// CountByAuthorID counts live tasks authored by a user
	CountByAuthorID(authorID uint64) (int64, error)
}
