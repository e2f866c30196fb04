package repository

import (
	"github.com/sherifbea1/task-manager/internal/database"
	"github.com/sherifbea1/task-manager/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a task and its label rows in one transaction
func (r *GormTaskRepository) Create(task *models.Task, labelIDs []uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(task).Error; err != nil {
			return err
		}

		return createTaskLabels(tx, task.ID, labelIDs)
	})
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// List retrieves tasks matching the filter, most recently created first.
// Criteria are an intersection: each supplied criterion adds one WHERE
// clause, so application order never changes the result set. An id that
// matches nothing yields an empty list, not an error.
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, int64, error) {
	var tasks []models.Task

	query := r.db.Model(&models.Task{})

	if filter.StatusID != nil {
		query = query.Where("tasks.status_id = ?", *filter.StatusID)
	}
	if filter.ExecutorID != nil {
		query = query.Where("tasks.executor_id = ?", *filter.ExecutorID)
	}
	if filter.AuthorID != nil {
		query = query.Where("tasks.author_id = ?", *filter.AuthorID)
	}
	if filter.LabelID != nil {
		labelSubQuery := r.db.Model(&models.TaskLabel{}).
			Select("1").
			Where("task_labels.task_id = tasks.id").
			Where("task_labels.label_id = ?", *filter.LabelID).
			Where("task_labels.deleted_at IS NULL")
		query = query.Where("EXISTS (?)", labelSubQuery)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("tasks.created_at DESC, tasks.id DESC")

	if filter.Pagination.Limit > 0 {
		listQuery = listQuery.Scopes(database.Paginate(filter.Pagination))
	}

	if err := listQuery.
		Preload("Status").
		Preload("Author").
		Preload("Executor").
		Preload("Labels.Label").
		Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// Update saves a task; a non-nil labelIDs replaces its label rows
// in the same transaction
func (r *GormTaskRepository) Update(task *models.Task, labelIDs []uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(task).Error; err != nil {
			return err
		}

		if labelIDs == nil {
			return nil
		}

		if err := tx.Where("task_id = ?", task.ID).Delete(&models.TaskLabel{}).Error; err != nil {
			return err
		}

		return createTaskLabels(tx, task.ID, labelIDs)
	})
}

// Delete removes a task and its label rows atomically
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.TaskLabel{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Task{}, id).Error
	})
}

// CountLabelsByIDs counts how many of the given label IDs exist
func (r *GormTaskRepository) CountLabelsByIDs(labelIDs []uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.Label{}).Where("id IN ?", labelIDs).Count(&count).Error
	return count, err
}

// CountByStatusID counts live tasks referencing a status
func (r *GormTaskRepository) CountByStatusID(statusID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.Task{}).Where("status_id = ?", statusID).Count(&count).Error
	return count, err
}

// CountByAuthorID counts live tasks authored by a user
func (r *GormTaskRepository) CountByAuthorID(authorID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.Task{}).Where("author_id = ?", authorID).Count(&count).Error
	return count, err
}

func createTaskLabels(tx *gorm.DB, taskID uint64, labelIDs []uint64) error {
	if len(labelIDs) == 0 {
		return nil
	}

	rows := make([]models.TaskLabel, len(labelIDs))
	for i, labelID := range labelIDs {
		rows[i] = models.TaskLabel{
			TaskID:  taskID,
			LabelID: labelID,
		}
	}

	// Re-adding a label that was previously removed revives the soft-deleted row.
	return tx.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "task_id"}, {Name: "label_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"deleted_at": gorm.Expr("NULL")}),
		}).
		Create(&rows).Error
}
