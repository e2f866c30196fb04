package dto

import (
	"time"

	"github.com/sherifbea1/task-manager/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID        uint64 `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email,omitempty"`
}

// StatusDTO represents a status in API responses
type StatusDTO struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// LabelDTO represents a label in API responses
type LabelDTO struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID          uint64     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	StatusID    uint64     `json:"status_id"`
	ExecutorID  *uint64    `json:"executor_id"`
	AuthorID    uint64     `json:"author_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Status      *StatusDTO `json:"status,omitempty"`
	Executor    *UserDTO   `json:"executor,omitempty"`
	Author      *UserDTO   `json:"author,omitempty"`
	Labels      []LabelDTO `json:"labels,omitempty"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks      []TaskDTO `json:"tasks"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalCount int64     `json:"total_count"`
}

// Conversion functions

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
	}
}

// ToStatusDTO converts a Status model to StatusDTO
func ToStatusDTO(status models.Status) StatusDTO {
	return StatusDTO{
		ID:        status.ID,
		Name:      status.Name,
		CreatedAt: status.CreatedAt,
	}
}

// ToLabelDTO converts a Label model to LabelDTO
func ToLabelDTO(label models.Label) LabelDTO {
	return LabelDTO{
		ID:        label.ID,
		Name:      label.Name,
		CreatedAt: label.CreatedAt,
	}
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:          task.ID,
		Name:        task.Name,
		Description: task.Description,
		StatusID:    task.StatusID,
		ExecutorID:  task.ExecutorID,
		AuthorID:    task.AuthorID,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}

	// Include relations only when preloaded
	if task.Status.ID != 0 {
		status := ToStatusDTO(task.Status)
		dto.Status = &status
	}
	if task.Executor != nil && task.Executor.ID != 0 {
		executor := ToUserDTO(*task.Executor)
		dto.Executor = &executor
	}
	if task.Author.ID != 0 {
		author := ToUserDTO(task.Author)
		dto.Author = &author
	}
	if len(task.Labels) > 0 {
		dto.Labels = make([]LabelDTO, len(task.Labels))
		for i, tl := range task.Labels {
			dto.Labels[i] = ToLabelDTO(tl.Label)
		}
	}

	return dto
}

// ToTaskListResponse converts a slice of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task, page, pageSize int, totalCount int64) TaskListResponse {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}

	return TaskListResponse{
		Tasks:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
	}
}
