package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sherifbea1/task-manager/internal/authz"
	"github.com/sherifbea1/task-manager/internal/constants"
	"github.com/sherifbea1/task-manager/internal/models"
	"github.com/sherifbea1/task-manager/internal/repository"
	"github.com/sherifbea1/task-manager/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound           = errors.New("task not found")
	ErrTaskNameRequired       = errors.New("task name is required")
	ErrTaskNameEmpty          = errors.New("task name cannot be empty")
	ErrTaskNameTooLong        = errors.New("task name too long")
	ErrInvalidStatus          = errors.New("status does not exist")
	ErrInvalidExecutor        = errors.New("executor does not exist")
	ErrInvalidLabel           = errors.New("one or more labels do not exist")
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAINoTasksGenerated     = errors.New("AI did not generate any tasks")
	ErrAINoValidTasks         = errors.New("no valid tasks could be created from AI output")
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo   repository.TaskRepository
	statusRepo repository.StatusRepository
	userRepo   repository.UserRepository
	aiService  *AIService
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, statusRepo repository.StatusRepository, userRepo repository.UserRepository, aiService *AIService) *TaskService {
	return &TaskService{
		taskRepo:   taskRepo,
		statusRepo: statusRepo,
		userRepo:   userRepo,
		aiService:  aiService,
	}
}

// ListTasksInput represents filters for listing tasks. Each criterion is
// optional; supplied criteria combine as a pure intersection, so their
// order never matters. An id that matches nothing yields an empty list.
type ListTasksInput struct {
	ActorID    uint64
	StatusID   *uint64
	ExecutorID *uint64
	LabelID    *uint64
	OnlyMine   bool
	Pagination utils.PaginationParams
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Name        string
	Description string
	StatusID    uint64
	ExecutorID  *uint64
	LabelIDs    []uint64
	AuthorID    uint64
}

// UpdateTaskInput represents input for updating a task. Nil fields are
// left untouched; the author is never updatable.
type UpdateTaskInput struct {
	Name          *string
	Description   *string
	StatusID      *uint64
	ExecutorID    *uint64
	ClearExecutor bool
	LabelIDs      []uint64
}

// ListTasks returns tasks matching the filters, newest first
func (s *TaskService) ListTasks(input ListTasksInput) ([]models.Task, int64, error) {
	filter := repository.TaskFilter{
		StatusID:   input.StatusID,
		ExecutorID: input.ExecutorID,
		LabelID:    input.LabelID,
		Pagination: input.Pagination,
	}

	if input.OnlyMine {
		filter.AuthorID = &input.ActorID
	}

	tasks, total, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// GetTask returns a task with related data
func (s *TaskService) GetTask(taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, "Status", "Author", "Executor", "Labels.Label")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return task, nil
}

// CreateTask creates a task. AuthorID always comes from the acting
// user; any author supplied in the request is ignored by the handler.
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	if input.Name == "" {
		return nil, ErrTaskNameRequired
	}
	if len(input.Name) > constants.MaxTaskNameLen {
		return nil, ErrTaskNameTooLong
	}

	if err := s.validateReferences(input.StatusID, input.ExecutorID, input.LabelIDs); err != nil {
		return nil, err
	}

	task := &models.Task{
		Name:        input.Name,
		Description: input.Description,
		StatusID:    input.StatusID,
		ExecutorID:  input.ExecutorID,
		AuthorID:    input.AuthorID,
	}

	if err := s.taskRepo.Create(task, uniqueUint64(input.LabelIDs)); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, "Status", "Author", "Executor", "Labels.Label")
}

// UpdateTask updates an existing task. Any authenticated user may
// update any task; only deletion is restricted to the author.
func (s *TaskService) UpdateTask(taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, ErrTaskNameEmpty
		}
		if len(*input.Name) > constants.MaxTaskNameLen {
			return nil, ErrTaskNameTooLong
		}
		task.Name = *input.Name
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.StatusID != nil {
		if err := s.ensureStatusExists(*input.StatusID); err != nil {
			return nil, err
		}
		task.StatusID = *input.StatusID
	}
	if input.ClearExecutor {
		task.ExecutorID = nil
	} else if input.ExecutorID != nil {
		if err := s.ensureExecutorExists(*input.ExecutorID); err != nil {
			return nil, err
		}
		task.ExecutorID = input.ExecutorID
	}

	var labelIDs []uint64
	if input.LabelIDs != nil {
		labelIDs = uniqueUint64(input.LabelIDs)
		if err := s.ensureLabelsExist(labelIDs); err != nil {
			return nil, err
		}
	}

	if err := s.taskRepo.Update(task, labelIDs); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, "Status", "Author", "Executor", "Labels.Label")
}

// DeleteTask deletes a task if the actor is its author
func (s *TaskService) DeleteTask(taskID, actorID uint64) error {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	if decision := authz.CanDeleteTask(actorID, task); !decision.Allowed {
		return authz.Denied(decision)
	}

	if err := s.taskRepo.Delete(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// GenerateTasksInput represents input for AI task generation
type GenerateTasksInput struct {
	Text    string
	ActorID uint64
}

// GenerateTasks uses AI to extract task drafts from free text
func (s *TaskService) GenerateTasks(ctx context.Context, input GenerateTasksInput) ([]GeneratedTask, error) {
	if s.aiService == nil {
		return nil, ErrAIServiceNotConfigured
	}

	aiTasks, err := s.aiService.GenerateTasksFromText(ctx, input.Text)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tasks: %w", err)
	}

	if len(aiTasks) == 0 {
		return nil, ErrAINoTasksGenerated
	}
	if len(aiTasks) > constants.MaxAIGeneratedTasks {
		return nil, fmt.Errorf("AI generated too many tasks (max %d)", constants.MaxAIGeneratedTasks)
	}

	validTasks := make([]GeneratedTask, 0, len(aiTasks))
	for _, aiTask := range aiTasks {
		if strings.TrimSpace(aiTask.Name) == "" {
			continue
		}
		if len(aiTask.Name) > constants.MaxTaskNameLen {
			aiTask.Name = aiTask.Name[:constants.MaxTaskNameLen]
		}
		validTasks = append(validTasks, aiTask)
	}

	if len(validTasks) == 0 {
		return nil, ErrAINoValidTasks
	}

	return validTasks, nil
}

func (s *TaskService) validateReferences(statusID uint64, executorID *uint64, labelIDs []uint64) error {
	if err := s.ensureStatusExists(statusID); err != nil {
		return err
	}
	if executorID != nil {
		if err := s.ensureExecutorExists(*executorID); err != nil {
			return err
		}
	}
	return s.ensureLabelsExist(uniqueUint64(labelIDs))
}

func (s *TaskService) ensureStatusExists(statusID uint64) error {
	if _, err := s.statusRepo.FindByID(statusID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidStatus
		}
		return fmt.Errorf("failed to verify status: %w", err)
	}
	return nil
}

func (s *TaskService) ensureExecutorExists(executorID uint64) error {
	if _, err := s.userRepo.FindByID(executorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidExecutor
		}
		return fmt.Errorf("failed to verify executor: %w", err)
	}
	return nil
}

func (s *TaskService) ensureLabelsExist(labelIDs []uint64) error {
	if len(labelIDs) == 0 {
		return nil
	}

	count, err := s.taskRepo.CountLabelsByIDs(labelIDs)
	if err != nil {
		return fmt.Errorf("failed to verify labels: %w", err)
	}
	if int(count) != len(labelIDs) {
		return ErrInvalidLabel
	}

	return nil
}

// uniqueUint64 removes duplicate values from a slice of uint64
func uniqueUint64(values []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(values))
	result := make([]uint64, 0, len(values))

	for _, v := range values {
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}
