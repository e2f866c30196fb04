package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sherifbea1/task-manager/internal/authz"
	"github.com/sherifbea1/task-manager/internal/dto"
	apierrors "github.com/sherifbea1/task-manager/internal/errors"
	"github.com/sherifbea1/task-manager/internal/middleware"
	"github.com/sherifbea1/task-manager/internal/services"
	"github.com/sherifbea1/task-manager/internal/utils"
)

// TaskHandler coordinates task HTTP handlers.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns tasks filtered by the optional query criteria
// status, executor, labels and only_my. Criteria combine as an AND;
// an id that matches nothing yields an empty list, never an error.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	params := utils.GetPaginationParams(c)

	// Checkbox semantics: only_my filters on presence, whatever the value.
	input := services.ListTasksInput{
		ActorID:    userID,
		OnlyMine:   c.Query("only_my") != "",
		Pagination: params,
	}

	// Malformed ids degrade to "no matches" like unknown ids do.
	malformed := false
	parseCriterion := func(param string) *uint64 {
		raw := c.Query(param)
		if raw == "" {
			return nil
		}
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			malformed = true
			return nil
		}
		return &id
	}

	input.StatusID = parseCriterion("status")
	input.ExecutorID = parseCriterion("executor")
	input.LabelID = parseCriterion("labels")

	if malformed {
		c.JSON(http.StatusOK, dto.ToTaskListResponse(nil, params.Page, params.Limit, 0))
		return
	}

	tasks, total, err := h.taskService.ListTasks(input)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tasks"})
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, params.Page, params.Limit, total))
}

// GetTask returns a specific task by ID
func (h *TaskHandler) GetTask(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	task, err := h.taskService.GetTask(id)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// CreateTask creates a new task. The author is always the acting user;
// an author_id in the payload is ignored.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	type CreateTaskRequest struct {
		Name        string   `json:"name" binding:"required,max=255"`
		Description string   `json:"description"`
		StatusID    uint64   `json:"status_id" binding:"required"`
		ExecutorID  *uint64  `json:"executor_id"`
		LabelIDs    []uint64 `json:"label_ids"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	task, err := h.taskService.CreateTask(services.CreateTaskInput{
		Name:        req.Name,
		Description: req.Description,
		StatusID:    req.StatusID,
		ExecutorID:  req.ExecutorID,
		LabelIDs:    req.LabelIDs,
		AuthorID:    userID,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask updates an existing task. Any authenticated user may
// update any task; the author field is never touched.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	// Parse raw JSON to tell an absent executor_id from an explicit null
	var rawReq map[string]any
	if err := c.ShouldBindJSON(&rawReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	var input services.UpdateTaskInput

	// A present field with the wrong JSON type is a client error,
	// not something to silently skip.
	if name, ok := rawReq["name"]; ok {
		nameStr, ok := name.(string)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name must be a string"})
			return
		}
		input.Name = &nameStr
	}
	if description, ok := rawReq["description"]; ok {
		descStr, ok := description.(string)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "description must be a string"})
			return
		}
		input.Description = &descStr
	}
	if statusRaw, ok := rawReq["status_id"]; ok {
		statusNum, ok := statusRaw.(float64)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "status_id must be a number"})
			return
		}
		statusID := uint64(statusNum)
		input.StatusID = &statusID
	}
	if executorRaw, ok := rawReq["executor_id"]; ok {
		if executorRaw == nil {
			input.ClearExecutor = true
		} else {
			executorNum, ok := executorRaw.(float64)
			if !ok {
				c.JSON(http.StatusBadRequest, gin.H{"error": "executor_id must be a number or null"})
				return
			}
			executorID := uint64(executorNum)
			input.ExecutorID = &executorID
		}
	}
	if labelsRaw, ok := rawReq["label_ids"]; ok {
		list, ok := labelsRaw.([]any)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "label_ids must be an array of numbers"})
			return
		}
		labelIDs := make([]uint64, 0, len(list))
		for _, v := range list {
			num, ok := v.(float64)
			if !ok {
				c.JSON(http.StatusBadRequest, gin.H{"error": "label_ids must be an array of numbers"})
				return
			}
			labelIDs = append(labelIDs, uint64(num))
		}
		input.LabelIDs = labelIDs
	}

	task, err := h.taskService.UpdateTask(id, input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask deletes a task. Author only.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	if err := h.taskService.DeleteTask(id, userID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

// GenerateTasks extracts task drafts from free text via the AI service
func (h *TaskHandler) GenerateTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	type GenerateTasksRequest struct {
		Text string `json:"text" binding:"required"`
	}

	var req GenerateTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	tasks, err := h.taskService.GenerateTasks(c.Request.Context(), services.GenerateTasksInput{
		Text:    req.Text,
		ActorID: userID,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

func respondTaskError(c *gin.Context, err error) {
	var deniedErr *authz.DeniedError
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrTaskNameRequired),
		errors.Is(err, services.ErrTaskNameEmpty),
		errors.Is(err, services.ErrTaskNameTooLong),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidExecutor),
		errors.Is(err, services.ErrInvalidLabel):
		apierrors.BadRequest(c, err.Error())
	case errors.As(err, &deniedErr):
		apierrors.Denied(c, deniedErr.Decision, "Only the task author can delete it")
	case errors.Is(err, services.ErrAIServiceNotConfigured):
		apierrors.RespondWithError(c, http.StatusServiceUnavailable,
			apierrors.NewAPIError(apierrors.ErrCodeServiceUnavailable, err.Error()))
	case errors.Is(err, services.ErrAINoTasksGenerated), errors.Is(err, services.ErrAINoValidTasks):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
