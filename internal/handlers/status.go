package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sherifbea1/task-manager/internal/dto"
	apierrors "github.com/sherifbea1/task-manager/internal/errors"
	"github.com/sherifbea1/task-manager/internal/repository"
	"github.com/sherifbea1/task-manager/internal/services"
)

// StatusHandler coordinates task status HTTP handlers.
type StatusHandler struct {
	statusService *services.StatusService
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler(statusService *services.StatusService) *StatusHandler {
	return &StatusHandler{
		statusService: statusService,
	}
}

// ListStatuses returns all statuses.
func (h *StatusHandler) ListStatuses(c *gin.Context) {
	statuses, err := h.statusService.ListStatuses()
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch statuses")
		return
	}

	statusDTOs := make([]dto.StatusDTO, len(statuses))
	for i, status := range statuses {
		statusDTOs[i] = dto.ToStatusDTO(status)
	}

	c.JSON(http.StatusOK, gin.H{"statuses": statusDTOs})
}

// CreateStatus creates a new status.
func (h *StatusHandler) CreateStatus(c *gin.Context) {
	type CreateStatusRequest struct {
		Name string `json:"name" binding:"required,max=100"`
	}

	var req CreateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	status, err := h.statusService.CreateStatus(req.Name)
	if err != nil {
		respondStatusError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToStatusDTO(*status))
}

// UpdateStatus renames a status. Any authenticated user may do it.
func (h *StatusHandler) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid status ID")
		return
	}

	type UpdateStatusRequest struct {
		Name string `json:"name" binding:"required,max=100"`
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	status, err := h.statusService.UpdateStatus(id, req.Name)
	if err != nil {
		respondStatusError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToStatusDTO(*status))
}

// DeleteStatus removes a status unless tasks still reference it.
func (h *StatusHandler) DeleteStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid status ID")
		return
	}

	if err := h.statusService.DeleteStatus(id); err != nil {
		respondStatusError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Status deleted successfully"})
}

func respondStatusError(c *gin.Context, err error) {
	var refErr *repository.ReferenceError
	switch {
	case errors.Is(err, services.ErrStatusNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrStatusNameEmpty), errors.Is(err, services.ErrStatusNameTooLong):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrStatusNameTaken):
		apierrors.AlreadyExists(c, err.Error())
	case errors.As(err, &refErr):
		apierrors.ReferenceProtected(c, "Cannot delete status because it is in use", refErr.Dependent, refErr.Count)
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
