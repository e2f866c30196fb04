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

// LabelHandler coordinates task label HTTP handlers.
type LabelHandler struct {
	labelService *services.LabelService
}

// NewLabelHandler creates a new LabelHandler.
func NewLabelHandler(labelService *services.LabelService) *LabelHandler {
	return &LabelHandler{
		labelService: labelService,
	}
}

// ListLabels returns all labels.
func (h *LabelHandler) ListLabels(c *gin.Context) {
	labels, err := h.labelService.ListLabels()
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch labels")
		return
	}

	labelDTOs := make([]dto.LabelDTO, len(labels))
	for i, label := range labels {
		labelDTOs[i] = dto.ToLabelDTO(label)
	}

	c.JSON(http.StatusOK, gin.H{"labels": labelDTOs})
}

// CreateLabel creates a new label.
func (h *LabelHandler) CreateLabel(c *gin.Context) {
	type CreateLabelRequest struct {
		Name string `json:"name" binding:"required,max=100"`
	}

	var req CreateLabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	label, err := h.labelService.CreateLabel(req.Name)
	if err != nil {
		respondLabelError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToLabelDTO(*label))
}

// UpdateLabel renames a label.
func (h *LabelHandler) UpdateLabel(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid label ID")
		return
	}

	type UpdateLabelRequest struct {
		Name string `json:"name" binding:"required,max=100"`
	}

	var req UpdateLabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	label, err := h.labelService.UpdateLabel(id, req.Name)
	if err != nil {
		respondLabelError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToLabelDTO(*label))
}

// DeleteLabel removes a label unless a task still holds it.
func (h *LabelHandler) DeleteLabel(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid label ID")
		return
	}

	if err := h.labelService.DeleteLabel(id); err != nil {
		respondLabelError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Label deleted successfully"})
}

func respondLabelError(c *gin.Context, err error) {
	var refErr *repository.ReferenceError
	switch {
	case errors.Is(err, services.ErrLabelNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrLabelNameEmpty), errors.Is(err, services.ErrLabelNameTooLong):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrLabelNameTaken):
		apierrors.AlreadyExists(c, err.Error())
	case errors.As(err, &refErr):
		apierrors.ReferenceProtected(c, "Cannot delete label because it is in use", refErr.Dependent, refErr.Count)
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
