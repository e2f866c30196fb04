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
	"github.com/sherifbea1/task-manager/internal/repository"
	"github.com/sherifbea1/task-manager/internal/services"
)

// UserHandler coordinates user account HTTP handlers.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// ListUsers returns all registered users.
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers()
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch users")
		return
	}

	userDTOs := make([]dto.UserDTO, len(users))
	for i, user := range users {
		userDTOs[i] = dto.ToUserDTO(user)
	}

	c.JSON(http.StatusOK, gin.H{"users": userDTOs})
}

// UpdateUser updates a user account. Accounts are self-managed: anyone
// else gets a NOT_SELF denial pointing back at the user list.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	actorID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	targetID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	target, err := h.userService.GetUser(targetID)
	if err != nil {
		respondUserError(c, err)
		return
	}

	if decision := authz.CanModifyUser(actorID, target); !decision.Allowed {
		apierrors.Denied(c, decision, "You can only edit your own account")
		return
	}

	type UpdateUserRequest struct {
		Username  *string `json:"username" binding:"omitempty,min=1,max=50"`
		FirstName *string `json:"first_name"`
		LastName  *string `json:"last_name"`
		Email     *string `json:"email" binding:"omitempty,email"`
		Password  *string `json:"password"`
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.UpdateUser(targetID, services.UpdateUserInput{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// DeleteUser deletes a user account. Self-only; blocked while the user
// has authored tasks. Executor assignments never block, they are
// detached instead.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	actorID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	targetID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	target, err := h.userService.GetUser(targetID)
	if err != nil {
		respondUserError(c, err)
		return
	}

	if decision := authz.CanModifyUser(actorID, target); !decision.Allowed {
		apierrors.Denied(c, decision, "You can only delete your own account")
		return
	}

	if err := h.userService.DeleteUser(targetID); err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

func respondUserError(c *gin.Context, err error) {
	var refErr *repository.ReferenceError
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrUsernameRequired):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrUsernameTaken):
		apierrors.AlreadyExists(c, err.Error())
	case errors.As(err, &refErr):
		apierrors.ReferenceProtected(c, "Cannot delete user because they authored tasks", refErr.Dependent, refErr.Count)
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
