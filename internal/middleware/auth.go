package middleware

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/sherifbea1/task-manager/internal/authz"
	"github.com/sherifbea1/task-manager/internal/constants"
)

// RequireAuth checks if the user is authenticated via session.
// Denials carry the login redirect plus the original destination, so
// the client can deep-link back after login.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID := session.Get(constants.ContextKeyUserID)

		if userID == nil {
			decision := authz.Unauthenticated
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":     decision.Reason,
				"message":  "Authentication required",
				"redirect": decision.Redirect,
				"next":     c.Request.URL.RequestURI(),
			})
			c.Abort()
			return
		}

		// Store user ID in context for easy access in handlers
		c.Set(constants.ContextKeyUserID, userID)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := userID.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}
