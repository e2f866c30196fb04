// Package authz holds the access policy for every guarded operation:
// an explicit Allow/Deny decision table instead of boolean checks
// scattered across handlers. Each Deny carries a stable reason code and
// the view the client should be sent back to.
package authz

import "github.com/sherifbea1/task-manager/internal/models"

// Deny reason codes. These are part of the API contract: the
// presentation layer maps each code to a distinct flash message.
const (
	ReasonUnauthenticated = "UNAUTHENTICATED"
	ReasonNotSelf         = "NOT_SELF"
	ReasonNotAuthor       = "NOT_AUTHOR"
)

// Recovery redirect targets.
const (
	RedirectLogin    = "/login"
	RedirectUserList = "/users"
	RedirectTaskList = "/tasks"
)

// Decision is the result of an authorization check.
type Decision struct {
	Allowed  bool
	Reason   string
	Redirect string
}

// Allow is the positive decision.
var Allow = Decision{Allowed: true}

func deny(reason, redirect string) Decision {
	return Decision{Reason: reason, Redirect: redirect}
}

// Unauthenticated is the decision for requests without a session user.
var Unauthenticated = deny(ReasonUnauthenticated, RedirectLogin)

// CanModifyUser reports whether the actor may update or delete a user
// account. Accounts are strictly self-managed.
func CanModifyUser(actorID uint64, target *models.User) Decision {
	if target.ID != actorID {
		return deny(ReasonNotSelf, RedirectUserList)
	}
	return Allow
}

// CanDeleteTask reports whether the actor may delete a task. Only the
// author can; updates deliberately carry no such restriction.
func CanDeleteTask(actorID uint64, task *models.Task) Decision {
	if task.AuthorID != actorID {
		return deny(ReasonNotAuthor, RedirectTaskList)
	}
	return Allow
}
