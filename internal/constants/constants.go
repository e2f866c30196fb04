package constants

// Session
const (
	SessionCookieName = "task_session"
	ContextKeyUserID  = "user_id"
)

// Validation limits
const (
	MinPasswordLength = 3
	MaxUsernameLength = 50
	MaxStatusNameLen  = 100
	MaxLabelNameLen   = 100
	MaxTaskNameLen    = 255
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// AI task generation
const MaxAIGeneratedTasks = 20
