package authz

// DeniedError carries a Deny decision through an error return, so
// services can refuse an operation without importing the HTTP layer.
type DeniedError struct {
	Decision Decision
}

func (e *DeniedError) Error() string {
	return "permission denied: " + e.Decision.Reason
}

// Denied wraps a decision in a DeniedError.
func Denied(d Decision) *DeniedError {
	return &DeniedError{Decision: d}
}
