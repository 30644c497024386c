package domain

import "fmt"

// ValidationError rejects malformed input: empty titles, mismatched reorder
// id sets, a subtask declaring its own recurrence.
type ValidationError struct {
	Reason string
}

func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Reason
}

// NotFoundError covers unknown or out-of-workspace task, template and
// workspace ids. Resources outside the caller's workspace are reported as
// missing, never as forbidden.
type NotFoundError struct {
	Resource string
	ID       uint64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

// ConflictError surfaces store-level uniqueness rejections, typically a
// sibling position collision.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return "conflict: " + e.Reason
}
