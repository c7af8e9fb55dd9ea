package service

import "fmt"

// ValidationError indicates that caller-supplied input violated a
// precondition before reaching the store. The message is safe to return
// to clients.
type ValidationError struct {
	Message string
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a new ValidationError with the given message.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// NotFoundError indicates that a referenced task does not exist at the
// time of the operation. The message is safe to return to clients.
type NotFoundError struct {
	Message string
}

// Error implements the error interface for NotFoundError.
func (e *NotFoundError) Error() string {
	return e.Message
}

// NewNotFoundError creates a new NotFoundError with the given message.
func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{Message: message}
}

// TaskServiceError wraps unexpected failures from the store so that
// storage-internal detail never escapes to callers. The wrapped cause is
// for logs only.
type TaskServiceError struct {
	// Operation is the operation that failed (e.g., "create", "search")
	Operation string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for TaskServiceError.
func (e *TaskServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("task service %s failed: %v", e.Operation, e.Err)
	}
	return fmt.Sprintf("task service %s failed", e.Operation)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *TaskServiceError) Unwrap() error {
	return e.Err
}
