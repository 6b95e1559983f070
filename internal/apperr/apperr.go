// Package apperr defines the error taxonomy shared by every domain service.
// Handlers translate these into HTTP statuses; services never downgrade one
// kind into another.
package apperr

import "fmt"

// ValidationError reports a field or cross-field invariant violation. The
// caller can correct the payload and resubmit. Details carries per-field
// context for form re-display and may be empty.
type ValidationError struct {
	Message string
	Details map[string]any
}

func (e *ValidationError) Error() string {
	return e.Message
}

func Validation(message string) *ValidationError {
	return &ValidationError{Message: message, Details: map[string]any{}}
}

func ValidationWithDetails(message string, details map[string]any) *ValidationError {
	if details == nil {
		details = map[string]any{}
	}
	return &ValidationError{Message: message, Details: details}
}

// NotFoundError reports a referenced identifier that does not exist.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func NotFound(format string, args ...any) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// InfrastructureError wraps an I/O or storage failure. Resubmitting the same
// payload does not help, so it maps to a server-side status.
type InfrastructureError struct {
	Message string
	Err     error
}

func (e *InfrastructureError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *InfrastructureError) Unwrap() error {
	return e.Err
}

func Infrastructure(message string, err error) *InfrastructureError {
	return &InfrastructureError{Message: message, Err: err}
}

// UnexpectedError is the catch-all for failures outside the taxonomy.
type UnexpectedError struct {
	Message string
	Err     error
}

func (e *UnexpectedError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *UnexpectedError) Unwrap() error {
	return e.Err
}

func Unexpected(message string, err error) *UnexpectedError {
	return &UnexpectedError{Message: message, Err: err}
}
