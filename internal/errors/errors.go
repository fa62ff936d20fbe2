package errors

import (
	stderrors "errors"
	"fmt"
)

// Error codes
const (
	ErrCodeEmptyPool       = "EMPTY_POOL"
	ErrCodeMissingQuestion = "MISSING_QUESTION"
	ErrCodeInvalidState    = "INVALID_STATE"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeInternal        = "INTERNAL_ERROR"
)

// AppError represents an application error with HTTP status code and error code
type AppError struct {
	Code    string // Error code (e.g., "EMPTY_POOL", "NOT_FOUND")
	Message string // Human-readable error message
	Status  int    // HTTP status code
	Err     error  // Wrapped underlying error (optional)
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error wrapping support
func (e *AppError) Unwrap() error {
	return e.Err
}

// IsCode reports whether err is an AppError with the given code.
func IsCode(err error, code string) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// NewEmptyPoolError signals that no candidates remain after filtering.
// Recoverable: callers decide fallback behavior (switch mode, widen filter).
func NewEmptyPoolError(mode string) *AppError {
	return &AppError{
		Code:    ErrCodeEmptyPool,
		Message: fmt.Sprintf("no candidate questions for mode %q after filtering", mode),
		Status:  409,
	}
}

// NewMissingQuestionError signals data-integrity drift: a scheduled id has
// no question store entry. Surfaced, never auto-repaired.
func NewMissingQuestionError(questionID string) *AppError {
	return &AppError{
		Code:    ErrCodeMissingQuestion,
		Message: fmt.Sprintf("scheduled question %q not present in question store", questionID),
		Status:  500,
	}
}

// NewInvalidStateError marks a persisted mastery state that violates an
// invariant. Callers reset the state to new rather than failing the study flow.
func NewInvalidStateError(questionID string, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidState,
		Message: fmt.Sprintf("mastery state for %q invalid: %s", questionID, reason),
		Status:  500,
	}
}

// NewNotFoundError creates a new NOT_FOUND error
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, id),
		Status:  404,
	}
}

// NewValidationError creates a new VALIDATION_ERROR
func NewValidationError(field string, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf("validation failed for %s: %s", field, reason),
		Status:  400,
	}
}

// NewBadRequestError creates a new BAD_REQUEST error
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Status:  400,
	}
}

// NewInternalError creates a new INTERNAL_ERROR
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "internal server error",
		Status:  500,
		Err:     err,
	}
}
