package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a mealfind error code.
type ErrorCode string

const (
	ErrEmptyInput     ErrorCode = "EMPTY_INPUT"     // 400
	ErrInvalidRequest ErrorCode = "INVALID_REQUEST" // 400
	ErrNotFound       ErrorCode = "NOT_FOUND"       // 404
	ErrSearchFailed   ErrorCode = "SEARCH_FAILED"   // 502
	ErrStorageFailed  ErrorCode = "STORAGE_FAILED"  // 507
	ErrInternal       ErrorCode = "INTERNAL"        // 500
)

// MealError represents a structured error with code, status, and details.
type MealError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any

	cause error
}

// Error implements the error interface.
func (e *MealError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *MealError) Unwrap() error {
	return e.cause
}

// NewEmptyInput creates a 400 error for a blank search query.
func NewEmptyInput() *MealError {
	return &MealError{
		Code:    ErrEmptyInput,
		Status:  400,
		Message: "search query must not be empty",
	}
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *MealError {
	return &MealError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for when a recipe cannot be found.
func NewNotFound(id string) *MealError {
	return &MealError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("recipe not found: %s", id),
		Details: map[string]any{"id": id},
	}
}

// NewSearchFailed creates a 502 error for a transport or parse failure while
// talking to the recipe API. The message is user-facing; the cause is kept
// for logging only.
func NewSearchFailed(err error) *MealError {
	return &MealError{
		Code:    ErrSearchFailed,
		Status:  502,
		Message: "search failed, try again",
		cause:   err,
	}
}

// NewStorageFailed creates a 507 error when the favorites store cannot persist.
func NewStorageFailed(err error) *MealError {
	msg := "could not save favorites"
	if err != nil {
		msg = fmt.Sprintf("could not save favorites: %v", err)
	}
	return &MealError{
		Code:    ErrStorageFailed,
		Status:  507,
		Message: msg,
		cause:   err,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *MealError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &MealError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
		cause:   err,
	}
}

// Is checks if an error is (or wraps) a MealError with the given code.
func Is(err error, code ErrorCode) bool {
	var mErr *MealError
	if stderrors.As(err, &mErr) {
		return mErr.Code == code
	}
	return false
}

// As extracts a MealError from err, converting unknown errors to INTERNAL.
func As(err error) *MealError {
	var mErr *MealError
	if stderrors.As(err, &mErr) {
		return mErr
	}
	return NewInternal(err)
}
