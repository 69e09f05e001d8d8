package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// AppError is the error type every service returns to the HTTP layer.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	Status  int    `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details == "" {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
}

// Is reports whether target is an AppError with the same code, so that
// errors.Is(err, errors.ErrAlreadyCheckedIn) works on constructed values.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Common error codes
const (
	CodeUnauthenticated   = "UNAUTHENTICATED"
	CodeForbidden         = "FORBIDDEN"
	CodeAlreadyCheckedIn  = "ALREADY_CHECKED_IN"
	CodeNotCheckedIn      = "NOT_CHECKED_IN"
	CodeAlreadyCheckedOut = "ALREADY_CHECKED_OUT"
	CodeInvalidCheckOut   = "INVALID_CHECK_OUT"
	CodeValidation        = "VALIDATION_ERROR"
	CodeNotFound          = "NOT_FOUND"
	CodeConflict          = "CONFLICT"
	CodeStoreUnavailable  = "STORE_UNAVAILABLE"
	CodeInternalError     = "INTERNAL_ERROR"
)

// Sentinels for errors.Is comparisons.
var (
	ErrUnauthenticated   = &AppError{Code: CodeUnauthenticated}
	ErrForbidden         = &AppError{Code: CodeForbidden}
	ErrAlreadyCheckedIn  = &AppError{Code: CodeAlreadyCheckedIn}
	ErrNotCheckedIn      = &AppError{Code: CodeNotCheckedIn}
	ErrAlreadyCheckedOut = &AppError{Code: CodeAlreadyCheckedOut}
	ErrInvalidCheckOut   = &AppError{Code: CodeInvalidCheckOut}
	ErrValidation        = &AppError{Code: CodeValidation}
	ErrNotFound          = &AppError{Code: CodeNotFound}
	ErrConflict          = &AppError{Code: CodeConflict}
	ErrStoreUnavailable  = &AppError{Code: CodeStoreUnavailable}
)

// Error constructors

func Unauthenticated(message string) *AppError {
	return &AppError{
		Code:    CodeUnauthenticated,
		Message: message,
		Status:  http.StatusUnauthorized,
	}
}

func Forbidden(message string) *AppError {
	return &AppError{
		Code:    CodeForbidden,
		Message: message,
		Status:  http.StatusForbidden,
	}
}

func AlreadyCheckedIn() *AppError {
	return &AppError{
		Code:    CodeAlreadyCheckedIn,
		Message: "Already checked in today",
		Status:  http.StatusBadRequest,
	}
}

func NotCheckedIn() *AppError {
	return &AppError{
		Code:    CodeNotCheckedIn,
		Message: "You have not checked in today",
		Status:  http.StatusBadRequest,
	}
}

func AlreadyCheckedOut() *AppError {
	return &AppError{
		Code:    CodeAlreadyCheckedOut,
		Message: "Already checked out today",
		Status:  http.StatusBadRequest,
	}
}

func InvalidCheckOut(details string) *AppError {
	return &AppError{
		Code:    CodeInvalidCheckOut,
		Message: "Check-out time must be after check-in time",
		Details: details,
		Status:  http.StatusBadRequest,
	}
}

func Validation(message string, details string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
		Details: details,
		Status:  http.StatusBadRequest,
	}
}

func NotFound(resource string) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Status:  http.StatusNotFound,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Code:    CodeConflict,
		Message: message,
		Status:  http.StatusConflict,
	}
}

// StoreUnavailable wraps a persistence failure. The cause goes to Details
// for logs; it is not echoed to clients.
func StoreUnavailable(operation string, cause error) *AppError {
	details := ""
	if cause != nil {
		details = cause.Error()
	}
	return &AppError{
		Code:    CodeStoreUnavailable,
		Message: fmt.Sprintf("failed to %s", operation),
		Details: details,
		Status:  http.StatusInternalServerError,
	}
}

func Internal(message string, details string) *AppError {
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Details: details,
		Status:  http.StatusInternalServerError,
	}
}

// From converts any error into an AppError. Unknown errors become
// STORE_UNAVAILABLE since every non-domain failure in this service comes
// from the persistence layer.
func From(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		if appErr.Status == 0 {
			appErr.Status = http.StatusInternalServerError
		}
		return appErr
	}
	return StoreUnavailable("complete request", err)
}
