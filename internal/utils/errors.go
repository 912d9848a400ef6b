package utils

import (
	"errors"
	"net/http"
)

// Error codes surfaced in the JSON error envelope. The HTTP status mirrors the
// code; see HandleAppError.
const (
	ErrCodeInvalidPayload     = "invalid_payload"
	ErrCodeValidation         = "validation_error"
	ErrCodeUnauthenticated    = "unauthenticated"
	ErrCodeForbidden          = "forbidden"
	ErrCodeNotFound           = "not_found"
	ErrCodeConflict           = "conflict"
	ErrCodeIllegalTransition  = "illegal_transition"
	ErrCodeTokenExpired       = "token_expired"
	ErrCodeTokenAlreadyUsed   = "token_already_used"
	ErrCodeDependencyExists   = "dependency_exists"
	ErrCodeRowVersionConflict = "row_version_conflict"
	ErrCodeDeliveryFailure    = "delivery_failure"
	ErrCodeInternal           = "internal_server_error"
)

// Sentinel errors used by repositories and domain services to signal
// fine-grained failure reasons without committing to an HTTP status.
var (
	ErrTokenNotFound      = errors.New("token_not_found")
	ErrTokenExpired       = errors.New("token_expired")
	ErrTokenAlreadyUsed   = errors.New("token_already_used")
	ErrEmailExists        = errors.New("email_exists")
	ErrRowVersionConflict = errors.New("row_version_conflict")
	ErrDependencyExists   = errors.New("dependency_exists")
	ErrNoRowsUpdated      = errors.New("no_rows_updated")
)

// AppError carries a status, a public code/message, and the underlying cause.
// Services return it; controllers hand it to HandleAppError.
type AppError struct {
	StatusCode int
	Code       string
	Message    string
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

func NewAppError(status int, code, message string, err error) *AppError {
	return &AppError{StatusCode: status, Code: code, Message: message, Err: err}
}

// Convenience constructors for the common taxonomy entries.

func NotFoundError(message string) *AppError {
	return NewAppError(http.StatusNotFound, ErrCodeNotFound, message, nil)
}

func ForbiddenError(message string) *AppError {
	return NewAppError(http.StatusForbidden, ErrCodeForbidden, message, nil)
}

func ValidationError(message string) *AppError {
	return NewAppError(http.StatusBadRequest, ErrCodeValidation, message, nil)
}

func ConflictError(message string) *AppError {
	return NewAppError(http.StatusConflict, ErrCodeConflict, message, nil)
}

func IllegalTransitionError(message string) *AppError {
	return NewAppError(http.StatusConflict, ErrCodeIllegalTransition, message, nil)
}

func DependencyExistsError(message string) *AppError {
	return NewAppError(http.StatusConflict, ErrCodeDependencyExists, message, nil)
}

func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, ErrCodeInternal, "An unexpected error occurred", err)
}

// HandleAppError writes an error envelope for an AppError, or a generic 500 for
// anything else so internal detail never leaks to the caller.
func HandleAppError(w http.ResponseWriter, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		RespondError(w, appErr.StatusCode, appErr.Code, appErr.Message, appErr.Err)
		return
	}
	RespondError(w, http.StatusInternalServerError, ErrCodeInternal, "An unexpected error occurred", err)
}
