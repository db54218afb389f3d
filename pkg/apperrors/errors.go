package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrValidation    = errors.New("validation failed")
	ErrAuthorization = errors.New("not authorized")
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("already exists")
)

// Validationf wraps ErrValidation with a caller-facing message.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrValidation}, args...)...)
}

// Authorizationf wraps ErrAuthorization with a caller-facing message.
func Authorizationf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrAuthorization}, args...)...)
}

// NotFoundf wraps ErrNotFound with a caller-facing message.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrNotFound}, args...)...)
}

// Conflictf wraps ErrConflict with a caller-facing message.
func Conflictf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrConflict}, args...)...)
}

// HTTPStatusFromError maps a domain error to an HTTP status code.
func HTTPStatusFromError(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrAuthorization):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
