// Package apperr defines the error taxonomy shared by every store and
// handler. All failures are plain error values callers match with
// errors.Is; anything outside this set is treated as a server fault.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthenticated covers missing, invalid and expired sessions as
	// well as failed credential checks. The coarse kind is deliberate:
	// callers must not be able to tell which check failed.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrForbidden means the session was valid but the global or
	// workspace role does not permit the operation.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidInput covers schema and format violations.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict means a unique key already exists where creation, not
	// upsert, was requested.
	ErrConflict = errors.New("conflict")

	// ErrNotFound means a referenced workspace, user or membership is
	// absent.
	ErrNotFound = errors.New("not found")
)

// Invalidf wraps ErrInvalidInput with a field-level reason.
func Invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// HTTPStatus maps an error to its HTTP status code.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the user-visible message for an error. Server faults
// never leak their cause.
func Message(err error) string {
	if HTTPStatus(err) == http.StatusInternalServerError {
		return "server error"
	}
	return err.Error()
}
