package backend

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized means the session is missing or expired. Callers must
	// drop their session state and re-authenticate, never retry silently.
	ErrUnauthorized = errors.New("backend rejected session")

	ErrNotFound = errors.New("resource not found")

	// ErrUnavailable covers transport failures and non-2xx responses with
	// no parseable error body. Never retried automatically.
	ErrUnavailable = errors.New("backend unavailable")
)

// Error is a non-2xx response whose body carried an error message.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
}
