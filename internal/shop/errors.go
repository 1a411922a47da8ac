package shop

import "errors"

var (
	// ErrBusy means a mutating backend call is already in flight for this
	// cart or edit session. Callers serialize; there is no queueing.
	ErrBusy = errors.New("another mutation is in flight")

	ErrNotLoggedIn   = errors.New("operation requires an authenticated user")
	ErrOrderNotFound = errors.New("order not found")
	ErrNoEditSession = errors.New("no open edit session")
)
