package services

import "errors"

// Error classes surfaced by the services layer. Handlers translate
// these into user-facing outcomes; nothing below this boundary reaches
// an HTTP response verbatim.
var (
	// ErrValidation rejects empty or malformed input before it touches
	// the store.
	ErrValidation = errors.New("invalid input")

	// ErrDuplicateUsername means the username is already registered.
	ErrDuplicateUsername = errors.New("username already taken")

	// ErrInvalidCredentials deliberately conflates "no such user" and
	// "wrong password" so login failures leak nothing.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrStoreUnavailable wraps persistence failures.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrNotFound means the requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden means the caller does not own the record it is
	// trying to change.
	ErrForbidden = errors.New("forbidden")
)
