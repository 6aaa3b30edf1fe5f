// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across repo/service layers.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a unique constraint violation (e.g., email taken).
	ErrAlreadyExists = errors.New("already exists")

	// ErrUnauthorized indicates failed authentication (bad credentials).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidToken indicates a malformed, forged or expired session token.
	ErrInvalidToken = errors.New("invalid token")

	// ErrStoreUnavailable indicates the persistent store could not be reached.
	ErrStoreUnavailable = errors.New("store unavailable")
)
