// Package domain holds errors shared across the ledger's domain packages.
package domain

import "errors"

// Common domain errors
var (
	// ErrNotFound is returned when a requested resource is not found.
	ErrNotFound = errors.New("resource not found")
	// ErrAlreadyExists is returned when trying to create a resource that already exists.
	ErrAlreadyExists = errors.New("resource already exists")
	// ErrForbidden is returned when a caller is not allowed to act on a resource it does not own.
	ErrForbidden = errors.New("forbidden")
	// ErrContention is returned when an operation exhausted its retry budget
	// against concurrent writers. Transient; the caller may retry.
	ErrContention = errors.New("operation aborted due to contention")
	// ErrUnauthenticated is returned when a request carries no valid identity.
	ErrUnauthenticated = errors.New("unauthenticated")
)
