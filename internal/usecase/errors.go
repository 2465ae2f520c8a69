package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrConflict              = errors.New("conflict")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// ErrSurfaceBusy surfaces a write that hit a protected surface
	// outside the concurrency gate.
	ErrSurfaceBusy = errors.New("surface is busy")

	// ErrBlockMissing means a week block was not provisioned on the
	// target surface.
	ErrBlockMissing = errors.New("week block missing")
)
