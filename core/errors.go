package core

import (
	"errors"
)

// ErrNotFound is a sentinel error for "not found" cases
var ErrNotFound = errors.New("not found")

// ErrConflict is a sentinel error for unique constraint violations, e.g. two
// concurrent opens racing to create a ticket for the same user
var ErrConflict = errors.New("conflict")

// IsNotFoundError checks if an error is a "not found" error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflictError checks if an error is a uniqueness conflict
func IsConflictError(err error) bool {
	return errors.Is(err, ErrConflict)
}
