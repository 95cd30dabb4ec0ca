package database

import "errors"

var (
	// ErrNotFound is returned when a referenced row does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrConcurrentModification is returned when a versioned update finds
	// that another writer moved the version first.
	ErrConcurrentModification = errors.New("concurrent modification detected")

	// ErrDuplicateEmail is returned when a user insert or update violates
	// the unique email constraint.
	ErrDuplicateEmail = errors.New("email already in use")
)
