package storage

import "errors"

// All stores are append-only: records are inserted once and never updated.
var (
	// ErrNotFound is returned when no record matches the query.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey is returned when inserting a record whose key is
	// already present, such as a replayed token creation event.
	ErrDuplicateKey = errors.New("duplicate key: append-only store does not allow updates")

	// ErrInvalidInput is returned when a record fails validation before
	// it reaches the backend.
	ErrInvalidInput = errors.New("invalid input")
)
