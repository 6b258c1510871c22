package storage

import "errors"

// Storage errors for write-once history stores.
var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey is returned when inserting a record whose key already exists.
	// Stored vintages are immutable.
	ErrDuplicateKey = errors.New("duplicate key: stored vintages are immutable")

	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
)
