package memory

import "errors"

var (
	// ErrNotFound is returned when a reference does not resolve to a stored entry.
	ErrNotFound = errors.New("memory: entry not found")
	// ErrInvalidInput is returned for values the store refuses to persist.
	ErrInvalidInput = errors.New("memory: invalid input")
	// ErrIO wraps filesystem failures on create, read or write.
	ErrIO = errors.New("memory: io failure")
)
