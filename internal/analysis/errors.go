package analysis

import "errors"

var (
	// ErrCacheMiss signals "compute now"; it is not a failure.
	ErrCacheMiss = errors.New("analysis cache miss")
	// ErrNotFound is returned when a cached analysis is requested but none exists.
	ErrNotFound = errors.New("analysis not found")
)
