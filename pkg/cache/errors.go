package cache

import "errors"

var (
	// ErrNotFound is returned by Get when the key is absent or expired.
	ErrNotFound = errors.New("cache: key not found")

	// ErrClosed is returned by mutating operations after Close.
	ErrClosed = errors.New("cache: closed")
)
