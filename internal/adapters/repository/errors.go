package repository

import "errors"

// Sentinel kinds for catalog store errors.
var (
	ErrNotFound    = errors.New("catalog not found")
	ErrUnavailable = errors.New("catalog unavailable")
)
