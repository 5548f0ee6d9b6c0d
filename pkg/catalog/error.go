package catalog

import "errors"

var (
	// ErrNotFound is returned when the catalog has no quote with the
	// requested id.
	ErrNotFound = errors.New("quote not found")

	// ErrInvalidID is returned when a quote id is not the decimal string
	// form of a positive integer.
	ErrInvalidID = errors.New("invalid quote id")

	// ErrUpstream is returned when the catalog call failed but may succeed
	// on retry.
	ErrUpstream = errors.New("catalog request failed")
)
