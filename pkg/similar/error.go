package similar

import "errors"

var (
	// ErrConnection is returned when the embedding store connection fails.
	ErrConnection = errors.New("embedding store connection failed")
)
