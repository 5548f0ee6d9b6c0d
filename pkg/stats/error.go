package stats

import "errors"

var (
	// ErrConnection is returned when the ledger store connection fails.
	ErrConnection = errors.New("stats store connection failed")
)
