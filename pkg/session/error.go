package session

import "errors"

var (
	// ErrUnauthorized is returned when an operation requiring an
	// initialized user id runs against a session that lacks one.
	ErrUnauthorized = errors.New("user session is not initialized")
)
