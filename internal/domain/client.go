package domain

import "errors"

var (
	// ErrClientNotFound indicates that the client directory has no such client.
	ErrClientNotFound = errors.New("client not found")
	// ErrDirectoryUnavailable indicates that the client directory could not be reached.
	ErrDirectoryUnavailable = errors.New("client directory unavailable")
)
