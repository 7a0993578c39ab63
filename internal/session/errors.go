package session

import "errors"

// ErrNotFound indicates the session ID is unknown or has expired.
var ErrNotFound = errors.New("session not found")
