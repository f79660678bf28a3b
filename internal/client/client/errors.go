package client

import "errors"

var (
	// ErrUnavailable means the relay could not be reached; callers may fall
	// back to the local mirror.
	ErrUnavailable = errors.New("relay unavailable")
	// ErrUnauthorized means the device token was rejected or has expired.
	ErrUnauthorized = errors.New("device token rejected")
	ErrNoSession    = errors.New("no session joined")
)
