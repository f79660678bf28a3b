// Package common defines shared constants, sentinel errors and small helpers
// used across client and server layers of clipshare. Callers should use
// errors.Is to match the error values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")

	// Validation errors.
	ErrorInvalidSessionCode = errors.New("invalid session code")
	ErrorInvalidDeviceID    = errors.New("invalid device id")
	ErrorInvalidItemKind    = errors.New("invalid item kind")
	ErrorInvalidItemID      = errors.New("invalid item id")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
