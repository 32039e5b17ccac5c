// Package common defines shared constants and sentinel errors used across
// the journal server and client. Callers should use errors.Is to match these
// values; richer error types in this package unwrap to one of them.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal           = errors.New("internal error")
	ErrorValidation         = errors.New("validation error")
	ErrorUnauthorized       = errors.New("unauthenticated")
	ErrorInvalidCredentials = errors.New("invalid email or password")
	ErrorNotConfigured      = errors.New("not configured")
	ErrorInvalidID          = errors.New("invalid id")

	// Token verification errors. They never leave the server: the HTTP layer
	// collapses all of them into ErrorUnauthorized.
	ErrInvalidToken     = errors.New("invalid token")
	ErrTokenMalformed   = errors.New("malformed token")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrTokenExpired     = errors.New("token expired")
)
