// Package common defines shared constants and sentinel errors used across
// the client and server layers of the users service. Callers should use
// errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("duplicate email")

	// Service-level errors.
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
	ErrPasswordTooLong    = errors.New("password must be at most 72 bytes")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")

	// Access errors.
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("not enough permissions")

	// Token errors. Every concrete verification failure wraps ErrInvalidToken.
	ErrInvalidToken     = errors.New("invalid token")
	ErrTokenExpired     = errors.New("token expired")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrMalformedToken   = errors.New("malformed token")
)
