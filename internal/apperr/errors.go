// Package apperr defines the sentinel errors shared by the auth and account
// flows. Handlers translate them to HTTP statuses with errors.Is; nothing
// else should inspect error strings.
package apperr

import "errors"

var (
	// validation
	ErrMissingIdentity = errors.New("identity is required")
	ErrMissingSecret   = errors.New("secret is required")

	// uniqueness
	ErrIdentityExists = errors.New("identity already exists")

	// authentication
	ErrAccountNotFound = errors.New("account not found")
	ErrSecretMismatch  = errors.New("secret mismatch")

	// token
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("invalid token")

	// hashing primitive
	ErrHashing = errors.New("hashing failure")
)
