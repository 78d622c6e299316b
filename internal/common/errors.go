// Package common defines shared constants and sentinel errors used across
// the session service, its storage backends and the CLI. Callers should use
// errors.Is to match these values.
package common

import "errors"

var (
	// Session errors surfaced to the UI layer.
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrNoToken            = errors.New("no token to refresh")
	ErrEmailNotFound      = errors.New("email not found")

	// Token errors (malformed or badly signed token).
	ErrInvalidToken = errors.New("invalid token")
)
