package common

import "errors"

var (
	// Validation errors raised before any I/O.
	ErrEmptyEmail    = errors.New("email is required")
	ErrEmptyPassword = errors.New("password is required")
	ErrEmptyCode     = errors.New("verification code is required")
	ErrEmptyToken    = errors.New("token is required")

	// Token lifecycle errors.
	ErrInvalidToken   = errors.New("invalid token")
	ErrNoRefreshToken = errors.New("no refresh token")
)
