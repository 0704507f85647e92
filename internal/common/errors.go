// Package common defines shared constants and sentinel errors used across
// NoVerif components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")
	ErrorValidation   = errors.New("validation error")

	// Auth errors.
	ErrInvalidToken        = errors.New("invalid token")
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
	ErrSessionExpired      = errors.New("session expired")
	ErrUserSuspended       = errors.New("account suspended")

	// Workflow errors.
	ErrInvalidTransition      = errors.New("invalid status transition")
	ErrOpenApplicationExists  = errors.New("open application already exists")
	ErrDuplicateWalletAddress = errors.New("wallet address already connected")
)
