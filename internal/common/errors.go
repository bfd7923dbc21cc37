// Package common defines shared constants and sentinel errors used across
// the server, the gRPC transport and the CLI client. Callers should use
// errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound         = errors.New("not found")
	ErrorStoreUnavailable = errors.New("store unavailable")
	ErrAlreadyExists      = errors.New("already exists")
	ErrVersionConflict    = errors.New("version conflict")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")

	// Text generation.
	ErrGenerationFailed = errors.New("text generation failed")
	ErrFeatureDisabled  = errors.New("feature disabled")
)
