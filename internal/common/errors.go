// Package common defines sentinel errors and constants shared by the server
// and the field client. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Request shape errors, rejected before reaching the core.
	ErrorValidation = errors.New("validation error")

	// Service-level errors.
	ErrorInternal = errors.New("internal error")

	// ErrorUnauthorized means the caller did not present a usable device token.
	ErrorUnauthorized = errors.New("unauthorized")

	// ErrorForbidden means the police identifier was rejected by the identity check.
	ErrorForbidden = errors.New("authorization denied")

	// Token errors (invalid or malformed device token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Collaborator failures.
	ErrorTranscriptionFailed = errors.New("transcription failed")
	ErrorFeatureDisabled     = errors.New("feature disabled")
)
