package entity

import "errors"

// Domain errors
var (
	// Model errors
	ErrUnsupportedModel = errors.New("unsupported model")
	ErrMissingAPIKey    = errors.New("API key is not set")
	ErrEmptyMessages    = errors.New("no messages to complete")
	ErrNoCompletion     = errors.New("completion returned no choices")

	// Retrieval errors
	ErrMissingQuery    = errors.New("missing query bundle")
	ErrIndexOutOfRange = errors.New("reranked index out of range")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")

	// Validation errors
	ErrMissingField     = errors.New("required field is missing")
	ErrInvalidParameter = errors.New("invalid parameter")
)
