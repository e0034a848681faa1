package entity

import "errors"

// Standard domain errors
var (
	ErrInvalidRequest      = errors.New("invalid request body")
	ErrProviderUnreachable = errors.New("AI provider unreachable")
	ErrMalformedResponse   = errors.New("unexpected AI provider response")
)

// FallbackResult is returned to the caller in place of generated text
// whenever the provider reply cannot be read.
const FallbackResult = "AI Error. Check API response."
