package generation

import "errors"

// Common errors returned by generator implementations.
var (
	// ErrInvalidConfig is returned when the generator configuration is invalid.
	ErrInvalidConfig = errors.New("invalid generator configuration")

	// ErrCallExhausted is returned when the upstream call still fails after
	// the retry budget is spent. It wraps the last underlying error.
	ErrCallExhausted = errors.New("upstream call failed after exhausting retries")

	// ErrInvalidResponse is returned when the LLM response carries no usable
	// generated text (no candidates, or empty content).
	ErrInvalidResponse = errors.New("invalid response from language model")
)
