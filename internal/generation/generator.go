package generation

import "context"

// Generator defines the boundary between the application core and the
// external LLM service. Implementations own transport concerns (timeouts,
// retries); callers own prompt construction and response sanitization.
type Generator interface {
	// GenerateChecklist sends the prompt to the language model and returns
	// the raw generated text. The text is untrusted: it may be fenced,
	// truncated, or malformed, and must be sanitized before use.
	GenerateChecklist(ctx context.Context, prompt string) (string, error)
}
