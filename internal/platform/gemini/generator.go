// Package gemini implements the generation.Generator interface using
// Google's Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/dailydone/checklist-api/internal/config"
	"github.com/dailydone/checklist-api/internal/generation"
)

// ErrEmptyPrompt is returned when GenerateChecklist is called without a prompt.
var ErrEmptyPrompt = errors.New("prompt cannot be empty")

// Generator calls the Gemini API with retry and backoff, returning the raw
// generated text for the caller to sanitize.
type Generator struct {
	logger       *slog.Logger
	client       *genai.Client
	model        string
	invoker      *invoker
	maxRetries   int
	initialDelay time.Duration
}

// NewGenerator creates a Generator from the LLM configuration. The API key
// is required; its absence is a startup failure, not a per-request error.
func NewGenerator(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Generator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", generation.ErrInvalidConfig, err)
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second

	return &Generator{
		logger:       logger,
		client:       client,
		model:        cfg.ModelName,
		invoker:      newInvoker(logger, timeout),
		maxRetries:   cfg.MaxRetries,
		initialDelay: time.Duration(cfg.RetryInitialDelayMs) * time.Millisecond,
	}, nil
}

// GenerateChecklist sends the prompt to the Gemini API and returns the raw
// generated text. Transport failures are retried by the invoker; a response
// without usable text is a permanent generation.ErrInvalidResponse.
func (g *Generator) GenerateChecklist(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", ErrEmptyPrompt
	}

	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	g.logger.InfoContext(ctx, "calling Gemini API",
		"model", g.model,
		"prompt_length", len(prompt))

	resp, err := g.invoker.invoke(ctx, func(ctx context.Context) (*genai.GenerateContentResponse, error) {
		return g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	}, g.maxRetries, g.initialDelay)
	if err != nil {
		return "", err
	}

	text, err := extractText(resp)
	if err != nil {
		return "", err
	}

	g.logger.DebugContext(ctx, "Gemini API call returned text",
		"text_length", len(text))
	return text, nil
}

// extractText pulls the generated text out of the first candidate, in the
// same way the response would be read off the wire: candidates[0].content.
// parts[*].text concatenated.
func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates returned", generation.ErrInvalidResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("%w: empty content in candidate", generation.ErrInvalidResponse)
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			b.WriteString(part.Text)
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("%w: no text generated", generation.ErrInvalidResponse)
	}

	return b.String(), nil
}
