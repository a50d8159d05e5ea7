package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/genai"

	"github.com/dailydone/checklist-api/internal/generation"
	"github.com/dailydone/checklist-api/internal/redact"
)

// callFunc is one attempt against the upstream service. The invoker treats
// it as opaque: it forwards the context and returns exactly what the call
// returns.
type callFunc func(ctx context.Context) (*genai.GenerateContentResponse, error)

// invoker executes an upstream call with a hard per-attempt timeout and
// exponential backoff between attempts. The timeout is independent of the
// retry schedule; the backoff delay doubles after each failure.
type invoker struct {
	logger  *slog.Logger
	timeout time.Duration
}

func newInvoker(logger *slog.Logger, timeout time.Duration) *invoker {
	return &invoker{logger: logger, timeout: timeout}
}

// invoke runs call until it succeeds or the retry budget is spent. With
// maxRetries = N, at most N+1 attempts occur. On exhaustion it returns
// generation.ErrCallExhausted wrapping the last underlying error, so callers
// can inspect either kind with errors.Is.
func (iv *invoker) invoke(
	ctx context.Context,
	call callFunc,
	maxRetries int,
	initialDelay time.Duration,
) (*genai.GenerateContentResponse, error) {
	delay := initialDelay

	for attempt := 0; ; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, iv.timeout)
		resp, err := call(attemptCtx)
		cancel()

		if err == nil {
			if attempt > 0 {
				iv.logger.InfoContext(ctx, "upstream call succeeded after retry",
					"attempt", attempt+1)
			}
			return resp, nil
		}

		if attempt >= maxRetries {
			iv.logger.ErrorContext(ctx, "upstream retry budget exhausted",
				"attempts", attempt+1,
				"error", redact.Error(err))
			return nil, fmt.Errorf("%w: %w", generation.ErrCallExhausted, err)
		}

		iv.logger.WarnContext(ctx, "upstream call failed, retrying",
			"attempt", attempt+1,
			"delay_ms", delay.Milliseconds(),
			"error", redact.Error(err))

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %w", generation.ErrCallExhausted, ctx.Err())
		}

		delay *= 2
	}
}
