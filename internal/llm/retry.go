package llm

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"time"
)

// IsRetryable checks if an error is worth retrying.
func IsRetryable(err error) bool {
	var retryErr *RetryableError
	return errors.As(err, &retryErr)
}

// Backoff returns a duration for attempt n (0-indexed) with jitter.
func Backoff(attempt int) time.Duration {
	base := time.Duration(1<<uint(attempt)) * time.Second
	if base > 30*time.Second {
		base = 30 * time.Second
	}
	jitter := time.Duration(rand.Int64N(int64(base) / 2))
	return base + jitter
}

type retrying struct {
	next       Generator
	maxRetries int
	log        *slog.Logger
	backoff    func(attempt int) time.Duration
}

// WithRetry retries transient failures up to maxRetries extra attempts.
func WithRetry(gen Generator, maxRetries int, log *slog.Logger) Generator {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &retrying{next: gen, maxRetries: maxRetries, log: log, backoff: Backoff}
}

func (r *retrying) Generate(ctx context.Context, req Request) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		var text string
		text, lastErr = r.next.Generate(ctx, req)
		if lastErr == nil || !IsRetryable(lastErr) || attempt == r.maxRetries {
			return text, lastErr
		}
		r.log.Warn("retryable llm error", "model", r.next.Model(), "attempt", attempt, "error", lastErr)
		select {
		case <-time.After(r.backoff(attempt)):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return "", lastErr
}

func (r *retrying) Model() string {
	return r.next.Model()
}

func (r *retrying) Close() error {
	return r.next.Close()
}
