// Package llm wraps the hosted language models used to write proposal copy.
package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/talentcraft/proposalgen/internal/config"
)

// Request is a single text generation call.
type Request struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float32
}

// Generator produces text from a prompt.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
	Model() string
	Close() error
}

// RetryableError indicates a transient failure that can be retried.
type RetryableError struct {
	StatusCode int
	Message    string
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable error (status %d): %s", e.StatusCode, truncate(e.Message, 200))
}

// New builds the configured provider client, wrapped with retries and
// latency tracking.
func New(ctx context.Context, cfg config.Config, stats *Stats, log *slog.Logger) (Generator, error) {
	var (
		gen Generator
		err error
	)
	switch cfg.LLMProvider {
	case config.ProviderAnthropic:
		gen = NewClaudeClient(cfg.AnthropicAPIKey, cfg.AnthropicModel, cfg.LLMTimeout)
	case config.ProviderGemini:
		gen, err = NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	default:
		err = fmt.Errorf("unknown llm provider %q", cfg.LLMProvider)
	}
	if err != nil {
		return nil, err
	}

	if stats != nil {
		gen = Instrument(gen, stats)
	}
	return WithRetry(gen, cfg.LLMMaxRetries, log), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
