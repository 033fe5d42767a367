package llm

import (
	"context"
	"strings"
	"time"

	"github.com/agenthands/genoscan/internal/config"
)

// LLMClient produces free text for a prompt.
type LLMClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Settings are the generation parameters shared by every provider.
// Zero values leave the provider default in place.
type Settings struct {
	Model       string
	System      string
	MaxTokens   int
	Temperature *float32
}

func SettingsFrom(cfg config.LLMConfig) Settings {
	return Settings{
		Model:       cfg.Model,
		System:      strings.TrimSpace(cfg.System),
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
	}
}

// timeoutClient bounds every Generate call. Expiry surfaces as
// context.DeadlineExceeded from the wrapped client.
type timeoutClient struct {
	next    LLMClient
	timeout time.Duration
}

func WithTimeout(next LLMClient, timeout time.Duration) LLMClient {
	if timeout <= 0 {
		return next
	}
	return &timeoutClient{next: next, timeout: timeout}
}

func (c *timeoutClient) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.next.Generate(ctx, prompt)
}
