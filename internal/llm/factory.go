package llm

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/agenthands/genoscan/internal/config"
)

// NewClient builds the generative client named by cfg.Provider, bounded by
// cfg.Timeout.
func NewClient(ctx context.Context, cfg config.LLMConfig, logger *zap.Logger) (LLMClient, error) {
	c, err := newProviderClient(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return WithTimeout(c, cfg.Timeout.Duration), nil
}

func newProviderClient(ctx context.Context, cfg config.LLMConfig, logger *zap.Logger) (LLMClient, error) {
	provider := strings.ToLower(cfg.Provider)
	settings := SettingsFrom(cfg)

	switch provider {
	case "gemini":
		if cfg.BaseURL != "" {
			// A custom endpoint (proxy, mock) is only reachable through the REST client.
			return NewGeminiRESTClient(cfg.APIKey, cfg.BaseURL, settings, nil), nil
		}
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("gemini provider requires an api key")
		}
		return NewGeminiClient(ctx, cfg.APIKey, settings)

	case "gemini-rest":
		return NewGeminiRESTClient(cfg.APIKey, cfg.BaseURL, settings, nil), nil

	case "openai":
		return NewOpenAIClient(cfg.APIKey, cfg.BaseURL, settings), nil

	case "claude":
		return NewClaudeClient(cfg.APIKey, cfg.BaseURL, settings), nil

	case "ollama":
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		if !strings.HasSuffix(baseURL, "/v1") {
			baseURL = fmt.Sprintf("%s/v1", strings.TrimRight(baseURL, "/"))
		}

		if logger != nil {
			logger.Info("initializing ollama via openai-compatible api", zap.String("base_url", baseURL))
		}

		// Ollama ignores the key but the client requires one.
		apiKey := cfg.APIKey
		if apiKey == "" {
			apiKey = "ollama"
		}
		return NewOpenAIClient(apiKey, baseURL, settings), nil

	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", provider)
	}
}
