package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/liushuangls/go-anthropic/v2"
)

// claudeMaxTokens is used when Settings.MaxTokens is zero; the messages API
// requires an explicit cap.
const claudeMaxTokens = 1024

type ClaudeClient struct {
	client   *anthropic.Client
	settings Settings
}

func NewClaudeClient(apiKey, baseURL string, settings Settings) *ClaudeClient {
	var opts []anthropic.ClientOption
	if baseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(strings.TrimRight(baseURL, "/")))
	}
	return &ClaudeClient{
		client:   anthropic.NewClient(apiKey, opts...),
		settings: settings,
	}
}

func (c *ClaudeClient) Generate(ctx context.Context, prompt string) (string, error) {
	req := anthropic.MessagesRequest{
		Model:  anthropic.Model(c.settings.Model),
		System: c.settings.System,
		Messages: []anthropic.Message{
			{
				Role: anthropic.RoleUser,
				Content: []anthropic.MessageContent{
					anthropic.NewTextMessageContent(prompt),
				},
			},
		},
		MaxTokens: claudeMaxTokens,
	}
	if c.settings.MaxTokens > 0 {
		req.MaxTokens = c.settings.MaxTokens
	}
	if c.settings.Temperature != nil {
		temperature := *c.settings.Temperature
		req.Temperature = &temperature
	}

	resp, err := c.client.CreateMessages(ctx, req)
	if err != nil {
		return "", fmt.Errorf("claude message failed: %w", err)
	}

	var b strings.Builder
	for _, content := range resp.Content {
		if content.Text != nil {
			b.WriteString(*content.Text)
		}
	}
	if text := strings.TrimSpace(b.String()); text != "" {
		return text, nil
	}
	return "", errors.New("no response content")
}
