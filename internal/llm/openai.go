package llm

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// OpenAIClient serves OpenAI and any OpenAI-compatible endpoint such as Ollama.
type OpenAIClient struct {
	client   *openai.Client
	settings Settings
}

func NewOpenAIClient(apiKey, baseURL string, settings Settings) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	return &OpenAIClient{
		client:   openai.NewClientWithConfig(cfg),
		settings: settings,
	}
}

func (c *OpenAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	var messages []openai.ChatCompletionMessage
	if c.settings.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: c.settings.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})

	req := openai.ChatCompletionRequest{
		Model:     c.settings.Model,
		Messages:  messages,
		MaxTokens: c.settings.MaxTokens,
	}
	if t := c.settings.Temperature; t != nil {
		req.Temperature = *t
		if *t == 0 {
			// The request omits a zero temperature; the smallest positive value is the usual stand-in.
			req.Temperature = math.SmallestNonzeroFloat32
		}
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openai completion failed: %w", err)
	}

	for _, choice := range resp.Choices {
		if text := strings.TrimSpace(choice.Message.Content); text != "" {
			return text, nil
		}
	}
	return "", errors.New("no response choices")
}
