package llm

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiClient uses the official SDK against the public Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGeminiClient(ctx context.Context, apiKey string, settings Settings) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := client.GenerativeModel(settings.Model)
	if settings.System != "" {
		model.SystemInstruction = genai.NewUserContent(genai.Text(settings.System))
	}
	if settings.MaxTokens > 0 && settings.MaxTokens <= math.MaxInt32 {
		model.SetMaxOutputTokens(int32(settings.MaxTokens))
	}
	if settings.Temperature != nil {
		model.SetTemperature(*settings.Temperature)
	}

	return &GeminiClient{client: client, model: model}, nil
}

func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}

	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if txt, ok := part.(genai.Text); ok {
				b.WriteString(string(txt))
			}
		}
		// First candidate with content wins.
		if b.Len() > 0 {
			break
		}
	}

	if text := strings.TrimSpace(b.String()); text != "" {
		return text, nil
	}
	return "", errors.New("no response candidates or content")
}

func (c *GeminiClient) Close() error {
	return c.client.Close()
}
