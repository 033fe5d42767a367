package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com"

// GeminiRESTClient talks to the generateContent endpoint directly so the
// service base URL can point at a proxy or a local stub.
type GeminiRESTClient struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	settings   Settings
}

func NewGeminiRESTClient(apiKey, baseURL string, settings Settings, httpClient *http.Client) *GeminiRESTClient {
	if baseURL == "" {
		baseURL = defaultGeminiBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &GeminiRESTClient{
		httpClient: httpClient,
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		settings:   settings,
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature     *float32 `json:"temperature,omitempty"`
	MaxOutputTokens int      `json:"maxOutputTokens,omitempty"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent          `json:"systemInstruction,omitempty"`
	Contents          []geminiContent         `json:"contents"`
	GenerationConfig  *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

func (c *GeminiRESTClient) request(prompt string) geminiRequest {
	req := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	}
	if c.settings.System != "" {
		req.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: c.settings.System}}}
	}
	if c.settings.MaxTokens > 0 || c.settings.Temperature != nil {
		req.GenerationConfig = &geminiGenerationConfig{
			Temperature:     c.settings.Temperature,
			MaxOutputTokens: c.settings.MaxTokens,
		}
	}
	return req
}

func (c *GeminiRESTClient) endpoint() string {
	return fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, url.PathEscape(c.settings.Model))
}

func (c *GeminiRESTClient) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(c.request(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to encode gemini request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create gemini request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-goog-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read gemini response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if msg := gjson.GetBytes(data, "error.message"); msg.Exists() {
			return "", fmt.Errorf("gemini returned status %d: %s", resp.StatusCode, msg.String())
		}
		return "", fmt.Errorf("gemini returned status %d", resp.StatusCode)
	}

	if !gjson.ValidBytes(data) {
		return "", fmt.Errorf("invalid JSON response from gemini")
	}

	text := gjson.GetBytes(data, "candidates.0.content.parts.0.text")
	if answer := strings.TrimSpace(text.String()); answer != "" {
		return answer, nil
	}
	return "", fmt.Errorf("no response candidates or content")
}
