package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeminiRESTClient_Generate(t *testing.T) {
	var gotPath, gotKey, gotPrompt, gotSystem string
	var gotConfig *geminiGenerationConfig
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")

		body, _ := io.ReadAll(r.Body)
		var req geminiRequest
		_ = json.Unmarshal(body, &req)
		if len(req.Contents) > 0 && len(req.Contents[0].Parts) > 0 {
			gotPrompt = req.Contents[0].Parts[0].Text
		}
		if req.SystemInstruction != nil {
			gotSystem = req.SystemInstruction.Parts[0].Text
		}
		gotConfig = req.GenerationConfig

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"candidates": [
				{"content": {"parts": [{"text": "It is SARS-CoV-2."}], "role": "model"}}
			]
		}`))
	}))
	defer srv.Close()

	c := NewGeminiRESTClient("secret", srv.URL+"/", Settings{
		Model:       "gemini-1.5-flash",
		System:      "be brief",
		MaxTokens:   256,
		Temperature: float32Ptr(0.2),
	}, srv.Client())
	text, err := c.Generate(context.Background(), "what is NC_045512?")

	require.NoError(t, err)
	assert.Equal(t, "It is SARS-CoV-2.", text)
	assert.Equal(t, "/v1beta/models/gemini-1.5-flash:generateContent", gotPath)
	assert.Equal(t, "secret", gotKey)
	assert.Equal(t, "what is NC_045512?", gotPrompt)
	assert.Equal(t, "be brief", gotSystem)
	require.NotNil(t, gotConfig)
	assert.Equal(t, 256, gotConfig.MaxOutputTokens)
	require.NotNil(t, gotConfig.Temperature)
	assert.InDelta(t, 0.2, *gotConfig.Temperature, 1e-6)
}

func TestGeminiRESTClient_SendsZeroTemperature(t *testing.T) {
	var raw struct {
		GenerationConfig map[string]json.RawMessage `json:"generationConfig"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&raw)
		_, _ = w.Write([]byte(`{"candidates": [{"content": {"parts": [{"text": "ok"}]}}]}`))
	}))
	defer srv.Close()

	c := NewGeminiRESTClient("k", srv.URL, Settings{Model: "m", Temperature: float32Ptr(0)}, srv.Client())
	_, err := c.Generate(context.Background(), "p")

	require.NoError(t, err)
	assert.JSONEq(t, "0", string(raw.GenerationConfig["temperature"]))
}

func TestGeminiRESTClient_OmitsEmptySettings(t *testing.T) {
	var raw map[string]json.RawMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &raw)
		_, _ = w.Write([]byte(`{"candidates": [{"content": {"parts": [{"text": " ok "}]}}]}`))
	}))
	defer srv.Close()

	c := NewGeminiRESTClient("k", srv.URL, Settings{Model: "m"}, srv.Client())
	text, err := c.Generate(context.Background(), "p")

	require.NoError(t, err)
	assert.Equal(t, "ok", text)
	assert.NotContains(t, raw, "systemInstruction")
	assert.NotContains(t, raw, "generationConfig")
}

func TestGeminiRESTClient_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error": {"code": 403, "message": "API key not valid"}}`))
	}))
	defer srv.Close()

	c := NewGeminiRESTClient("bad", srv.URL, Settings{Model: "m"}, srv.Client())
	_, err := c.Generate(context.Background(), "p")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.Contains(t, err.Error(), "API key not valid")
}

func TestGeminiRESTClient_NoCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates": []}`))
	}))
	defer srv.Close()

	c := NewGeminiRESTClient("k", srv.URL, Settings{Model: "m"}, srv.Client())
	_, err := c.Generate(context.Background(), "p")
	assert.EqualError(t, err, "no response candidates or content")
}

func TestGeminiRESTClient_InvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>gateway</html>`))
	}))
	defer srv.Close()

	c := NewGeminiRESTClient("k", srv.URL, Settings{Model: "m"}, srv.Client())
	_, err := c.Generate(context.Background(), "p")
	assert.Error(t, err)
}
