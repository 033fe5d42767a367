package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[registry]
base_url = "http://registry.local/efetch"
timeout = "3s"

[llm]
provider = "openai"
model = "gpt-4o-mini"

[pipeline]
fallback_enabled = false

[prompts]
fallback = "id=%s"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://registry.local/efetch", cfg.Registry.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Registry.Timeout.Duration)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.False(t, cfg.Pipeline.FallbackEnabled)
	assert.Equal(t, "id=%s", cfg.Prompts.Fallback)

	// Untouched sections keep their defaults.
	assert.Equal(t, "nucleotide", cfg.Registry.DB)
	assert.Equal(t, DefaultReportPrompt, cfg.Prompts.Report)
	assert.Equal(t, "keyword", cfg.Classifier.Strategy)
}

func TestLoad_InvalidDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[registry]\ntimeout = \"soon\"\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse TOML")
}

func TestLoadWithEnv_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadWithEnv(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default().Registry.BaseURL, cfg.Registry.BaseURL)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"PORT":                 "9090",
		"GEMINI_API_KEY":       "gem-key",
		"REGISTRY_BASE_URL":    "http://mirror/efetch",
		"FALLBACK_ENABLED":     "false",
		"CORS_ALLOWED_ORIGINS": "http://a.test, http://b.test",
		"CLASSIFIER_STRATEGY":  "lookup",
	}

	cfg := Default()
	cfg.ApplyEnv(func(k string) string { return env[k] })

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "gem-key", cfg.LLM.APIKey)
	assert.Equal(t, "http://mirror/efetch", cfg.Registry.BaseURL)
	assert.False(t, cfg.Pipeline.FallbackEnabled)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "lookup", cfg.Classifier.Strategy)
	assert.Equal(t, 90*time.Second, cfg.Server.RequestTimeout.Duration)
}

func TestApplyEnv_LLMKeyPrecedence(t *testing.T) {
	env := map[string]string{
		"LLM_API_KEY":    "primary",
		"GEMINI_API_KEY": "secondary",
	}
	cfg := Default()
	cfg.ApplyEnv(func(k string) string { return env[k] })
	assert.Equal(t, "primary", cfg.LLM.APIKey)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())

	cfg.Classifier.Strategy = "oracle"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Registry.Timeout = Duration{}
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Prompts.Report = ""
	assert.Error(t, cfg.Validate())
}

func TestValidate_LLMSettings(t *testing.T) {
	cfg := Default()
	cfg.LLM.MaxTokens = MaxTokensLimit + 1
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.LLM.MaxTokens = -1
	assert.Error(t, cfg.Validate())

	cfg = Default()
	zero := float32(0)
	cfg.LLM.Temperature = &zero
	assert.NoError(t, cfg.Validate())

	high := float32(3)
	cfg.LLM.Temperature = &high
	assert.Error(t, cfg.Validate())
}

func TestValidate_RequestTimeoutCoversPipeline(t *testing.T) {
	cfg := Default()
	cfg.Registry.Timeout = Duration{15 * time.Second}
	cfg.LLM.Timeout = Duration{30 * time.Second}

	cfg.Server.RequestTimeout = Duration{60 * time.Second}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "worst case 1m15s")

	cfg.Server.RequestTimeout = Duration{75 * time.Second}
	assert.NoError(t, cfg.Validate())
}

func TestLoad_ZeroTemperature(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[llm]\ntemperature = 0.0\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.LLM.Temperature)
	assert.Zero(t, *cfg.LLM.Temperature)
}

func TestShippedConfigParses(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "config", "config.toml"))
	require.NoError(t, err)
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, "lookup", cfg.Classifier.Strategy)
	assert.Equal(t, 90*time.Second, cfg.Server.RequestTimeout.Duration)
}
