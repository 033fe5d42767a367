package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

type ServerConfig struct {
	Port           string   `toml:"port"`
	GinMode        string   `toml:"gin_mode"`
	AllowedOrigins []string `toml:"allowed_origins"`
	RequestTimeout Duration `toml:"request_timeout"`
}

// RegistryConfig describes the NCBI E-utilities efetch endpoint.
type RegistryConfig struct {
	BaseURL string   `toml:"base_url"`
	DB      string   `toml:"db"`
	RetType string   `toml:"rettype"`
	RetMode string   `toml:"retmode"`
	Tool    string   `toml:"tool"`
	Email   string   `toml:"email"`
	APIKey  string   `toml:"api_key"`
	Timeout Duration `toml:"timeout"`
}

type LLMConfig struct {
	Provider    string   `toml:"provider"`
	Model       string   `toml:"model"`
	APIKey      string   `toml:"api_key"`
	BaseURL     string   `toml:"base_url"`
	Timeout     Duration `toml:"timeout"`
	System      string   `toml:"system"`
	MaxTokens   int      `toml:"max_tokens"`
	// Temperature is nil when unset so that 0 stays expressible.
	Temperature *float32 `toml:"temperature"`
}

// MaxTokensLimit bounds llm.max_tokens; providers take an int32.
const MaxTokensLimit = 1 << 20

// PromptTemplates are fmt templates. Fallback takes the accession ID,
// Report takes (subject, is_pathogen, danger) and Classify takes the organism.
type PromptTemplates struct {
	Fallback string `toml:"fallback"`
	Report   string `toml:"report"`
	Classify string `toml:"classify"`
}

type PipelineConfig struct {
	FallbackEnabled           bool `toml:"fallback_enabled"`
	FallbackOnUnknownOrganism bool `toml:"fallback_on_unknown_organism"`
}

type ClassifierConfig struct {
	Strategy           string `toml:"strategy"`
	KnownOrganismsPath string `toml:"known_organisms_path"`
}

type TrendsConfig struct {
	BaseURL  string   `toml:"base_url"`
	Location string   `toml:"location"`
	Timeout  Duration `toml:"timeout"`
}

type LoggingConfig struct {
	Level       string `toml:"level"`
	Development bool   `toml:"development"`
}

type Config struct {
	Server     ServerConfig     `toml:"server"`
	Registry   RegistryConfig   `toml:"registry"`
	LLM        LLMConfig        `toml:"llm"`
	Prompts    PromptTemplates  `toml:"prompts"`
	Pipeline   PipelineConfig   `toml:"pipeline"`
	Classifier ClassifierConfig `toml:"classifier"`
	Trends     TrendsConfig     `toml:"trends"`
	Logging    LoggingConfig    `toml:"logging"`
}

// Duration lets TOML files use strings such as "15s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

const (
	DefaultSystemPrompt = `You are a genomic surveillance assistant. Answer concisely and factually.`

	DefaultFallbackPrompt = `You are assisting a genomic surveillance analyst.
The primary sequence registry could not be reached for the accession ID "%s".
Based on your own knowledge, name the organism this accession most likely belongs to,
state whether it is a known human pathogen, and rate its danger as Low, Medium or High.
Answer in two or three sentences.`

	DefaultReportPrompt = `Write a short plain-language report for a public health audience.

Subject: %s
Pathogen: %t
Danger level: %s

Explain what the organism is, whether it poses a risk and what the danger level means.
Do not use more than one paragraph.`

	DefaultClassifyPrompt = `Classify the organism "%s".
Respond ONLY in valid JSON with fields:
is_pathogen (boolean), danger_level (one of "Low", "Medium", "High").`
)

// Default returns a configuration usable without any file on disk.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "8000",
			GinMode:        "release",
			AllowedOrigins: []string{"http://localhost:5173"},
			RequestTimeout: Duration{90 * time.Second},
		},
		Registry: RegistryConfig{
			BaseURL: "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/efetch.fcgi",
			DB:      "nucleotide",
			RetType: "gb",
			RetMode: "xml",
			Tool:    "genoscan",
			Timeout: Duration{15 * time.Second},
		},
		LLM: LLMConfig{
			Provider:    "gemini",
			Model:       "gemini-1.5-flash",
			Timeout:     Duration{30 * time.Second},
			System:      DefaultSystemPrompt,
			MaxTokens:   1024,
			Temperature: float32Ptr(0.2),
		},
		Prompts: PromptTemplates{
			Fallback: DefaultFallbackPrompt,
			Report:   DefaultReportPrompt,
			Classify: DefaultClassifyPrompt,
		},
		Pipeline: PipelineConfig{
			FallbackEnabled: true,
		},
		Classifier: ClassifierConfig{
			Strategy: "keyword",
		},
		Trends: TrendsConfig{
			BaseURL:  "https://api.outbreak.info/genomics/prevalence-by-location",
			Location: "USA",
			Timeout:  Duration{15 * time.Second},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads the TOML file at path on top of Default().
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	return cfg, nil
}

// LoadWithEnv loads path when it exists, applies environment overrides and
// validates the result. A missing file falls back to defaults.
func LoadWithEnv(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		loaded, err := Load(path)
		switch {
		case err == nil:
			cfg = loaded
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, err
		}
	}

	cfg.ApplyEnv(os.Getenv)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides values from the environment. getenv is injected for tests.
func (c *Config) ApplyEnv(getenv func(string) string) {
	set := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v := getenv(k); v != "" {
				*dst = v
				return
			}
		}
	}

	set(&c.Server.Port, "PORT")
	set(&c.Server.GinMode, "GIN_MODE")
	if v := getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		c.Server.AllowedOrigins = splitList(v)
	}

	set(&c.Registry.BaseURL, "REGISTRY_BASE_URL")
	set(&c.Registry.APIKey, "NCBI_API_KEY")
	set(&c.Registry.Email, "NCBI_EMAIL")

	set(&c.LLM.Provider, "LLM_PROVIDER")
	set(&c.LLM.Model, "LLM_MODEL")
	set(&c.LLM.APIKey, "LLM_API_KEY", "GEMINI_API_KEY")
	set(&c.LLM.BaseURL, "LLM_BASE_URL")

	if v := getenv("FALLBACK_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Pipeline.FallbackEnabled = b
		}
	}

	set(&c.Classifier.Strategy, "CLASSIFIER_STRATEGY")
	set(&c.Classifier.KnownOrganismsPath, "KNOWN_ORGANISMS_PATH")

	set(&c.Trends.BaseURL, "OUTBREAK_BASE_URL")

	set(&c.Logging.Level, "LOG_LEVEL")
}

func (c *Config) Validate() error {
	switch strings.ToLower(c.Classifier.Strategy) {
	case "keyword", "lookup", "model":
	default:
		return fmt.Errorf("unsupported classifier strategy: %s", c.Classifier.Strategy)
	}
	if c.Registry.BaseURL == "" {
		return errors.New("registry base_url is required")
	}
	if c.Registry.Timeout.Duration <= 0 || c.LLM.Timeout.Duration <= 0 || c.Trends.Timeout.Duration <= 0 {
		return errors.New("timeouts must be positive")
	}
	if c.LLM.MaxTokens < 0 || c.LLM.MaxTokens > MaxTokensLimit {
		return fmt.Errorf("llm max_tokens must be between 0 and %d", MaxTokensLimit)
	}
	if t := c.LLM.Temperature; t != nil && (*t < 0 || *t > 2) {
		return fmt.Errorf("llm temperature must be between 0 and 2, got %g", *t)
	}
	if rt := c.Server.RequestTimeout.Duration; rt > 0 {
		// Worst case: one registry fetch, one fallback call and one report call.
		if worst := c.Registry.Timeout.Duration + 2*c.LLM.Timeout.Duration; rt < worst {
			return fmt.Errorf("server request_timeout %s is shorter than the pipeline worst case %s", rt, worst)
		}
	}
	if c.Prompts.Fallback == "" || c.Prompts.Report == "" {
		return errors.New("fallback and report prompts are required")
	}
	return nil
}

func float32Ptr(v float32) *float32 {
	return &v
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
