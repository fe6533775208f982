package llm

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v10"
)

// Provider names accepted in Config.Provider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// EnvPrefix is prepended to every environment variable read by
// ConfigFromEnv.
const EnvPrefix = "CERTQUIZ_"

// Config holds all LLM provider configuration. Env tags are relative to
// EnvPrefix.
type Config struct {
	// Provider is empty when AI features are disabled.
	Provider string `yaml:"provider" env:"LLM_PROVIDER"`

	Anthropic  AnthropicConfig  `yaml:"anthropic" envPrefix:"ANTHROPIC_"`
	OpenAI     OpenAIConfig     `yaml:"openai" envPrefix:"OPENAI_"`
	Gemini     GeminiConfig     `yaml:"gemini" envPrefix:"GEMINI_"`
	OpenRouter OpenRouterConfig `yaml:"openrouter" envPrefix:"OPENROUTER_"`
	Retry      RetryConfig      `yaml:"retry" envPrefix:"LLM_RETRY_"`

	// Timeout bounds a single generation including retries.
	Timeout time.Duration `yaml:"timeout" env:"LLM_TIMEOUT"`
}

type AnthropicConfig struct {
	APIKey string `yaml:"api_key" env:"API_KEY"`
	Model  string `yaml:"model" env:"MODEL"`
}

type OpenAIConfig struct {
	APIKey  string `yaml:"api_key" env:"API_KEY"`
	Model   string `yaml:"model" env:"MODEL"`
	BaseURL string `yaml:"base_url" env:"BASE_URL"`
}

type GeminiConfig struct {
	APIKey string `yaml:"api_key" env:"API_KEY"`
	Model  string `yaml:"model" env:"MODEL"`
}

type OpenRouterConfig struct {
	APIKey  string `yaml:"api_key" env:"API_KEY"`
	Model   string `yaml:"model" env:"MODEL"`
	BaseURL string `yaml:"base_url" env:"BASE_URL"`
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts" env:"MAX_ATTEMPTS"`
	InitialWait time.Duration `yaml:"initial_wait" env:"INITIAL_WAIT"`
	MaxWait     time.Duration `yaml:"max_wait" env:"MAX_WAIT"`
	Multiplier  float64       `yaml:"multiplier" env:"MULTIPLIER"`
}

// DefaultConfig returns a Config with AI disabled and default models.
func DefaultConfig() Config {
	return Config{
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.0-flash-exp"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 90 * time.Second,
	}
}

// ApplyEnv overlays CERTQUIZ_* environment variables onto cfg. Unset
// variables leave the existing values alone.
func ApplyEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse LLM env: %w", err)
	}
	return nil
}

// ConfigFromEnv builds a Config from defaults and the environment.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()
	err := ApplyEnv(&cfg)
	return cfg, err
}

// Discover fills in a provider from the well-known vendor API key
// variables (Gemini, OpenAI, Anthropic, OpenRouter, in that order) when
// none is configured. It reports whether a provider is set afterwards.
func (c *Config) Discover() bool {
	if c.Provider != "" {
		return true
	}
	probes := []struct {
		env      string
		provider string
		key      *string
	}{
		{"GEMINI_API_KEY", ProviderGemini, &c.Gemini.APIKey},
		{"OPENAI_API_KEY", ProviderOpenAI, &c.OpenAI.APIKey},
		{"ANTHROPIC_API_KEY", ProviderAnthropic, &c.Anthropic.APIKey},
		{"OPENROUTER_API_KEY", ProviderOpenRouter, &c.OpenRouter.APIKey},
	}
	for _, p := range probes {
		if k := os.Getenv(p.env); k != "" {
			c.Provider = p.provider
			if *p.key == "" {
				*p.key = k
			}
			return true
		}
	}
	return false
}

// Enabled reports whether a provider is configured.
func (c Config) Enabled() bool { return c.Provider != "" }

// Validate checks that the selected provider has its required API key set.
// An empty provider is valid and means AI features are off.
func (c Config) Validate() error {
	var key, name string
	switch c.Provider {
	case "", ProviderMock:
		return nil
	case ProviderAnthropic:
		key, name = c.Anthropic.APIKey, "ANTHROPIC"
	case ProviderOpenAI:
		key, name = c.OpenAI.APIKey, "OPENAI"
	case ProviderGemini:
		key, name = c.Gemini.APIKey, "GEMINI"
	case ProviderOpenRouter:
		key, name = c.OpenRouter.APIKey, "OPENROUTER"
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if key == "" {
		return fmt.Errorf("%s%s_API_KEY is required for the %s provider", EnvPrefix, name, c.Provider)
	}
	return nil
}
