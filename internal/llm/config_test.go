package llm

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func clearVendorKeys(t *testing.T) {
	for _, k := range []string{"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY", "CERTQUIZ_LLM_PROVIDER"} {
		t.Setenv(k, "")
	}
}

func TestConfigFromEnv(t *testing.T) {
	clearVendorKeys(t)
	t.Setenv("CERTQUIZ_LLM_PROVIDER", "openai")
	t.Setenv("CERTQUIZ_OPENAI_API_KEY", "sk-test")
	t.Setenv("CERTQUIZ_LLM_RETRY_MAX_ATTEMPTS", "5")
	t.Setenv("CERTQUIZ_LLM_TIMEOUT", "30s")

	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Provider != ProviderOpenAI || cfg.OpenAI.APIKey != "sk-test" {
		t.Fatalf("unexpected provider config: %+v", cfg)
	}
	if cfg.OpenAI.Model != "gpt-4o-mini" {
		t.Fatalf("default model lost: %q", cfg.OpenAI.Model)
	}
	if cfg.Retry.MaxAttempts != 5 || cfg.Retry.Multiplier != 2.0 {
		t.Fatalf("unexpected retry config: %+v", cfg.Retry)
	}
	if cfg.Timeout != 30*time.Second {
		t.Fatalf("unexpected timeout: %s", cfg.Timeout)
	}
}

func TestConfig_Discover(t *testing.T) {
	clearVendorKeys(t)
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")
	t.Setenv("OPENROUTER_API_KEY", "sk-or")

	cfg := DefaultConfig()
	if !cfg.Discover() {
		t.Fatal("expected a provider to be discovered")
	}
	if cfg.Provider != ProviderAnthropic || cfg.Anthropic.APIKey != "sk-ant" {
		t.Fatalf("unexpected discovery: %+v", cfg)
	}

	clearVendorKeys(t)
	cfg = DefaultConfig()
	if cfg.Discover() || cfg.Enabled() {
		t.Fatal("expected nothing to be discovered")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"disabled", Config{}, false},
		{"anthropic without key", Config{Provider: ProviderAnthropic}, true},
		{"anthropic with key", Config{Provider: ProviderAnthropic, Anthropic: AnthropicConfig{APIKey: "sk"}}, false},
		{"gemini without key", Config{Provider: ProviderGemini}, true},
		{"openrouter with key", Config{Provider: ProviderOpenRouter, OpenRouter: OpenRouterConfig{APIKey: "sk"}}, false},
		{"mock needs no key", Config{Provider: ProviderMock}, false},
		{"unknown provider", Config{Provider: "unknown"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewProvider(t *testing.T) {
	_, err := NewProvider(context.Background(), DefaultConfig(), nil, zerolog.Nop())
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}

	cfg := DefaultConfig()
	cfg.Provider = ProviderMock
	p, err := NewProvider(context.Background(), cfg, nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "mock" {
		t.Fatalf("expected mock model, got %q", p.ModelID())
	}

	cfg.Provider = ProviderOpenRouter
	if _, err := NewProvider(context.Background(), cfg, nil, zerolog.Nop()); err == nil {
		t.Fatal("expected missing key error")
	}
}

func TestModelCost(t *testing.T) {
	c := LookupCost("gpt-4o-mini")
	if c == nil {
		t.Fatal("expected pricing for gpt-4o-mini")
	}
	if got := c.Cost(1_000_000, 1_000_000); math.Abs(got-0.75) > 1e-9 {
		t.Fatalf("unexpected cost %v", got)
	}
	if LookupCost("no-such-model") != nil {
		t.Fatal("expected nil for unknown model")
	}
}
