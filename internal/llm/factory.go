package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/abhisek/certquiz/internal/store"
)

// ErrNotConfigured is returned when no provider is configured or
// discoverable.
var ErrNotConfigured = errors.New("no LLM provider configured: set CERTQUIZ_LLM_PROVIDER or a vendor API key")

// NewProvider builds the configured provider wrapped as
// caller -> retry -> logging -> base. repo may be nil.
func NewProvider(ctx context.Context, cfg Config, repo store.EventRepo, logger zerolog.Logger) (Provider, error) {
	if !cfg.Enabled() {
		return nil, ErrNotConfigured
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var base Provider
	var err error
	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case ProviderMock:
		base = NewMockProvider()
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	logged := WithLogging(base, cfg.Provider, repo, logger)
	return WithRetry(logged, cfg.Retry), nil
}

// NewProviderFromEnv is NewProvider over ConfigFromEnv plus vendor key
// discovery.
func NewProviderFromEnv(ctx context.Context, repo store.EventRepo, logger zerolog.Logger) (Provider, error) {
	cfg, err := ConfigFromEnv()
	if err != nil {
		return nil, err
	}
	cfg.Discover()
	return NewProvider(ctx, cfg, repo, logger)
}
