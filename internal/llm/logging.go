package llm

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/abhisek/certquiz/internal/store"
)

// LoggingProvider writes one llm_requests row and one log line per call.
type LoggingProvider struct {
	inner    Provider
	provider string
	repo     store.EventRepo
	logger   zerolog.Logger
}

// WithLogging wraps p. provider is the configured provider name; repo may
// be nil, in which case only the log line is written.
func WithLogging(p Provider, provider string, repo store.EventRepo, logger zerolog.Logger) Provider {
	return &LoggingProvider{inner: p, provider: provider, repo: repo, logger: logger}
}

func (l *LoggingProvider) ModelID() string { return l.inner.ModelID() }

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)
	elapsed := time.Since(start)

	ev := store.LLMRequestEventData{
		Provider:    l.provider,
		Model:       l.inner.ModelID(),
		Purpose:     PurposeFrom(ctx),
		LatencyMs:   elapsed.Milliseconds(),
		Success:     err == nil,
		RequestBody: transcript(req),
	}
	if resp != nil {
		ev.Model = resp.Model
		ev.InputTokens = resp.Usage.InputTokens
		ev.OutputTokens = resp.Usage.OutputTokens
		ev.ResponseBody = string(resp.Content)
	}
	if err != nil {
		ev.ErrorMessage = err.Error()
	}

	line := l.logger.Debug()
	if err != nil {
		line = l.logger.Warn().Err(err)
	}
	line.Str("provider", ev.Provider).
		Str("model", ev.Model).
		Str("purpose", ev.Purpose).
		Dur("latency", elapsed).
		Int("input_tokens", ev.InputTokens).
		Int("output_tokens", ev.OutputTokens).
		Msg("llm request")

	if l.repo != nil {
		if recErr := l.repo.AppendLLMRequest(ctx, ev); recErr != nil {
			l.logger.Warn().Err(recErr).Msg("could not record llm request")
		}
	}
	return resp, err
}

// transcript renders req for the request log.
func transcript(req Request) string {
	var b strings.Builder
	section := func(title, body string) {
		b.WriteString("[" + title + "]\n")
		b.WriteString(body)
		b.WriteString("\n\n")
	}
	if req.System != "" {
		section("system", req.System)
	}
	section("prompt", req.Prompt)
	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			section("schema: "+req.Schema.Name, string(def))
		}
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}
