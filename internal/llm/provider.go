// Package llm talks to hosted language models. It is used to draft
// question banks; everything it returns is validated before use.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

// Provider generates structured output from a prompt.
type Provider interface {
	// Generate sends req and returns the model output. When req.Schema is
	// set the output has already been checked against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request is one single-turn call: a system instruction and a prompt.
type Request struct {
	System string
	Prompt string

	// Schema, when set, asks the provider for JSON output through its
	// native structured-output mechanism.
	Schema *Schema

	MaxTokens   int
	Temperature float64
}

// Schema is a named JSON Schema the output must satisfy.
type Schema struct {
	// Name is kebab-case, e.g. "question-bank". It doubles as the cache key
	// for the compiled schema.
	Name        string
	Description string
	Definition  map[string]any
}

// Response is the model output.
type Response struct {
	Content json.RawMessage
	Usage   Usage
	Model   string

	// Truncated is set when the model stopped at MaxTokens.
	Truncated bool
}

// Usage is the token count for one call.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

func (u Usage) Total() int { return u.InputTokens + u.OutputTokens }

// completion is what every SDK adapter extracts from its native reply.
type completion struct {
	text      string
	model     string
	usage     Usage
	truncated bool
}

// finish validates c against the request schema. Output that fails the
// schema because it was cut off is reported as ErrMaxTokensExceeded.
func finish(req Request, c completion) (*Response, error) {
	content := json.RawMessage(c.text)
	if req.Schema != nil {
		if err := validateResponse(req.Schema, content); err != nil {
			if c.truncated {
				return nil, &ErrMaxTokensExceeded{Content: content}
			}
			return nil, err
		}
	}
	return &Response{Content: content, Usage: c.usage, Model: c.model, Truncated: c.truncated}, nil
}

// classify maps an SDK error with HTTP status code to ErrRateLimit or
// ErrProviderUnavailable. Context errors pass through so callers can tell
// a cancel from an outage.
func classify(err error, status int, retryAfter time.Duration) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if status == http.StatusTooManyRequests {
		return &ErrRateLimit{RetryAfter: retryAfter, Err: err}
	}
	return &ErrProviderUnavailable{Err: err}
}

// resolveModel maps a friendly model name to a provider model ID. Unknown
// names are passed through.
func resolveModel(name string, models map[string]string) string {
	if id, ok := models[name]; ok {
		return id
	}
	return name
}
