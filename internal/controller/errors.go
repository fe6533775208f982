package controller

import (
	"context"
	"errors"

	"github.com/abhisek/certquiz/internal/bankgen"
	"github.com/abhisek/certquiz/internal/history"
	"github.com/abhisek/certquiz/internal/ingest"
	"github.com/abhisek/certquiz/internal/llm"
	"github.com/abhisek/certquiz/internal/pool"
	"github.com/abhisek/certquiz/internal/question"
	"github.com/abhisek/certquiz/internal/session"
)

// UserMessage converts err into a sentence suitable for the status line.
// Unknown errors get a generic message; the detail belongs in the log.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var (
		cfgErr   *session.ConfigError
		ingErr   *ingest.IngestionError
		parseErr *ingest.ParseError
		valErr   *question.ValidationError
		storeErr *history.StorageError
		rateErr  *llm.ErrRateLimit
		llmErr   *llm.ErrProviderUnavailable
		badOut   *llm.ErrInvalidResponse
		truncErr *llm.ErrMaxTokensExceeded
	)

	switch {
	case errors.As(err, &cfgErr):
		return cfgErr.Message
	case errors.As(err, &valErr):
		return valErr.Error()
	case errors.As(err, &parseErr):
		return parseErr.Error()
	case errors.As(err, &ingErr):
		return ingErr.Cause
	case errors.As(err, &storeErr):
		return "Your result could not be saved to history."
	case errors.Is(err, pool.ErrIngestInProgress):
		return "Please wait for the current file to finish loading."
	case errors.Is(err, session.ErrNoQuestionsLoaded):
		return "No questions are loaded. Choose a question bank first."
	case errors.Is(err, session.ErrNotSetup):
		return "A quiz is already running."
	case errors.Is(err, ErrAIDisabled):
		return "AI generation is off. Set an API key such as CERTQUIZ_OPENAI_API_KEY to enable it."
	case errors.Is(err, bankgen.ErrEmptyTopic):
		return "Please enter a topic."
	case errors.As(err, &rateErr):
		return "The AI provider is rate limiting requests. Try again shortly."
	case errors.As(err, &truncErr):
		return "The AI response was cut short. Ask for fewer questions."
	case errors.As(err, &badOut), errors.As(err, &llmErr):
		return "The AI provider could not generate questions. Try again."
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "The operation was cancelled."
	}
	return "Something went wrong. Please try again."
}
