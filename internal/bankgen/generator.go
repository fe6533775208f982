// Package bankgen drafts question banks with a language model. The result
// is serialized in the JSON upload format and must go through the regular
// ingestion pipeline before any of it reaches a quiz.
package bankgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/certquiz/internal/ingest"
	"github.com/abhisek/certquiz/internal/llm"
	"github.com/abhisek/certquiz/internal/question"
)

// ErrEmptyTopic is returned when Input.Topic is blank.
var ErrEmptyTopic = errors.New("topic is required")

// Config controls request shape and fan-out.
type Config struct {
	// ChunkSize is the number of questions requested per model call.
	ChunkSize int

	// Concurrency bounds in-flight model calls.
	Concurrency int

	MaxTokens   int
	Temperature float64
}

func DefaultConfig() Config {
	return Config{
		ChunkSize:   5,
		Concurrency: 3,
		MaxTokens:   4096,
		Temperature: 0.7,
	}
}

// Input describes the bank to draft.
type Input struct {
	Topic string
	Count int

	// Level is free text, e.g. "associate".
	Level string

	// Avoid lists question prompts that must not be repeated.
	Avoid []string
}

// Bank is a drafted question bank ready for upload.
type Bank struct {
	RequestID string
	Filename  string
	Data      []byte
	Records   int
}

// Generator fans a bank request out over several model calls.
type Generator struct {
	provider llm.Provider
	config   Config
	logger   zerolog.Logger
}

func New(provider llm.Provider, cfg Config, logger zerolog.Logger) *Generator {
	if cfg.ChunkSize < 1 {
		cfg.ChunkSize = 1
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	return &Generator{provider: provider, config: cfg, logger: logger}
}

// ModelID names the model behind the generator.
func (g *Generator) ModelID() string { return g.provider.ModelID() }

// Generate requests in.Count questions split into chunks and merges the
// results in chunk order. Questions repeated across chunks are dropped, so
// the bank can come back smaller than requested.
func (g *Generator) Generate(ctx context.Context, in Input) (*Bank, error) {
	in.Topic = strings.TrimSpace(in.Topic)
	if in.Topic == "" {
		return nil, ErrEmptyTopic
	}
	if in.Count < 1 {
		return nil, fmt.Errorf("count must be at least 1, got %d", in.Count)
	}

	reqID := uuid.NewString()
	log := g.logger.With().Str("request_id", reqID).Str("topic", in.Topic).Logger()
	ctx = llm.WithPurpose(ctx, llm.PurposeBankGen)

	sizes := chunkSizes(in.Count, g.config.ChunkSize)
	results := make([][]questionOutput, len(sizes))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.config.Concurrency)
	for i, n := range sizes {
		eg.Go(func() error {
			qs, err := g.generateChunk(egCtx, in, n, i, len(sizes))
			if err != nil {
				return fmt.Errorf("batch %d: %w", i+1, err)
			}
			results[i] = qs
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		log.Warn().Err(err).Msg("question bank generation failed")
		return nil, err
	}

	merged := merge(results, in.Avoid, in.Count)
	if len(merged) == 0 {
		return nil, errors.New("model returned no usable questions")
	}

	log.Info().Int("requested", in.Count).Int("records", len(merged)).Int("batches", len(sizes)).
		Msg("question bank drafted")

	return &Bank{
		RequestID: reqID,
		Filename:  Filename(in.Topic),
		Data:      ingest.EncodeJSON(merged),
		Records:   len(merged),
	}, nil
}

func (g *Generator) generateChunk(ctx context.Context, in Input, n, chunk, chunks int) ([]questionOutput, error) {
	resp, err := g.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Prompt:      buildPrompt(in, n, chunk, chunks),
		Schema:      BankSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("generate batch %d of %d: %w", chunk+1, chunks, err)
	}

	var out bankOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}
	if len(out.Questions) > n {
		out.Questions = out.Questions[:n]
	}
	return out.Questions, nil
}

func chunkSizes(total, size int) []int {
	var sizes []int
	for total > 0 {
		n := min(size, total)
		sizes = append(sizes, n)
		total -= n
	}
	return sizes
}

// merge flattens chunk results, drops repeats (case- and
// whitespace-insensitive) and numbers the survivors from 1.
func merge(chunks [][]questionOutput, avoid []string, limit int) []question.Question {
	seen := make(map[string]bool, len(avoid))
	for _, a := range avoid {
		seen[normalize(a)] = true
	}

	var out []question.Question
	for _, qs := range chunks {
		for _, q := range qs {
			key := normalize(q.Question)
			if key == "" || seen[key] || len(out) == limit {
				continue
			}
			seen[key] = true
			out = append(out, question.Question{
				ID:            len(out) + 1,
				Prompt:        q.Question,
				Options:       q.Options,
				CorrectAnswer: q.CorrectAnswer,
				Explanation:   q.Explanation,
			})
		}
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Filename returns the upload filename for a generated bank on topic.
func Filename(topic string) string {
	slug := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(topic), "-"), "-")
	if slug == "" {
		slug = "bank"
	}
	if len(slug) > 40 {
		slug = strings.TrimRight(slug[:40], "-")
	}
	return "generated-" + slug + ".json"
}
