// Package pool holds the active question bank.
package pool

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/abhisek/certquiz/internal/ingest"
	"github.com/abhisek/certquiz/internal/question"
)

// Source identifies where the active pool came from.
type Source string

const (
	SourceDefault  Source = "default"
	SourceUploaded Source = "uploaded"
)

// ErrIngestInProgress is returned when an upload is attempted while
// another one has not finished.
var ErrIngestInProgress = errors.New("an upload is already being processed")

// Manager holds exactly one active pool. The pool is replaced wholesale and
// never mutated in place; readers always receive copies.
type Manager struct {
	mu        sync.RWMutex
	questions []question.Question
	source    Source

	ingesting atomic.Bool
	logger    zerolog.Logger
}

// New creates a Manager holding the built-in pool.
func New(logger zerolog.Logger) *Manager {
	m := &Manager{logger: logger}
	m.UseDefault()
	return m
}

// UseDefault switches to the built-in pool.
func (m *Manager) UseDefault() {
	m.swap(question.CloneAll(defaultQuestions), SourceDefault)
}

// Ingest parses and validates data and, if the whole batch is valid, makes
// it the active pool. On any failure the active pool is left unchanged.
// Only one ingestion may run at a time; a concurrent call fails fast with
// ErrIngestInProgress.
func (m *Manager) Ingest(ctx context.Context, data []byte, filename string) (int, error) {
	if !m.ingesting.CompareAndSwap(false, true) {
		return 0, ErrIngestInProgress
	}
	defer m.ingesting.Store(false)

	qs, err := ingest.Load(data, filename)
	if err != nil {
		m.logger.Warn().Err(err).Str("file", filename).Msg("question upload rejected")
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	m.swap(qs, SourceUploaded)
	m.logger.Info().Str("file", filename).Int("questions", len(qs)).Msg("question pool replaced")
	return len(qs), nil
}

// IngestFile reads path from disk and ingests it.
func (m *Manager) IngestFile(ctx context.Context, path string) (int, error) {
	data, err := ingest.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return m.Ingest(ctx, data, path)
}

// Busy reports whether an ingestion is in flight.
func (m *Manager) Busy() bool { return m.ingesting.Load() }

// Questions returns a copy of the active pool.
func (m *Manager) Questions() []question.Question {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return question.CloneAll(m.questions)
}

// Size returns the number of questions in the active pool.
func (m *Manager) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.questions)
}

// Source returns where the active pool came from.
func (m *Manager) Source() Source {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.source
}

func (m *Manager) swap(qs []question.Question, src Source) {
	m.mu.Lock()
	m.questions = qs
	m.source = src
	m.mu.Unlock()
}
