package history

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

// StorageError wraps a failure of the underlying slot. It is never fatal:
// callers log it and tell the user the result was not saved.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("history %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Store appends, lists, clears and exports history entries. Every append
// reads the full log, appends one entry and writes the full log back.
type Store struct {
	slot       Slot
	key        string
	exportPath string
	logger     zerolog.Logger

	mu sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for degraded-storage warnings.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithAutoExport writes the full CSV export to path after every append.
func WithAutoExport(path string) Option {
	return func(s *Store) { s.exportPath = path }
}

// WithKey overrides SlotKey.
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// NewStore creates a Store over slot.
func NewStore(slot Slot, opts ...Option) *Store {
	s := &Store{slot: slot, key: SlotKey, logger: zerolog.Nop()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Append adds e to the end of the log.
func (s *Store) Append(ctx context.Context, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load(ctx)
	if err != nil {
		return &StorageError{Op: "read", Err: err}
	}
	entries = append(entries, e)

	data, err := json.Marshal(entries)
	if err != nil {
		return &StorageError{Op: "encode", Err: err}
	}
	if err := s.slot.Save(ctx, s.key, data); err != nil {
		return &StorageError{Op: "write", Err: err}
	}

	s.logger.Debug().Int("entries", len(entries)).Int("score", e.Score).Msg("history entry saved")

	if s.exportPath != "" {
		if err := os.WriteFile(s.exportPath, []byte(ExportText(entries)), 0o644); err != nil {
			s.logger.Warn().Err(err).Str("path", s.exportPath).Msg("history auto-export failed")
		}
	}
	return nil
}

// List returns all entries in insertion order. Missing or unreadable data
// is reported as an empty history.
func (s *Store) List(ctx context.Context) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("history unavailable, showing empty history")
		return nil
	}
	return entries
}

// Recent returns at most the last n entries of List.
func (s *Store) Recent(ctx context.Context, n int) []Entry {
	entries := s.List(ctx)
	if n >= 0 && len(entries) > n {
		entries = entries[len(entries)-n:]
	}
	return entries
}

// Clear removes every entry.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.slot.Delete(ctx, s.key); err != nil {
		return &StorageError{Op: "clear", Err: err}
	}
	s.logger.Info().Msg("history cleared")
	return nil
}

// load reads the log. Corrupt data decodes as empty; only slot failures
// are returned as errors.
func (s *Store) load(ctx context.Context) ([]Entry, error) {
	data, err := s.slot.Load(ctx, s.key)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		s.logger.Warn().Err(err).Msg("history data is corrupt, treating as empty")
		return nil, nil
	}
	return entries, nil
}
