// Package controller turns user actions into pool, session and history
// operations.
package controller

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/abhisek/certquiz/internal/bankgen"
	"github.com/abhisek/certquiz/internal/history"
	"github.com/abhisek/certquiz/internal/ingest"
	"github.com/abhisek/certquiz/internal/pool"
	"github.com/abhisek/certquiz/internal/session"
)

// RecentLimit is the number of history rows shown on the setup screen.
const RecentLimit = 10

// ErrAIDisabled is returned by OnGenerate when no LLM provider is set up.
var ErrAIDisabled = errors.New("AI question generation is not configured")

// SourceChoice is the question source picked on the setup screen.
type SourceChoice int

const (
	SourceDefault SourceChoice = iota
	SourceUpload
)

// Controller owns the pool, session and history for one running app.
// Every user action goes through one of its On* methods so the TUI, the
// CLI and tests drive the same code.
type Controller struct {
	Pool      *pool.Manager
	Session   *session.Session
	History   *history.Store
	Generator *bankgen.Generator
	Logger    zerolog.Logger

	defaults  session.Config
	exportDir string
}

// Deps are the collaborators New wires together.
type Deps struct {
	Pool      *pool.Manager
	History   *history.Store
	Generator *bankgen.Generator
	Logger    zerolog.Logger

	// Defaults prefill the setup form.
	Defaults session.Config

	// ExportDir receives exported history and sample files. Empty means
	// the working directory.
	ExportDir string

	SessionOptions []session.Option
}

// New builds a Controller. The session records into d.History.
func New(d Deps) *Controller {
	if d.Pool == nil {
		d.Pool = pool.New(d.Logger)
	}
	if d.Defaults.Count < 1 {
		d.Defaults.Count = 10
	}
	if d.Defaults.Minutes < 1 {
		d.Defaults.Minutes = 15
	}

	opts := []session.Option{session.WithLogger(d.Logger)}
	if d.History != nil {
		opts = append(opts, session.WithRecorder(d.History))
	}
	opts = append(opts, d.SessionOptions...)

	return &Controller{
		Pool:      d.Pool,
		Session:   session.New(d.Pool, opts...),
		History:   d.History,
		Generator: d.Generator,
		Logger:    d.Logger,
		defaults:  d.Defaults,
		exportDir: d.ExportDir,
	}
}

// Close stops any running countdown.
func (c *Controller) Close() { c.Session.Close() }

// DefaultConfig returns the setup form defaults clamped to the pool size.
func (c *Controller) DefaultConfig() session.Config {
	cfg := c.defaults
	cfg.Count = min(cfg.Count, c.Pool.Size())
	return cfg
}

// BankLabel describes the active pool, e.g. "Custom (12 questions)".
func (c *Controller) BankLabel() string {
	if c.Pool.Source() == pool.SourceUploaded {
		return fmt.Sprintf("Custom (%d questions)", c.Pool.Size())
	}
	return "Default"
}

// AIEnabled reports whether OnGenerate can be used.
func (c *Controller) AIEnabled() bool { return c.Generator != nil }

// OnSourceSelect switches to the built-in bank, or reports that a file
// must be chosen next.
func (c *Controller) OnSourceSelect(choice SourceChoice) (needsFile bool) {
	if choice == SourceUpload {
		return true
	}
	c.Pool.UseDefault()
	c.Logger.Info().Msg("using default question bank")
	return false
}

// OnFileChosen ingests an uploaded file. On failure the active pool is
// unchanged.
func (c *Controller) OnFileChosen(ctx context.Context, data []byte, filename string) (int, error) {
	return c.Pool.Ingest(ctx, data, filename)
}

// OnFilePath reads path and ingests it.
func (c *Controller) OnFilePath(ctx context.Context, path string) (int, error) {
	return c.Pool.IngestFile(ctx, path)
}

// OnGenerate drafts a bank on topic and ingests it like an upload.
func (c *Controller) OnGenerate(ctx context.Context, topic string, count int) (int, error) {
	if c.Generator == nil {
		return 0, ErrAIDisabled
	}
	bank, err := c.Generator.Generate(ctx, bankgen.Input{Topic: topic, Count: count})
	if err != nil {
		return 0, err
	}
	return c.Pool.Ingest(ctx, bank.Data, bank.Filename)
}

// OnConfigSubmit starts a quiz.
func (c *Controller) OnConfigSubmit(count, minutes int) error {
	return c.Session.Start(session.Config{Count: count, Minutes: minutes})
}

func (c *Controller) OnOptionClick(i int) error { return c.Session.Select(i) }

// OnNext advances; on the last question it finishes and returns the outcome.
func (c *Controller) OnNext(ctx context.Context) (*session.Outcome, error) {
	return c.Session.Next(ctx)
}

func (c *Controller) OnPrevious() error { return c.Session.Previous() }

func (c *Controller) OnFinishEarly(ctx context.Context) (*session.Outcome, error) {
	return c.Session.Finish(ctx)
}

// OnReset returns to setup after a finished quiz.
func (c *Controller) OnReset() error { return c.Session.Reset() }

// RecentHistory returns up to RecentLimit of the newest entries in
// chronological order.
func (c *Controller) RecentHistory(ctx context.Context) []history.Entry {
	if c.History == nil {
		return nil
	}
	return c.History.Recent(ctx, RecentLimit)
}

// AllHistory returns every entry, oldest first.
func (c *Controller) AllHistory(ctx context.Context) []history.Entry {
	if c.History == nil {
		return nil
	}
	return c.History.List(ctx)
}

// Snapshot returns the current session state for rendering.
func (c *Controller) Snapshot() session.Snapshot { return c.Session.Snapshot() }

// OnExportHistory writes the history CSV and returns its path.
func (c *Controller) OnExportHistory(ctx context.Context) (string, error) {
	if c.History == nil {
		return "", errors.New("history is not available")
	}
	return c.writeFile(history.ExportFilename, []byte(history.ExportText(c.History.List(ctx))))
}

func (c *Controller) OnClearHistory(ctx context.Context) error {
	if c.History == nil {
		return nil
	}
	return c.History.Clear(ctx)
}

// OnExportSample writes a sample upload file in format ("json" or "csv").
func (c *Controller) OnExportSample(format string) (string, error) {
	switch format {
	case ingest.FormatCSV:
		return c.writeFile("sample-questions.csv", ingest.SampleCSV())
	default:
		return c.writeFile(ingest.SampleFilename, ingest.SampleJSON())
	}
}

func (c *Controller) writeFile(name string, data []byte) (string, error) {
	path := filepath.Join(c.exportDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	c.Logger.Info().Str("path", path).Int("bytes", len(data)).Msg("file exported")
	return path, nil
}
