package controller

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/certquiz/internal/history"
	"github.com/abhisek/certquiz/internal/ingest"
	"github.com/abhisek/certquiz/internal/pool"
	"github.com/abhisek/certquiz/internal/question"
	"github.com/abhisek/certquiz/internal/session"
)

type failingSlot struct{}

func (failingSlot) Load(context.Context, string) ([]byte, error) { return nil, nil }
func (failingSlot) Save(context.Context, string, []byte) error  { return errors.New("quota exceeded") }
func (failingSlot) Delete(context.Context, string) error         { return nil }

func newController(t *testing.T, slot history.Slot) (*Controller, *session.ManualScheduler) {
	t.Helper()
	sched := &session.ManualScheduler{}
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	c := New(Deps{
		History:   history.NewStore(slot),
		Logger:    zerolog.Nop(),
		Defaults:  session.Config{Count: 20, Minutes: 15},
		ExportDir: t.TempDir(),
		SessionOptions: []session.Option{
			session.WithScheduler(sched),
			session.WithRand(rand.New(rand.NewPCG(3, 4))),
			session.WithClock(func() time.Time { return now }),
		},
	})
	t.Cleanup(c.Close)
	return c, sched
}

// answerAllCorrectly walks the quiz choosing the right option each time.
func answerAllCorrectly(t *testing.T, c *Controller) *session.Outcome {
	t.Helper()
	for {
		snap := c.Snapshot()
		q, _ := snap.Current()
		require.NoError(t, c.OnOptionClick(q.CorrectIndex()))
		out, err := c.OnNext(context.Background())
		require.NoError(t, err)
		if out != nil {
			return out
		}
	}
}

func TestFullQuizRecordsHistory(t *testing.T) {
	c, sched := newController(t, history.NewMemorySlot())
	ctx := context.Background()

	require.NoError(t, c.OnConfigSubmit(3, 2))
	sched.Tick(30)

	out := answerAllCorrectly(t, c)
	assert.Equal(t, 3, out.Result.Correct)
	assert.Equal(t, 100, out.Result.Score)
	assert.Equal(t, 30, out.Result.TimeUsed)
	assert.NoError(t, out.SaveErr)

	entries := c.RecentHistory(ctx)
	require.Len(t, entries, 1)
	assert.Equal(t, "00:30", entries[0].TimeUsed)

	require.NoError(t, c.OnReset())
	assert.Equal(t, session.PhaseSetup, c.Session.Phase())
}

func TestConfigSubmitRejectsTooMany(t *testing.T) {
	c, _ := newController(t, history.NewMemorySlot())

	err := c.OnConfigSubmit(c.Pool.Size()+1, 5)
	require.Error(t, err)

	var cfgErr *session.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, cfgErr.Message, UserMessage(err))
	assert.Equal(t, session.PhaseSetup, c.Session.Phase())
}

func TestDefaultConfigClampedToPool(t *testing.T) {
	c, _ := newController(t, history.NewMemorySlot())
	cfg := c.DefaultConfig()
	assert.Equal(t, c.Pool.Size(), cfg.Count)
	assert.Equal(t, 15, cfg.Minutes)
}

func TestUploadSwitchesBankLabel(t *testing.T) {
	c, _ := newController(t, history.NewMemorySlot())
	ctx := context.Background()
	assert.Equal(t, "Default", c.BankLabel())

	assert.True(t, c.OnSourceSelect(SourceUpload))

	n, err := c.OnFileChosen(ctx, ingest.SampleCSV(), "bank.csv")
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("Custom (%d questions)", n), c.BankLabel())

	assert.False(t, c.OnSourceSelect(SourceDefault))
	assert.Equal(t, "Default", c.BankLabel())
}

func TestBadUploadKeepsPool(t *testing.T) {
	c, _ := newController(t, history.NewMemorySlot())
	before := c.Pool.Size()

	_, err := c.OnFileChosen(context.Background(), []byte(`[{"question":"q","options":["a","b"],"correctAnswer":"z"}]`), "bad.json")
	require.Error(t, err)

	var verr *question.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Found 1 invalid questions. Please check your file format.", UserMessage(err))
	assert.Equal(t, before, c.Pool.Size())
	assert.Equal(t, pool.SourceDefault, c.Pool.Source())
}

func TestOnFilePath(t *testing.T) {
	c, _ := newController(t, history.NewMemorySlot())
	path := filepath.Join(t.TempDir(), "bank.json")
	require.NoError(t, os.WriteFile(path, ingest.SampleJSON(), 0o644))

	n, err := c.OnFilePath(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, n, c.Pool.Size())
}

func TestSaveFailureIsReported(t *testing.T) {
	c, _ := newController(t, failingSlot{})

	require.NoError(t, c.OnConfigSubmit(1, 1))
	out, err := c.OnFinishEarly(context.Background())
	require.NoError(t, err)
	require.Error(t, out.SaveErr)
	assert.Equal(t, "Your result could not be saved to history.", UserMessage(out.SaveErr))
	assert.Equal(t, session.PhaseFinished, c.Session.Phase())
}

func TestExportAndClearHistory(t *testing.T) {
	c, _ := newController(t, history.NewMemorySlot())
	ctx := context.Background()

	require.NoError(t, c.OnConfigSubmit(2, 1))
	_, err := c.OnFinishEarly(ctx)
	require.NoError(t, err)

	path, err := c.OnExportHistory(ctx)
	require.NoError(t, err)
	assert.Equal(t, history.ExportFilename, filepath.Base(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Date,Questions,Correct,Score,TimeUsed", lines[0])
	assert.Contains(t, lines[1], ",2,0,0%,00:00")

	require.NoError(t, c.OnClearHistory(ctx))
	assert.Empty(t, c.AllHistory(ctx))
}

func TestExportSample(t *testing.T) {
	c, _ := newController(t, history.NewMemorySlot())

	jsonPath, err := c.OnExportSample(ingest.FormatJSON)
	require.NoError(t, err)
	csvPath, err := c.OnExportSample(ingest.FormatCSV)
	require.NoError(t, err)

	for _, p := range []string{jsonPath, csvPath} {
		data, err := os.ReadFile(p)
		require.NoError(t, err)
		_, err = ingest.Load(data, filepath.Base(p))
		assert.NoError(t, err, "exported sample %s must be a valid upload", p)
	}
}

func TestGenerateWithoutProvider(t *testing.T) {
	c, _ := newController(t, history.NewMemorySlot())
	assert.False(t, c.AIEnabled())

	_, err := c.OnGenerate(context.Background(), "networking", 5)
	assert.ErrorIs(t, err, ErrAIDisabled)
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{pool.ErrIngestInProgress, "Please wait for the current file to finish loading."},
		{&ingest.IngestionError{Filename: "x.json", Cause: "File is empty."}, "File is empty."},
		{fmt.Errorf("wrapped: %w", &history.StorageError{Op: "write", Err: errors.New("disk")}), "Your result could not be saved to history."},
		{context.Canceled, "The operation was cancelled."},
		{errors.New("boom"), "Something went wrong. Please try again."},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, UserMessage(tt.err))
	}
}
