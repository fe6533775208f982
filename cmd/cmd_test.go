package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/certquiz/internal/controller"
	"github.com/abhisek/certquiz/internal/history"
	"github.com/abhisek/certquiz/internal/ingest"
	"github.com/abhisek/certquiz/internal/session"
)

func newLineController(t *testing.T) *controller.Controller {
	t.Helper()
	ctrl := controller.New(controller.Deps{
		History:        history.NewStore(history.NewMemorySlot()),
		Logger:         zerolog.Nop(),
		SessionOptions: []session.Option{session.WithScheduler(&session.ManualScheduler{})},
	})
	t.Cleanup(ctrl.Close)

	_, err := ctrl.OnFileChosen(context.Background(), ingest.SampleJSON(), ingest.SampleFilename)
	require.NoError(t, err)
	require.NoError(t, ctrl.OnConfigSubmit(2, 5))
	return ctrl
}

func TestPlayLinesSkipAll(t *testing.T) {
	ctrl := newLineController(t)
	var out bytes.Buffer

	res, err := playLines(context.Background(), ctrl, strings.NewReader("\n\n"), &out)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, 2, res.Result.Total)
	assert.Equal(t, 0, res.Result.Correct)
	assert.Contains(t, out.String(), "Question 1/2")
	assert.Contains(t, out.String(), "Question 2/2")
	assert.Len(t, ctrl.AllHistory(context.Background()), 1)
}

func TestPlayLinesAnswersCorrectly(t *testing.T) {
	ctrl := newLineController(t)
	snap := ctrl.Snapshot()

	var in strings.Builder
	for _, q := range snap.Questions {
		in.WriteString(string(rune('1'+q.CorrectIndex())) + "\n")
	}
	res, err := playLines(context.Background(), ctrl, strings.NewReader(in.String()), &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, 100, res.Result.Score)
}

func TestPlayLinesRejectsBadInputThenSubmitsOnEOF(t *testing.T) {
	ctrl := newLineController(t)
	var out bytes.Buffer

	res, err := playLines(context.Background(), ctrl, strings.NewReader("9\nb\n"), &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Please type a number from 1 to 4.")
	assert.Contains(t, out.String(), "input closed")
	assert.Equal(t, 0, res.Result.Correct)
}

func TestPlayLinesFinishEarly(t *testing.T) {
	ctrl := newLineController(t)
	res, err := playLines(context.Background(), ctrl, strings.NewReader("f\n"), &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Result.Total)
	assert.Equal(t, session.PhaseFinished, ctrl.Session.Phase())
}

func TestPrintOutcome(t *testing.T) {
	ctrl := newLineController(t)
	out, err := ctrl.OnFinishEarly(context.Background())
	require.NoError(t, err)

	var buf bytes.Buffer
	printOutcome(&buf, out)
	s := buf.String()
	assert.Contains(t, s, "Score: 0% (0 of 2 correct)")
	assert.Contains(t, s, "Time used: 00:00 of 05:00")
	assert.Contains(t, s, "Not answered")
}

// execute runs the root command with args in an isolated config and data
// directory.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestBankSampleAndCheck(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.csv")

	_, err := execute(t, "", "bank", "sample", "-f", "csv", "-o", path)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, ingest.SampleCSV(), data)

	out, err := execute(t, "", "bank", "check", path)
	require.NoError(t, err)
	assert.Contains(t, out, "2 valid questions")
}

func TestBankCheckInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":1,"question":"Q","options":["a","b"],"correctAnswer":"c"}]`), 0o644))

	_, err := execute(t, "", "bank", "check", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Found 1 invalid questions")
}

func TestPlayThenHistory(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "quiz.db")
	bank := filepath.Join(dir, "bank.json")
	require.NoError(t, os.WriteFile(bank, ingest.SampleJSON(), 0o644))

	out, err := execute(t, "\n\n", "--db", db, "play", "--bank", bank, "--count", "2", "--minutes", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Loaded 2 questions")
	assert.Contains(t, out, "Score: 0%")

	out, err = execute(t, "", "--db", db, "history", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "0/2")

	out, err = execute(t, "", "--db", db, "history", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Quizzes taken:     1")

	_, err = execute(t, "", "--db", db, "history", "clear")
	require.Error(t, err)

	_, err = execute(t, "", "--db", db, "history", "clear", "--yes")
	require.NoError(t, err)
	out, err = execute(t, "", "--db", db, "history", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No quizzes taken yet.")
}

func TestResetClearsHistory(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "quiz.db")
	bank := filepath.Join(dir, "bank.json")
	require.NoError(t, os.WriteFile(bank, ingest.SampleJSON(), 0o644))

	_, err := execute(t, "\n\n", "--db", db, "play", "--bank", bank, "--count", "2", "--minutes", "1")
	require.NoError(t, err)
	out, err := execute(t, "", "--db", db, "history", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "0/2")

	out, err = execute(t, "", "--db", db, "reset", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "History cleared.")
	_, err = os.Stat(db)
	require.NoError(t, err, "database kept without --all")

	out, err = execute(t, "", "--db", db, "history", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No quizzes taken yet.")
}
