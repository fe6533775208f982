package history

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/certquiz/internal/scoring"
)

type failingSlot struct {
	loadErr, saveErr error
	saved            bool
}

func (f *failingSlot) Load(context.Context, string) ([]byte, error) { return nil, f.loadErr }
func (f *failingSlot) Save(context.Context, string, []byte) error {
	f.saved = true
	return f.saveErr
}
func (f *failingSlot) Delete(context.Context, string) error { return f.saveErr }

func entry(score int) Entry {
	return Entry{Date: "2025-01-02T03:04:05.000Z", TotalQuestions: 4, CorrectAnswers: score / 25, Score: score, TimeUsed: "01:30"}
}

func TestNewEntry(t *testing.T) {
	now := time.Date(2025, 3, 4, 5, 6, 7, 890_000_000, time.FixedZone("X", 3600))
	e := NewEntry(scoring.Result{Total: 2, Correct: 1, Score: 50, TimeUsed: 75}, now)
	assert.Equal(t, "2025-03-04T04:06:07.890Z", e.Date)
	assert.Equal(t, "01:15", e.TimeUsed)
	assert.Equal(t, 50, e.Score)
	assert.True(t, e.Time().Equal(now))
}

func TestFormatTime(t *testing.T) {
	assert.Equal(t, "00:00", FormatTime(0))
	assert.Equal(t, "01:00", FormatTime(60))
	assert.Equal(t, "15:00", FormatTime(900))
	assert.Equal(t, "120:05", FormatTime(7205))
	assert.Equal(t, "00:00", FormatTime(-3))
}

func TestStore_AppendListClear(t *testing.T) {
	ctx := context.Background()
	s := NewStore(NewMemorySlot())

	assert.Empty(t, s.List(ctx))
	require.NoError(t, s.Append(ctx, entry(50)))
	require.NoError(t, s.Append(ctx, entry(100)))

	got := s.List(ctx)
	require.Len(t, got, 2)
	assert.Equal(t, 50, got[0].Score)
	assert.Equal(t, 100, got[1].Score)

	require.NoError(t, s.Clear(ctx))
	assert.Empty(t, s.List(ctx))
}

func TestStore_PersistedFieldNames(t *testing.T) {
	ctx := context.Background()
	slot := NewMemorySlot()
	s := NewStore(slot)
	require.NoError(t, s.Append(ctx, entry(75)))

	raw, err := slot.Load(ctx, SlotKey)
	require.NoError(t, err)
	for _, field := range []string{`"date"`, `"totalQuestions"`, `"correctAnswers"`, `"score"`, `"timeUsed"`} {
		assert.Contains(t, string(raw), field)
	}
}

func TestStore_CorruptDataIsEmpty(t *testing.T) {
	ctx := context.Background()
	slot := NewMemorySlot()
	require.NoError(t, slot.Save(ctx, SlotKey, []byte("{not json")))
	s := NewStore(slot)

	assert.Empty(t, s.List(ctx))
	require.NoError(t, s.Append(ctx, entry(25)))
	assert.Len(t, s.List(ctx), 1)
}

func TestStore_SlotFailures(t *testing.T) {
	ctx := context.Background()

	readFail := &failingSlot{loadErr: errors.New("down")}
	s := NewStore(readFail)
	assert.Empty(t, s.List(ctx))
	err := s.Append(ctx, entry(50))
	var serr *StorageError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "read", serr.Op)
	assert.False(t, readFail.saved, "must not overwrite history it could not read")

	s = NewStore(&failingSlot{saveErr: errors.New("quota exceeded")})
	err = s.Append(ctx, entry(50))
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "write", serr.Op)
}

func TestStore_Recent(t *testing.T) {
	ctx := context.Background()
	s := NewStore(NewMemorySlot())
	for i := 0; i < 12; i++ {
		require.NoError(t, s.Append(ctx, entry(i)))
	}
	recent := s.Recent(ctx, 10)
	require.Len(t, recent, 10)
	assert.Equal(t, 2, recent[0].Score)
	assert.Equal(t, 11, recent[9].Score)
}

func TestExport_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewStore(NewMemorySlot())
	for _, score := range []int{50, 100, 0, 75} {
		e := entry(score)
		e.TimeUsed = fmt.Sprintf("%02d:%02d", score/60, score%60)
		require.NoError(t, s.Append(ctx, e))
	}

	entries := s.List(ctx)
	require.Len(t, entries, 4)
	rows, err := csv.NewReader(strings.NewReader(ExportText(entries))).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, len(entries)+1)
	assert.Equal(t, []string{"Date", "Questions", "Correct", "Score", "TimeUsed"}, rows[0])
	for i, e := range entries {
		assert.Equal(t, []string{
			e.Date,
			strconv.Itoa(e.TotalQuestions),
			strconv.Itoa(e.CorrectAnswers),
			strconv.Itoa(e.Score) + "%",
			e.TimeUsed,
		}, rows[i+1], "row %d", i+1)
	}
}

func TestExport_Empty(t *testing.T) {
	assert.Equal(t, "Date,Questions,Correct,Score,TimeUsed\n", ExportText(nil))
}

func TestStore_AutoExport(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), ExportFilename)
	s := NewStore(NewMemorySlot(), WithAutoExport(path))

	require.NoError(t, s.Append(ctx, entry(50)))
	require.NoError(t, s.Append(ctx, entry(75)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(string(data), "\n"))
}

func TestStore_WriteExport(t *testing.T) {
	ctx := context.Background()
	s := NewStore(NewMemorySlot())
	require.NoError(t, s.Append(ctx, entry(50)))

	var b strings.Builder
	require.NoError(t, s.WriteExport(ctx, &b))
	assert.Contains(t, b.String(), "50%")
}
