package history

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"

	"github.com/abhisek/certquiz/internal/controller"
	hist "github.com/abhisek/certquiz/internal/history"
	"github.com/abhisek/certquiz/internal/scoring"
)

func seeded(t *testing.T, scores ...int) (*HistoryScreen, *controller.Controller, string) {
	t.Helper()
	dir := t.TempDir()
	store := hist.NewStore(hist.NewMemorySlot())
	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	for i, sc := range scores {
		e := hist.NewEntry(scoring.Result{Total: 10, Correct: sc / 10, Score: sc, TimeUsed: 60 * (i + 1)}, base.Add(time.Duration(i)*time.Hour))
		if err := store.Append(context.Background(), e); err != nil {
			t.Fatal(err)
		}
	}
	ctrl := controller.New(controller.Deps{History: store, Logger: zerolog.Nop(), ExportDir: dir})
	t.Cleanup(ctrl.Close)

	s := New(ctrl)
	s.Update(s.Init()())
	return s, ctrl, dir
}

func TestLoadsNewestFirst(t *testing.T) {
	s, _, _ := seeded(t, 40, 70, 90)
	if len(s.entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(s.entries))
	}
	if s.entries[0].Score != 90 || s.entries[2].Score != 40 {
		t.Errorf("order = %d..%d, want newest first", s.entries[0].Score, s.entries[2].Score)
	}
	if !strings.Contains(s.View(100, 40), "3 result(s)") {
		t.Error("view missing result count")
	}
}

func TestEmptyHistory(t *testing.T) {
	s, _, _ := seeded(t)
	if !strings.Contains(s.View(100, 40), "No quizzes taken yet.") {
		t.Error("expected empty message")
	}
	s.Update(tea.KeyPressMsg{Code: 'c', Text: "c"})
	if s.confirmClear {
		t.Error("nothing to clear")
	}
}

func TestExport(t *testing.T) {
	s, _, dir := seeded(t, 50)
	s.Update(tea.KeyPressMsg{Code: 'e', Text: "e"})
	if s.noticeErr {
		t.Fatalf("export failed: %s", s.notice)
	}
	data, err := os.ReadFile(filepath.Join(dir, hist.ExportFilename))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "10,5,50%,01:00") {
		t.Errorf("export = %q", data)
	}
}

func TestClearAsksFirst(t *testing.T) {
	s, ctrl, _ := seeded(t, 50, 60)

	s.Update(tea.KeyPressMsg{Code: 'c', Text: "c"})
	if !s.confirmClear {
		t.Fatal("expected confirmation")
	}
	s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if len(ctrl.AllHistory(context.Background())) != 2 {
		t.Fatal("cancel must keep history")
	}

	s.Update(tea.KeyPressMsg{Code: 'c', Text: "c"})
	_, cmd := s.Update(tea.KeyPressMsg{Code: 'y', Text: "y"})
	if cmd == nil {
		t.Fatal("expected reload")
	}
	s.Update(cmd())
	if len(s.entries) != 0 || len(ctrl.AllHistory(context.Background())) != 0 {
		t.Error("expected history cleared")
	}
}

func TestDisplayDateFallsBack(t *testing.T) {
	if got := DisplayDate(hist.Entry{Date: "yesterday"}); got != "yesterday" {
		t.Errorf("got %q", got)
	}
}
