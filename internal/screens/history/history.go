// Package history lists past quiz results and exports or clears them.
package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/certquiz/internal/controller"
	hist "github.com/abhisek/certquiz/internal/history"
	"github.com/abhisek/certquiz/internal/router"
	"github.com/abhisek/certquiz/internal/screen"
	"github.com/abhisek/certquiz/internal/ui/components"
	"github.com/abhisek/certquiz/internal/ui/layout"
	"github.com/abhisek/certquiz/internal/ui/theme"
)

type historyLoadedMsg struct {
	Entries []hist.Entry
}

// HistoryScreen displays every saved result, newest first.
type HistoryScreen struct {
	ctrl     *controller.Controller
	entries  []hist.Entry // newest first
	selected int
	loaded   bool

	confirmClear bool
	notice       string
	noticeErr    bool
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(ctrl *controller.Controller) *HistoryScreen {
	return &HistoryScreen{ctrl: ctrl}
}

func (s *HistoryScreen) Init() tea.Cmd {
	ctrl := s.ctrl
	return func() tea.Msg {
		return historyLoadedMsg{Entries: ctrl.AllHistory(context.Background())}
	}
}

func (s *HistoryScreen) Title() string { return "History" }

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	if s.confirmClear {
		return []layout.KeyHint{
			{Key: "Y", Description: "Delete all"},
			{Key: "N", Description: "Cancel"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "e", Description: "Export CSV"},
		{Key: "c", Description: "Clear"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		s.entries = newestFirst(msg.Entries)
		s.selected = 0
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		if s.confirmClear {
			switch msg.String() {
			case "y", "Y":
				s.confirmClear = false
				return s, s.clear()
			case "n", "N", "esc":
				s.confirmClear = false
			}
			return s, nil
		}

		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.entries)-1 {
				s.selected++
			}
		case "e":
			s.export()
		case "c":
			if len(s.entries) > 0 {
				s.confirmClear = true
			}
		}
	}
	return s, nil
}

// HandlesEscape lets Esc cancel the clear prompt.
func (s *HistoryScreen) HandlesEscape() bool { return true }

func (s *HistoryScreen) export() {
	path, err := s.ctrl.OnExportHistory(context.Background())
	if err != nil {
		s.ctrl.Logger.Error().Err(err).Msg("history export failed")
		s.notice, s.noticeErr = controller.UserMessage(err), true
		return
	}
	s.notice, s.noticeErr = "History exported to "+path, false
}

func (s *HistoryScreen) clear() tea.Cmd {
	if err := s.ctrl.OnClearHistory(context.Background()); err != nil {
		s.ctrl.Logger.Error().Err(err).Msg("history clear failed")
		s.notice, s.noticeErr = "History could not be cleared.", true
		return nil
	}
	s.notice, s.noticeErr = "History cleared.", false
	return s.Init()
}

func (s *HistoryScreen) View(width, height int) string {
	cw := layout.ContentWidth(width)

	var b strings.Builder
	b.WriteString(theme.Title.Render("Quiz history"))
	b.WriteString("\n\n")

	switch {
	case !s.loaded:
		b.WriteString(theme.Subtitle.Render("Loading history..."))
	case len(s.entries) == 0:
		b.WriteString(theme.Hint.Render("No quizzes taken yet."))
	default:
		b.WriteString(s.renderTable(height - 10))
	}

	if s.confirmClear {
		b.WriteString("\n\n" + lipgloss.NewStyle().Foreground(theme.Warning).Bold(true).
			Render(fmt.Sprintf("Delete all %d results? (y/n)", len(s.entries))))
	} else if s.notice != "" {
		style := theme.Notice
		if s.noticeErr {
			style = theme.ErrorText
		}
		b.WriteString("\n\n" + style.Render(s.notice))
	}

	return components.Centered(components.Card(b.String(), cw), width, height)
}

func (s *HistoryScreen) renderTable(rows int) string {
	rows = max(rows, 3)
	start := 0
	if s.selected >= rows {
		start = s.selected - rows + 1
	}
	end := min(start+rows, len(s.entries))

	var b strings.Builder
	b.WriteString(theme.Subtitle.Render(fmt.Sprintf("  %-14s %6s %9s %7s", "Date", "Score", "Correct", "Time")))
	b.WriteString("\n")
	for i := start; i < end; i++ {
		e := s.entries[i]
		prefix := "  "
		if i == s.selected {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%-14s %s %9s %7s",
			prefix,
			DisplayDate(e),
			theme.ScoreStyle(e.Score).Render(fmt.Sprintf("%5d%%", e.Score)),
			fmt.Sprintf("%d/%d", e.CorrectAnswers, e.TotalQuestions),
			e.TimeUsed,
		)
		if i == s.selected {
			line = theme.Selected.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString(theme.Hint.Render(fmt.Sprintf("%d result(s)", len(s.entries))))
	return b.String()
}

// DisplayDate formats an entry date in local time, falling back to the
// stored text when it cannot be parsed.
func DisplayDate(e hist.Entry) string {
	t := e.Time()
	if t.IsZero() {
		return e.Date
	}
	return t.Local().Format("Jan 02 15:04")
}

func newestFirst(entries []hist.Entry) []hist.Entry {
	out := make([]hist.Entry, len(entries))
	for i, e := range entries {
		out[len(entries)-1-i] = e
	}
	return out
}
