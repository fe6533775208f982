// Package setup is the start screen: pick a question bank, set the quiz
// length and time limit, and see recent results.
package setup

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/certquiz/internal/controller"
	hist "github.com/abhisek/certquiz/internal/history"
	"github.com/abhisek/certquiz/internal/ingest"
	"github.com/abhisek/certquiz/internal/router"
	"github.com/abhisek/certquiz/internal/screen"
	"github.com/abhisek/certquiz/internal/screens/generate"
	"github.com/abhisek/certquiz/internal/screens/history"
	"github.com/abhisek/certquiz/internal/screens/quiz"
	"github.com/abhisek/certquiz/internal/screens/upload"
	"github.com/abhisek/certquiz/internal/session"
	"github.com/abhisek/certquiz/internal/ui/components"
	"github.com/abhisek/certquiz/internal/ui/layout"
	"github.com/abhisek/certquiz/internal/ui/theme"
)

type focus int

const (
	focusMenu focus = iota
	focusCount
	focusMinutes
)

// SetupScreen implements screen.Screen for quiz setup.
type SetupScreen struct {
	ctrl    *controller.Controller
	menu    components.Menu
	count   components.TextInput
	minutes components.TextInput
	focus   focus
	recent  []hist.Entry

	notice    string
	noticeErr bool
}

var _ screen.Screen = (*SetupScreen)(nil)
var _ screen.KeyHintProvider = (*SetupScreen)(nil)

// New creates the setup screen.
func New(ctrl *controller.Controller) *SetupScreen {
	s := &SetupScreen{
		ctrl:    ctrl,
		count:   components.NewTextInput("Number of questions", "10", true, 4),
		minutes: components.NewTextInput("Time limit (minutes)", "15", true, 4),
	}
	s.menu = components.NewMenu(s.menuItems())
	s.resetForm()
	return s
}

func (s *SetupScreen) menuItems() []components.MenuItem {
	genHint := ""
	if !s.ctrl.AIEnabled() {
		genHint = "(set an API key to enable)"
	}
	return []components.MenuItem{
		{Label: "Start quiz", Action: s.start},
		{Label: "Use default questions", Action: s.useDefault},
		{Label: "Load questions from file", Hint: "JSON or CSV", Action: func() tea.Cmd {
			s.ctrl.OnSourceSelect(controller.SourceUpload)
			return router.PushCmd(upload.New(s.ctrl))
		}},
		{Label: "Generate questions with AI", Hint: genHint, Disabled: !s.ctrl.AIEnabled(), Action: func() tea.Cmd {
			return router.PushCmd(generate.New(s.ctrl))
		}},
		{Label: "Download sample JSON", Action: func() tea.Cmd { return s.exportSample(ingest.FormatJSON) }},
		{Label: "Download sample CSV", Action: func() tea.Cmd { return s.exportSample(ingest.FormatCSV) }},
		{Label: "Quiz history", Action: func() tea.Cmd { return router.PushCmd(history.New(s.ctrl)) }},
		{Label: "Quit", Action: func() tea.Cmd { return tea.Quit }},
	}
}

func (s *SetupScreen) Init() tea.Cmd {
	s.recent = s.ctrl.RecentHistory(context.Background())
	return nil
}

func (s *SetupScreen) Title() string { return "Setup" }

func (s *SetupScreen) KeyHints() []layout.KeyHint {
	if s.focus != focusMenu {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Start quiz"},
			{Key: "Tab", Description: "Next field"},
			{Key: "Esc", Description: "Menu"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Tab", Description: "Edit settings"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// HandlesEscape keeps Esc for leaving the form.
func (s *SetupScreen) HandlesEscape() bool { return true }

func (s *SetupScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.NoticeMsg:
		s.recent = s.ctrl.RecentHistory(context.Background())
		s.resetForm()
		s.setNotice(msg.Text, msg.Err)
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "tab":
			return s, s.setFocus((s.focus + 1) % 3)
		case "shift+tab":
			return s, s.setFocus((s.focus + 2) % 3)
		case "esc":
			return s, s.setFocus(focusMenu)
		}

		if s.focus == focusMenu {
			var cmd tea.Cmd
			s.menu, cmd = s.menu.Update(msg)
			return s, cmd
		}
		if msg.String() == "enter" {
			return s, s.start()
		}
	}

	var cmd tea.Cmd
	switch s.focus {
	case focusCount:
		s.count, cmd = s.count.Update(msg)
	case focusMinutes:
		s.minutes, cmd = s.minutes.Update(msg)
	}
	return s, cmd
}

func (s *SetupScreen) setFocus(f focus) tea.Cmd {
	s.focus = f
	s.count.Blur()
	s.minutes.Blur()
	switch f {
	case focusCount:
		return s.count.Focus()
	case focusMinutes:
		return s.minutes.Focus()
	}
	return nil
}

func (s *SetupScreen) setNotice(text string, isErr bool) {
	s.notice = text
	s.noticeErr = isErr
}

// resetForm fills the inputs with defaults for the active pool.
func (s *SetupScreen) resetForm() {
	cfg := s.ctrl.DefaultConfig()
	s.count.SetValue(strconv.Itoa(cfg.Count))
	s.minutes.SetValue(strconv.Itoa(cfg.Minutes))
	s.count.Err = ""
	s.minutes.Err = ""
}

func (s *SetupScreen) useDefault() tea.Cmd {
	s.ctrl.OnSourceSelect(controller.SourceDefault)
	s.resetForm()
	s.setNotice("Using the default question bank.", false)
	return nil
}

func (s *SetupScreen) exportSample(format string) tea.Cmd {
	path, err := s.ctrl.OnExportSample(format)
	if err != nil {
		s.ctrl.Logger.Error().Err(err).Msg("sample export failed")
		s.setNotice(controller.UserMessage(err), true)
		return nil
	}
	s.setNotice("Sample saved to "+path, false)
	return nil
}

func (s *SetupScreen) start() tea.Cmd {
	s.count.Err = ""
	s.minutes.Err = ""
	s.setNotice("", false)

	count, err := s.count.NumericValue()
	if err != nil {
		s.count.Err = "Please enter a whole number."
		return s.setFocus(focusCount)
	}
	minutes, err := s.minutes.NumericValue()
	if err != nil {
		s.minutes.Err = "Please enter a whole number."
		return s.setFocus(focusMinutes)
	}

	if err := s.ctrl.OnConfigSubmit(count, minutes); err != nil {
		msg := controller.UserMessage(err)
		var cfgErr *session.ConfigError
		if !errors.As(err, &cfgErr) {
			s.setNotice(msg, true)
			return nil
		}
		if cfgErr.Field == "minutes" {
			s.minutes.Err = msg
			return s.setFocus(focusMinutes)
		}
		s.count.Err = msg
		return s.setFocus(focusCount)
	}

	s.setFocus(focusMenu)
	return router.PushCmd(quiz.New(s.ctrl))
}

func (s *SetupScreen) View(width, height int) string {
	cw := layout.ContentWidth(width)

	var b strings.Builder
	b.WriteString(theme.Title.Render("Certification Practice Quiz"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render("Question bank: ") +
		lipgloss.NewStyle().Foreground(theme.Accent).Render(s.ctrl.BankLabel()))
	b.WriteString("\n\n")

	b.WriteString(s.menu.View())
	b.WriteString("\n")

	form := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(cw/2).Render(s.count.View()),
		lipgloss.NewStyle().Width(cw/2).Render(s.minutes.View()),
	)
	b.WriteString(form)
	b.WriteString("\n")

	if s.notice != "" {
		b.WriteString("\n")
		if s.noticeErr {
			b.WriteString(theme.ErrorText.Render(s.notice))
		} else {
			b.WriteString(theme.Notice.Render(s.notice))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(renderRecent(s.recent, layout.IsCompactHeight(height)))

	return components.Centered(components.Card(b.String(), cw), width, height)
}

// renderRecent lists the newest results first.
func renderRecent(entries []hist.Entry, compact bool) string {
	var b strings.Builder
	b.WriteString(theme.Subtitle.Bold(true).Render("Recent results"))
	b.WriteString("\n")
	if len(entries) == 0 {
		b.WriteString(theme.Hint.Render("No quizzes taken yet."))
		return b.String()
	}
	limit := len(entries)
	if compact {
		limit = min(limit, 3)
	}
	for i := 0; i < limit; i++ {
		e := entries[len(entries)-1-i]
		b.WriteString(fmt.Sprintf("%s  %s  %d/%d  %s\n",
			theme.Hint.Render(history.DisplayDate(e)),
			theme.ScoreStyle(e.Score).Render(fmt.Sprintf("%3d%%", e.Score)),
			e.CorrectAnswers, e.TotalQuestions,
			theme.Hint.Render(e.TimeUsed),
		))
	}
	return b.String()
}
