// Package results shows the score and a per-question review of a
// finished quiz.
package results

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/certquiz/internal/controller"
	"github.com/abhisek/certquiz/internal/router"
	"github.com/abhisek/certquiz/internal/screen"
	"github.com/abhisek/certquiz/internal/session"
	"github.com/abhisek/certquiz/internal/ui/layout"
)

// ResultsScreen implements screen.Screen for a finished quiz.
type ResultsScreen struct {
	ctrl    *controller.Controller
	outcome session.Outcome
	offset  int
	lines   int // review lines rendered by the last View
}

var _ screen.Screen = (*ResultsScreen)(nil)
var _ screen.KeyHintProvider = (*ResultsScreen)(nil)

// New creates the results screen for out.
func New(ctrl *controller.Controller, out session.Outcome) *ResultsScreen {
	return &ResultsScreen{ctrl: ctrl, outcome: out}
}

func (s *ResultsScreen) Init() tea.Cmd { return nil }

func (s *ResultsScreen) Title() string { return "Results" }

func (s *ResultsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll review"},
		{Key: "Enter", Description: "New quiz"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// HandlesEscape routes Esc through the reset so the session is never left
// finished behind the setup screen.
func (s *ResultsScreen) HandlesEscape() bool { return true }

// Outcome returns the outcome being shown.
func (s *ResultsScreen) Outcome() session.Outcome { return s.outcome }

func (s *ResultsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if s.offset > 0 {
			s.offset--
		}
	case "down", "j":
		if s.offset < s.lines-1 {
			s.offset++
		}
	case "pgup":
		s.offset = max(s.offset-10, 0)
	case "pgdown":
		s.offset = max(min(s.offset+10, s.lines-1), 0)
	case "enter", "r", "esc":
		return s, s.newQuiz()
	}
	return s, nil
}

func (s *ResultsScreen) newQuiz() tea.Cmd {
	if err := s.ctrl.OnReset(); err != nil {
		s.ctrl.Logger.Warn().Err(err).Msg("reset after results failed")
	}
	return router.PopWithNotice("", false)
}
