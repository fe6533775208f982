// Package quiz is the active question screen with its countdown.
package quiz

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/certquiz/internal/controller"
	"github.com/abhisek/certquiz/internal/history"
	"github.com/abhisek/certquiz/internal/router"
	"github.com/abhisek/certquiz/internal/screen"
	"github.com/abhisek/certquiz/internal/screens/results"
	"github.com/abhisek/certquiz/internal/session"
	"github.com/abhisek/certquiz/internal/ui/components"
	"github.com/abhisek/certquiz/internal/ui/layout"
	"github.com/abhisek/certquiz/internal/ui/theme"
)

// RefreshInterval is how often the screen re-reads the session clock.
const RefreshInterval = 250 * time.Millisecond

// refreshMsg re-reads the session.
type refreshMsg struct{}

// QuizScreen implements screen.Screen for a running quiz.
type QuizScreen struct {
	ctrl    *controller.Controller
	snap    session.Snapshot
	options components.OptionList
	index   int

	confirmFinish bool
	errMsg        string
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)

// New creates the quiz screen for the session already started on ctrl.
func New(ctrl *controller.Controller) *QuizScreen {
	s := &QuizScreen{ctrl: ctrl, index: -1}
	s.sync()
	return s
}

func (s *QuizScreen) Init() tea.Cmd { return refresh() }

func (s *QuizScreen) Title() string {
	return fmt.Sprintf("Question %d of %d", s.snap.Index+1, s.snap.Total)
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	if s.confirmFinish {
		return []layout.KeyHint{
			{Key: "Y", Description: "Submit now"},
			{Key: "N", Description: "Keep going"},
		}
	}
	return []layout.KeyHint{
		{Key: "1-4", Description: "Answer"},
		{Key: "←/p", Description: "Previous"},
		{Key: "→/n", Description: "Next"},
		{Key: "f", Description: "Finish"},
	}
}

// HandlesEscape turns Esc into the finish confirmation.
func (s *QuizScreen) HandlesEscape() bool { return true }

func refresh() tea.Cmd {
	return tea.Tick(RefreshInterval, func(time.Time) tea.Msg { return refreshMsg{} })
}

// sync copies the session state and rebuilds the option list when the
// question changes.
func (s *QuizScreen) sync() {
	s.snap = s.ctrl.Snapshot()
	if s.snap.Phase != session.PhaseActive {
		return
	}
	q, a := s.snap.Current()
	if s.snap.Index != s.index {
		s.index = s.snap.Index
		s.options = components.NewOptionList(q.Options, int(a))
		return
	}
	s.options.Chosen = int(a)
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshMsg:
		s.sync()
		if s.snap.Phase == session.PhaseFinished {
			return s, s.showResults(s.snap.Outcome)
		}
		if s.snap.Phase != session.PhaseActive {
			return s, nil
		}
		return s, refresh()

	case components.ChooseMsg:
		if err := s.ctrl.OnOptionClick(msg.Index); err != nil {
			s.errMsg = controller.UserMessage(err)
		}
		s.sync()
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *QuizScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.confirmFinish {
		switch key {
		case "y", "Y", "enter":
			s.confirmFinish = false
			return s, s.finish()
		case "n", "N", "esc":
			s.confirmFinish = false
		}
		return s, nil
	}

	s.errMsg = ""
	switch key {
	case "esc", "f":
		s.confirmFinish = true
		return s, nil
	case "right", "n", "l":
		return s, s.next()
	case "left", "p", "h":
		if err := s.ctrl.OnPrevious(); err != nil {
			s.errMsg = controller.UserMessage(err)
		}
		s.sync()
		return s, nil
	}

	var cmd tea.Cmd
	s.options, cmd = s.options.Update(msg)
	return s, cmd
}

func (s *QuizScreen) next() tea.Cmd {
	out, err := s.ctrl.OnNext(context.Background())
	if err != nil {
		s.errMsg = controller.UserMessage(err)
		return nil
	}
	if out != nil {
		return s.showResults(out)
	}
	s.sync()
	return nil
}

func (s *QuizScreen) finish() tea.Cmd {
	out, err := s.ctrl.OnFinishEarly(context.Background())
	if err != nil {
		// The countdown may have finished the quiz first.
		s.sync()
		if s.snap.Outcome != nil {
			return s.showResults(s.snap.Outcome)
		}
		s.errMsg = controller.UserMessage(err)
		return nil
	}
	return s.showResults(out)
}

func (s *QuizScreen) showResults(out *session.Outcome) tea.Cmd {
	if out == nil {
		return nil
	}
	return router.ReplaceCmd(results.New(s.ctrl, *out))
}

func (s *QuizScreen) View(width, height int) string {
	if s.snap.Phase != session.PhaseActive {
		return components.Centered(theme.Subtitle.Render("Scoring..."), width, height)
	}

	cw := layout.ContentWidth(width)
	q, _ := s.snap.Current()

	var b strings.Builder

	counter := theme.Subtitle.Render(fmt.Sprintf("Question %d of %d", s.snap.Index+1, s.snap.Total))
	timer := theme.TimerStyle(s.snap.Remaining).Render("⏱ " + history.FormatTime(s.snap.Remaining))
	gap := max(cw-6-lipgloss.Width(counter)-lipgloss.Width(timer), 1)
	b.WriteString(counter + strings.Repeat(" ", gap) + timer)
	b.WriteString("\n")
	b.WriteString(components.ProgressBar{Done: s.snap.Answered(), Total: s.snap.Total, Width: cw - 6}.View())
	b.WriteString("\n\n")

	b.WriteString(theme.Body.Bold(true).Width(cw - 6).Render(q.Prompt))
	b.WriteString("\n\n")
	b.WriteString(s.options.View(cw - 6))
	b.WriteString("\n")

	nextLabel := "Next"
	if s.snap.IsLast() {
		nextLabel = "Submit"
	}
	b.WriteString(components.ButtonRow(
		components.Button{Label: "Previous", Key: "p", Enabled: s.snap.Index > 0},
		components.Button{Label: nextLabel, Key: "n", Enabled: true},
		components.Button{Label: "Finish", Key: "f", Enabled: true},
	))

	switch {
	case s.confirmFinish:
		unanswered := s.snap.Total - s.snap.Answered()
		b.WriteString("\n\n" + lipgloss.NewStyle().Foreground(theme.Warning).Bold(true).Render(
			fmt.Sprintf("Submit now? %d unanswered. (y/n)", unanswered)))
	case s.errMsg != "":
		b.WriteString("\n\n" + theme.ErrorText.Render(s.errMsg))
	}

	return components.Centered(components.Card(b.String(), cw), width, height)
}
