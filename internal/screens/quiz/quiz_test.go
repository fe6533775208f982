package quiz

import (
	"math/rand/v2"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"

	"github.com/abhisek/certquiz/internal/controller"
	"github.com/abhisek/certquiz/internal/history"
	"github.com/abhisek/certquiz/internal/router"
	"github.com/abhisek/certquiz/internal/screens/results"
	"github.com/abhisek/certquiz/internal/session"
	"github.com/abhisek/certquiz/internal/ui/components"
)

func startQuiz(t *testing.T, count, minutes int) (*QuizScreen, *controller.Controller, *session.ManualScheduler) {
	t.Helper()
	sched := &session.ManualScheduler{}
	ctrl := controller.New(controller.Deps{
		History: history.NewStore(history.NewMemorySlot()),
		Logger:  zerolog.Nop(),
		SessionOptions: []session.Option{
			session.WithScheduler(sched),
			session.WithRand(rand.New(rand.NewPCG(7, 8))),
		},
	})
	t.Cleanup(ctrl.Close)
	if err := ctrl.OnConfigSubmit(count, minutes); err != nil {
		t.Fatalf("start: %v", err)
	}
	return New(ctrl), ctrl, sched
}

func runeKey(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

// press sends a key and feeds any ChooseMsg back, like the runtime would.
func press(s *QuizScreen, msg tea.KeyPressMsg) tea.Cmd {
	_, cmd := s.Update(msg)
	if cmd == nil {
		return nil
	}
	if choose, ok := cmd().(components.ChooseMsg); ok {
		_, cmd = s.Update(choose)
		return cmd
	}
	return cmd
}

func resultsFrom(t *testing.T, cmd tea.Cmd) *results.ResultsScreen {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", cmd())
	}
	r, ok := msg.Screen.(*results.ResultsScreen)
	if !ok {
		t.Fatalf("expected results screen, got %T", msg.Screen)
	}
	return r
}

func TestDigitRecordsAnswer(t *testing.T) {
	s, ctrl, _ := startQuiz(t, 2, 1)

	press(s, runeKey('2'))

	_, a := ctrl.Snapshot().Current()
	if a != 1 {
		t.Errorf("answer = %d, want 1", a)
	}
	if s.options.Chosen != 1 {
		t.Errorf("option list chosen = %d, want 1", s.options.Chosen)
	}
}

func TestNavigationKeepsAnswers(t *testing.T) {
	s, ctrl, _ := startQuiz(t, 3, 1)

	press(s, runeKey('1'))
	press(s, runeKey('n'))
	if got := ctrl.Snapshot().Index; got != 1 {
		t.Fatalf("index = %d, want 1", got)
	}
	press(s, runeKey('p'))
	if got := ctrl.Snapshot().Index; got != 0 {
		t.Fatalf("index = %d, want 0", got)
	}
	if s.options.Chosen != 0 {
		t.Errorf("chosen = %d, want the earlier answer 0", s.options.Chosen)
	}
}

func TestNextOnLastQuestionShowsResults(t *testing.T) {
	s, ctrl, _ := startQuiz(t, 2, 1)

	press(s, runeKey('n'))
	cmd := press(s, runeKey('n'))

	r := resultsFrom(t, cmd)
	if r.Outcome().Result.Total != 2 {
		t.Errorf("total = %d, want 2", r.Outcome().Result.Total)
	}
	if ctrl.Session.Phase() != session.PhaseFinished {
		t.Errorf("phase = %s, want finished", ctrl.Session.Phase())
	}
}

func TestFinishNeedsConfirmation(t *testing.T) {
	s, ctrl, _ := startQuiz(t, 3, 1)

	if cmd := press(s, runeKey('f')); cmd != nil {
		t.Fatal("finish must ask first")
	}
	if !s.confirmFinish {
		t.Fatal("expected confirmation prompt")
	}
	if !strings.Contains(s.View(100, 40), "3 unanswered") {
		t.Error("prompt should count unanswered questions")
	}

	press(s, runeKey('n'))
	if s.confirmFinish || ctrl.Session.Phase() != session.PhaseActive {
		t.Fatal("declining must keep the quiz running")
	}

	press(s, tea.KeyPressMsg{Code: tea.KeyEscape})
	cmd := press(s, runeKey('y'))
	r := resultsFrom(t, cmd)
	if r.Outcome().Expired {
		t.Error("early finish is not an expiry")
	}
}

func TestTimerExpiryShowsResults(t *testing.T) {
	s, _, sched := startQuiz(t, 2, 1)

	_, cmd := s.Update(refreshMsg{})
	if cmd == nil {
		t.Fatal("expected another refresh while active")
	}

	sched.Tick(60)
	_, cmd = s.Update(refreshMsg{})
	r := resultsFrom(t, cmd)
	if !r.Outcome().Expired {
		t.Error("expected expired outcome")
	}
	if r.Outcome().Result.TimeUsed != 60 {
		t.Errorf("time used = %d, want 60", r.Outcome().Result.TimeUsed)
	}
}

func TestViewShowsTimerAndCounter(t *testing.T) {
	s, _, sched := startQuiz(t, 2, 2)
	sched.Tick(5)
	s.Update(refreshMsg{})

	v := s.View(100, 40)
	for _, want := range []string{"Question 1 of 2", "01:55"} {
		if !strings.Contains(v, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
