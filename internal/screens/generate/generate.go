// Package generate drafts a question bank with the configured LLM and
// loads it like an uploaded file.
package generate

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/certquiz/internal/controller"
	"github.com/abhisek/certquiz/internal/router"
	"github.com/abhisek/certquiz/internal/screen"
	"github.com/abhisek/certquiz/internal/ui/components"
	"github.com/abhisek/certquiz/internal/ui/layout"
	"github.com/abhisek/certquiz/internal/ui/theme"
)

// Timeout bounds one generation request.
const Timeout = 3 * time.Minute

type generatedMsg struct {
	Topic string
	Count int
	Err   error
}

type spinnerTickMsg struct{}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// GenerateScreen implements screen.Screen for AI bank generation.
type GenerateScreen struct {
	ctrl    *controller.Controller
	topic   components.TextInput
	count   components.TextInput
	onCount bool

	running bool
	frame   int
	cancel  context.CancelFunc
	errMsg  string
}

var _ screen.Screen = (*GenerateScreen)(nil)
var _ screen.KeyHintProvider = (*GenerateScreen)(nil)

// New creates the generate screen.
func New(ctrl *controller.Controller) *GenerateScreen {
	s := &GenerateScreen{
		ctrl:  ctrl,
		topic: components.NewTextInput("Topic", "e.g. AWS Solutions Architect: networking", false, 120),
		count: components.NewTextInput("Number of questions", "10", true, 3),
	}
	s.count.SetValue("10")
	return s
}

func (s *GenerateScreen) Init() tea.Cmd { return s.topic.Focus() }

func (s *GenerateScreen) Title() string { return "Generate Questions" }

func (s *GenerateScreen) KeyHints() []layout.KeyHint {
	if s.running {
		return []layout.KeyHint{{Key: "Esc", Description: "Cancel"}}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Generate"},
		{Key: "Tab", Description: "Next field"},
		{Key: "Esc", Description: "Back"},
	}
}

// HandlesEscape lets Esc cancel a running request instead of leaving it
// orphaned.
func (s *GenerateScreen) HandlesEscape() bool { return true }

func (s *GenerateScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case generatedMsg:
		s.running = false
		s.cancel = nil
		if msg.Err != nil {
			s.ctrl.Logger.Error().Err(msg.Err).Str("topic", msg.Topic).Msg("question generation failed")
			s.errMsg = controller.UserMessage(msg.Err)
			return s, nil
		}
		return s, router.PopWithNotice(
			fmt.Sprintf("Generated %d questions on %q.", msg.Count, msg.Topic), false)

	case spinnerTickMsg:
		if !s.running {
			return s, nil
		}
		s.frame = (s.frame + 1) % len(spinnerFrames)
		return s, spinnerTick()

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			if s.running {
				s.cancel()
				return s, nil
			}
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "tab", "shift+tab":
			return s, s.toggleField()
		case "enter":
			return s, s.submit()
		}
	}

	if s.running {
		return s, nil
	}
	var cmd tea.Cmd
	if s.onCount {
		s.count, cmd = s.count.Update(msg)
	} else {
		s.topic, cmd = s.topic.Update(msg)
	}
	return s, cmd
}

func (s *GenerateScreen) toggleField() tea.Cmd {
	s.onCount = !s.onCount
	if s.onCount {
		s.topic.Blur()
		return s.count.Focus()
	}
	s.count.Blur()
	return s.topic.Focus()
}

func (s *GenerateScreen) submit() tea.Cmd {
	if s.running {
		return nil
	}
	topic := s.topic.Value()
	if topic == "" {
		s.errMsg = "Please enter a topic."
		return nil
	}
	n, err := s.count.NumericValue()
	if err != nil || n < 1 {
		s.errMsg = "Please enter how many questions to generate."
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), Timeout)
	s.cancel = cancel
	s.running = true
	s.errMsg = ""

	ctrl := s.ctrl
	run := func() tea.Msg {
		defer cancel()
		got, err := ctrl.OnGenerate(ctx, topic, n)
		return generatedMsg{Topic: topic, Count: got, Err: err}
	}
	return tea.Batch(run, spinnerTick())
}

func spinnerTick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(time.Time) tea.Msg { return spinnerTickMsg{} })
}

func (s *GenerateScreen) View(width, height int) string {
	cw := layout.ContentWidth(width)

	var b strings.Builder
	b.WriteString(theme.Title.Render("Generate a question bank"))
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render("Questions are drafted by " + s.modelName() + " and checked like an upload."))
	b.WriteString("\n\n")
	b.WriteString(s.topic.View())
	b.WriteString("\n\n")
	b.WriteString(s.count.View())
	b.WriteString("\n")

	switch {
	case s.running:
		b.WriteString("\n" + theme.Subtitle.Render(spinnerFrames[s.frame]+" Generating questions..."))
	case s.errMsg != "":
		b.WriteString("\n" + theme.ErrorText.Render(s.errMsg))
	}

	return components.Centered(components.Card(b.String(), cw), width, height)
}

func (s *GenerateScreen) modelName() string {
	if s.ctrl.Generator == nil {
		return "the AI provider"
	}
	return s.ctrl.Generator.ModelID()
}
