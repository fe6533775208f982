// Package upload prompts for a question file and loads it into the pool.
package upload

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/certquiz/internal/controller"
	"github.com/abhisek/certquiz/internal/question"
	"github.com/abhisek/certquiz/internal/router"
	"github.com/abhisek/certquiz/internal/screen"
	"github.com/abhisek/certquiz/internal/ui/components"
	"github.com/abhisek/certquiz/internal/ui/layout"
	"github.com/abhisek/certquiz/internal/ui/theme"
)

// loadedMsg reports the end of an ingestion.
type loadedMsg struct {
	Path  string
	Count int
	Err   error
}

// UploadScreen implements screen.Screen for choosing a question file.
type UploadScreen struct {
	ctrl    *controller.Controller
	input   components.TextInput
	loading bool
	errMsg  string
	detail  string
}

var _ screen.Screen = (*UploadScreen)(nil)
var _ screen.KeyHintProvider = (*UploadScreen)(nil)

// New creates the upload screen.
func New(ctrl *controller.Controller) *UploadScreen {
	return &UploadScreen{
		ctrl:  ctrl,
		input: components.NewTextInput("Path to a .json or .csv file", "./questions.json", false, 0),
	}
}

func (s *UploadScreen) Init() tea.Cmd { return s.input.Focus() }

func (s *UploadScreen) Title() string { return "Load Questions" }

func (s *UploadScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Load"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *UploadScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		s.loading = false
		if msg.Err != nil {
			s.ctrl.Logger.Warn().Err(msg.Err).Str("path", msg.Path).Msg("question file rejected")
			s.errMsg = controller.UserMessage(msg.Err)
			s.detail = ""
			var verr *question.ValidationError
			if errors.As(msg.Err, &verr) {
				s.detail = verr.Detail()
			}
			return s, nil
		}
		return s, router.PopWithNotice(
			fmt.Sprintf("Loaded %d questions from %s.", msg.Count, msg.Path), false)

	case tea.KeyMsg:
		if msg.String() == "enter" {
			return s, s.submit()
		}
	}

	if s.loading {
		return s, nil
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *UploadScreen) submit() tea.Cmd {
	path := s.input.Value()
	if path == "" {
		s.errMsg = "Please enter a file path."
		return nil
	}
	if s.loading {
		return nil
	}
	s.loading = true
	s.errMsg = ""
	ctrl := s.ctrl
	return func() tea.Msg {
		n, err := ctrl.OnFilePath(context.Background(), path)
		return loadedMsg{Path: path, Count: n, Err: err}
	}
}

func (s *UploadScreen) View(width, height int) string {
	cw := layout.ContentWidth(width)

	var b strings.Builder
	b.WriteString(theme.Title.Render("Load a question bank"))
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render("The whole file is rejected if any question is invalid."))
	b.WriteString("\n\n")
	b.WriteString(s.input.View())
	b.WriteString("\n")

	switch {
	case s.loading:
		b.WriteString("\n" + theme.Subtitle.Render("Loading..."))
	case s.errMsg != "":
		b.WriteString("\n" + theme.ErrorText.Render(s.errMsg))
		if s.detail != "" {
			b.WriteString("\n" + theme.Hint.Render(truncateLines(s.detail, 8)))
		}
	}

	return components.Centered(components.Card(b.String(), cw), width, height)
}

// truncateLines keeps the first n lines of text.
func truncateLines(text string, n int) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	if len(lines) <= n {
		return strings.Join(lines, "\n")
	}
	return strings.Join(lines[:n], "\n") + fmt.Sprintf("\n... and %d more", len(lines)-n)
}
