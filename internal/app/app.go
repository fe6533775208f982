// Package app hosts the Bubble Tea root model and builds the controller it
// drives.
package app

import (
	"fmt"
	"runtime/debug"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/rs/zerolog"

	"github.com/abhisek/certquiz/internal/controller"
	"github.com/abhisek/certquiz/internal/router"
	"github.com/abhisek/certquiz/internal/screen"
	"github.com/abhisek/certquiz/internal/screens/setup"
	"github.com/abhisek/certquiz/internal/ui/layout"
	"github.com/abhisek/certquiz/internal/ui/theme"
)

// AppModel is the root Bubble Tea model.
type AppModel struct {
	ctrl   *controller.Controller
	logger zerolog.Logger
	router *router.Router
	width  int
	height int

	// failed is set after a screen panicked; the app then only offers a
	// reload.
	failed bool
}

func newAppModel(ctrl *controller.Controller, logger zerolog.Logger) *AppModel {
	return &AppModel{
		ctrl:   ctrl,
		logger: logger,
		router: router.New(setup.New(ctrl)),
	}
}

func (m *AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m *AppModel) Update(msg tea.Msg) (model tea.Model, cmd tea.Cmd) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error().
				Str("panic", fmt.Sprint(r)).
				Str("stack", string(debug.Stack())).
				Msg("screen update panicked")
			m.failed = true
			model, cmd = m, nil
		}
	}()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		}
		if m.failed {
			return m, m.handleFailedKey(msg)
		}
		if msg.String() == "esc" && !m.activeHandlesEscape() {
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	if m.failed {
		return m, nil
	}
	return m, m.router.Update(msg)
}

func (m *AppModel) activeHandlesEscape() bool {
	h, ok := m.router.Active().(screen.EscapeHandler)
	return ok && h.HandlesEscape()
}

func (m *AppModel) handleFailedKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "r", "enter":
		return m.reload()
	case "q":
		return tea.Quit
	}
	return nil
}

// reload abandons any running quiz and starts over at setup. The pool and
// history are kept.
func (m *AppModel) reload() tea.Cmd {
	m.logger.Info().Msg("reloading after failure")
	m.ctrl.Session.Close()
	m.failed = false
	return m.router.Reset(setup.New(m.ctrl))
}

func (m *AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}
	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	title := "Error"
	if !m.failed {
		title = m.router.Active().Title()
	}
	header := layout.RenderHeader(title, m.ctrl.BankLabel(), m.width)
	footer := layout.RenderFooter(m.footerHints(), m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)

	var content string
	if m.failed {
		content = renderFailure(m.width, contentHeight)
	} else {
		content = m.safeView(m.width, contentHeight)
	}

	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

// safeView renders the active screen, falling back to the failure notice
// if rendering panics.
func (m *AppModel) safeView(width, height int) (out string) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error().Str("panic", fmt.Sprint(r)).Msg("screen view panicked")
			m.failed = true
			out = renderFailure(width, height)
		}
	}()
	return m.router.View(width, height)
}

func (m *AppModel) footerHints() []layout.KeyHint {
	if m.failed {
		return []layout.KeyHint{
			{Key: "R", Description: "Reload"},
			{Key: "Q", Description: "Quit"},
		}
	}
	if p, ok := m.router.Active().(screen.KeyHintProvider); ok {
		return p.KeyHints()
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func renderFailure(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.ErrorText.Render("Something went wrong."))
	b.WriteString("\n\n")
	b.WriteString(theme.Body.Render("The quiz hit an unexpected error. Your question bank and history are safe."))
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render("Press r to reload, or q to quit."))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
}

// Run starts the Bubble Tea program on ctrl.
func Run(ctrl *controller.Controller, logger zerolog.Logger) error {
	p := tea.NewProgram(newAppModel(ctrl, logger))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}
