// Package screen defines what the router stacks.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/certquiz/internal/ui/layout"
)

// Screen is one page of the TUI. View renders the body only; the app draws
// the header and footer around it.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)
	View(width, height int) string
	Title() string
}

// KeyHintProvider lets a screen replace the default footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// EscapeHandler is implemented by screens that handle Esc themselves
// instead of letting the app pop them.
type EscapeHandler interface {
	HandlesEscape() bool
}

// NoticeMsg is sent to the screen revealed by a pop so it can refresh and
// show Text in its status line. Err marks Text as an error.
type NoticeMsg struct {
	Text string
	Err  bool
}
