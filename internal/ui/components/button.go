package components

import (
	"strings"

	"github.com/abhisek/certquiz/internal/ui/theme"
)

// Button is a labelled action bound to a single key.
type Button struct {
	Label   string
	Key     string
	Enabled bool
}

// View renders the button with its key in brackets.
func (b Button) View() string {
	label := b.Label
	if b.Key != "" {
		label += " [" + b.Key + "]"
	}
	if b.Enabled {
		return theme.ButtonActive.Render(label)
	}
	return theme.ButtonInactive.Render(label)
}

// ButtonRow renders buttons side by side.
func ButtonRow(buttons ...Button) string {
	parts := make([]string, 0, len(buttons))
	for _, b := range buttons {
		parts = append(parts, b.View())
	}
	return strings.Join(parts, "  ")
}
