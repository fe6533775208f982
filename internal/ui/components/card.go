package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/certquiz/internal/ui/theme"
)

// Card wraps content in a rounded border cw columns wide.
func Card(content string, cw int) string {
	return theme.Card.Width(cw).Render(content)
}

// Centered places block in the middle of a width x height area.
func Centered(block string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, block)
}
