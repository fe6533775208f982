package components

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/certquiz/internal/ui/theme"
)

// ProgressBar shows done out of total as a horizontal bar.
type ProgressBar struct {
	Done  int
	Total int
	Width int
	Color color.Color
}

// Fraction returns Done/Total clamped to [0, 1].
func (p ProgressBar) Fraction() float64 {
	if p.Total <= 0 {
		return 0
	}
	return min(max(float64(p.Done)/float64(p.Total), 0), 1)
}

// View renders the bar followed by "done/total".
func (p ProgressBar) View() string {
	suffix := fmt.Sprintf(" %d/%d", p.Done, p.Total)
	barWidth := max(p.Width-len(suffix), 4)
	filled := int(float64(barWidth) * p.Fraction())

	fill := p.Color
	if fill == nil {
		fill = theme.Secondary
	}
	return lipgloss.NewStyle().Foreground(fill).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("░", barWidth-filled)) +
		theme.Hint.Render(suffix)
}
