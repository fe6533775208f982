// Package layout draws the frame around every screen: a header bar with the
// active question bank, the screen body and a footer of key hints.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/certquiz/internal/ui/theme"
)

const (
	MinWidth  = 80
	MinHeight = 24

	// CompactHeight is the height below which screens shorten lists.
	CompactHeight = 30
)

// KeyHint is one key binding shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

func IsCompactHeight(height int) bool { return height < CompactHeight }

func IsTooSmall(width, height int) bool { return width < MinWidth || height < MinHeight }

// ContentWidth is the width of centred cards within a frame of frameWidth.
func ContentWidth(frameWidth int) int {
	return min(max(frameWidth-6, 20), 72)
}

func RenderMinSizeMessage(width, height int) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.Text).
		Render(fmt.Sprintf("The quiz needs a bigger window.\n\nResize to at least %d x %d\n(currently %d x %d)",
			MinWidth, MinHeight, width, height))
}

// bar is the bordered strip used for both header and footer.
func bar(content string, width int) string {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(content)
}

// RenderHeader shows the app name, the screen title centred, and the active
// bank on the right when bank is non-empty.
func RenderHeader(title, bank string, width int) string {
	name := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(" CertQuiz")
	mid := lipgloss.NewStyle().Foreground(theme.Text).Render(title)
	var right string
	if bank != "" {
		right = theme.Hint.Render("Bank: ") + lipgloss.NewStyle().Foreground(theme.Accent).Render(bank) + " "
	}

	inner := max(width-4, 0)
	nw, mw, rw := lipgloss.Width(name), lipgloss.Width(mid), lipgloss.Width(right)
	gapL := max((inner-mw)/2-nw, 1)
	gapR := max(inner-nw-gapL-mw-rw, 1)

	return bar(name+strings.Repeat(" ", gapL)+mid+strings.Repeat(" ", gapR)+right, width)
}

// RenderFooter lists hints left to right, dropping those that no longer fit.
func RenderFooter(hints []KeyHint, width int) string {
	room := max(width-6, 0)
	var line string
	for _, h := range hints {
		part := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(h.Key) + " " + theme.Hint.Render(h.Description)
		if line != "" {
			part = "   " + part
		}
		if lipgloss.Width(line)+lipgloss.Width(part) > room {
			break
		}
		line += part
	}
	return bar(" "+line, width)
}

// RenderFrame stacks header, body and footer, sizing the body to fill the
// remaining height.
func RenderFrame(header, body, footer string, width, height int) string {
	bodyHeight := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body = lipgloss.NewStyle().Width(width).Height(bodyHeight).Render(body)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}
