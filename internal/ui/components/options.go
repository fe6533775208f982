package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/certquiz/internal/ui/theme"
)

// OptionList shows the options of one question. Cursor moves with the
// arrow keys; Chosen is the recorded answer or -1.
type OptionList struct {
	Options []string
	Cursor  int
	Chosen  int
}

// ChooseMsg is emitted when the user picks option Index.
type ChooseMsg struct {
	Index int
}

// NewOptionList creates a list with the cursor on the chosen option, or
// the first one when nothing is chosen yet.
func NewOptionList(options []string, chosen int) OptionList {
	cursor := max(chosen, 0)
	return OptionList{Options: options, Cursor: cursor, Chosen: chosen}
}

// Label returns the letter shown for option i: A, B, C ...
func Label(i int) string {
	return string(rune('A' + i))
}

// Update moves the cursor. Enter, space or a digit key chooses.
func (o OptionList) Update(msg tea.Msg) (OptionList, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return o, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if o.Cursor > 0 {
			o.Cursor--
		}
		return o, nil
	case "down", "j":
		if o.Cursor < len(o.Options)-1 {
			o.Cursor++
		}
		return o, nil
	case "enter", "space":
		return o.choose(o.Cursor)
	}

	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		if i := int(key[0] - '1'); i < len(o.Options) {
			return o.choose(i)
		}
	}
	return o, nil
}

func (o OptionList) choose(i int) (OptionList, tea.Cmd) {
	o.Cursor = i
	o.Chosen = i
	return o, func() tea.Msg { return ChooseMsg{Index: i} }
}

// View renders the options; the chosen one is marked with a filled dot.
func (o OptionList) View(width int) string {
	var b strings.Builder
	for i, opt := range o.Options {
		mark := "○"
		if i == o.Chosen {
			mark = "●"
		}
		prefix := "  "
		if i == o.Cursor {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s %s) %s", prefix, mark, Label(i), opt)

		style := theme.Unselected
		switch {
		case i == o.Chosen:
			style = theme.Correct.Foreground(theme.Secondary)
		case i == o.Cursor:
			style = theme.Selected
		}
		b.WriteString(style.Width(width).Render(line))
		b.WriteByte('\n')
	}
	return b.String()
}

// ReviewLine renders one option in the results review. correct marks the
// right answer and chosen the user's pick.
func ReviewLine(i int, text string, correct, chosen bool) string {
	line := fmt.Sprintf("   %s) %s", Label(i), text)
	switch {
	case correct:
		return theme.Correct.Render(line + "  ✓")
	case chosen:
		return theme.Incorrect.Render(line + "  ✗ your answer")
	}
	return lipgloss.NewStyle().Foreground(theme.TextDim).Render(line)
}
