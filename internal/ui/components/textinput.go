package components

import (
	"strconv"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/certquiz/internal/ui/theme"
)

// TextInput wraps bubbles/textinput with a label and an inline error.
type TextInput struct {
	Label       string
	Model       textinput.Model
	NumericOnly bool
	Err         string
}

// NewTextInput creates an unfocused input. limit caps the character count
// when positive.
func NewTextInput(label, placeholder string, numericOnly bool, limit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	if limit > 0 {
		ti.CharLimit = limit
	}
	return TextInput{Label: label, Model: ti, NumericOnly: numericOnly}
}

// Focus gives the input the cursor.
func (t *TextInput) Focus() tea.Cmd { return t.Model.Focus() }

// Blur removes the cursor.
func (t *TextInput) Blur() { t.Model.Blur() }

// SetValue replaces the contents.
func (t *TextInput) SetValue(v string) { t.Model.SetValue(v) }

// Update forwards msg to the underlying model. Non-digit runes are
// dropped when NumericOnly is set.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if t.NumericOnly {
		if kmsg, ok := msg.(tea.KeyMsg); ok {
			key := kmsg.String()
			if len(key) == 1 && (key[0] < '0' || key[0] > '9') {
				return t, nil
			}
		}
	}

	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the label, the input and the error if any.
func (t TextInput) View() string {
	var b strings.Builder
	if t.Label != "" {
		style := theme.Subtitle
		if t.Model.Focused() {
			style = theme.Selected
		}
		b.WriteString(style.Render(t.Label))
		b.WriteByte('\n')
	}
	b.WriteString(t.Model.View())
	if t.Err != "" {
		b.WriteByte('\n')
		b.WriteString(theme.ErrorText.Render(t.Err))
	}
	return b.String()
}

// Value returns the trimmed input value.
func (t TextInput) Value() string {
	return strings.TrimSpace(t.Model.Value())
}

// NumericValue parses the input as an integer.
func (t TextInput) NumericValue() (int, error) {
	return strconv.Atoi(t.Value())
}
