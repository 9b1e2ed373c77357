// Package components holds the reusable widgets of the form screen.
package components

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Default limits for row inputs. A char limit of 0 accepts any length, the
// same as the web and render front ends.
const (
	DefaultCharLimit = 0
	DefaultWidth     = 32
)

// TextField is a single-line text input bound to one form row. A focused
// field takes keystrokes directly; there is no separate edit mode.
type TextField struct {
	Placeholder string
	input       textinput.Model
	RowID       int
	focused     bool
}

// NewTextField creates a new TextField for the row with the given id
func NewTextField(rowID int, placeholder, value string) TextField {
	return NewTextFieldWithLimits(rowID, placeholder, value, DefaultCharLimit, DefaultWidth)
}

// NewTextFieldWithLimits creates a new TextField with custom char limit and width
func NewTextFieldWithLimits(rowID int, placeholder, value string, charLimit, width int) TextField {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = charLimit
	ti.SetValue(value)
	ti.Width = width
	ti.Prompt = ""

	return TextField{
		RowID:       rowID,
		Placeholder: placeholder,
		input:       ti,
	}
}

// Focus gives the field keyboard focus with the cursor at the end
func (t *TextField) Focus() tea.Cmd {
	t.focused = true
	t.input.SetCursor(len(t.input.Value()))
	return t.input.Focus()
}

// Blur removes focus from the field
func (t *TextField) Blur() {
	t.focused = false
	t.input.Blur()
}

// IsFocused returns whether the field is focused
func (t *TextField) IsFocused() bool {
	return t.focused
}

// Value returns the current field value
func (t *TextField) Value() string {
	return t.input.Value()
}

// SetValue sets the field value
func (t *TextField) SetValue(value string) {
	t.input.SetValue(value)
}

// SetPlaceholder replaces the placeholder shown while the field is empty
func (t *TextField) SetPlaceholder(placeholder string) {
	t.Placeholder = placeholder
	t.input.Placeholder = placeholder
}

// Update feeds msg to the input and reports whether the value changed.
func (t *TextField) Update(msg tea.Msg) (bool, tea.Cmd) {
	if !t.focused {
		return false, nil
	}

	before := t.input.Value()
	var cmd tea.Cmd
	t.input, cmd = t.input.Update(msg)
	return t.input.Value() != before, cmd
}

// View renders the input.
func (t *TextField) View() string {
	return t.input.View()
}

// GetInput returns the underlying textinput.Model for direct access
func (t *TextField) GetInput() textinput.Model {
	return t.input
}
