package watch

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/bubbles/v2/textinput"
	"charm.land/lipgloss/v2"

	"github.com/sahayak-app/sahayak/internal/tui/styles"
)

// Feedback is the input used to ask for a revised result.
type Feedback struct {
	textInput textinput.Model
	width     int
	enabled   bool
}

// NewFeedback creates a new, disabled feedback input.
func NewFeedback() *Feedback {
	ti := textinput.New()
	ti.Placeholder = "What should change? e.g. simpler words, add a local example"
	ti.CharLimit = 2000
	ti.SetStyles(styles.CurrentTheme().S().TextInput)

	return &Feedback{textInput: ti}
}

// Update handles input events.
func (f *Feedback) Update(msg tea.Msg) (*Feedback, tea.Cmd) {
	if !f.enabled {
		return f, nil
	}

	var cmd tea.Cmd
	f.textInput, cmd = f.textInput.Update(msg)
	return f, cmd
}

// View renders the input.
func (f *Feedback) View() string {
	t := styles.CurrentTheme()

	inputStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderFocus).
		Padding(0, 1)
	if f.width > 4 {
		inputStyle = inputStyle.Width(f.width - 4)
	}

	return inputStyle.Render(f.textInput.View())
}

// SetWidth sets the input width.
func (f *Feedback) SetWidth(width int) {
	f.width = width
	if width > 8 {
		f.textInput.SetWidth(width - 8) // Account for border and padding
	}
}

// Value returns the current input value.
func (f *Feedback) Value() string {
	return f.textInput.Value()
}

// Clear clears the input.
func (f *Feedback) Clear() {
	f.textInput.SetValue("")
}

// Enable focuses the input and starts the cursor blinking.
func (f *Feedback) Enable() tea.Cmd {
	f.enabled = true
	return tea.Batch(f.textInput.Focus(), textinput.Blink)
}

// Disable disables the input.
func (f *Feedback) Disable() {
	f.enabled = false
	f.textInput.Blur()
}

// IsEnabled returns whether the input is enabled.
func (f *Feedback) IsEnabled() bool {
	return f.enabled
}
