package watch

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/sahayak-app/sahayak/internal/generation"
	"github.com/sahayak-app/sahayak/internal/tui/styles"
)

// StatusBar displays the generation status and the keys that apply to it.
type StatusBar struct {
	state   generation.State
	notice  string
	editing bool
	canSave bool
	width   int
}

// NewStatusBar creates a new status bar.
func NewStatusBar() *StatusBar {
	return &StatusBar{}
}

// SetState sets the session snapshot to describe.
func (s *StatusBar) SetState(st generation.State) {
	s.state = st
}

// SetNotice sets a transient message such as "Saved".
func (s *StatusBar) SetNotice(msg string) {
	s.notice = msg
}

// SetEditing reports whether the feedback input has focus.
func (s *StatusBar) SetEditing(editing bool) {
	s.editing = editing
}

// SetCanSave reports whether saving is available.
func (s *StatusBar) SetCanSave(canSave bool) {
	s.canSave = canSave
}

// SetWidth sets the status bar width.
func (s *StatusBar) SetWidth(width int) {
	s.width = width
}

// Help returns the key hints for the current state.
func (s *StatusBar) Help() string {
	if s.editing {
		return "enter send • esc back"
	}

	switch s.state.Status {
	case generation.StatusGenerating:
		return "esc cancel • ctrl+c cancel"
	case generation.StatusSucceeded:
		hints := []string{"r refine", "c copy"}
		if s.canSave {
			hints = append(hints, "s save")
		}
		return strings.Join(append(hints, "q quit"), " • ")
	case generation.StatusFailed, generation.StatusCancelled:
		return "g retry • q quit"
	default:
		return "q quit"
	}
}

// View renders the status bar.
func (s *StatusBar) View() string {
	t := styles.CurrentTheme()

	var statusText string
	var statusStyle lipgloss.Style

	switch s.state.Status {
	case generation.StatusGenerating:
		statusText = "Generating " + string(s.state.Kind)
		statusStyle = t.S().Info
	case generation.StatusSucceeded:
		statusText = "Done"
		statusStyle = t.S().Success
	case generation.StatusFailed:
		statusText = "Error: " + s.state.ErrorMessage()
		statusStyle = t.S().Error
	case generation.StatusCancelled:
		statusText = "Cancelled"
		statusStyle = t.S().Warning
	default:
		statusText = "Ready"
		statusStyle = t.S().Muted
	}
	if s.notice != "" {
		statusText += " · " + s.notice
	}

	left := statusStyle.Render(statusText)
	right := t.S().Muted.Render(s.Help())

	gap := s.width - lipgloss.Width(left) - lipgloss.Width(right) - 4
	if gap < 1 {
		gap = 1
	}

	barStyle := lipgloss.NewStyle().
		Padding(0, 1).
		Background(t.BgSubtle)

	return barStyle.Render(left + strings.Repeat(" ", gap) + right)
}
