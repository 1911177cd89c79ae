package watch

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/sahayak-app/sahayak/internal/render"
	"github.com/sahayak-app/sahayak/internal/tui/styles"
)

// Spinner animation frames (braille pattern).
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// spinnerInterval is the time between spinner frame updates.
const spinnerInterval = 100 * time.Millisecond

// SpinnerTickMsg is sent to advance the spinner animation.
type SpinnerTickMsg struct{}

// ActivityPanel shows the server's progress messages while a generation runs.
type ActivityPanel struct { //nolint:govet // fieldalignment: preserving logical field order
	spinner  int      // Current spinner frame index
	active   bool     // Whether a generation is running
	steps    []string // Progress messages, newest last
	width    int
	maxSteps int // Max visible steps (default: 5)
}

// NewActivityPanel creates a new activity panel.
func NewActivityPanel() *ActivityPanel {
	return &ActivityPanel{
		maxSteps: 5,
	}
}

// SetActive starts or stops the spinner.
func (a *ActivityPanel) SetActive(active bool) tea.Cmd {
	wasActive := a.active
	a.active = active
	if active && !wasActive {
		return a.tickSpinner()
	}
	return nil
}

// AddStep records a progress message. Repeats of the latest step are ignored.
func (a *ActivityPanel) AddStep(msg string) {
	if msg == "" {
		return
	}
	if n := len(a.steps); n > 0 && a.steps[n-1] == msg {
		return
	}

	a.steps = append(a.steps, msg)

	// Trim to maxSteps
	if len(a.steps) > a.maxSteps {
		a.steps = a.steps[len(a.steps)-a.maxSteps:]
	}
}

// Clear resets the activity panel.
func (a *ActivityPanel) Clear() {
	a.active = false
	a.steps = nil
	a.spinner = 0
}

// SetWidth sets the panel width.
func (a *ActivityPanel) SetWidth(width int) {
	a.width = width
}

// IsActive returns true while the spinner runs.
func (a *ActivityPanel) IsActive() bool {
	return a.active
}

// Update handles messages for the activity panel.
func (a *ActivityPanel) Update(msg tea.Msg) (*ActivityPanel, tea.Cmd) {
	if _, ok := msg.(SpinnerTickMsg); ok && a.active {
		a.spinner = (a.spinner + 1) % len(spinnerFrames)
		return a, a.tickSpinner()
	}
	return a, nil
}

// tickSpinner returns a command that sends a SpinnerTickMsg after the interval.
func (a *ActivityPanel) tickSpinner() tea.Cmd {
	return tea.Tick(spinnerInterval, func(time.Time) tea.Msg {
		return SpinnerTickMsg{}
	})
}

// View renders the activity panel.
func (a *ActivityPanel) View() string {
	if !a.active && len(a.steps) == 0 {
		return ""
	}

	t := styles.CurrentTheme()
	lineWidth := a.width - 6
	lines := make([]string, 0, len(a.steps)+1)

	for i, step := range a.steps {
		latest := i == len(a.steps)-1
		switch {
		case latest && a.active:
			lines = append(lines, t.S().Info.Render(spinnerFrames[a.spinner]+" "+render.ProgressLine(step, lineWidth)))
		default:
			lines = append(lines, t.S().Muted.Render("✓ "+render.ProgressLine(step, lineWidth)))
		}
	}
	if a.active && len(a.steps) == 0 {
		lines = append(lines, t.S().Info.Render(spinnerFrames[a.spinner]+" Waiting for the server..."))
	}

	return lipgloss.NewStyle().
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}
