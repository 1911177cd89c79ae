package browse

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/sahayak-app/sahayak/internal/material"
	"github.com/sahayak-app/sahayak/internal/render"
	"github.com/sahayak-app/sahayak/internal/tui/styles"
)

// MaterialList displays stored results with cursor navigation.
type MaterialList struct {
	items  []*material.Material
	cursor int
	offset int // Scroll offset
	width  int
	height int
}

// NewMaterialList creates an empty list.
func NewMaterialList() *MaterialList {
	return &MaterialList{}
}

// SetItems replaces the list contents, keeping the cursor in range.
func (l *MaterialList) SetItems(items []*material.Material) {
	l.items = items
	if l.cursor >= len(l.items) {
		l.cursor = max(0, len(l.items)-1)
	}
	l.ensureVisible()
}

// SetSize sets the list dimensions.
func (l *MaterialList) SetSize(width, height int) {
	l.width = width
	l.height = height
	l.ensureVisible()
}

// Selected returns the material under the cursor.
func (l *MaterialList) Selected() *material.Material {
	if l.cursor >= 0 && l.cursor < len(l.items) {
		return l.items[l.cursor]
	}
	return nil
}

// Len returns the number of items.
func (l *MaterialList) Len() int {
	return len(l.items)
}

// Update handles navigation keys.
func (l *MaterialList) Update(msg tea.Msg) (*MaterialList, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return l, nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if l.cursor > 0 {
			l.cursor--
		}
	case "down", "j":
		if l.cursor < len(l.items)-1 {
			l.cursor++
		}
	case "home", "g":
		l.cursor = 0
	case "end", "G":
		l.cursor = max(0, len(l.items)-1)
	}
	l.ensureVisible()
	return l, nil
}

func (l *MaterialList) ensureVisible() {
	rows := l.visibleRows()
	if l.cursor < l.offset {
		l.offset = l.cursor
	} else if l.cursor >= l.offset+rows {
		l.offset = l.cursor - rows + 1
	}
}

func (l *MaterialList) visibleRows() int {
	// Each item takes 2 lines (title + summary)
	return max(1, (l.height-2)/2)
}

// View renders the list.
func (l *MaterialList) View() string {
	t := styles.CurrentTheme()

	if len(l.items) == 0 {
		return t.S().Muted.
			Width(l.width).
			Align(lipgloss.Center).
			Padding(2, 0).
			Render("No results yet. Generate something first.")
	}

	rows := l.visibleRows()
	end := min(l.offset+rows, len(l.items))

	var lines []string
	if l.offset > 0 {
		lines = append(lines, t.S().Muted.Render(fmt.Sprintf("  ↑ %d more above", l.offset)))
	}
	for i := l.offset; i < end; i++ {
		lines = append(lines, l.renderItem(l.items[i], i == l.cursor))
	}
	if remaining := len(l.items) - end; remaining > 0 {
		lines = append(lines, t.S().Muted.Render(fmt.Sprintf("  ↓ %d more below", remaining)))
	}

	return strings.Join(lines, "\n")
}

func (l *MaterialList) renderItem(m *material.Material, selected bool) string {
	t := styles.CurrentTheme()

	title := fmt.Sprintf("%s · %s", m.Kind, m.Scope)
	meta := formatRelativeTime(m.CreatedAt)
	if m.Published {
		meta += " · published"
	}
	summary := render.ProgressLine(render.Summary(m.Payload), max(l.width-4, 10))

	if selected {
		return t.S().Primary.Bold(true).Render("> "+title) + "  " + t.S().Muted.Render(meta) + "\n" +
			t.S().Text.Render("  "+summary)
	}
	return t.S().Text.Render("  "+title) + "  " + t.S().Muted.Render(meta) + "\n" +
		t.S().Muted.Render("  "+summary)
}

// formatRelativeTime formats a time as a relative string.
func formatRelativeTime(t time.Time) string {
	diff := time.Since(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		mins := int(diff.Minutes())
		if mins == 1 {
			return "1 min ago"
		}
		return fmt.Sprintf("%d mins ago", mins)
	case diff < 24*time.Hour:
		hours := int(diff.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	case diff < 48*time.Hour:
		return "yesterday"
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%d days ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2")
	}
}
