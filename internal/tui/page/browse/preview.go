package browse

import (
	"fmt"
	"strings"
	"time"

	"github.com/sahayak-app/sahayak/internal/debug"
	"github.com/sahayak-app/sahayak/internal/material"
	"github.com/sahayak-app/sahayak/internal/render"
	"github.com/sahayak-app/sahayak/internal/tui/styles"
)

// Preview shows the selected material rendered as markdown.
type Preview struct {
	material *material.Material
	renderer *render.Terminal
	panel    *BorderedPanel
	width    int
	height   int
}

// NewPreview creates a preview panel.
func NewPreview(renderer *render.Terminal) *Preview {
	return &Preview{
		renderer: renderer,
		panel:    NewBorderedPanel(),
	}
}

// SetMaterial sets the material to preview.
func (p *Preview) SetMaterial(m *material.Material) {
	p.material = m
}

// SetSize sets the preview panel dimensions.
func (p *Preview) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.panel.SetSize(width, height)
}

// View renders the preview panel.
func (p *Preview) View() string {
	t := styles.CurrentTheme()

	if p.material == nil {
		p.panel.SetTitle("Preview")
		p.panel.SetContent(t.S().Muted.Render("Select a result to preview"))
		return p.panel.View()
	}

	m := p.material
	meta := []string{
		t.S().Muted.Render(fmt.Sprintf("ID: %s", m.ID)),
		t.S().Muted.Render(fmt.Sprintf("Thread: %s", m.ThreadID)),
		t.S().Muted.Render(fmt.Sprintf("Created: %s", formatDateTime(m.CreatedAt))),
	}
	if m.Published {
		meta = append(meta, t.S().Success.Render("Published to class materials"))
	}

	body, err := p.renderer.Render(m.Payload, max(p.width-4, 10))
	if err != nil {
		debug.Error("browse", err, "rendering preview")
	}

	p.panel.SetTitle(fmt.Sprintf("%s · %s", m.Kind, m.Scope))
	p.panel.SetContent(strings.Join(meta, "\n") + "\n\n" + strings.Trim(body, "\n"))
	return p.panel.View()
}

// formatDateTime formats a time as a readable date/time string.
func formatDateTime(t time.Time) string {
	if t.Year() == time.Now().Year() {
		return t.Local().Format("Jan 2, 3:04 PM")
	}
	return t.Local().Format("Jan 2, 2006")
}
