// Package browse is the page for reviewing local history: a result list
// beside a rendered preview, with publish and delete actions.
package browse

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/sahayak-app/sahayak/internal/artifact"
	"github.com/sahayak-app/sahayak/internal/bridge"
	"github.com/sahayak-app/sahayak/internal/debug"
	"github.com/sahayak-app/sahayak/internal/material"
	"github.com/sahayak-app/sahayak/internal/render"
	"github.com/sahayak-app/sahayak/internal/tui/components/logo"
	"github.com/sahayak-app/sahayak/internal/tui/styles"
)

// Service is the subset of material.Service the page uses.
type Service interface {
	List(ctx context.Context, f material.Filter) ([]*material.Material, error)
	Publish(ctx context.Context, id string, saver material.Saver) (*material.Material, error)
	Delete(ctx context.Context, id string) error
}

// Options configures the page.
type Options struct {
	Service  Service
	Saver    material.Saver // optional; publishing is disabled without it
	Renderer *render.Terminal
	Filter   material.Filter
}

type loadedMsg struct {
	items []*material.Material
	err   error
}

type publishedMsg struct {
	m   *material.Material
	err error
}

type deletedMsg struct {
	id  string
	err error
}

// kindCycle is the order "f" steps through. The empty kind shows all.
var kindCycle = []artifact.Kind{
	"",
	artifact.KindAnswer,
	artifact.KindActivities,
	artifact.KindQuestionPrompts,
	artifact.KindVideo,
}

// Model lists stored results and previews the selected one.
type Model struct { //nolint:govet // fieldalignment: preserving logical field order
	ctx     context.Context
	service Service
	saver   material.Saver
	filter  material.Filter

	list    *MaterialList
	preview *Preview

	confirming bool // waiting for y/n on delete
	notice     string
	width      int
	height     int
}

// New creates the page. ctx bounds every store and server call it makes.
func New(ctx context.Context, opts Options) *Model {
	return &Model{
		ctx:     ctx,
		service: opts.Service,
		saver:   opts.Saver,
		filter:  opts.Filter,
		list:    NewMaterialList(),
		preview: NewPreview(opts.Renderer),
	}
}

// Init loads the list.
func (m *Model) Init() tea.Cmd {
	return m.load()
}

// Selected returns the material under the cursor.
func (m *Model) Selected() *material.Material {
	return m.list.Selected()
}

// Len returns the number of listed materials.
func (m *Model) Len() int {
	return m.list.Len()
}

func (m *Model) load() tea.Cmd {
	f := m.filter
	return func() tea.Msg {
		items, err := m.service.List(m.ctx, f)
		return loadedMsg{items: items, err: err}
	}
}

func (m *Model) publish(id string) tea.Cmd {
	return func() tea.Msg {
		pub, err := m.service.Publish(m.ctx, id, m.saver)
		return publishedMsg{m: pub, err: err}
	}
}

func (m *Model) delete(id string) tea.Cmd {
	return func() tea.Msg {
		return deletedMsg{id: id, err: m.service.Delete(m.ctx, id)}
	}
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil
	case bridge.MaterialEventMsg:
		// Another process or page changed history.
		return m, m.load()
	case loadedMsg:
		if msg.err != nil {
			debug.Error("browse", msg.err, "loading history")
			m.notice = msg.err.Error()
			return m, nil
		}
		m.list.SetItems(msg.items)
		m.preview.SetMaterial(m.list.Selected())
		return m, nil
	case publishedMsg:
		if msg.err != nil {
			debug.Error("browse", msg.err, "publishing")
			m.notice = msg.err.Error()
			return m, nil
		}
		m.notice = fmt.Sprintf("Published %s to %s", shortID(msg.m.ID), msg.m.Scope)
		return m, m.load()
	case deletedMsg:
		if msg.err != nil {
			debug.Error("browse", msg.err, "deleting")
			m.notice = msg.err.Error()
			return m, nil
		}
		m.notice = "Deleted " + shortID(msg.id)
		return m, m.load()
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (*Model, tea.Cmd) {
	key := msg.String()

	if m.confirming {
		m.confirming = false
		m.notice = ""
		if key == "y" {
			if sel := m.list.Selected(); sel != nil {
				return m, m.delete(sel.ID)
			}
		}
		return m, nil
	}

	switch key {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit
	case "r":
		m.notice = ""
		return m, m.load()
	case "f":
		m.filter.Kind = nextKind(m.filter.Kind)
		m.notice = ""
		return m, m.load()
	case "p":
		sel := m.list.Selected()
		switch {
		case sel == nil:
			return m, nil
		case m.saver == nil:
			m.notice = "Publishing is not configured"
			return m, nil
		case sel.Published:
			m.notice = "Already published"
			return m, nil
		}
		m.notice = "Publishing..."
		return m, m.publish(sel.ID)
	case "d", "delete":
		if sel := m.list.Selected(); sel != nil {
			m.confirming = true
			m.notice = fmt.Sprintf("Delete %s? (y/n)", shortID(sel.ID))
		}
		return m, nil
	}

	_, cmd := m.list.Update(msg)
	m.preview.SetMaterial(m.list.Selected())
	return m, cmd
}

func nextKind(k artifact.Kind) artifact.Kind {
	for i, c := range kindCycle {
		if c == k {
			return kindCycle[(i+1)%len(kindCycle)]
		}
	}
	return kindCycle[0]
}

// SetSize sets the page dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height

	bodyHeight := max(height-3, 4)
	listWidth := width * 2 / 5
	m.list.SetSize(listWidth, bodyHeight)
	m.preview.SetSize(width-listWidth-1, bodyHeight)
}

func (m *Model) header() string {
	t := styles.CurrentTheme()
	kind := "all kinds"
	if m.filter.Kind != "" {
		kind = string(m.filter.Kind)
	}
	meta := fmt.Sprintf("history · %s · %d results", kind, m.list.Len())
	return t.S().Title.Render("Sahayak") + " " + t.S().Muted.Render(meta)
}

func (m *Model) help() string {
	if m.confirming {
		return "y delete • n keep"
	}
	return "↑/↓ select • p publish • d delete • f filter • r reload • q quit"
}

// View renders the page.
func (m *Model) View() string {
	t := styles.CurrentTheme()

	var body string
	if m.list.Len() == 0 && m.filter == (material.Filter{}) {
		body = m.welcome()
	} else {
		list := lipgloss.NewStyle().Width(m.width * 2 / 5).Render(m.list.View())
		body = lipgloss.JoinHorizontal(lipgloss.Top, list, " ", m.preview.View())
	}

	footer := t.S().Muted.Render(m.help())
	if m.notice != "" {
		footer = t.S().Info.Render(m.notice) + t.S().Muted.Render(" · "+m.help())
	}

	content := lipgloss.JoinVertical(lipgloss.Left, m.header(), "", body)
	if m.height > 0 {
		if gap := m.height - lipgloss.Height(content) - 1; gap > 0 {
			content += strings.Repeat("\n", gap)
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, content, footer)
}

// welcome fills the body when history is empty.
func (m *Model) welcome() string {
	t := styles.CurrentTheme()
	content := lipgloss.JoinVertical(lipgloss.Center,
		logo.RenderWithTagline(),
		"",
		t.S().Text.Render("No results yet. Generate something first."),
		"",
		t.S().Muted.Render("sahayak generate answer --topic <id> -q \"...\""),
	)
	return lipgloss.Place(m.width, max(m.height-3, lipgloss.Height(content)),
		lipgloss.Center, lipgloss.Center, content)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
