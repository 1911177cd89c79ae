// Package watch is the page that follows one generation session.
package watch

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/atotto/clipboard"

	"github.com/sahayak-app/sahayak/internal/bridge"
	"github.com/sahayak-app/sahayak/internal/debug"
	"github.com/sahayak-app/sahayak/internal/events"
	"github.com/sahayak-app/sahayak/internal/generation"
	"github.com/sahayak-app/sahayak/internal/pubsub"
	"github.com/sahayak-app/sahayak/internal/render"
	"github.com/sahayak-app/sahayak/internal/tui/styles"
)

// SaveFunc stores a finished result and returns a short notice for the
// status bar.
type SaveFunc func(ctx context.Context, st generation.State) (string, error)

// Options configures the page.
type Options struct {
	Session  *generation.Session
	Request  generation.Request
	Renderer *render.Terminal
	Save     SaveFunc // optional
}

type startedMsg struct{ err error }

type savedMsg struct {
	notice string
	err    error
}

type copiedMsg struct{ err error }

// writeClipboard is swapped in tests.
var writeClipboard = clipboard.WriteAll

// Model follows a generation session: progress while it runs, the rendered
// result when it succeeds, and a feedback box to request a revision.
type Model struct { //nolint:govet // fieldalignment: preserving logical field order
	ctx      context.Context
	session  *generation.Session
	request  generation.Request
	renderer *render.Terminal
	save     SaveFunc

	activity *ActivityPanel
	feedback *Feedback
	result   *ResultView
	status   *StatusBar

	state  generation.State
	width  int
	height int
}

// New creates the page. ctx bounds every generation it starts.
func New(ctx context.Context, opts Options) *Model {
	m := &Model{
		ctx:      ctx,
		session:  opts.Session,
		request:  opts.Request,
		renderer: opts.Renderer,
		save:     opts.Save,
		activity: NewActivityPanel(),
		feedback: NewFeedback(),
		result:   NewResultView(),
		status:   NewStatusBar(),
	}
	m.status.SetCanSave(opts.Save != nil)
	m.refresh()
	return m
}

// Init starts the generation.
func (m *Model) Init() tea.Cmd {
	return m.start()
}

// State returns the last session snapshot the page has seen.
func (m *Model) State() generation.State {
	return m.state
}

func (m *Model) start() tea.Cmd {
	req := m.request
	return func() tea.Msg {
		return startedMsg{err: m.session.Start(m.ctx, req, generation.Callbacks{})}
	}
}

func (m *Model) refine(requirements string) tea.Cmd {
	return func() tea.Msg {
		return startedMsg{err: m.session.Refine(m.ctx, requirements, generation.Callbacks{})}
	}
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil
	case bridge.GenerationEventMsg:
		return m, m.handleGenerationEvent(msg.Event)
	case bridge.MaterialEventMsg:
		m.handleMaterialEvent(msg.Event)
		return m, nil
	case startedMsg:
		if msg.err != nil {
			debug.Error("watch", msg.err, "starting generation")
			m.status.SetNotice(msg.err.Error())
		}
		return m, nil
	case savedMsg:
		if msg.err != nil {
			debug.Error("watch", msg.err, "saving result")
			m.status.SetNotice("Save failed: " + msg.err.Error())
		} else {
			m.status.SetNotice(msg.notice)
		}
		return m, nil
	case copiedMsg:
		if msg.err != nil {
			m.status.SetNotice("Copy failed: " + msg.err.Error())
		} else {
			m.status.SetNotice("Copied to clipboard")
		}
		return m, nil
	case SpinnerTickMsg:
		_, cmd := m.activity.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.feedback.IsEnabled() {
		_, cmd := m.feedback.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleGenerationEvent(event pubsub.Event[events.GenerationEvent]) tea.Cmd {
	p := event.Payload
	debug.Event("watch", string(p.Type), fmt.Sprintf("session=%s thread=%s", p.SessionID, p.ThreadID))

	var cmd tea.Cmd
	switch p.Type {
	case events.GenerationEventStarted:
		m.activity.Clear()
		m.status.SetNotice("")
		cmd = m.activity.SetActive(true)
	case events.GenerationEventProgress:
		m.activity.AddStep(p.Progress)
	case events.GenerationEventSucceeded, events.GenerationEventFailed, events.GenerationEventCancelled:
		m.activity.SetActive(false)
	case events.GenerationEventReset:
		m.activity.Clear()
	}

	m.refresh()
	return cmd
}

func (m *Model) handleMaterialEvent(event pubsub.Event[events.MaterialEvent]) {
	switch event.Payload.Type {
	case events.MaterialEventSaved:
		m.status.SetNotice("Saved to history")
	case events.MaterialEventPublished:
		m.status.SetNotice("Published to class materials")
	}
}

// refresh pulls the session snapshot and re-renders the result if it changed.
func (m *Model) refresh() {
	prev := m.state
	m.state = m.session.State()
	m.status.SetState(m.state)

	if m.state.Result == nil {
		m.result.SetContent("")
		return
	}
	if prev.Result != m.state.Result {
		m.renderResult()
	}
}

func (m *Model) renderResult() {
	if m.state.Result == nil {
		return
	}
	width := m.width - 2
	if width <= 0 {
		width = 80
	}
	out, err := m.renderer.Render(m.state.Result, width)
	if err != nil {
		debug.Error("watch", err, "rendering result")
	}
	m.result.SetContent(out)
}

func (m *Model) handleKey(msg tea.KeyMsg) (*Model, tea.Cmd) {
	key := msg.String()
	generating := m.state.Status == generation.StatusGenerating

	if m.feedback.IsEnabled() {
		switch key {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			m.closeFeedback()
			return m, nil
		case "enter":
			text := strings.TrimSpace(m.feedback.Value())
			if text == "" {
				return m, nil
			}
			m.closeFeedback()
			return m, m.refine(text)
		}
		_, cmd := m.feedback.Update(msg)
		return m, cmd
	}

	switch key {
	case "ctrl+c":
		if generating {
			m.session.Cancel()
			m.refresh()
			return m, nil
		}
		return m, tea.Quit
	case "esc":
		if generating {
			m.session.Cancel()
			m.refresh()
		}
		return m, nil
	case "q":
		if !generating {
			return m, tea.Quit
		}
	case "r":
		if m.state.Status == generation.StatusSucceeded {
			m.status.SetEditing(true)
			m.status.SetNotice("")
			return m, m.feedback.Enable()
		}
	case "g":
		if m.state.Status == generation.StatusFailed || m.state.Status == generation.StatusCancelled {
			return m, m.start()
		}
	case "s":
		if m.state.Status == generation.StatusSucceeded && m.save != nil {
			return m, m.saveResult(m.state)
		}
	case "c":
		if m.state.Status == generation.StatusSucceeded {
			return m, m.copyResult(m.state)
		}
	case "up", "k":
		m.result.ScrollUp(1)
	case "down", "j":
		m.result.ScrollDown(1)
	case "pgup":
		m.result.ScrollUp(m.result.PageSize())
	case "pgdown", "space":
		m.result.ScrollDown(m.result.PageSize())
	}
	return m, nil
}

func (m *Model) closeFeedback() {
	m.feedback.Clear()
	m.feedback.Disable()
	m.status.SetEditing(false)
}

func (m *Model) saveResult(st generation.State) tea.Cmd {
	save := m.save
	return func() tea.Msg {
		notice, err := save(m.ctx, st)
		return savedMsg{notice: notice, err: err}
	}
}

func (m *Model) copyResult(st generation.State) tea.Cmd {
	md := m.renderer.Markdown(st.Result)
	return func() tea.Msg {
		return copiedMsg{err: writeClipboard(md)}
	}
}

// SetSize sets the page dimensions.
func (m *Model) SetSize(width, height int) {
	widthChanged := width != m.width
	m.width = width
	m.height = height
	m.activity.SetWidth(width)
	m.feedback.SetWidth(width)
	m.status.SetWidth(width)
	if widthChanged {
		m.renderResult()
	}
	m.layout()
}

// layout gives the result view whatever height the other sections leave.
func (m *Model) layout() {
	used := lipgloss.Height(m.header()) + lipgloss.Height(m.status.View()) + 1
	if v := m.activity.View(); v != "" {
		used += lipgloss.Height(v) + 1
	}
	if m.feedback.IsEnabled() {
		used += lipgloss.Height(m.feedback.View())
	}
	m.result.SetSize(m.width, max(m.height-used, 3))
}

func (m *Model) header() string {
	t := styles.CurrentTheme()
	title := t.S().Title.Render("Sahayak")
	meta := []string{string(m.request.Kind())}
	if scope := m.request.Scope().String(); scope != "" {
		meta = append(meta, scope)
	}
	if m.state.ThreadID != "" {
		meta = append(meta, "thread "+shortID(m.state.ThreadID))
	}
	return title + " " + t.S().Muted.Render(strings.Join(meta, " · "))
}

// View renders the page.
func (m *Model) View() string {
	t := styles.CurrentTheme()
	m.layout()

	sections := []string{m.header()}
	if v := m.activity.View(); v != "" {
		sections = append(sections, "", v)
	}

	switch m.state.Status {
	case generation.StatusSucceeded:
		sections = append(sections, "", m.result.View())
	case generation.StatusFailed:
		sections = append(sections, "", t.S().Panel.BorderForeground(t.Error).Render(
			t.S().Error.Render(m.state.ErrorMessage())))
	}

	if m.feedback.IsEnabled() {
		sections = append(sections, m.feedback.View())
	}

	body := lipgloss.JoinVertical(lipgloss.Left, sections...)
	if m.height > 0 {
		gap := m.height - lipgloss.Height(body) - 1
		if gap > 0 {
			body += strings.Repeat("\n", gap)
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, m.status.View())
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
