// Package tui provides the terminal user interface for following a
// generation and for browsing history.
package tui

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"golang.org/x/term"

	"github.com/sahayak-app/sahayak/internal/bridge"
	"github.com/sahayak-app/sahayak/internal/debug"
	"github.com/sahayak-app/sahayak/internal/generation"
	"github.com/sahayak-app/sahayak/internal/pubsub"
	"github.com/sahayak-app/sahayak/internal/tui/page/browse"
	"github.com/sahayak-app/sahayak/internal/tui/page/watch"
)

// Model is the main TUI model. It hosts exactly one page.
type Model struct {
	watch  *watch.Model
	browse *browse.Model
	width  int
	height int
	ready  bool
}

// New creates a new TUI model around a watch page.
func New(page *watch.Model) *Model {
	return &Model{watch: page}
}

// NewBrowser creates a new TUI model around a history browser page.
func NewBrowser(page *browse.Model) *Model {
	return &Model{browse: page}
}

// Init initializes the TUI.
func (m *Model) Init() tea.Cmd {
	if m.browse != nil {
		return m.browse.Init()
	}
	return m.watch.Init()
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		debug.Event("tui", "WindowSize", fmt.Sprintf("width=%d height=%d", msg.Width, msg.Height))
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
	case tea.KeyMsg:
		debug.Event("tui", "KeyMsg", fmt.Sprintf("key=%q", msg.String()))
	}

	var cmd tea.Cmd
	if m.browse != nil {
		_, cmd = m.browse.Update(msg)
	} else {
		_, cmd = m.watch.Update(msg)
	}
	return m, cmd
}

// View renders the TUI.
func (m *Model) View() tea.View {
	var view tea.View
	view.AltScreen = true

	if !m.ready {
		view.Content = "Loading..."
		return view
	}

	if m.browse != nil {
		view.Content = m.browse.View()
	} else {
		view.Content = m.watch.View()
	}
	return view
}

// Watch returns the watch page.
func (m *Model) Watch() *watch.Model {
	return m.watch
}

// Run shows a generation until the user quits. opts.Session must publish to
// hub; its final state is returned.
func Run(ctx context.Context, hub *pubsub.Hub, opts watch.Options) (generation.State, error) {
	session := opts.Session

	if err := requireTerminal("watch mode"); err != nil {
		return generation.State{}, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := New(watch.New(ctx, opts))
	p := tea.NewProgram(model, tea.WithContext(ctx))

	// Forward this session's pub/sub events to Bubble Tea messages.
	tuiBridge := bridge.NewTUIBridge(hub, p, bridge.WithSessionFilter(session.ID()))
	tuiBridge.Start(ctx)
	defer tuiBridge.Stop()

	_, err := p.Run()
	session.Close()
	if err != nil {
		return session.State(), fmt.Errorf("running TUI: %w", err)
	}

	return session.State(), nil
}

// Browse shows local history until the user quits. opts.Service should
// publish to hub so changes made elsewhere refresh the list.
func Browse(ctx context.Context, hub *pubsub.Hub, opts browse.Options) error {
	if err := requireTerminal("history browse"); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(NewBrowser(browse.New(ctx, opts)), tea.WithContext(ctx))

	tuiBridge := bridge.NewTUIBridge(hub, p)
	tuiBridge.Start(ctx)
	defer tuiBridge.Stop()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}

// requireTerminal checks that stdin and stdout are connected to a TTY.
func requireTerminal(what string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("%s requires an interactive terminal: stdin/stdout must be connected to a TTY", what)
	}
	return nil
}
