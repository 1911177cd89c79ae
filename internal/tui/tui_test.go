package tui

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/muesli/termenv"

	"github.com/sahayak-app/sahayak/internal/generation"
	"github.com/sahayak-app/sahayak/internal/material"
	"github.com/sahayak-app/sahayak/internal/render"
	"github.com/sahayak-app/sahayak/internal/tui/page/browse"
	"github.com/sahayak-app/sahayak/internal/tui/page/watch"
)

func newModel(t *testing.T) *Model {
	t.Helper()
	session := generation.NewSession(generation.NewHTTPTransport("http://127.0.0.1:0"))
	t.Cleanup(session.Close)

	page := watch.New(context.Background(), watch.Options{
		Session:  session,
		Request:  &generation.AnswerRequest{TopicID: "t1", Question: "Why?", ThreadID: "thread-1"},
		Renderer: render.NewTerminal("", termenv.Ascii),
	})
	return New(page)
}

func TestModel_View(t *testing.T) {
	m := newModel(t)

	view := m.View()
	if !view.AltScreen {
		t.Error("expected alt screen")
	}
	if view.Content != "Loading..." {
		t.Errorf("Content before resize = %q", view.Content)
	}

	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	view = m.View()
	if !strings.Contains(view.Content, "Sahayak") || !strings.Contains(view.Content, "answer") {
		t.Errorf("Content = %q", view.Content)
	}
	if !strings.Contains(view.Content, "Ready") {
		t.Errorf("idle status missing from %q", view.Content)
	}
}

func TestModel_QuitWhenIdle(t *testing.T) {
	m := newModel(t)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	_, cmd := m.Update(tea.KeyPressMsg{Code: 'q', Text: "q"})
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}

type emptyHistory struct{}

func (emptyHistory) List(context.Context, material.Filter) ([]*material.Material, error) {
	return nil, nil
}

func (emptyHistory) Publish(context.Context, string, material.Saver) (*material.Material, error) {
	return nil, material.ErrNotFound
}

func (emptyHistory) Delete(context.Context, string) error {
	return material.ErrNotFound
}

func TestBrowser_View(t *testing.T) {
	m := NewBrowser(browse.New(context.Background(), browse.Options{
		Service:  emptyHistory{},
		Renderer: render.NewTerminal("", termenv.Ascii),
	}))

	if cmd := m.Init(); cmd != nil {
		m.Update(cmd())
	}
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	view := m.View()
	if !strings.Contains(view.Content, "history") || !strings.Contains(view.Content, "No results yet") {
		t.Errorf("Content = %q", view.Content)
	}
}
