package logo

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestRender(t *testing.T) {
	out := ansi.Strip(Render())
	if !strings.HasPrefix(out, "╔═╗╔═╗") {
		t.Errorf("Render() = %q", out)
	}
	if got := strings.Count(strings.TrimSuffix(out, "\n"), "\n") + 1; got != Height() {
		t.Errorf("rendered %d lines, Height() = %d", got, Height())
	}
}

func TestRenderWithTagline(t *testing.T) {
	out := ansi.Strip(RenderWithTagline())
	if !strings.Contains(out, Tagline) {
		t.Errorf("tagline missing from %q", out)
	}
}

func TestDimensions(t *testing.T) {
	if Width() != 21 {
		t.Errorf("Width() = %d, want 21", Width())
	}
	if Height() != 3 {
		t.Errorf("Height() = %d, want 3", Height())
	}
}
