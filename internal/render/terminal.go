package render

import (
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	glamourstyles "github.com/charmbracelet/glamour/styles"
	"github.com/muesli/termenv"

	"github.com/sahayak-app/sahayak/internal/artifact"
	"github.com/sahayak-app/sahayak/internal/tui/styles"
)

// Terminal renders artifacts as styled markdown, caching the glamour
// renderer per width.
type Terminal struct {
	baseURL     string
	profile     termenv.Profile
	renderer    *glamour.TermRenderer
	cachedWidth int
	mu          sync.Mutex
}

// NewTerminal creates a renderer. profile selects the color depth;
// termenv.Ascii produces plain text.
func NewTerminal(baseURL string, profile termenv.Profile) *Terminal {
	return &Terminal{baseURL: baseURL, profile: profile}
}

// Markdown returns the unstyled markdown for an artifact.
func (t *Terminal) Markdown(a artifact.Artifact) string {
	return Markdown(a, t.baseURL)
}

// Render renders an artifact. On failure the unstyled markdown is returned
// together with the error.
func (t *Terminal) Render(a artifact.Artifact, width int) (string, error) {
	md := t.Markdown(a)

	r, err := t.getRenderer(width)
	if err != nil {
		return md, err
	}
	out, err := r.Render(md)
	if err != nil {
		return md, err
	}
	return out, nil
}

func (t *Terminal) getRenderer(width int) (*glamour.TermRenderer, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.renderer != nil && t.cachedWidth == width {
		return t.renderer, nil
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(buildStyle()),
		glamour.WithWordWrap(width),
		glamour.WithEmoji(),
		glamour.WithColorProfile(t.profile),
	)
	if err != nil {
		return nil, err
	}
	t.renderer = r
	t.cachedWidth = width
	return r, nil
}

// buildStyle derives a glamour style from the current theme.
func buildStyle() ansi.StyleConfig {
	th := styles.CurrentTheme()

	style := glamourstyles.DarkStyleConfig
	if !th.IsDark {
		style = glamourstyles.LightStyleConfig
	}

	primary := styles.Hex(th.Primary)
	secondary := styles.Hex(th.Secondary)
	accent := styles.Hex(th.Accent)
	muted := styles.Hex(th.FgMuted)

	style.H1.Color = &accent
	style.H1.Bold = boolPtr(true)
	style.H1.Prefix = ""
	style.H1.Suffix = ""
	style.H2.Color = &primary
	style.H2.Bold = boolPtr(true)
	style.H2.Prefix = ""
	style.H3.Color = &secondary
	style.H3.Prefix = ""

	style.Link.Color = &primary
	style.Link.Underline = boolPtr(true)
	style.LinkText.Color = &primary

	style.Item.BlockPrefix = "• "
	style.Emph.Color = &muted
	style.Emph.Italic = boolPtr(true)
	style.Strong.Bold = boolPtr(true)

	return style
}

func boolPtr(b bool) *bool { return &b }
