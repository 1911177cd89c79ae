// Package styles holds the terminal color theme and derived lipgloss styles.
package styles

import (
	"image/color"
	"strings"
	"sync"

	"charm.land/bubbles/v2/textinput"
	"charm.land/lipgloss/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"
)

// Theme is a named palette.
//
//nolint:govet // Field order groups colors by role.
type Theme struct {
	Name   string
	IsDark bool

	Primary   color.Color
	Secondary color.Color
	Tertiary  color.Color
	Accent    color.Color

	BgBase    color.Color
	BgSubtle  color.Color
	BgOverlay color.Color

	FgBase   color.Color
	FgMuted  color.Color
	FgSubtle color.Color

	Border      color.Color
	BorderFocus color.Color

	Success color.Color
	Error   color.Color
	Warning color.Color
	Info    color.Color

	once   sync.Once
	styles *Styles
}

// Styles are the lipgloss styles derived from a Theme.
type Styles struct {
	Base     lipgloss.Style
	Text     lipgloss.Style
	Muted    lipgloss.Style
	Subtle   lipgloss.Style
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Primary  lipgloss.Style

	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	Panel     lipgloss.Style
	TextInput textinput.Styles
}

var (
	mu      sync.RWMutex
	current = NewDefaultTheme()
)

// CurrentTheme returns the active theme.
func CurrentTheme() *Theme {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// SetTheme replaces the active theme.
func SetTheme(t *Theme) {
	mu.Lock()
	defer mu.Unlock()
	current = t
}

// S returns the theme's styles, built on first use.
func (t *Theme) S() *Styles {
	t.once.Do(func() {
		t.styles = t.buildStyles()
	})
	return t.styles
}

func (t *Theme) buildStyles() *Styles {
	base := lipgloss.NewStyle().Foreground(t.FgBase)

	input := textinput.DefaultStyles(t.IsDark)
	input.Focused.Prompt = base.Foreground(t.Primary)
	input.Focused.Text = base
	input.Focused.Placeholder = base.Foreground(t.FgSubtle)
	input.Blurred.Prompt = base.Foreground(t.FgMuted)
	input.Blurred.Text = base.Foreground(t.FgMuted)
	input.Blurred.Placeholder = base.Foreground(t.FgSubtle)

	return &Styles{
		Base:     base,
		Text:     base,
		Muted:    base.Foreground(t.FgMuted),
		Subtle:   base.Foreground(t.FgSubtle),
		Title:    base.Foreground(t.Accent).Bold(true),
		Subtitle: base.Foreground(t.Secondary).Bold(true),
		Primary:  base.Foreground(t.Primary),

		Success: base.Foreground(t.Success),
		Error:   base.Foreground(t.Error),
		Warning: base.Foreground(t.Warning),
		Info:    base.Foreground(t.Info),

		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),
		TextInput: input,
	}
}

// ParseHex parses a "#rrggbb" color. Invalid input yields black.
func ParseHex(hex string) color.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{}
	}
	return c
}

// Hex formats a color as "#rrggbb".
func Hex(c color.Color) string {
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return "#000000"
	}
	return cf.Clamped().Hex()
}

// ApplyForegroundGrad colors each grapheme of every line of s along a
// gradient from c1 to c2, blended in Luv space.
func ApplyForegroundGrad(s string, c1, c2 color.Color) string {
	from, ok1 := colorful.MakeColor(c1)
	to, ok2 := colorful.MakeColor(c2)
	if !ok1 || !ok2 {
		return s
	}

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		var clusters []string
		g := uniseg.NewGraphemes(line)
		for g.Next() {
			clusters = append(clusters, g.Str())
		}
		if len(clusters) == 0 {
			continue
		}

		var b strings.Builder
		for j, cluster := range clusters {
			step := 0.0
			if len(clusters) > 1 {
				step = float64(j) / float64(len(clusters)-1)
			}
			col := from.BlendLuv(to, step).Clamped()
			b.WriteString(lipgloss.NewStyle().Foreground(col).Render(cluster))
		}
		lines[i] = b.String()
	}
	return strings.Join(lines, "\n")
}
