// Package logo renders the Sahayak wordmark.
package logo

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/sahayak-app/sahayak/internal/tui/styles"
)

// ASCII art for the Sahayak logo.
const sahayakLogo = `
╔═╗╔═╗╦ ╦╔═╗╦ ╦╔═╗╦╔═
╚═╗╠═╣╠═╣╠═╣╚╦╝╠═╣╠╩╗
╚═╝╩ ╩╩ ╩╩ ╩ ╩ ╩ ╩╩ ╩
`

// Tagline is shown under the wordmark.
const Tagline = "Teaching assistant"

// Render returns the logo with the current theme colors.
func Render() string {
	t := styles.CurrentTheme()
	logo := strings.TrimPrefix(sahayakLogo, "\n")

	// Apply gradient from primary to secondary color.
	return styles.ApplyForegroundGrad(logo, t.Primary, t.Secondary)
}

// RenderWithTagline returns the logo with a tagline.
func RenderWithTagline() string {
	t := styles.CurrentTheme()
	tagline := t.S().Muted.Render(Tagline)
	return lipgloss.JoinVertical(lipgloss.Center, Render(), "", tagline)
}

// Width returns the width of the logo.
func Width() int {
	return lipgloss.Width(strings.TrimPrefix(sahayakLogo, "\n"))
}

// Height returns the number of lines in the logo.
func Height() int {
	return lipgloss.Height(strings.TrimSuffix(strings.TrimPrefix(sahayakLogo, "\n"), "\n"))
}
