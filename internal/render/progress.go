package render

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/rivo/uniseg"
)

// ellipsis marks truncated progress text.
const ellipsis = "…"

// ProgressLine sanitizes a server progress message for a single terminal
// line: escape sequences are stripped, whitespace is collapsed, and the
// result is cut to width display cells. A width of 0 or less disables
// truncation.
func ProgressLine(msg string, width int) string {
	msg = strings.Join(strings.Fields(ansi.Strip(msg)), " ")
	if width <= 0 || uniseg.StringWidth(msg) <= width {
		return msg
	}
	return ansi.Truncate(msg, width, ellipsis)
}
