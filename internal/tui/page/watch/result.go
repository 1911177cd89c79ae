package watch

import "strings"

// ResultView shows the rendered result with line scrolling.
type ResultView struct {
	lines  []string
	offset int // first visible line
	width  int
	height int
}

// NewResultView creates an empty result view.
func NewResultView() *ResultView {
	return &ResultView{}
}

// SetContent replaces the content and scrolls to the top.
func (r *ResultView) SetContent(content string) {
	content = strings.TrimRight(content, "\n")
	if content == "" {
		r.lines = nil
	} else {
		r.lines = strings.Split(content, "\n")
	}
	r.offset = 0
}

// SetSize sets the visible area.
func (r *ResultView) SetSize(width, height int) {
	r.width = width
	r.height = height
	r.clamp()
}

// ScrollUp scrolls up by n lines.
func (r *ResultView) ScrollUp(n int) {
	r.offset -= n
	r.clamp()
}

// ScrollDown scrolls down by n lines.
func (r *ResultView) ScrollDown(n int) {
	r.offset += n
	r.clamp()
}

// PageSize is the number of lines a page scroll moves.
func (r *ResultView) PageSize() int {
	return max(1, r.height-1)
}

func (r *ResultView) clamp() {
	limit := len(r.lines) - r.height
	if r.height <= 0 {
		limit = len(r.lines) - 1
	}
	r.offset = min(r.offset, limit)
	r.offset = max(r.offset, 0)
}

// Empty reports whether there is nothing to show.
func (r *ResultView) Empty() bool {
	return len(r.lines) == 0
}

// View renders the visible lines.
func (r *ResultView) View() string {
	if len(r.lines) == 0 {
		return ""
	}
	end := len(r.lines)
	if r.height > 0 {
		end = min(r.offset+r.height, end)
	}
	return strings.Join(r.lines[r.offset:end], "\n")
}
