package sse

import (
	"fmt"
	"io"
	"strings"
)

// WriteEvent writes a single named frame. Multi-line data is split across
// several "data:" lines so it survives the round trip through Decoder.
func WriteEvent(w io.Writer, name, data string) error {
	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "event: %s\n", name)
	}
	for _, line := range strings.Split(data, "\n") {
		fmt.Fprintf(&b, "data: %s\n", line)
	}
	b.WriteString("\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("writing %s event: %w", name, err)
	}
	return nil
}
