// Package sse decodes text/event-stream bodies into named events.
package sse

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
)

// maxLineSize bounds a single line of the stream (1 MB).
const maxLineSize = 1024 * 1024

// Event is one dispatched SSE frame.
type Event struct {
	// Name is the "event:" field. Empty means the default "message" type.
	Name string
	// Data holds every "data:" line of the frame joined with "\n".
	Data string
	// ID is the last "id:" field seen, if any.
	ID string
}

// Decoder reads events from an SSE stream.
type Decoder struct {
	scanner *bufio.Scanner
	lastID  string
}

// NewDecoder creates a decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	scanner.Split(scanLines)
	return &Decoder{scanner: scanner}
}

// Next returns the next complete event. It returns io.EOF when the stream
// ends cleanly; a partially received frame at EOF is discarded.
func (d *Decoder) Next() (Event, error) {
	var (
		name    string
		data    strings.Builder
		hasData bool
	)

	for d.scanner.Scan() {
		line := d.scanner.Text()

		// Blank line dispatches the frame.
		if line == "" {
			if !hasData {
				name = ""
				continue
			}
			return Event{Name: name, Data: data.String(), ID: d.lastID}, nil
		}

		// Comment line.
		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")

		switch field {
		case "event":
			name = value
		case "data":
			if hasData {
				data.WriteByte('\n')
			}
			data.WriteString(value)
			hasData = true
		case "id":
			if !strings.ContainsRune(value, 0) {
				d.lastID = value
			}
		case "retry":
			// Reconnection is not supported.
		}
	}

	if err := d.scanner.Err(); err != nil {
		return Event{}, fmt.Errorf("reading event stream: %w", err)
	}
	return Event{}, io.EOF
}

// scanLines splits on "\n", "\r\n", or a lone "\r".
func scanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\r' {
			if i+1 < len(data) {
				if data[i+1] == '\n' {
					return i + 2, data[:i], nil
				}
				return i + 1, data[:i], nil
			}
			if !atEOF {
				// Need more data to know whether "\n" follows.
				return 0, nil, nil
			}
		}
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
