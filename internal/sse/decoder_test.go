package sse

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func collect(t *testing.T, stream string) []Event {
	t.Helper()

	dec := NewDecoder(strings.NewReader(stream))
	var events []Event
	for {
		ev, err := dec.Next()
		if errors.Is(err, io.EOF) {
			return events
		}
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		events = append(events, ev)
	}
}

func TestDecoder_Next(t *testing.T) {
	tests := []struct {
		name   string
		stream string
		want   []Event
	}{
		{
			name:   "named events in order",
			stream: "event: progress\ndata: Analyzing topic...\n\nevent: data\ndata: {\"a\":1}\n\n",
			want: []Event{
				{Name: "progress", Data: "Analyzing topic..."},
				{Name: "data", Data: `{"a":1}`},
			},
		},
		{
			name:   "multi-line data joined with newline",
			stream: "event: data\ndata: line one\ndata: line two\n\n",
			want:   []Event{{Name: "data", Data: "line one\nline two"}},
		},
		{
			name:   "comments and retry ignored",
			stream: ": keepalive\nretry: 5000\n\nevent: progress\ndata: x\n\n",
			want:   []Event{{Name: "progress", Data: "x"}},
		},
		{
			name:   "CRLF line endings",
			stream: "event: error\r\ndata: boom\r\n\r\n",
			want:   []Event{{Name: "error", Data: "boom"}},
		},
		{
			name:   "no space after colon",
			stream: "event:progress\ndata:tight\n\n",
			want:   []Event{{Name: "progress", Data: "tight"}},
		},
		{
			name:   "id is carried forward",
			stream: "id: 7\nevent: progress\ndata: a\n\nevent: progress\ndata: b\n\n",
			want: []Event{
				{Name: "progress", Data: "a", ID: "7"},
				{Name: "progress", Data: "b", ID: "7"},
			},
		},
		{
			name:   "unterminated trailing frame is dropped",
			stream: "event: progress\ndata: a\n\nevent: data\ndata: {}",
			want:   []Event{{Name: "progress", Data: "a"}},
		},
		{
			name:   "frame without data is not dispatched",
			stream: "event: ping\n\nevent: progress\ndata: a\n\n",
			want:   []Event{{Name: "progress", Data: "a"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := collect(t, tt.stream)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d events %+v, want %d", len(got), got, len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("event %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestWriteEvent(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteEvent(&buf, "data", "first\nsecond"); err != nil {
		t.Fatalf("WriteEvent() error = %v", err)
	}

	want := "event: data\ndata: first\ndata: second\n\n"
	if buf.String() != want {
		t.Errorf("WriteEvent() wrote %q, want %q", buf.String(), want)
	}

	events := collect(t, buf.String())
	if len(events) != 1 || events[0].Data != "first\nsecond" {
		t.Errorf("round trip = %+v", events)
	}
}
