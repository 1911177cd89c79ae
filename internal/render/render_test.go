package render

import (
	"strings"
	"testing"

	"github.com/muesli/termenv"
	"github.com/rivo/uniseg"

	"github.com/sahayak-app/sahayak/internal/artifact"
)

func TestMarkdown(t *testing.T) {
	tests := []struct {
		name string
		in   artifact.Artifact
		want []string
	}{
		{
			name: "answer",
			in:   &artifact.Answer{Text: "  **Photosynthesis** turns light into food.  "},
			want: []string{"**Photosynthesis** turns light into food.\n"},
		},
		{
			name: "activities",
			in: &artifact.Activities{Items: []artifact.Activity{{
				Title: "Leaf hunt", Description: "Collect leaves.", Materials: []string{"bags"}, Duration: artifact.DurationMinutes(15),
			}}},
			want: []string{"## Leaf hunt", "*Duration: 15 min*", "- bags"},
		},
		{
			name: "question prompts",
			in: &artifact.QuestionPrompts{QuestionPrompts: []artifact.QuestionPrompt{
				{Question: "Why is the sky blue?", Purpose: "Curiosity", Connection: "Light"},
			}},
			want: []string{"1. **Why is the sky blue?**", "*Purpose:* Curiosity", "*Connection:* Light"},
		},
		{
			name: "video",
			in:   &artifact.Video{URL: "https://cdn.example/v.mp4"},
			want: []string{"[https://cdn.example/v.mp4](https://cdn.example/v.mp4)"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Markdown(tt.in, "")
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("Markdown() = %q, missing %q", got, w)
				}
			}
		})
	}
}

func TestVideoURL(t *testing.T) {
	tests := []struct {
		url, base, want string
	}{
		{"/media/v.mp4", "http://localhost:8000", "http://localhost:8000/media/v.mp4"},
		{"/media/v.mp4", "", "/media/v.mp4"},
		{"https://cdn.example/v.mp4", "http://localhost:8000", "https://cdn.example/v.mp4"},
	}
	for _, tt := range tests {
		if got := VideoURL(&artifact.Video{URL: tt.url}, tt.base); got != tt.want {
			t.Errorf("VideoURL(%q, %q) = %q, want %q", tt.url, tt.base, got, tt.want)
		}
	}
}

func TestSummary(t *testing.T) {
	tests := []struct {
		in   artifact.Artifact
		want string
	}{
		{&artifact.Answer{Text: "first\nsecond"}, "first"},
		{&artifact.Activities{Items: []artifact.Activity{{Title: "A"}, {Title: "B"}}}, "2 activities: A, B"},
		{&artifact.QuestionPrompts{QuestionPrompts: []artifact.QuestionPrompt{{Question: "Q?"}}}, "1 prompt: Q?"},
	}
	for _, tt := range tests {
		if got := Summary(tt.in); got != tt.want {
			t.Errorf("Summary() = %q, want %q", got, tt.want)
		}
	}
}

func TestTerminalRender(t *testing.T) {
	term := NewTerminal("", termenv.Ascii)
	out, err := term.Render(&artifact.Answer{Text: "# Title\n\nBody text."}, 40)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(out, "Title") || !strings.Contains(out, "Body text.") {
		t.Errorf("Render() = %q", out)
	}
	if w := term.cachedWidth; w != 40 {
		t.Errorf("cached width = %d, want 40", w)
	}
}

func TestProgressLine(t *testing.T) {
	tests := []struct {
		name  string
		msg   string
		width int
		want  string
	}{
		{"short", "Thinking...", 40, "Thinking..."},
		{"collapses whitespace", "  Writing\n\tprompts  ", 40, "Writing prompts"},
		{"strips escapes", "\x1b[31mred\x1b[0m alert", 40, "red alert"},
		{"no limit", "anything goes", 0, "anything goes"},
		{"truncates", "Generating activities for grade five", 12, "Generating …"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ProgressLine(tt.msg, tt.width)
			if got != tt.want {
				t.Errorf("ProgressLine() = %q, want %q", got, tt.want)
			}
			if tt.width > 0 && uniseg.StringWidth(got) > tt.width {
				t.Errorf("width %d exceeds %d", uniseg.StringWidth(got), tt.width)
			}
		})
	}
}

func TestProgressLine_WideRunes(t *testing.T) {
	got := ProgressLine("विद्यार्थियों के लिए प्रश्न तैयार हो रहे हैं", 10)
	if w := uniseg.StringWidth(got); w > 10 {
		t.Errorf("width = %d, want <= 10 (%q)", w, got)
	}
	if !strings.HasSuffix(got, ellipsis) {
		t.Errorf("ProgressLine() = %q, want ellipsis", got)
	}
}
