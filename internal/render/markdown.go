// Package render turns generation results and progress into terminal text.
package render

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/sahayak-app/sahayak/internal/artifact"
)

// Markdown converts an artifact to markdown. Relative video paths are
// resolved against baseURL when it is set.
func Markdown(a artifact.Artifact, baseURL string) string {
	var b strings.Builder

	switch a := a.(type) {
	case *artifact.Answer:
		b.WriteString(strings.TrimSpace(a.Text))
		b.WriteString("\n")

	case *artifact.Activities:
		b.WriteString("# Activities\n")
		for _, act := range a.Items {
			fmt.Fprintf(&b, "\n## %s\n", act.Title)
			if !act.Duration.IsZero() {
				fmt.Fprintf(&b, "\n*Duration: %s*\n", durationText(act.Duration))
			}
			if act.Description != "" {
				fmt.Fprintf(&b, "\n%s\n", act.Description)
			}
			if act.Instructions != "" {
				fmt.Fprintf(&b, "\n**Instructions:** %s\n", act.Instructions)
			}
			if len(act.Materials) > 0 {
				b.WriteString("\n**Materials:**\n\n")
				for _, m := range act.Materials {
					fmt.Fprintf(&b, "- %s\n", m)
				}
			}
		}

	case *artifact.QuestionPrompts:
		b.WriteString("# Question prompts\n\n")
		for i, p := range a.QuestionPrompts {
			fmt.Fprintf(&b, "%d. **%s**\n", i+1, p.Question)
			if p.Purpose != "" {
				fmt.Fprintf(&b, "   - *Purpose:* %s\n", p.Purpose)
			}
			if p.Connection != "" {
				fmt.Fprintf(&b, "   - *Connection:* %s\n", p.Connection)
			}
		}

	case *artifact.Video:
		link := VideoURL(a, baseURL)
		fmt.Fprintf(&b, "# Video\n\n[%s](%s)\n", link, link)

	default:
		fmt.Fprintf(&b, "%v\n", a)
	}

	return b.String()
}

// VideoURL returns the playable URL of a video, resolving server-relative
// paths against baseURL.
func VideoURL(v *artifact.Video, baseURL string) string {
	if baseURL == "" || !strings.HasPrefix(v.URL, "/") {
		return v.URL
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return v.URL
	}
	ref, err := url.Parse(v.URL)
	if err != nil {
		return v.URL
	}
	return base.ResolveReference(ref).String()
}

// Summary is a one-line description of an artifact for lists.
func Summary(a artifact.Artifact) string {
	switch a := a.(type) {
	case *artifact.Answer:
		return firstLine(a.Text)
	case *artifact.Activities:
		titles := make([]string, 0, len(a.Items))
		for _, act := range a.Items {
			titles = append(titles, act.Title)
		}
		return fmt.Sprintf("%d activities: %s", len(a.Items), strings.Join(titles, ", "))
	case *artifact.QuestionPrompts:
		if len(a.QuestionPrompts) == 1 {
			return "1 prompt: " + a.QuestionPrompts[0].Question
		}
		return fmt.Sprintf("%d prompts: %s", len(a.QuestionPrompts), a.QuestionPrompts[0].Question)
	case *artifact.Video:
		return a.URL
	default:
		return string(a.Kind())
	}
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}

// durationText adds the unit to a bare number of minutes.
func durationText(d artifact.Duration) string {
	if d.IsNumber() {
		return d.String() + " min"
	}
	return d.String()
}
