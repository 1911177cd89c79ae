package artifact

import (
	"bytes"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
)

// Answer is a free-text AI help answer, usually markdown.
type Answer struct {
	Text string `json:"answer"`
}

// Kind implements Artifact.
func (a *Answer) Kind() Kind { return KindAnswer }

// Validate implements Artifact.
func (a *Answer) Validate() error {
	if strings.TrimSpace(a.Text) == "" {
		return invalid("answer is empty")
	}
	return nil
}

// Activity is one gamified classroom activity for a grade.
type Activity struct {
	Title        string      `json:"title"`
	Description  string      `json:"description,omitempty"`
	Instructions string      `json:"instructions,omitempty"`
	Materials    []string    `json:"materials,omitempty"`
	Duration     Duration `json:"duration,omitempty"`
}

// Activities is the activity list generated for a grade.
type Activities struct {
	Items []Activity `json:"activities"`
}

// Kind implements Artifact.
func (a *Activities) Kind() Kind { return KindActivities }

// Validate implements Artifact.
func (a *Activities) Validate() error {
	if len(a.Items) == 0 {
		return invalid("no activities")
	}
	for i, item := range a.Items {
		if strings.TrimSpace(item.Title) == "" {
			return invalid("activity %d has no title", i)
		}
	}
	return nil
}

// UnmarshalJSON accepts both a bare array and an {"activities": [...]} object.
func (a *Activities) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return json.Unmarshal(trimmed, &a.Items)
	}
	var wrapped struct {
		Activities []Activity `json:"activities"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return err
	}
	a.Items = wrapped.Activities
	return nil
}

// QuestionPrompt is a discussion question with its teaching intent.
type QuestionPrompt struct {
	Question   string `json:"question"`
	Purpose    string `json:"purpose"`
	Connection string `json:"connection"`
}

// QuestionPrompts is the prompt list generated for a topic and day.
type QuestionPrompts struct {
	QuestionPrompts []QuestionPrompt `json:"question_prompts"`
}

// Kind implements Artifact.
func (q *QuestionPrompts) Kind() Kind { return KindQuestionPrompts }

// Validate implements Artifact.
func (q *QuestionPrompts) Validate() error {
	if len(q.QuestionPrompts) == 0 {
		return invalid("no question prompts")
	}
	for i, p := range q.QuestionPrompts {
		if strings.TrimSpace(p.Question) == "" {
			return invalid("question prompt %d has no question", i)
		}
	}
	return nil
}

// Video points at a generated explainer video.
type Video struct {
	URL string `json:"video_url"`
}

// Kind implements Artifact.
func (v *Video) Kind() Kind { return KindVideo }

// Validate implements Artifact. Server-relative paths are allowed.
func (v *Video) Validate() error {
	if v.URL == "" {
		return invalid("video_url is empty")
	}
	u, err := url.Parse(v.URL)
	if err != nil {
		return invalid("video_url is not a valid URL")
	}
	if u.IsAbs() {
		if u.Scheme != "http" && u.Scheme != "https" {
			return invalid("video_url has an unsupported scheme")
		}
		return nil
	}
	if !strings.HasPrefix(u.Path, "/") {
		return invalid("video_url is neither absolute nor server-relative")
	}
	return nil
}

// Duration is an activity duration as the server sent it: free text or a
// number of minutes. The raw JSON is kept so re-encoding returns the same
// value.
type Duration json.RawMessage

// DurationMinutes returns a numeric duration in minutes.
func DurationMinutes(n int) Duration {
	return Duration(strconv.AppendInt(nil, int64(n), 10))
}

// IsZero reports whether no duration was given.
func (d Duration) IsZero() bool {
	return len(d) == 0
}

// IsNumber reports whether the server sent a number of minutes.
func (d Duration) IsNumber() bool {
	return len(d) > 0 && d[0] != '"'
}

// String returns the text, or the number's digits.
func (d Duration) String() string {
	if !d.IsNumber() {
		var s string
		_ = json.Unmarshal(d, &s) //nolint:errcheck // validated by UnmarshalJSON
		return s
	}
	return string(d)
}

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	if len(d) == 0 {
		return []byte("null"), nil
	}
	return d, nil
}

// UnmarshalJSON implements json.Unmarshaler. Only strings and numbers are
// accepted.
func (d *Duration) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*d = nil
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	} else {
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
	}
	*d = append((*d)[:0], data...)
	return nil
}
