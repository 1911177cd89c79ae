package artifact

import "strings"

// Scope locates an artifact in the curriculum. GradeID is only set for
// grade-specific kinds such as activities.
type Scope struct {
	TopicID string
	DayID   string
	GradeID string
}

// String renders the scope as topic/day[/grade] for display.
func (s Scope) String() string {
	parts := []string{s.TopicID, s.DayID}
	if s.GradeID != "" {
		parts = append(parts, s.GradeID)
	}
	return strings.Join(parts, "/")
}

// HasDay reports whether the scope can address a class-materials endpoint.
func (s Scope) HasDay() bool {
	return s.TopicID != "" && s.DayID != ""
}
