package generation

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/sahayak-app/sahayak/internal/artifact"
)

// ErrInvalidRequest is returned by Start for requests missing required fields.
var ErrInvalidRequest = errors.New("invalid generation request")

// Request is the body and routing information for one generation endpoint.
// Implementations are JSON-serialized as the POST body.
type Request interface {
	// Kind is the artifact kind the endpoint produces.
	Kind() artifact.Kind
	// Path is the endpoint path relative to the API base URL.
	Path() string
	// Thread returns the correlation token sent as thread_id.
	Thread() string
	// Scope returns the curriculum location named by the path.
	Scope() artifact.Scope
	// Validate reports missing identifiers.
	Validate() error
	// Refine returns a follow-up request on the same thread that echoes
	// previous back to the server along with new teacher requirements.
	Refine(previous artifact.Artifact, requirements string) (Request, error)
}

// NewThreadID returns a fresh thread correlation token.
func NewThreadID() string {
	return uuid.New().String()
}

// AnswerRequest asks for a free-text answer about a topic.
type AnswerRequest struct {
	TopicID             string `json:"-"`
	DayID               string `json:"-"` // optional, only used to file the result
	Question            string `json:"question"`
	ThreadID            string `json:"thread_id"`
	TeacherRequirements string `json:"teacher_requirements,omitempty"`
	PreviousAnswer      string `json:"previous_answer,omitempty"`
}

// Kind implements Request.
func (r *AnswerRequest) Kind() artifact.Kind { return artifact.KindAnswer }

// Thread implements Request.
func (r *AnswerRequest) Thread() string { return r.ThreadID }

// Scope implements Request.
func (r *AnswerRequest) Scope() artifact.Scope { return artifact.Scope{TopicID: r.TopicID, DayID: r.DayID} }

// Path implements Request.
func (r *AnswerRequest) Path() string {
	return fmt.Sprintf("/api/topics/%s/teaching-materials/answer", url.PathEscape(r.TopicID))
}

// Validate implements Request.
func (r *AnswerRequest) Validate() error {
	if err := requireIDs(r.ThreadID, "topic_id", r.TopicID); err != nil {
		return err
	}
	if strings.TrimSpace(r.Question) == "" {
		return fmt.Errorf("%w: question is required", ErrInvalidRequest)
	}
	return nil
}

// Refine implements Request.
func (r *AnswerRequest) Refine(previous artifact.Artifact, requirements string) (Request, error) {
	prev, ok := previous.(*artifact.Answer)
	if !ok {
		return nil, mismatch(r.Kind(), previous)
	}
	next := *r
	next.PreviousAnswer = prev.Text
	next.TeacherRequirements = requirements
	return &next, nil
}

// ActivitiesRequest asks for gamified activities for one grade.
type ActivitiesRequest struct {
	DayID               string              `json:"-"`
	GradeID             string              `json:"-"`
	TopicID             string              `json:"-"`
	ThreadID            string              `json:"thread_id"`
	TeacherRequirements string              `json:"teacher_requirements,omitempty"`
	PreviousActivities  []artifact.Activity `json:"previous_activities,omitempty"`
}

// Kind implements Request.
func (r *ActivitiesRequest) Kind() artifact.Kind { return artifact.KindActivities }

// Thread implements Request.
func (r *ActivitiesRequest) Thread() string { return r.ThreadID }

// Scope implements Request.
func (r *ActivitiesRequest) Scope() artifact.Scope {
	return artifact.Scope{TopicID: r.TopicID, DayID: r.DayID, GradeID: r.GradeID}
}

// Path implements Request.
func (r *ActivitiesRequest) Path() string {
	return fmt.Sprintf("/api/days/%s/grades/%s/topics/%s/activities",
		url.PathEscape(r.DayID), url.PathEscape(r.GradeID), url.PathEscape(r.TopicID))
}

// Validate implements Request.
func (r *ActivitiesRequest) Validate() error {
	return requireIDs(r.ThreadID, "day_id", r.DayID, "grade_id", r.GradeID, "topic_id", r.TopicID)
}

// Refine implements Request.
func (r *ActivitiesRequest) Refine(previous artifact.Artifact, requirements string) (Request, error) {
	prev, ok := previous.(*artifact.Activities)
	if !ok {
		return nil, mismatch(r.Kind(), previous)
	}
	next := *r
	next.PreviousActivities = prev.Items
	next.TeacherRequirements = requirements
	return &next, nil
}

// QuestionPromptsRequest asks for discussion prompts for a topic on a day.
type QuestionPromptsRequest struct {
	TopicID                 string                    `json:"-"`
	DayID                   string                    `json:"-"`
	ThreadID                string                    `json:"thread_id"`
	TeacherRequirements     string                    `json:"teacher_requirements,omitempty"`
	PreviousQuestionPrompts []artifact.QuestionPrompt `json:"previous_question_prompts,omitempty"`
}

// Kind implements Request.
func (r *QuestionPromptsRequest) Kind() artifact.Kind { return artifact.KindQuestionPrompts }

// Thread implements Request.
func (r *QuestionPromptsRequest) Thread() string { return r.ThreadID }

// Scope implements Request.
func (r *QuestionPromptsRequest) Scope() artifact.Scope { return artifact.Scope{TopicID: r.TopicID, DayID: r.DayID} }

// Path implements Request.
func (r *QuestionPromptsRequest) Path() string {
	return fmt.Sprintf("/api/topics/%s/days/%s/question-prompts", url.PathEscape(r.TopicID), url.PathEscape(r.DayID))
}

// Validate implements Request.
func (r *QuestionPromptsRequest) Validate() error {
	return requireIDs(r.ThreadID, "topic_id", r.TopicID, "day_id", r.DayID)
}

// Refine implements Request.
func (r *QuestionPromptsRequest) Refine(previous artifact.Artifact, requirements string) (Request, error) {
	prev, ok := previous.(*artifact.QuestionPrompts)
	if !ok {
		return nil, mismatch(r.Kind(), previous)
	}
	next := *r
	next.PreviousQuestionPrompts = prev.QuestionPrompts
	next.TeacherRequirements = requirements
	return &next, nil
}

// VideoRequest asks for an explainer video for a topic on a day.
type VideoRequest struct {
	TopicID             string          `json:"-"`
	DayID               string          `json:"-"`
	ThreadID            string          `json:"thread_id"`
	TeacherRequirements string          `json:"teacher_requirements,omitempty"`
	PreviousVideo       *artifact.Video `json:"previous_video,omitempty"`
}

// Kind implements Request.
func (r *VideoRequest) Kind() artifact.Kind { return artifact.KindVideo }

// Thread implements Request.
func (r *VideoRequest) Thread() string { return r.ThreadID }

// Scope implements Request.
func (r *VideoRequest) Scope() artifact.Scope { return artifact.Scope{TopicID: r.TopicID, DayID: r.DayID} }

// Path implements Request.
func (r *VideoRequest) Path() string {
	return fmt.Sprintf("/api/topics/%s/days/%s/video", url.PathEscape(r.TopicID), url.PathEscape(r.DayID))
}

// Validate implements Request.
func (r *VideoRequest) Validate() error {
	return requireIDs(r.ThreadID, "topic_id", r.TopicID, "day_id", r.DayID)
}

// Refine implements Request.
func (r *VideoRequest) Refine(previous artifact.Artifact, requirements string) (Request, error) {
	prev, ok := previous.(*artifact.Video)
	if !ok {
		return nil, mismatch(r.Kind(), previous)
	}
	next := *r
	next.PreviousVideo = prev
	next.TeacherRequirements = requirements
	return &next, nil
}

// requireIDs checks the thread ID and name/value pairs of path identifiers.
func requireIDs(threadID string, pairs ...string) error {
	if threadID == "" {
		return fmt.Errorf("%w: thread_id is required", ErrInvalidRequest)
	}
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidRequest, pairs[i])
		}
	}
	return nil
}

func mismatch(want artifact.Kind, got artifact.Artifact) error {
	if got == nil {
		return fmt.Errorf("%w: no previous %s to refine", ErrInvalidRequest, want)
	}
	return fmt.Errorf("%w: cannot refine %s with a %s result", ErrInvalidRequest, want, got.Kind())
}
