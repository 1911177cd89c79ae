package mockserver_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sahayak-app/sahayak/internal/api"
	"github.com/sahayak-app/sahayak/internal/artifact"
	"github.com/sahayak-app/sahayak/internal/generation"
	"github.com/sahayak-app/sahayak/internal/mockserver"
)

func run(t *testing.T, srv *httptest.Server, req generation.Request) (generation.State, error) {
	t.Helper()
	s := generation.NewSession(generation.NewHTTPTransport(srv.URL))
	defer s.Close()

	if err := s.Start(context.Background(), req, generation.Callbacks{}); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.Wait(ctx)
}

func TestDefaultScripts(t *testing.T) {
	srv := httptest.NewServer(mockserver.New())
	defer srv.Close()

	thread := generation.NewThreadID()
	tests := []struct {
		name string
		req  generation.Request
	}{
		{"answer", &generation.AnswerRequest{TopicID: "t", Question: "What is photosynthesis?", ThreadID: thread}},
		{"activities", &generation.ActivitiesRequest{DayID: "d", GradeID: "g", TopicID: "t", ThreadID: thread}},
		{"question prompts", &generation.QuestionPromptsRequest{TopicID: "t", DayID: "d", ThreadID: thread}},
		{"video", &generation.VideoRequest{TopicID: "t", DayID: "d", ThreadID: thread}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, err := run(t, srv, tt.req)
			if err != nil {
				t.Fatalf("Wait() error = %v", err)
			}
			if st.Result == nil || st.Result.Kind() != tt.req.Kind() {
				t.Fatalf("result = %#v", st.Result)
			}
			if st.Progress == "" {
				t.Error("no progress received")
			}
		})
	}
}

func TestScriptedFailures(t *testing.T) {
	tests := []struct {
		name   string
		script mockserver.Script
		check  func(t *testing.T, err error)
	}{
		{
			name:   "http 500",
			script: mockserver.Script{Status: http.StatusInternalServerError},
			check: func(t *testing.T, err error) {
				if err == nil || !strings.Contains(err.Error(), "500") {
					t.Errorf("error = %v, want mention of 500", err)
				}
			},
		},
		{
			name:   "error event",
			script: mockserver.Script{Progress: []string{"p"}, Error: "model overloaded"},
			check: func(t *testing.T, err error) {
				var serverErr *generation.ServerError
				if !errors.As(err, &serverErr) || serverErr.Message != "model overloaded" {
					t.Errorf("error = %v, want ServerError", err)
				}
			},
		},
		{
			name:   "dropped stream",
			script: mockserver.Script{Progress: []string{"p"}, Drop: true},
			check: func(t *testing.T, err error) {
				if !errors.Is(err, generation.ErrStreamClosed) {
					t.Errorf("error = %v, want ErrStreamClosed", err)
				}
			},
		},
		{
			name:   "bad payload",
			script: mockserver.Script{Data: `{"question_prompts": "nope"}`},
			check: func(t *testing.T, err error) {
				if !errors.Is(err, generation.ErrDecode) {
					t.Errorf("error = %v, want ErrDecode", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(mockserver.New(mockserver.WithScript(artifact.KindQuestionPrompts, tt.script)))
			defer srv.Close()

			st, err := run(t, srv, &generation.QuestionPromptsRequest{TopicID: "t", DayID: "d", ThreadID: "th"})
			if st.Status != generation.StatusFailed {
				t.Errorf("status = %s, want failed", st.Status)
			}
			tt.check(t, err)
		})
	}
}

func TestCancelHangingStream(t *testing.T) {
	ms := mockserver.New(mockserver.WithScript(artifact.KindVideo, mockserver.Script{
		Progress: []string{"Rendering..."},
		Hang:     true,
	}))
	srv := httptest.NewServer(ms)
	defer srv.Close()

	progress := make(chan string, 1)
	s := generation.NewSession(generation.NewHTTPTransport(srv.URL))
	err := s.Start(context.Background(), &generation.VideoRequest{TopicID: "t", DayID: "d", ThreadID: "th"}, generation.Callbacks{
		OnProgress: func(msg string) { progress <- msg },
	})
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	select {
	case <-progress:
	case <-time.After(5 * time.Second):
		t.Fatal("no progress before cancel")
	}

	s.Cancel()
	if _, err := s.Wait(context.Background()); !errors.Is(err, generation.ErrCancelled) {
		t.Errorf("Wait() error = %v, want ErrCancelled", err)
	}
}

func TestRefineSendsPrevious(t *testing.T) {
	ms := mockserver.New()
	srv := httptest.NewServer(ms)
	defer srv.Close()

	s := generation.NewSession(generation.NewHTTPTransport(srv.URL))
	defer s.Close()
	req := &generation.QuestionPromptsRequest{TopicID: "t", DayID: "d", ThreadID: "th-9"}
	if err := s.Start(context.Background(), req, generation.Callbacks{}); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if _, err := s.Wait(context.Background()); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}

	if err := s.Refine(context.Background(), "simpler words", generation.Callbacks{}); err != nil {
		t.Fatalf("Refine() error = %v", err)
	}
	st, err := s.Wait(context.Background())
	if err != nil {
		t.Fatalf("Wait() after Refine error = %v", err)
	}
	if st.Progress == "" {
		t.Error("no progress on refine")
	}

	reqs := ms.Requests()
	if len(reqs) != 2 {
		t.Fatalf("requests = %d, want 2", len(reqs))
	}
	body := reqs[1].Body
	if body["thread_id"] != "th-9" || body["teacher_requirements"] != "simpler words" {
		t.Errorf("refine body = %v", body)
	}
	if _, ok := body["previous_question_prompts"]; !ok {
		t.Errorf("refine body missing previous_question_prompts: %v", body)
	}
}

func TestClassMaterials(t *testing.T) {
	srv := httptest.NewServer(mockserver.New())
	defer srv.Close()
	client := api.New(srv.URL)
	ctx := context.Background()

	_, err := client.GetClassMaterial(ctx, "t", "d", artifact.KindActivities)
	var apiErr *api.Error
	if !errors.As(err, &apiErr) || apiErr.Code != http.StatusNotFound {
		t.Fatalf("GetClassMaterial() before save error = %v, want 404", err)
	}

	acts := &artifact.Activities{Items: []artifact.Activity{{Title: "Relay", Duration: artifact.DurationMinutes(10)}}}
	if err := client.SaveClassMaterial(ctx, "t", "d", acts); err != nil {
		t.Fatalf("SaveClassMaterial() error = %v", err)
	}

	got, err := client.GetClassMaterial(ctx, "t", "d", artifact.KindActivities)
	if err != nil {
		t.Fatalf("GetClassMaterial() error = %v", err)
	}
	items := got.(*artifact.Activities).Items
	if len(items) != 1 || items[0].Title != "Relay" {
		t.Fatalf("items = %+v", items)
	}
	if d := items[0].Duration; !d.IsNumber() || d.String() != "10" {
		t.Errorf("Duration = %q, want number 10", d)
	}
}

func TestRejectsMissingThread(t *testing.T) {
	srv := httptest.NewServer(mockserver.New())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/topics/t/days/d/video", "application/json", strings.NewReader(`{}`))
	if err != nil {
		t.Fatalf("Post() error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", resp.StatusCode)
	}
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(mockserver.New())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
}
