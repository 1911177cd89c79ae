package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sahayak-app/sahayak/internal/artifact"
)

func TestSaveClassMaterial(t *testing.T) {
	var (
		gotMethod string
		gotPath   string
		gotAuth   string
		gotBody   []byte
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(srv.URL, WithAPIKey("k"))
	prompts := &artifact.QuestionPrompts{QuestionPrompts: []artifact.QuestionPrompt{{Question: "Why is the sky blue?"}}}
	if err := c.SaveClassMaterial(context.Background(), "t1", "d1", prompts); err != nil {
		t.Fatalf("SaveClassMaterial() error = %v", err)
	}

	if gotMethod != http.MethodPut {
		t.Errorf("method = %s, want PUT", gotMethod)
	}
	if gotPath != "/api/topics/t1/days/d1/class-materials/question-prompts" {
		t.Errorf("path = %s", gotPath)
	}
	if gotAuth != "Bearer k" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	var decoded artifact.QuestionPrompts
	if err := json.Unmarshal(gotBody, &decoded); err != nil {
		t.Fatalf("body %s: %v", gotBody, err)
	}
	if len(decoded.QuestionPrompts) != 1 {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestSaveClassMaterial_Invalid(t *testing.T) {
	c := New("http://unused.invalid")

	if err := c.SaveClassMaterial(context.Background(), "t", "d", &artifact.Answer{}); !errors.Is(err, artifact.ErrInvalid) {
		t.Errorf("SaveClassMaterial(empty) error = %v, want ErrInvalid", err)
	}
	if err := c.SaveClassMaterial(context.Background(), "", "d", &artifact.Answer{Text: "x"}); err == nil {
		t.Error("SaveClassMaterial without topic succeeded")
	}
}

func TestSaveClassMaterial_ServerError(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"detail", `{"detail":"Day not found"}`, "Day not found"},
		{"error", `{"error":"bad kind"}`, "bad kind"},
		{"plain", "oops\n", "oops"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			err := New(srv.URL).SaveClassMaterial(context.Background(), "t", "d", &artifact.Answer{Text: "x"})
			var apiErr *Error
			if !errors.As(err, &apiErr) {
				t.Fatalf("error = %v, want *Error", err)
			}
			if apiErr.Code != http.StatusNotFound || apiErr.Message != tt.wantMsg {
				t.Errorf("error = %+v", apiErr)
			}
			if !strings.Contains(err.Error(), "404") {
				t.Errorf("Error() = %q, want status code", err)
			}
		})
	}
}

func TestGetClassMaterial(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/topics/t/days/d/class-materials/video" {
			http.NotFound(w, r)
			return
		}
		_, _ = io.WriteString(w, `{"video_url":"https://cdn.example/v.mp4"}`)
	}))
	defer srv.Close()

	got, err := New(srv.URL).GetClassMaterial(context.Background(), "t", "d", artifact.KindVideo)
	if err != nil {
		t.Fatalf("GetClassMaterial() error = %v", err)
	}
	if v := got.(*artifact.Video); v.URL != "https://cdn.example/v.mp4" {
		t.Errorf("video = %+v", v)
	}
}
