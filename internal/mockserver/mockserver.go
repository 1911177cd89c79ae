// Package mockserver is an offline stand-in for the Sahayak API. It
// streams scripted generation events and keeps class materials in memory.
package mockserver

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/patrickmn/go-cache"

	"github.com/sahayak-app/sahayak/internal/artifact"
	"github.com/sahayak-app/sahayak/internal/debug"
	"github.com/sahayak-app/sahayak/internal/sse"
)

// materialTTL is how long saved class materials are kept.
const materialTTL = 24 * time.Hour

// Script describes how the server answers one generation endpoint.
type Script struct {
	// Status, when not 0 or 200, is returned instead of a stream.
	Status int
	// Progress messages are sent in order before the terminal event.
	Progress []string
	// Data is sent as the data event. Ignored when Error is set.
	Data string
	// Error is sent as an error event.
	Error string
	// Hang keeps the stream open after progress until the client goes away.
	Hang bool
	// Drop closes the stream after progress without a terminal event.
	Drop bool
}

// Request is a generation request the server received.
type Request struct {
	Kind artifact.Kind
	Path string
	Body map[string]any
}

// Server serves the generation and class-material endpoints.
type Server struct {
	mu        sync.Mutex
	scripts   map[artifact.Kind]Script
	requests  []Request
	delay     time.Duration
	materials *cache.Cache
	router    chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithDelay pauses between streamed events.
func WithDelay(d time.Duration) Option {
	return func(s *Server) {
		s.delay = d
	}
}

// WithScript overrides the script for one artifact kind.
func WithScript(kind artifact.Kind, script Script) Option {
	return func(s *Server) {
		s.scripts[kind] = script
	}
}

// New creates a server with sample scripts for every artifact kind.
func New(opts ...Option) *Server {
	s := &Server{
		scripts:   DefaultScripts(),
		materials: cache.New(materialTTL, time.Hour),
		router:    chi.NewRouter(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/health"))

	r.Route("/api", func(r chi.Router) {
		r.Post("/topics/{topicID}/teaching-materials/answer", s.stream(artifact.KindAnswer))
		r.Post("/days/{dayID}/grades/{gradeID}/topics/{topicID}/activities", s.stream(artifact.KindActivities))
		r.Post("/topics/{topicID}/days/{dayID}/question-prompts", s.stream(artifact.KindQuestionPrompts))
		r.Post("/topics/{topicID}/days/{dayID}/video", s.stream(artifact.KindVideo))

		r.Put("/topics/{topicID}/days/{dayID}/class-materials/{slug}", s.saveMaterial)
		r.Get("/topics/{topicID}/days/{dayID}/class-materials/{slug}", s.getMaterial)
	})
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// SetScript replaces the script for one artifact kind.
func (s *Server) SetScript(kind artifact.Kind, script Script) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scripts[kind] = script
}

// Requests returns the generation requests received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

func (s *Server) stream(kind artifact.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid JSON body"})
			return
		}
		if id, _ := body["thread_id"].(string); id == "" {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "thread_id is required"})
			return
		}

		s.mu.Lock()
		s.requests = append(s.requests, Request{Kind: kind, Path: r.URL.Path, Body: body})
		script := s.scripts[kind]
		s.mu.Unlock()

		debug.Event("mockserver", "generate", fmt.Sprintf("kind=%s path=%s", kind, r.URL.Path))

		if script.Status != 0 && script.Status != http.StatusOK {
			http.Error(w, http.StatusText(script.Status), script.Status)
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming not supported", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		progress := script.Progress
		if req, _ := body["teacher_requirements"].(string); req != "" {
			progress = append([]string{"Applying teacher feedback..."}, progress...)
		}

		send := func(name, data string) bool {
			if err := sse.WriteEvent(w, name, data); err != nil {
				return false
			}
			flusher.Flush()
			return s.pause(r)
		}

		for _, msg := range progress {
			if !send("progress", msg) {
				return
			}
		}

		switch {
		case script.Hang:
			<-r.Context().Done()
		case script.Drop:
		case script.Error != "":
			send("error", script.Error)
		default:
			send("data", script.Data)
		}
	}
}

// pause waits for the configured delay and reports whether the client is
// still connected.
func (s *Server) pause(r *http.Request) bool {
	if s.delay <= 0 {
		return r.Context().Err() == nil
	}
	select {
	case <-time.After(s.delay):
		return true
	case <-r.Context().Done():
		return false
	}
}

func materialKey(topicID, dayID string, kind artifact.Kind) string {
	return topicID + "/" + dayID + "/" + string(kind)
}

func kindFromSlug(slug string) (artifact.Kind, bool) {
	for _, k := range artifact.Kinds {
		if k.Slug() == slug {
			return k, true
		}
	}
	return "", false
}

func (s *Server) saveMaterial(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindFromSlug(chi.URLParam(r, "slug"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "unknown class material"})
		return
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "reading body"})
		return
	}
	if _, err := artifact.Decode(kind, data); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": err.Error()})
		return
	}

	key := materialKey(chi.URLParam(r, "topicID"), chi.URLParam(r, "dayID"), kind)
	s.materials.Set(key, data, cache.DefaultExpiration)
	debug.Event("mockserver", "material-saved", key)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getMaterial(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindFromSlug(chi.URLParam(r, "slug"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "unknown class material"})
		return
	}

	cached, found := s.materials.Get(materialKey(chi.URLParam(r, "topicID"), chi.URLParam(r, "dayID"), kind))
	if !found {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "class material not found"})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(cached.([]byte)) //nolint:errcheck // client went away
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v) //nolint:errcheck // client went away
}
