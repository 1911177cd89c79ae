package material

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sahayak-app/sahayak/internal/artifact"
	"github.com/sahayak-app/sahayak/internal/db"
	"github.com/sahayak-app/sahayak/internal/events"
	"github.com/sahayak-app/sahayak/internal/pubsub"
)

func newTestService(t *testing.T) (*Service, *pubsub.Hub) {
	t.Helper()
	database, err := db.Open(context.Background(), db.PathIn(t.TempDir()))
	if err != nil {
		t.Fatalf("db.Open() error = %v", err)
	}
	t.Cleanup(func() { _ = database.Close() }) //nolint:errcheck // test cleanup

	hub := pubsub.NewHub()
	t.Cleanup(hub.Shutdown)
	return NewService(NewSQLiteStore(database.Conn()), hub.Material), hub
}

var sampleScope = artifact.Scope{TopicID: "topic-1", DayID: "day-1"}

func samplePrompts(q string) *artifact.QuestionPrompts {
	return &artifact.QuestionPrompts{QuestionPrompts: []artifact.QuestionPrompt{{Question: q}}}
}

func TestService_RecordAndGet(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	m, err := svc.Record(ctx, "sess", "thread-1", sampleScope, samplePrompts("Why?"))
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if m.ID == "" || m.CreatedAt.IsZero() {
		t.Fatalf("Record() = %+v", m)
	}

	tests := []struct {
		name string
		id   string
	}{
		{"full id", m.ID},
		{"prefix", m.ID[:8]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Get(ctx, tt.id)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if got.ID != m.ID || got.Kind != artifact.KindQuestionPrompts || got.Scope != sampleScope {
				t.Errorf("Get() = %+v", got)
			}
			prompts := got.Payload.(*artifact.QuestionPrompts)
			if prompts.QuestionPrompts[0].Question != "Why?" {
				t.Errorf("payload = %+v", prompts)
			}
		})
	}

	if _, err := svc.Get(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}
	if _, err := svc.Get(ctx, "ab"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(short prefix) error = %v, want ErrNotFound", err)
	}
}

func TestService_List(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Record(ctx, "s", "t1", sampleScope, samplePrompts("one")); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Record(ctx, "s", "t1", sampleScope, samplePrompts("two")); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Record(ctx, "s", "t2", artifact.Scope{TopicID: "topic-2"}, &artifact.Answer{Text: "a"}); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{"all", Filter{}, 3},
		{"by kind", Filter{Kind: artifact.KindAnswer}, 1},
		{"by thread", Filter{ThreadID: "t1"}, 2},
		{"by topic", Filter{TopicID: "topic-2"}, 1},
		{"limit", Filter{Limit: 2}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.List(ctx, tt.filter)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("List() returned %d, want %d", len(got), tt.want)
			}
		})
	}

	thread, err := svc.Thread(ctx, "t1")
	if err != nil {
		t.Fatalf("Thread() error = %v", err)
	}
	if q := thread[0].Payload.(*artifact.QuestionPrompts).QuestionPrompts[0].Question; q != "two" {
		t.Errorf("newest first: got %q, want two", q)
	}
}

type fakeSaver struct {
	topicID, dayID string
	saved          artifact.Artifact
	err            error
}

func (f *fakeSaver) SaveClassMaterial(_ context.Context, topicID, dayID string, a artifact.Artifact) error {
	f.topicID, f.dayID, f.saved = topicID, dayID, a
	return f.err
}

func TestService_Publish(t *testing.T) {
	svc, hub := newTestService(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sub := hub.Material.Subscribe(ctx)

	m, err := svc.Record(ctx, "s", "t", sampleScope, samplePrompts("q"))
	if err != nil {
		t.Fatal(err)
	}
	<-sub // saved

	saver := &fakeSaver{}
	got, err := svc.Publish(ctx, m.ID, saver)
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if !got.Published || saver.topicID != "topic-1" || saver.dayID != "day-1" || saver.saved == nil {
		t.Errorf("Publish() = %+v, saver = %+v", got, saver)
	}

	select {
	case ev := <-sub:
		if ev.Payload.Type != events.MaterialEventPublished {
			t.Errorf("event = %s, want published", ev.Payload.Type)
		}
	case <-time.After(time.Second):
		t.Error("no published event")
	}

	stored, _ := svc.Get(ctx, m.ID)
	if !stored.Published {
		t.Error("published flag not persisted")
	}
}

func TestService_PublishErrors(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	noDay, _ := svc.Record(ctx, "s", "t", artifact.Scope{TopicID: "x"}, &artifact.Answer{Text: "a"})
	if _, err := svc.Publish(ctx, noDay.ID, &fakeSaver{}); err == nil || !strings.Contains(err.Error(), "no topic and day") {
		t.Errorf("Publish(no day) error = %v", err)
	}

	m, _ := svc.Record(ctx, "s", "t", sampleScope, samplePrompts("q"))
	boom := errors.New("server down")
	if _, err := svc.Publish(ctx, m.ID, &fakeSaver{err: boom}); !errors.Is(err, boom) {
		t.Errorf("Publish() error = %v, want server down", err)
	}
	stored, _ := svc.Get(ctx, m.ID)
	if stored.Published {
		t.Error("failed publish marked material published")
	}
}

func TestService_Delete(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	m, _ := svc.Record(ctx, "s", "t", sampleScope, samplePrompts("q"))
	if err := svc.Delete(ctx, m.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := svc.Get(ctx, m.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after Delete error = %v, want ErrNotFound", err)
	}
	if err := svc.Delete(ctx, m.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}

func TestRecorder(t *testing.T) {
	svc, hub := newTestService(t)

	var (
		mu    sync.Mutex
		saved []*Material
	)
	rec := NewRecorder(svc, OnSaved(func(m *Material, err error) {
		if err != nil {
			t.Errorf("recording error = %v", err)
			return
		}
		mu.Lock()
		saved = append(saved, m)
		mu.Unlock()
	}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		rec.Run(ctx, hub.Generation.Subscribe(ctx))
		close(done)
	}()

	// Wait for the subscription to register before publishing.
	for hub.Generation.SubscriberCount() == 0 {
		time.Sleep(time.Millisecond)
	}

	hub.Generation.Publish(pubsub.EventStarted, events.NewGenerationStartedEvent("s", "t", artifact.KindVideo))
	ok := events.NewGenerationSucceededEvent("s", "t", &artifact.Video{URL: "https://cdn.example/v.mp4"})
	ok.Scope = sampleScope
	hub.Generation.Publish(pubsub.EventCompleted, ok)
	hub.Generation.Publish(pubsub.EventFailed, events.NewGenerationFailedEvent("s", "t", artifact.KindVideo, errors.New("x")))

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("recorder did not stop")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(saved) != 1 {
		t.Fatalf("saved %d materials, want 1", len(saved))
	}
	if saved[0].Kind != artifact.KindVideo || saved[0].Scope != sampleScope {
		t.Errorf("saved = %+v", saved[0])
	}
}
