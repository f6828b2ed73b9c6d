package store

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"tableflip.dev/waitlist/pkg/record"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDiskvWatchEmitsCollectionChanges(t *testing.T) {
	base := t.TempDir()
	p := NewDiskv(base, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := p.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}

	// Allow watcher goroutine to subscribe to directories before storing.
	time.Sleep(50 * time.Millisecond)

	if _, err := p.Insert(ctx, "waitlist", map[string]string{record.FieldEmail: "ada@example.com"}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case evt := <-ch:
			if evt.Type == EventInvalidated {
				return
			}
			if evt.Type == EventCollectionChanged {
				if evt.Collection != "waitlist" {
					t.Fatalf("expected collection 'waitlist', got %q", evt.Collection)
				}
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for collection change event")
		}
	}
}

func TestMemoryWatchClosesWithContext(t *testing.T) {
	m := NewMemory()
	ctx, cancel := context.WithCancel(context.Background())
	ch, err := m.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	if _, err := m.Insert(ctx, "waitlist", map[string]string{"email": "a@b.c"}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	select {
	case evt := <-ch:
		if evt.Collection != "waitlist" {
			t.Fatalf("collection = %q", evt.Collection)
		}
	case <-time.After(time.Second):
		t.Fatal("no event")
	}
	cancel()
	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("expected closed channel")
		}
	case <-time.After(time.Second):
		t.Fatal("channel not closed after cancel")
	}
}

func TestEventSinkSendAfterClose(t *testing.T) {
	s := newEventSink()
	s.Close()
	s.Close()
	s.Send(Event{Type: EventInvalidated})
}
