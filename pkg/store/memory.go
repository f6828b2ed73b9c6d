package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"tableflip.dev/waitlist/pkg/record"
)

// Memory keeps records in process. It backs `--store memory` demos and the
// tests of packages that need a real Store.
type Memory struct {
	mu       sync.Mutex
	counter  int
	records  map[string][]*record.Record
	watchers []*eventSink
	now      func() time.Time
}

// NewMemory returns an empty in-process store.
func NewMemory() *Memory {
	return &Memory{
		records: make(map[string][]*record.Record),
		now:     time.Now,
	}
}

func (m *Memory) Location() string { return "memory" }

func (m *Memory) Close() error {
	m.mu.Lock()
	watchers := m.watchers
	m.watchers = nil
	m.mu.Unlock()
	for _, w := range watchers {
		w.Close()
	}
	return nil
}

func (m *Memory) Exists(ctx context.Context, collection, field, value string) (bool, error) {
	if err := requireCollection("exists", collection); err != nil {
		return false, err
	}
	if err := ctx.Err(); err != nil {
		return false, wrap("exists", collection, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records[collection] {
		if r.Get(field) == value {
			return true, nil
		}
	}
	return false, nil
}

func (m *Memory) Insert(ctx context.Context, collection string, fields map[string]string) (record.ID, error) {
	if err := requireCollection("insert", collection); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", wrap("insert", collection, err)
	}
	m.mu.Lock()
	m.counter++
	r := record.New(collection, fields, m.now())
	r.ID = record.ID(fmt.Sprintf("id-%d", m.counter))
	m.records[collection] = append(m.records[collection], r)
	watchers := append([]*eventSink(nil), m.watchers...)
	m.mu.Unlock()

	for _, w := range watchers {
		w.Send(Event{Type: EventCollectionChanged, Collection: collection})
	}
	return r.ID, nil
}

func (m *Memory) List(ctx context.Context, collection string) ([]*record.Record, error) {
	if err := requireCollection("list", collection); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, wrap("list", collection, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*record.Record, 0, len(m.records[collection]))
	for _, r := range m.records[collection] {
		cp := record.New(collection, r.Fields, r.Created.Time)
		cp.ID = r.ID
		out = append(out, cp)
	}
	record.Sort(out)
	return out, nil
}

func (m *Memory) Watch(ctx context.Context) (<-chan Event, error) {
	sink := newEventSink()
	m.mu.Lock()
	m.watchers = append(m.watchers, sink)
	m.mu.Unlock()

	go func() {
		<-ctx.Done()
		m.mu.Lock()
		for i, w := range m.watchers {
			if w == sink {
				m.watchers = append(m.watchers[:i], m.watchers[i+1:]...)
				break
			}
		}
		m.mu.Unlock()
		sink.Close()
	}()
	return sink.C(), nil
}
