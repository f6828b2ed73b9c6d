package app

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/waitlist/pkg/submission"
	"tableflip.dev/waitlist/pkg/tui/events"
)

// mailbox forwards controller snapshots into the program without ever
// blocking the publisher. The controller publishes from inside Update when a
// field changes, and a blocking Send there would stall the event loop.
// Snapshots are full state, so only the newest pending one is kept.
type mailbox struct {
	mu      sync.Mutex
	pending *submission.Snapshot
	wake    chan struct{}
	done    chan struct{}
	once    sync.Once
}

func newMailbox() *mailbox {
	return &mailbox{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

func (b *mailbox) put(s submission.Snapshot) {
	b.mu.Lock()
	b.pending = &s
	b.mu.Unlock()
	select {
	case b.wake <- struct{}{}:
	default:
	}
}

func (b *mailbox) take() (submission.Snapshot, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pending == nil {
		return submission.Snapshot{}, false
	}
	s := *b.pending
	b.pending = nil
	return s, true
}

// pump delivers snapshots to send until close is called.
func (b *mailbox) pump(send func(tea.Msg)) {
	for {
		select {
		case <-b.done:
			return
		case <-b.wake:
			if s, ok := b.take(); ok {
				send(events.SnapshotMsg{Snapshot: s})
			}
		}
	}
}

func (b *mailbox) close() {
	b.once.Do(func() { close(b.done) })
}
