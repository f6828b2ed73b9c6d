// Package submission mediates between the signup form and the record store.
// A Controller owns the form state and the in-flight flag and turns every
// completed attempt into exactly one notification.
package submission

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"tableflip.dev/waitlist/pkg/notify"
	"tableflip.dev/waitlist/pkg/record"
	"tableflip.dev/waitlist/pkg/store"
)

// Messages shown after an attempt.
const (
	MessageSuccess   = "You are now on the waitlist."
	MessageDuplicate = "Email already exists in the waitlist."
	MessageFailure   = "Failed to add to waitlist"
)

// DefaultCollection is where signups are stored.
const DefaultCollection = "waitlist"

// Snapshot is the observable controller state published to subscribers.
type Snapshot struct {
	Fields       map[string]string
	Status       Status
	Notification *notify.Notification
	Err          error
}

// Controller is safe for concurrent use; the in-flight check and the switch
// to InFlight happen under one lock, and store calls run outside it.
type Controller struct {
	records store.RecordStore

	collection      string
	uniqueField     string
	checkDuplicates bool
	duration        time.Duration
	fields          []record.Field
	log             *slog.Logger
	now             func() time.Time

	mu           sync.Mutex
	form         record.FormState
	status       Status
	lastErr      error
	notification *notify.Notification

	subMu  sync.Mutex
	nextID int
	subs   map[int]func(Snapshot)
}

// Option configures a Controller.
type Option func(*Controller)

// WithCollection sets the target collection.
func WithCollection(name string) Option {
	return func(c *Controller) {
		if name != "" {
			c.collection = name
		}
	}
}

// WithUniqueField sets the field used by the duplicate check.
func WithUniqueField(name string) Option {
	return func(c *Controller) {
		if name != "" {
			c.uniqueField = name
		}
	}
}

// WithDuplicateCheck enables the pre-insert existence query.
func WithDuplicateCheck(enabled bool) Option {
	return func(c *Controller) { c.checkDuplicates = enabled }
}

// WithNotificationDuration sets how long produced notifications stay visible.
func WithNotificationDuration(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.duration = d
		}
	}
}

// WithFields declares the form inputs.
func WithFields(fields ...record.Field) Option {
	return func(c *Controller) {
		if len(fields) > 0 {
			c.fields = fields
		}
	}
}

// WithLogger sets the operator diagnostics logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// WithClock overrides time.Now for notification timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// New returns an idle controller with an empty form.
func New(s store.RecordStore, opts ...Option) *Controller {
	c := &Controller{
		records:     s,
		collection:  DefaultCollection,
		uniqueField: record.FieldEmail,
		duration:    notify.DefaultDuration,
		fields:      record.DefaultFields(),
		log:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:         time.Now,
		subs:        make(map[int]func(Snapshot)),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.form = record.NewFormState(c.fields...)
	return c
}

// Collection is the target collection name.
func (c *Controller) Collection() string { return c.collection }

// DuplicateCheck reports whether the existence query runs before insert.
func (c *Controller) DuplicateCheck() bool { return c.checkDuplicates }

// UpdateField replaces one form value.
func (c *Controller) UpdateField(name, value string) {
	c.mu.Lock()
	c.form.Set(name, value)
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.publish(snap)
}

// Form returns a copy of the form state.
func (c *Controller) Form() record.FormState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form.Clone()
}

// Fields snapshots the form values.
func (c *Controller) Fields() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form.Values()
}

// Status is the current lifecycle state.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// InFlight reports whether a submit is awaiting the store.
func (c *Controller) InFlight() bool { return c.Status() == InFlight }

// LastError is the reason of the most recent unsuccessful attempt, or nil.
func (c *Controller) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Notification is the latest produced notification, or nil.
func (c *Controller) Notification() *notify.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.notification == nil {
		return nil
	}
	n := *c.notification
	return &n
}

// Submit runs one attempt. It returns false without touching the store when
// another attempt is in flight. Otherwise it returns the attempt's
// notification; store failures never escape and the status is Idle again on
// return.
func (c *Controller) Submit(ctx context.Context) (notify.Notification, bool) {
	c.mu.Lock()
	if c.status == InFlight {
		c.mu.Unlock()
		c.log.Debug("submit ignored while in flight")
		return notify.Notification{}, false
	}
	c.status = InFlight
	c.lastErr = nil
	fields := c.form.Sanitized()
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.publish(snap)

	if c.checkDuplicates {
		value := fields[c.uniqueField]
		if c.exists(ctx, value) {
			dup := &DuplicateRecordError{Collection: c.collection, Field: c.uniqueField, Value: value}
			c.log.Info("duplicate signup", "collection", c.collection, "field", c.uniqueField)
			return c.finish(Idle, dup, true, notify.Warning, MessageDuplicate), true
		}
	}

	id, err := c.records.Insert(ctx, c.collection, fields)
	if err != nil {
		c.log.Error("insert failed", "collection", c.collection, "err", err)
		return c.finish(Failed, err, false, notify.Error, MessageFailure), true
	}
	c.log.Info("signup stored", "collection", c.collection, "id", string(id))
	return c.finish(Succeeded, nil, true, notify.Success, MessageSuccess), true
}

// exists treats a failed check as "not found" so a flaky lookup never blocks
// a signup.
func (c *Controller) exists(ctx context.Context, value string) bool {
	found, err := c.records.Exists(ctx, c.collection, c.uniqueField, value)
	if err != nil {
		var se *store.StoreError
		if !errors.As(err, &se) {
			err = &store.StoreError{Op: "exists", Collection: c.collection, Err: err}
		}
		c.log.Warn("duplicate check failed, continuing", "err", err)
		return false
	}
	return found
}

// finish applies an outcome: outcome is published first, then the controller
// settles back to Idle.
func (c *Controller) finish(outcome Status, err error, reset bool, sev notify.Severity, msg string) notify.Notification {
	n := notify.New(msg, sev, c.duration, c.now())

	c.mu.Lock()
	if reset {
		c.form.Reset()
	}
	c.notification = &n
	c.lastErr = err
	c.status = outcome
	outcomeSnap := c.snapshotLocked()
	c.status = Idle
	idleSnap := c.snapshotLocked()
	c.mu.Unlock()

	if outcome != Idle {
		c.publish(outcomeSnap)
	}
	c.publish(idleSnap)
	return n
}

// Subscribe registers fn for every state change and returns a cancel func.
// fn runs on the goroutine that caused the change and must not call back into
// Submit.
func (c *Controller) Subscribe(fn func(Snapshot)) (cancel func()) {
	c.subMu.Lock()
	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	c.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.subMu.Lock()
			delete(c.subs, id)
			c.subMu.Unlock()
		})
	}
}

// Snapshot returns the current observable state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	s := Snapshot{
		Fields: c.form.Values(),
		Status: c.status,
		Err:    c.lastErr,
	}
	if c.notification != nil {
		n := *c.notification
		s.Notification = &n
	}
	return s
}

func (c *Controller) publish(s Snapshot) {
	c.subMu.Lock()
	fns := make([]func(Snapshot), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.subMu.Unlock()
	for _, fn := range fns {
		fn(s)
	}
}
