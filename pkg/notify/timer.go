package notify

import (
	"sync"
	"time"
)

// DefaultInterval is the countdown tick.
const DefaultInterval = 100 * time.Millisecond

// TimerState is the derived countdown of one notification.
type TimerState struct {
	Remaining float64
	Visible   bool
}

// Timer drives a notification from fully remaining to hidden. Tick is
// deterministic; Start drives it from a time.Ticker. Once stopped, either by
// running out or by Stop, the state never changes again.
type Timer struct {
	mu       sync.Mutex
	duration time.Duration
	interval time.Duration
	elapsed  time.Duration
	state    TimerState
	stopped  bool

	stopOnce sync.Once
	done     chan struct{}
}

// NewTimer returns a visible timer. interval defaults to DefaultInterval and
// never exceeds duration, so a short duration still hides on the first tick.
func NewTimer(duration, interval time.Duration) *Timer {
	if duration <= 0 {
		duration = DefaultDuration
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	if interval > duration {
		interval = duration
	}
	return &Timer{
		duration: duration,
		interval: interval,
		state:    TimerState{Remaining: 1, Visible: true},
		done:     make(chan struct{}),
	}
}

// Duration is the total visible time.
func (t *Timer) Duration() time.Duration { return t.duration }

// Interval is the tick cadence.
func (t *Timer) Interval() time.Duration { return t.interval }

// State returns the current countdown.
func (t *Timer) State() TimerState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Stopped reports whether the timer will tick again.
func (t *Timer) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

// Done is closed once the timer stops for any reason.
func (t *Timer) Done() <-chan struct{} { return t.done }

// Tick advances one interval and returns the new state.
func (t *Timer) Tick() TimerState {
	t.mu.Lock()
	if t.stopped {
		st := t.state
		t.mu.Unlock()
		return st
	}
	t.elapsed += t.interval
	remaining := 1 - float64(t.elapsed)/float64(t.duration)
	if remaining < 0 || t.elapsed >= t.duration {
		remaining = 0
	}
	t.state.Remaining = remaining
	expired := t.elapsed >= t.duration
	if expired {
		t.state.Visible = false
		t.stopped = true
	}
	st := t.state
	t.mu.Unlock()

	if expired {
		t.closeDone()
	}
	return st
}

// Start ticks on a background goroutine until the timer expires or Stop is
// called, reporting each new state to onChange. Call it at most once.
// onChange runs on the timer goroutine; a state computed before a concurrent
// Stop may still be delivered, so receivers that replace timers must compare
// identity.
func (t *Timer) Start(onChange func(TimerState)) {
	ticker := time.NewTicker(t.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-t.done:
				return
			case <-ticker.C:
				t.mu.Lock()
				stopped := t.stopped
				t.mu.Unlock()
				if stopped {
					return
				}
				st := t.Tick()
				if onChange != nil && t.deliverable(st) {
					onChange(st)
				}
				if !st.Visible {
					return
				}
			}
		}
	}()
}

// deliverable drops a state computed just before a concurrent Stop.
func (t *Timer) deliverable(st TimerState) bool {
	if !st.Visible {
		// the expiring tick is always reported
		return true
	}
	select {
	case <-t.done:
		return false
	default:
		return true
	}
}

// Stop cancels further ticks. It is safe to call more than once and after
// the timer expired on its own.
func (t *Timer) Stop() {
	t.mu.Lock()
	t.stopped = true
	t.mu.Unlock()
	t.closeDone()
}

func (t *Timer) closeDone() {
	t.stopOnce.Do(func() { close(t.done) })
}
