package notify

import (
	"math"
	"sync"
	"testing"
	"time"
)

func TestTimerTicksToHidden(t *testing.T) {
	tm := NewTimer(5000*time.Millisecond, 100*time.Millisecond)
	if st := tm.State(); !st.Visible || st.Remaining != 1 {
		t.Fatalf("new timer state = %+v", st)
	}

	var st TimerState
	for i := 0; i < 25; i++ {
		st = tm.Tick()
	}
	if math.Abs(st.Remaining-0.5) > 0.02 {
		t.Fatalf("after 25 ticks remaining = %v, want ~0.5", st.Remaining)
	}
	if !st.Visible {
		t.Fatalf("expected visible at half time")
	}

	for i := 0; i < 25; i++ {
		st = tm.Tick()
	}
	if st.Visible {
		t.Fatalf("expected hidden after 50 ticks")
	}
	if st.Remaining > 0 {
		t.Fatalf("remaining = %v, want <= 0", st.Remaining)
	}
	if !tm.Stopped() {
		t.Fatalf("expected timer stopped after expiry")
	}
	select {
	case <-tm.Done():
	default:
		t.Fatalf("done channel not closed")
	}
}

func TestTimerShortDurationHidesOnFirstTick(t *testing.T) {
	tm := NewTimer(10*time.Millisecond, 100*time.Millisecond)
	if tm.Interval() != 10*time.Millisecond {
		t.Fatalf("interval = %v, want clamped to duration", tm.Interval())
	}
	if st := tm.Tick(); st.Visible {
		t.Fatalf("expected hidden after one tick, got %+v", st)
	}
}

func TestTimerUnevenIntervalStillTerminates(t *testing.T) {
	tm := NewTimer(250*time.Millisecond, 100*time.Millisecond)
	ticks := 0
	for tm.State().Visible {
		tm.Tick()
		ticks++
		if ticks > 10 {
			t.Fatalf("timer never hid")
		}
	}
	if ticks != 3 {
		t.Fatalf("ticks = %d, want 3", ticks)
	}
}

func TestTimerStopFreezesState(t *testing.T) {
	tm := NewTimer(time.Second, 100*time.Millisecond)
	tm.Tick()
	before := tm.State()
	tm.Stop()
	tm.Stop()
	for i := 0; i < 5; i++ {
		tm.Tick()
	}
	if got := tm.State(); got != before {
		t.Fatalf("state changed after stop: %+v -> %+v", before, got)
	}
}

func TestTimerStartDeliversUntilExpiry(t *testing.T) {
	tm := NewTimer(50*time.Millisecond, 10*time.Millisecond)
	var (
		mu     sync.Mutex
		states []TimerState
	)
	tm.Start(func(st TimerState) {
		mu.Lock()
		states = append(states, st)
		mu.Unlock()
	})

	select {
	case <-tm.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for timer expiry")
	}
	// let the goroutine report the final state
	time.Sleep(20 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(states) == 0 {
		t.Fatalf("expected tick callbacks")
	}
	last := states[len(states)-1]
	if last.Visible || last.Remaining != 0 {
		t.Fatalf("last state = %+v, want hidden", last)
	}
}

func TestTimerStopCancelsTicks(t *testing.T) {
	tm := NewTimer(time.Hour, 5*time.Millisecond)
	var (
		mu    sync.Mutex
		count int
	)
	tm.Start(func(TimerState) {
		mu.Lock()
		count++
		mu.Unlock()
	})
	time.Sleep(30 * time.Millisecond)
	tm.Stop()
	// allow an in-progress delivery to land
	time.Sleep(10 * time.Millisecond)
	mu.Lock()
	seen := count
	mu.Unlock()
	frozen := tm.State()

	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if count != seen {
		t.Fatalf("callbacks continued after stop: %d -> %d", seen, count)
	}
	if tm.State() != frozen {
		t.Fatalf("state mutated after stop")
	}
}
