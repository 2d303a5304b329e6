package session

import "time"

// Timer is a software timer polled from the main loop. It never runs on its
// own; Fire reports whether the deadline passed since the last call.
type Timer struct {
	interval time.Duration
	periodic bool
	deadline time.Time
	armed    bool
}

// NewTicker creates a periodic timer.
func NewTicker(interval time.Duration) Timer {
	return Timer{interval: interval, periodic: true}
}

// NewOneShot creates a timer that fires once per Start.
func NewOneShot(delay time.Duration) Timer {
	return Timer{interval: delay}
}

// Start arms the timer relative to now.
func (t *Timer) Start(now time.Time) {
	t.deadline = now.Add(t.interval)
	t.armed = true
}

// Stop disarms the timer.
func (t *Timer) Stop() {
	t.armed = false
}

// Pending reports whether the timer is armed.
func (t *Timer) Pending() bool {
	return t.armed
}

// Fire returns true when the deadline has been reached. Periodic timers are
// rescheduled; missed periods collapse into one firing.
func (t *Timer) Fire(now time.Time) bool {
	if !t.armed || now.Before(t.deadline) {
		return false
	}
	if !t.periodic || t.interval <= 0 {
		t.armed = false
		return true
	}
	t.deadline = t.deadline.Add(t.interval)
	if !now.Before(t.deadline) {
		t.deadline = now.Add(t.interval)
	}
	return true
}
