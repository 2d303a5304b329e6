package session

import "sync"

// Latch remembers button presses from an event driven front end until the
// machine polls them. It is safe for concurrent use.
type Latch struct {
	mu      sync.Mutex
	pressed [NumButtons]bool
}

var (
	_ Buttons = (*Latch)(nil)
	_ Clearer = (*Latch)(nil)
)

// Press latches b. Out of range buttons are ignored.
func (l *Latch) Press(b Button) {
	if b < 0 || b >= NumButtons {
		return
	}
	l.mu.Lock()
	l.pressed[b] = true
	l.mu.Unlock()
}

// WasPressed reports and clears a latched press of b.
func (l *Latch) WasPressed(b Button) bool {
	if b < 0 || b >= NumButtons {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	p := l.pressed[b]
	l.pressed[b] = false
	return p
}

// Clear drops all latched presses.
func (l *Latch) Clear() {
	l.mu.Lock()
	l.pressed = [NumButtons]bool{}
	l.mu.Unlock()
}
