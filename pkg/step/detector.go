package step

import "strings"

// Sides is a bit mask of sides.
type Sides uint8

// Has reports whether side is in the mask.
func (s Sides) Has(side Side) bool {
	return s&(1<<side) != 0
}

func (s Sides) String() string {
	var parts []string
	for side := Right; side < NumSides; side++ {
		if s.Has(side) {
			parts = append(parts, side.String())
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "+")
}

// Event is a single detected step.
type Event struct {
	// Sides that rose in this cycle. Counting ignores it; it is kept for
	// display and logging.
	Sides Sides
}

// Edges returns the sides that went from released to pressed.
func Edges(previous, next State) Sides {
	var fired Sides
	for side := Right; side < NumSides; side++ {
		if next[side] && !previous[side] {
			fired |= 1 << side
		}
	}
	return fired
}

// Detector emits at most one Event per debounce cycle.
type Detector struct {
	debouncer *Debouncer
	state     State
}

// NewDetector creates a detector starting with both sides released.
func NewDetector(d *Debouncer) *Detector {
	return &Detector{debouncer: d}
}

// Poll runs one debounce cycle. It returns an event when at least one side
// rose; a simultaneous rise on both sides is still a single event.
func (d *Detector) Poll() (Event, bool) {
	next := d.debouncer.Resolve(d.state)
	fired := Edges(d.state, next)
	d.state = next
	if fired == 0 {
		return Event{}, false
	}
	return Event{Sides: fired}, true
}

// State returns the current debounced state.
func (d *Detector) State() State {
	return d.state
}

// Reset releases both sides, as at the start of a set.
func (d *Detector) Reset() {
	d.state = State{}
}
