package session

import (
	"fmt"

	"github.com/itohio/stepcoach/pkg/settings"
)

// Mode is the top-level screen.
type Mode int

const (
	ModeStart Mode = iota + 1
	ModeRunning
	ModeSetting
)

func (m Mode) String() string {
	switch m {
	case ModeStart:
		return "start"
	case ModeRunning:
		return "running"
	case ModeSetting:
		return "setting"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Phase is the sub-state while Running.
type Phase int

const (
	PhaseNone Phase = iota
	PhaseRep
	PhaseRest
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseNone:
		return "none"
	case PhaseRep:
		return "rep"
	case PhaseRest:
		return "rest"
	case PhaseFinished:
		return "finished"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// State is the whole mutable session state. It is passed into and returned
// from every machine step.
type State struct {
	Mode  Mode
	Phase Phase

	// Running counters: Set is 1-based, Rep counts steps in the current set.
	Set int
	Rep int

	// Setting screen cursor.
	Item    settings.Field
	Editing bool
	Cursor  int
}

// Initial is the power-on state.
func Initial() State {
	return State{Mode: ModeStart}
}

func (s State) String() string {
	switch s.Mode {
	case ModeRunning:
		return fmt.Sprintf("%s/%s set=%d rep=%d", s.Mode, s.Phase, s.Set, s.Rep)
	case ModeSetting:
		return fmt.Sprintf("%s item=%s editing=%t cursor=%d", s.Mode, s.Item, s.Editing, s.Cursor)
	default:
		return s.Mode.String()
	}
}
