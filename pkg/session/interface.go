package session

import (
	"time"

	"github.com/itohio/stepcoach/pkg/settings"
	"github.com/itohio/stepcoach/pkg/step"
)

// Button is a logical front-panel button, left to right.
type Button int

const (
	ButtonReturn Button = iota
	ButtonNext
	ButtonConfirm

	NumButtons = 3

	// NoButton marks a bar without a highlighted button.
	NoButton Button = -1
)

func (b Button) String() string {
	switch b {
	case ButtonReturn:
		return "return"
	case ButtonNext:
		return "next"
	case ButtonConfirm:
		return "confirm"
	default:
		return "none"
	}
}

// Buttons reports presses since the previous query of the same button.
type Buttons interface {
	WasPressed(b Button) bool
}

// Clearer is implemented by Buttons that can drop latched presses.
type Clearer interface {
	Clear()
}

// ButtonBar describes the three soft buttons under the screen.
type ButtonBar struct {
	Labels  [NumButtons]string
	Primary Button
	// Inverted flips the primary button colours; toggled by the blink timer.
	Inverted bool
}

// Display renders screens. Layout is up to the implementation.
type Display interface {
	ShowStart(s settings.Settings, completed int)
	ShowButtons(bar ButtonBar)
	ShowSet(set, sets, reps int)
	ShowRep(rep, reps int, sides step.Sides)
	ShowRest(remaining, total time.Duration)
	ShowFinished(w Workout)
	ShowSettingItems(item settings.Field, s settings.Settings)
	ShowSettingValues(item settings.Field, cursor int, s settings.Settings)
}

// Audio drives the buzzer.
type Audio interface {
	Beep()
	Mute()
	SetVolume(level int)
}

// Clock provides time and blocking waits.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// StepSource yields step events, one debounce cycle per Poll.
type StepSource interface {
	Poll() (step.Event, bool)
	Reset()
}

// SettingsStore loads and persists settings.
type SettingsStore interface {
	Load() settings.Settings
	Save(settings.Settings) error
}

// Recorder keeps finished workouts.
type Recorder interface {
	Record(w Workout) error
	Completed() (int, error)
}

var (
	_ StepSource    = (*step.Detector)(nil)
	_ SettingsStore = (*settings.Store)(nil)
	_ step.Sleeper  = Clock(nil)
)

// Workout summarises a finished session.
type Workout struct {
	Started  time.Time
	Finished time.Time
	Sets     int
	Reps     int
	Rest     time.Duration
	Steps    int
}

// Duration returns the wall time of the workout.
func (w Workout) Duration() time.Duration {
	return w.Finished.Sub(w.Started)
}
