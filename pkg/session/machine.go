// Package session sequences a guided workout: start screen, sets of counted
// steps with rest in between, a finish screen and a settings editor. The
// machine runs on a single goroutine; all waits go through a Clock and all
// output through Display and Audio.
package session

import (
	"context"
	"io"
	"log"
	"time"

	"github.com/itohio/stepcoach/pkg/settings"
)

// Timing holds the loop intervals.
type Timing struct {
	StepInterval   time.Duration // pause between debounce cycles
	ButtonInterval time.Duration // pause between button polls
	BlinkInterval  time.Duration // primary button blink period
	MuteDelay      time.Duration // beep length after a step
	RestTick       time.Duration // rest countdown resolution
}

// DefaultTiming returns the stock intervals.
func DefaultTiming() Timing {
	return Timing{
		StepInterval:   50 * time.Millisecond,
		ButtonInterval: 30 * time.Millisecond,
		BlinkInterval:  750 * time.Millisecond,
		MuteDelay:      10 * time.Millisecond,
		RestTick:       125 * time.Millisecond,
	}
}

// Devices bundles the machine's collaborators.
type Devices struct {
	Steps   StepSource
	Buttons Buttons
	Display Display
	Audio   Audio
	Clock   Clock
}

// Options are optional machine settings.
type Options struct {
	Timing   Timing
	Logger   *log.Logger
	Recorder Recorder
	// Observer is called after every state change.
	Observer func(State)
}

// Machine is the workout state machine.
type Machine struct {
	store SettingsStore
	dev   Devices

	timing   Timing
	logger   *log.Logger
	recorder Recorder
	observer func(State)

	settings settings.Settings
	state    State
	notified State

	blink Timer
	mute  Timer
	bar   ButtonBar
}

// New creates a machine. Zero timing fields take the defaults.
func New(store SettingsStore, dev Devices, opts Options) *Machine {
	if dev.Clock == nil {
		dev.Clock = SystemClock{}
	}
	timing := opts.Timing
	def := DefaultTiming()
	if timing.StepInterval <= 0 {
		timing.StepInterval = def.StepInterval
	}
	if timing.ButtonInterval <= 0 {
		timing.ButtonInterval = def.ButtonInterval
	}
	if timing.BlinkInterval <= 0 {
		timing.BlinkInterval = def.BlinkInterval
	}
	if timing.MuteDelay <= 0 {
		timing.MuteDelay = def.MuteDelay
	}
	if timing.RestTick <= 0 {
		timing.RestTick = def.RestTick
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	return &Machine{
		store:    store,
		dev:      dev,
		timing:   timing,
		logger:   logger,
		recorder: opts.Recorder,
		observer: opts.Observer,
		state:    Initial(),
		notified: Initial(),
		blink:    NewTicker(timing.BlinkInterval),
		mute:     NewOneShot(timing.MuteDelay),
	}
}

// Settings returns the active settings.
func (m *Machine) Settings() settings.Settings {
	return m.settings
}

// State returns the state reached by the last completed step.
func (m *Machine) State() State {
	return m.state
}

// Init loads settings and applies the stored volume.
func (m *Machine) Init() {
	m.settings = m.store.Load()
	m.dev.Audio.SetVolume(m.settings.Volume())
	m.logger.Printf("Session: ready with %s", m.settings)
}

// Run loads settings and steps the machine until ctx is cancelled.
func (m *Machine) Run(ctx context.Context) error {
	m.Init()
	for {
		next, err := m.Step(ctx, m.state)
		if err != nil {
			m.dev.Audio.Mute()
			return err
		}
		m.state = next
	}
}

// Step runs the screen for s.Mode until it hands over to another mode and
// returns the new state. It only returns early when ctx is cancelled.
func (m *Machine) Step(ctx context.Context, s State) (State, error) {
	switch s.Mode {
	case ModeStart:
		return m.startScreen(ctx, s)
	case ModeRunning:
		return m.runningScreen(ctx, s)
	case ModeSetting:
		return m.settingScreen(ctx, s)
	default:
		m.logger.Printf("Session: unknown mode %v, back to start", s.Mode)
		return Initial(), nil
	}
}

// notify reports s to the observer unless it equals the last reported state.
func (m *Machine) notify(s State) {
	if s == m.notified {
		return
	}
	m.notified = s
	if m.observer != nil {
		m.observer(s)
	}
}

// showBar draws a button bar and starts blinking its primary button.
func (m *Machine) showBar(labels [NumButtons]string, primary Button) {
	m.bar = ButtonBar{Labels: labels, Primary: primary}
	m.dev.Display.ShowButtons(m.bar)
	if primary != NoButton {
		m.blink.Start(m.dev.Clock.Now())
	} else {
		m.blink.Stop()
	}
}

// tick services pending timers. Called once per loop iteration.
func (m *Machine) tick() {
	now := m.dev.Clock.Now()
	if m.blink.Fire(now) {
		m.bar.Inverted = !m.bar.Inverted
		m.dev.Display.ShowButtons(m.bar)
	}
	if m.mute.Fire(now) {
		m.dev.Audio.Mute()
	}
}

func (m *Machine) stopTimers() {
	m.blink.Stop()
	if m.mute.Pending() {
		m.mute.Stop()
		m.dev.Audio.Mute()
	}
}

func (m *Machine) clearButtons() {
	if c, ok := m.dev.Buttons.(Clearer); ok {
		c.Clear()
	}
}

// waitButton polls the buttons until one of want is pressed.
func (m *Machine) waitButton(ctx context.Context, want ...Button) (Button, error) {
	for {
		if err := ctx.Err(); err != nil {
			return NoButton, err
		}
		m.tick()
		for _, b := range want {
			if m.dev.Buttons.WasPressed(b) {
				return b, nil
			}
		}
		m.dev.Clock.Sleep(m.timing.ButtonInterval)
	}
}
