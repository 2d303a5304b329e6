package session

import (
	"context"
	"time"

	"github.com/itohio/stepcoach/pkg/settings"
	"github.com/itohio/stepcoach/pkg/step"
)

type fakeClock struct {
	start time.Time
	now   time.Time
}

func newFakeClock() *fakeClock {
	t := time.Date(2024, 5, 1, 7, 0, 0, 0, time.UTC)
	return &fakeClock{start: t, now: t}
}

func (c *fakeClock) Now() time.Time        { return c.now }
func (c *fakeClock) Sleep(d time.Duration) { c.now = c.now.Add(d) }
func (c *fakeClock) Elapsed() time.Duration {
	return c.now.Sub(c.start)
}

type press struct {
	b  Button
	at time.Duration // earliest elapsed clock time
}

// fakeButtons hands out scripted presses in order. When the script is
// exhausted the next poll cancels the context.
type fakeButtons struct {
	clock   *fakeClock
	presses []press
	cancel  context.CancelFunc
	polls   int
}

func (f *fakeButtons) WasPressed(b Button) bool {
	f.polls++
	if len(f.presses) == 0 {
		if f.cancel != nil {
			f.cancel()
		}
		return false
	}
	head := f.presses[0]
	if head.b != b || f.clock.Elapsed() < head.at {
		return false
	}
	f.presses = f.presses[1:]
	return true
}

func pressed(bs ...Button) []press {
	out := make([]press, len(bs))
	for i, b := range bs {
		out[i] = press{b: b}
	}
	return out
}

type recDisplay struct {
	starts       int
	completed    int
	bars         []ButtonBar
	sets         []int
	reps         []int
	rests        []time.Duration
	finished     []Workout
	items        []settings.Field
	values       []int
	lastSettings settings.Settings
}

func (d *recDisplay) ShowStart(s settings.Settings, completed int) {
	d.starts++
	d.completed = completed
	d.lastSettings = s
}
func (d *recDisplay) ShowButtons(bar ButtonBar)   { d.bars = append(d.bars, bar) }
func (d *recDisplay) ShowSet(set, sets, reps int) { d.sets = append(d.sets, set) }
func (d *recDisplay) ShowRep(rep, reps int, sides step.Sides) {
	d.reps = append(d.reps, rep)
}
func (d *recDisplay) ShowRest(remaining, total time.Duration) {
	d.rests = append(d.rests, remaining)
}
func (d *recDisplay) ShowFinished(w Workout) { d.finished = append(d.finished, w) }
func (d *recDisplay) ShowSettingItems(item settings.Field, s settings.Settings) {
	d.items = append(d.items, item)
	d.lastSettings = s
}
func (d *recDisplay) ShowSettingValues(item settings.Field, cursor int, s settings.Settings) {
	d.values = append(d.values, cursor)
	d.lastSettings = s
}

type fakeAudio struct {
	events  []string
	volumes []int
}

func (a *fakeAudio) Beep()               { a.events = append(a.events, "beep") }
func (a *fakeAudio) Mute()               { a.events = append(a.events, "mute") }
func (a *fakeAudio) SetVolume(level int) { a.volumes = append(a.volumes, level) }

func (a *fakeAudio) count(ev string) int {
	n := 0
	for _, e := range a.events {
		if e == ev {
			n++
		}
	}
	return n
}

// alwaysSteps fires on every poll.
type alwaysSteps struct {
	polls  int
	resets int
}

func (s *alwaysSteps) Poll() (step.Event, bool) {
	s.polls++
	return step.Event{Sides: 1 << step.Right}, true
}
func (s *alwaysSteps) Reset() { s.resets++ }

// plannedPad sets sensor levels from a plan before each detector cycle.
type plannedPad struct {
	level [step.NumSides]uint16
	plan  []step.State
	polls int
	det   *step.Detector
}

func newPlannedPad(plan []step.State) *plannedPad {
	p := &plannedPad{plan: plan}
	p.det = step.NewDetector(step.NewDebouncer(p, nil, step.DefaultDebounceConfig()))
	return p
}

func (p *plannedPad) Read(side step.Side) uint16 { return p.level[side] }

func (p *plannedPad) Poll() (step.Event, bool) {
	st := step.State{}
	if p.polls < len(p.plan) {
		st = p.plan[p.polls]
	}
	p.polls++
	for side := range st {
		p.level[side] = 3500
		if st[side] {
			p.level[side] = 500
		}
	}
	return p.det.Poll()
}

func (p *plannedPad) Reset() { p.det.Reset() }

type fakeRecorder struct {
	workouts []Workout
}

func (r *fakeRecorder) Record(w Workout) error {
	r.workouts = append(r.workouts, w)
	return nil
}

func (r *fakeRecorder) Completed() (int, error) { return len(r.workouts), nil }

type harness struct {
	ctx     context.Context
	cancel  context.CancelFunc
	clock   *fakeClock
	buttons *fakeButtons
	display *recDisplay
	audio   *fakeAudio
	backend *settings.MemoryBackend
	store   *settings.Store
	rec     *fakeRecorder
	states  []State
	m       *Machine
}

func newHarness(s settings.Settings, steps StepSource, presses []press) *harness {
	ctx, cancel := context.WithCancel(context.Background())
	h := &harness{
		ctx:     ctx,
		cancel:  cancel,
		clock:   newFakeClock(),
		display: &recDisplay{},
		audio:   &fakeAudio{},
		backend: settings.NewMemoryBackendWith(settings.Encode(s)),
		rec:     &fakeRecorder{},
	}
	h.buttons = &fakeButtons{clock: h.clock, presses: presses, cancel: cancel}
	h.store = settings.NewStore(h.backend, nil)
	h.m = New(h.store, Devices{
		Steps:   steps,
		Buttons: h.buttons,
		Display: h.display,
		Audio:   h.audio,
		Clock:   h.clock,
	}, Options{
		Recorder: h.rec,
		Observer: func(st State) { h.states = append(h.states, st) },
	})
	h.m.Init()
	return h
}

func (h *harness) phases() []Phase {
	var out []Phase
	for _, s := range h.states {
		if s.Mode == ModeRunning && (len(out) == 0 || out[len(out)-1] != s.Phase) {
			out = append(out, s.Phase)
		}
	}
	return out
}
