package session

import (
	"context"
	"time"

	"github.com/itohio/stepcoach/pkg/settings"
)

var (
	startButtons    = [NumButtons]string{"Setting", "", "Start"}
	runningButtons  = [NumButtons]string{}
	finishedButtons = [NumButtons]string{"", "", "OK"}
	settingButtons  = [NumButtons]string{"Return", "Next", "Select"}
)

func (m *Machine) startScreen(ctx context.Context, s State) (State, error) {
	completed := 0
	if m.recorder != nil {
		n, err := m.recorder.Completed()
		if err != nil {
			m.logger.Printf("Session: history unavailable: %v", err)
		}
		completed = n
	}

	m.clearButtons()
	m.dev.Display.ShowStart(m.settings, completed)
	m.showBar(startButtons, ButtonConfirm)
	defer m.stopTimers()

	b, err := m.waitButton(ctx, ButtonConfirm, ButtonReturn)
	if err != nil {
		return s, err
	}

	if b == ButtonConfirm {
		next := State{Mode: ModeRunning, Phase: PhaseRep, Set: 1}
		m.logger.Printf("Session: start %s", m.settings)
		m.notify(next)
		return next, nil
	}
	next := State{Mode: ModeSetting, Item: settings.SetCount}
	m.notify(next)
	return next, nil
}

// runningScreen runs every set, the rests between them and the finish screen.
func (m *Machine) runningScreen(ctx context.Context, s State) (State, error) {
	sets := m.settings.Sets()
	w := Workout{
		Started: m.dev.Clock.Now(),
		Sets:    sets,
		Reps:    m.settings.Reps(),
		Rest:    m.settings.Rest(),
	}
	if s.Set < 1 {
		s.Set = 1
	}
	m.showBar(runningButtons, NoButton)

	var err error
	for ; s.Set <= sets; s.Set++ {
		s.Phase, s.Rep = PhaseRep, 0
		m.notify(s)
		if s, err = m.repLoop(ctx, s); err != nil {
			return s, err
		}
		w.Steps += s.Rep

		if s.Set < sets {
			s.Phase = PhaseRest
			m.notify(s)
			if err = m.restLoop(ctx); err != nil {
				return s, err
			}
		}
	}
	s.Set = sets

	w.Finished = m.dev.Clock.Now()
	s.Phase = PhaseFinished
	m.notify(s)
	m.logger.Printf("Session: finished %d x %d in %v", w.Sets, w.Reps, w.Duration().Round(time.Second))
	if m.recorder != nil {
		if err := m.recorder.Record(w); err != nil {
			m.logger.Printf("Session: failed to record workout: %v", err)
		}
	}

	if err := m.finishedScreen(ctx, w); err != nil {
		return s, err
	}

	next := Initial()
	m.notify(next)
	return next, nil
}

// repLoop counts steps until the set target is reached. There is no way out
// other than completing the set.
func (m *Machine) repLoop(ctx context.Context, s State) (State, error) {
	reps := m.settings.Reps()

	m.dev.Display.ShowSet(s.Set, m.settings.Sets(), reps)
	m.dev.Display.ShowRep(0, reps, 0)
	m.beepPattern(2, 50*time.Millisecond, 80*time.Millisecond)

	m.dev.Steps.Reset()
	defer m.stopTimers()

	for {
		if err := ctx.Err(); err != nil {
			return s, err
		}
		m.tick()

		if ev, ok := m.dev.Steps.Poll(); ok {
			m.dev.Audio.Beep()
			m.mute.Start(m.dev.Clock.Now())

			s.Rep++
			m.notify(s)
			m.dev.Display.ShowRep(s.Rep, reps, ev.Sides)
			if s.Rep >= reps {
				return s, nil
			}
		}
		m.dev.Clock.Sleep(m.timing.StepInterval)
	}
}

// restLoop counts down the rest time. It cannot be skipped.
func (m *Machine) restLoop(ctx context.Context) error {
	total := m.settings.Rest()
	ticks := int(total / m.timing.RestTick)

	m.dev.Display.ShowRest(total, total)

	m.dev.Clock.Sleep(80 * time.Millisecond)
	m.dev.Audio.Beep()
	m.dev.Clock.Sleep(50 * time.Millisecond)
	m.dev.Audio.Mute()

	for i := ticks; i > 0; i-- {
		if err := ctx.Err(); err != nil {
			return err
		}
		m.dev.Display.ShowRest(time.Duration(i)*m.timing.RestTick, total)
		m.dev.Clock.Sleep(m.timing.RestTick)
	}
	return nil
}

func (m *Machine) finishedScreen(ctx context.Context, w Workout) error {
	m.dev.Display.ShowFinished(w)
	m.beepPattern(5, 20*time.Millisecond, 80*time.Millisecond)

	m.clearButtons()
	m.showBar(finishedButtons, ButtonConfirm)
	defer m.stopTimers()

	_, err := m.waitButton(ctx, ButtonConfirm)
	return err
}

// settingScreen edits one field at a time. Confirming a value saves it
// immediately.
func (m *Machine) settingScreen(ctx context.Context, s State) (State, error) {
	m.clearButtons()
	m.showBar(settingButtons, NoButton)
	m.dev.Display.ShowSettingItems(s.Item, m.settings)
	if s.Editing {
		m.dev.Display.ShowSettingValues(s.Item, s.Cursor, m.settings)
	}

	for {
		b, err := m.waitButton(ctx, ButtonReturn, ButtonNext, ButtonConfirm)
		if err != nil {
			return s, err
		}

		switch b {
		case ButtonReturn:
			if !s.Editing {
				next := Initial()
				m.notify(next)
				return next, nil
			}
			s.Editing = false
			m.dev.Display.ShowSettingItems(s.Item, m.settings)

		case ButtonNext:
			if !s.Editing {
				s.Item = (s.Item + 1) % settings.NumFields
				m.dev.Display.ShowSettingItems(s.Item, m.settings)
			} else {
				s.Cursor = (s.Cursor + 1) % s.Item.Len()
				m.dev.Display.ShowSettingValues(s.Item, s.Cursor, m.settings)
			}

		case ButtonConfirm:
			if !s.Editing {
				s.Editing = true
				s.Cursor = int(m.settings.Index(s.Item))
			} else {
				m.commit(s.Item, s.Cursor)
			}
			m.dev.Display.ShowSettingValues(s.Item, s.Cursor, m.settings)
		}
		m.notify(s)
	}
}

// commit persists a new value for item. On failure the active settings stay
// unchanged.
func (m *Machine) commit(item settings.Field, cursor int) {
	updated, err := m.settings.With(item, uint8(cursor))
	if err != nil {
		m.logger.Printf("Session: rejected %s=%d: %v", item, cursor, err)
		return
	}
	if err := m.store.Save(updated); err != nil {
		m.logger.Printf("Session: %v", err)
		return
	}
	m.settings = updated
	if item == settings.BeepVolume {
		m.dev.Audio.SetVolume(updated.Volume())
	}
}

// beepPattern plays n beeps of length on separated by off.
func (m *Machine) beepPattern(n int, on, off time.Duration) {
	for i := 0; i < n; i++ {
		m.dev.Audio.Beep()
		m.dev.Clock.Sleep(on)
		m.dev.Audio.Mute()
		m.dev.Clock.Sleep(off)
	}
}
