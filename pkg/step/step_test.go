package step

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	down = 500  // pressed reading
	up   = 3500 // released reading
)

// scriptSensor replays readings per side; the last value repeats.
type scriptSensor struct {
	readings [NumSides][]uint16
	pos      [NumSides]int
	order    []Side
}

func (s *scriptSensor) Read(side Side) uint16 {
	s.order = append(s.order, side)
	r := s.readings[side]
	if len(r) == 0 {
		return up
	}
	i := s.pos[side]
	if i >= len(r) {
		i = len(r) - 1
	}
	s.pos[side]++
	return r[i]
}

type sleepRecorder struct {
	total time.Duration
	calls []time.Duration
}

func (s *sleepRecorder) Sleep(d time.Duration) {
	s.total += d
	s.calls = append(s.calls, d)
}

func TestSettle(t *testing.T) {
	tests := []struct {
		name     string
		pressed  int
		previous bool
		want     bool
	}{
		{name: "3/3 from released", pressed: 3, previous: false, want: true},
		{name: "3/3 from pressed", pressed: 3, previous: true, want: true},
		{name: "0/3 from released", pressed: 0, previous: false, want: false},
		{name: "0/3 from pressed", pressed: 0, previous: true, want: false},
		{name: "1/3 keeps released", pressed: 1, previous: false, want: false},
		{name: "1/3 keeps pressed", pressed: 1, previous: true, want: true},
		{name: "2/3 keeps released", pressed: 2, previous: false, want: false},
		{name: "2/3 keeps pressed", pressed: 2, previous: true, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Settle(tt.pressed, 3, tt.previous))
		})
	}
}

func TestDebouncer_Sample(t *testing.T) {
	sensor := &scriptSensor{}
	sensor.readings[Right] = []uint16{1999, 2000, 2001, 0}
	d := NewDebouncer(sensor, nil, DefaultDebounceConfig())

	assert.True(t, d.Sample(Right))
	assert.False(t, d.Sample(Right), "threshold itself is released")
	assert.False(t, d.Sample(Right))
	assert.True(t, d.Sample(Right))
}

func TestDebouncer_Resolve(t *testing.T) {
	tests := []struct {
		name     string
		right    []uint16
		left     []uint16
		previous State
		want     State
	}{
		{
			name:  "both pressed",
			right: []uint16{down, down, down},
			left:  []uint16{down, down, down},
			want:  State{true, true},
		},
		{
			name:     "both released",
			right:    []uint16{up, up, up},
			left:     []uint16{up, up, up},
			previous: State{true, true},
			want:     State{false, false},
		},
		{
			name:     "ambiguous keeps previous",
			right:    []uint16{down, up, down},
			left:     []uint16{up, down, up},
			previous: State{false, true},
			want:     State{false, true},
		},
		{
			name:     "one side settles, other ambiguous",
			right:    []uint16{down, down, down},
			left:     []uint16{down, down, up},
			previous: State{false, false},
			want:     State{true, false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sensor := &scriptSensor{}
			sensor.readings[Right] = tt.right
			sensor.readings[Left] = tt.left
			d := NewDebouncer(sensor, &sleepRecorder{}, DefaultDebounceConfig())

			assert.Equal(t, tt.want, d.Resolve(tt.previous))
		})
	}
}

func TestDebouncer_BurstTiming(t *testing.T) {
	sensor := &scriptSensor{}
	sleeper := &sleepRecorder{}
	d := NewDebouncer(sensor, sleeper, DefaultDebounceConfig())

	d.Resolve(State{})

	assert.Equal(t, []Side{Right, Left, Right, Left, Right, Left}, sensor.order, "sides are interleaved")
	assert.Equal(t, 36*time.Millisecond, sleeper.total, "3 x (2 x 1ms + 10ms)")
	require.Len(t, sleeper.calls, 9)
	assert.Equal(t, 10*time.Millisecond, sleeper.calls[2])
}

func TestNewDebouncer_Defaults(t *testing.T) {
	d := NewDebouncer(&scriptSensor{}, nil, DebounceConfig{})
	assert.Equal(t, uint16(DefaultThreshold), d.cfg.Threshold)
	assert.Equal(t, DefaultSamples, d.cfg.Samples)
}

func TestEdges(t *testing.T) {
	tests := []struct {
		name     string
		previous State
		next     State
		want     Sides
	}{
		{name: "right rises", previous: State{false, false}, next: State{true, false}, want: 1 << Right},
		{name: "left rises", previous: State{false, false}, next: State{false, true}, want: 1 << Left},
		{name: "both rise", previous: State{false, false}, next: State{true, true}, want: 1<<Right | 1<<Left},
		{name: "held", previous: State{true, true}, next: State{true, true}, want: 0},
		{name: "release", previous: State{true, false}, next: State{false, false}, want: 0},
		{name: "swap feet", previous: State{true, false}, next: State{false, true}, want: 1 << Left},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Edges(tt.previous, tt.next))
		})
	}
}

func TestSides_String(t *testing.T) {
	assert.Equal(t, "none", Sides(0).String())
	assert.Equal(t, "right", Sides(1<<Right).String())
	assert.Equal(t, "right+left", Sides(1<<Right|1<<Left).String())
}

// levelSensor reports a fixed level per side, settable between polls.
type levelSensor struct {
	level [NumSides]uint16
}

func (s *levelSensor) Read(side Side) uint16 { return s.level[side] }

func (s *levelSensor) set(right, left bool) {
	s.level[Right], s.level[Left] = up, up
	if right {
		s.level[Right] = down
	}
	if left {
		s.level[Left] = down
	}
}

func TestDetector_FiresOncePerPress(t *testing.T) {
	sensor := &levelSensor{}
	det := NewDetector(NewDebouncer(sensor, nil, DefaultDebounceConfig()))

	steps := []struct {
		right, left bool
		fire        bool
	}{
		{false, false, false},
		{true, false, true},   // press
		{true, false, false},  // hold
		{true, false, false},  // hold
		{false, false, false}, // release
		{false, true, true},   // other foot
		{true, true, true},    // right joins while left held
		{true, true, false},
		{false, false, false},
		{true, true, true}, // both at once: one event
	}

	fired := 0
	for i, s := range steps {
		sensor.set(s.right, s.left)
		ev, ok := det.Poll()
		assert.Equal(t, s.fire, ok, "cycle %d", i)
		if ok {
			assert.NotZero(t, ev.Sides)
			fired++
		}
	}
	assert.Equal(t, 4, fired)
}

func TestDetector_StuckAmbiguousNeverFires(t *testing.T) {
	sensor := &scriptSensor{}
	pattern := make([]uint16, 0, 300)
	for i := 0; i < 100; i++ {
		pattern = append(pattern, down, up, down)
	}
	sensor.readings[Right] = pattern
	det := NewDetector(NewDebouncer(sensor, nil, DefaultDebounceConfig()))

	for i := 0; i < 100; i++ {
		_, ok := det.Poll()
		require.False(t, ok)
	}
	assert.Equal(t, State{}, det.State())
}

func TestDetector_Reset(t *testing.T) {
	sensor := &levelSensor{}
	det := NewDetector(NewDebouncer(sensor, nil, DefaultDebounceConfig()))

	sensor.set(true, false)
	_, ok := det.Poll()
	require.True(t, ok)

	det.Reset()
	_, ok = det.Poll()
	assert.True(t, ok, "a foot resting on the pad counts again after reset")
}
