// Package step turns two noisy analog pressure channels into discrete step
// events. A Debouncer resolves each channel to a stable pressed state; a
// Detector fires once per released-to-pressed transition on either side.
package step

import (
	"fmt"
	"time"
)

// Side identifies a pressure channel.
type Side int

const (
	Right Side = iota
	Left

	NumSides = 2
)

func (s Side) String() string {
	switch s {
	case Right:
		return "right"
	case Left:
		return "left"
	default:
		return fmt.Sprintf("Side(%d)", int(s))
	}
}

// Sensor reads the instantaneous 12-bit intensity of a channel.
type Sensor interface {
	Read(side Side) uint16
}

// Sleeper blocks for the given duration.
type Sleeper interface {
	Sleep(d time.Duration)
}

// State holds the debounced pressed flag of each side.
type State [NumSides]bool

// Defaults for the force sensitive resistors wired with a pull-up: pressing
// lowers the reading.
const (
	DefaultThreshold   = 2000
	DefaultSamples     = 3
	DefaultSampleDelay = time.Millisecond
	DefaultSettleDelay = 10 * time.Millisecond
)

// DebounceConfig tunes the sampling burst.
type DebounceConfig struct {
	Threshold   uint16
	Samples     int
	SampleDelay time.Duration
	SettleDelay time.Duration
}

// DefaultDebounceConfig returns the 3 x (1 ms + 10 ms) burst with threshold 2000.
func DefaultDebounceConfig() DebounceConfig {
	return DebounceConfig{
		Threshold:   DefaultThreshold,
		Samples:     DefaultSamples,
		SampleDelay: DefaultSampleDelay,
		SettleDelay: DefaultSettleDelay,
	}
}

// Debouncer samples both channels in one interleaved burst per cycle.
type Debouncer struct {
	sensor Sensor
	sleep  Sleeper
	cfg    DebounceConfig
}

// NewDebouncer creates a debouncer. Zero config fields take the defaults.
func NewDebouncer(sensor Sensor, sleep Sleeper, cfg DebounceConfig) *Debouncer {
	def := DefaultDebounceConfig()
	if cfg.Threshold == 0 {
		cfg.Threshold = def.Threshold
	}
	if cfg.Samples <= 0 {
		cfg.Samples = def.Samples
	}
	return &Debouncer{sensor: sensor, sleep: sleep, cfg: cfg}
}

// Sample reads one raw value and reports whether it counts as pressed.
// Lower readings mean more force.
func (d *Debouncer) Sample(side Side) bool {
	return d.sensor.Read(side) < d.cfg.Threshold
}

// Resolve runs one burst and returns the new state of both sides.
func (d *Debouncer) Resolve(previous State) State {
	var pressed [NumSides]int

	for i := 0; i < d.cfg.Samples; i++ {
		for side := Right; side < NumSides; side++ {
			if d.Sample(side) {
				pressed[side]++
			}
			d.pause(d.cfg.SampleDelay)
		}
		d.pause(d.cfg.SettleDelay)
	}

	var next State
	for side := range next {
		next[side] = Settle(pressed[side], d.cfg.Samples, previous[side])
	}
	return next
}

func (d *Debouncer) pause(dur time.Duration) {
	if dur > 0 && d.sleep != nil {
		d.sleep.Sleep(dur)
	}
}

// Settle applies the hysteresis rule to one side: all samples pressed yields
// true, none yields false, anything in between keeps previous.
func Settle(pressed, samples int, previous bool) bool {
	switch pressed {
	case samples:
		return true
	case 0:
		return false
	default:
		return previous
	}
}
