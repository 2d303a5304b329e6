// Package pad talks to the step pad: two force sensitive resistors read by a
// small MCU and a buzzer driven by it.
package pad

import (
	"time"

	"github.com/itohio/stepcoach/pkg/session"
	"github.com/itohio/stepcoach/pkg/step"
)

// MaxReading is the full scale of the 12-bit ADC. An unloaded sensor reads
// near the top of the range.
const MaxReading = 4095

// Error is a pad error.
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	ErrNotConnected     Error = "not connected"
	ErrAlreadyConnected Error = "already connected"
)

// Sample is one reading of both sensors.
type Sample struct {
	Timestamp time.Time
	Right     uint16
	Left      uint16
}

// Level returns the reading of side.
func (s Sample) Level(side step.Side) uint16 {
	if side == step.Left {
		return s.Left
	}
	return s.Right
}

// Device is a step pad, real or mocked. Read returns the most recent reading
// of a side; it never blocks.
type Device interface {
	step.Sensor
	session.Audio

	Connect() error
	Close() error
	IsConnected() bool
	Latest() Sample
}

var (
	_ Device = (*Serial)(nil)
	_ Device = (*Mock)(nil)
)
