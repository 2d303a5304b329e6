package session

import "time"

// SystemClock uses wall time.
type SystemClock struct{}

var _ Clock = SystemClock{}

func (SystemClock) Now() time.Time        { return time.Now() }
func (SystemClock) Sleep(d time.Duration) { time.Sleep(d) }
