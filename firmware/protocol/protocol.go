// Package protocol holds the pad firmware's serial protocol and sampling
// helpers. It has no hardware dependencies so it runs under both Go and
// TinyGo.
//
// The pad streams one line per averaged sample:
//
//	unix_micros,right,left\n
//
// and accepts B1 (buzzer on), B0 (buzzer off) and V<n> (volume 0..10).
package protocol

import "strconv"

const (
	MaxReading = 4095
	MaxVolume  = 10
	maxCommand = 4
)

// Kind is a command type.
type Kind byte

const (
	KindNone   Kind = 0
	KindBeep   Kind = 'B'
	KindVolume Kind = 'V'
)

// Command is one parsed host command. For KindBeep, Value is 1 for on and 0
// for off. For KindVolume it is the level.
type Command struct {
	Kind  Kind
	Value int
}

// Parser assembles commands from serial bytes.
type Parser struct {
	buf [maxCommand]byte
	n   int
	bad bool
}

// Feed consumes one byte and returns a command when a line completes.
// Malformed lines are dropped.
func (p *Parser) Feed(b byte) (Command, bool) {
	switch b {
	case '\n', '\r':
		cmd, ok := p.parse()
		p.n, p.bad = 0, false
		return cmd, ok
	case ' ', '\t':
		return Command{}, false
	}
	if p.n >= len(p.buf) {
		p.bad = true
		return Command{}, false
	}
	p.buf[p.n] = b
	p.n++
	return Command{}, false
}

func (p *Parser) parse() (Command, bool) {
	if p.bad || p.n < 2 {
		return Command{}, false
	}
	v, err := strconv.Atoi(string(p.buf[1:p.n]))
	if err != nil {
		return Command{}, false
	}
	switch Kind(p.buf[0]) {
	case KindBeep:
		if v != 0 && v != 1 {
			return Command{}, false
		}
		return Command{Kind: KindBeep, Value: v}, true
	case KindVolume:
		if v < 0 || v > MaxVolume {
			return Command{}, false
		}
		return Command{Kind: KindVolume, Value: v}, true
	}
	return Command{}, false
}

// Averager sums readings of both sensors over a fixed window.
type Averager struct {
	Window int

	right, left uint32
	n           int
}

// Add adds one reading pair. When the window is full it returns the averages
// and starts over.
func (a *Averager) Add(right, left uint16) (uint16, uint16, bool) {
	a.right += uint32(right)
	a.left += uint32(left)
	a.n++
	if a.n < a.Window {
		return 0, 0, false
	}
	r, l := uint16(a.right/uint32(a.n)), uint16(a.left/uint32(a.n))
	a.Reset()
	return r, l, true
}

// Reset drops the partial window.
func (a *Averager) Reset() {
	a.right, a.left, a.n = 0, 0, 0
}

// AppendLine appends one sample line to dst.
func AppendLine(dst []byte, micros int64, right, left uint16) []byte {
	dst = strconv.AppendInt(dst, micros, 10)
	dst = append(dst, ',')
	dst = strconv.AppendUint(dst, uint64(right), 10)
	dst = append(dst, ',')
	dst = strconv.AppendUint(dst, uint64(left), 10)
	return append(dst, '\n')
}

// Scale converts a raw ADC value of the given resolution to 12 bits.
func Scale(raw uint16, bits int) uint16 {
	if bits >= 16 {
		return raw >> 4
	}
	if bits > 12 {
		return raw >> (bits - 12)
	}
	return raw << (12 - bits)
}

// DutyOn reports whether the buzzer should conduct on the given tick of a
// period ticks long PWM cycle. Volume 0 never conducts and MaxVolume gives a
// square wave.
func DutyOn(tick, period, volume int) bool {
	if volume <= 0 || period <= 0 {
		return false
	}
	if volume > MaxVolume {
		volume = MaxVolume
	}
	on := period * volume / (2 * MaxVolume)
	if on == 0 {
		on = 1
	}
	return tick%period < on
}
