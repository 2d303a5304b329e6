package settings

import (
	"fmt"
	"time"
)

// Field identifies one user-tunable parameter.
type Field int

const (
	SetCount Field = iota
	RepCount
	RestSeconds
	BeepVolume

	NumFields = 4
)

var fieldNames = [NumFields]string{"Sets", "Reps", "Rest", "Volume"}

// options holds the selectable values of each field. Settings only ever store
// an index into these tables.
var options = [NumFields][]int{
	{3, 4, 5},
	{15, 20, 25, 30, 35, 40},
	{30, 45, 60},
	{0, 2, 4, 6, 8, 10},
}

// Fields returns all fields in display order.
func Fields() []Field {
	return []Field{SetCount, RepCount, RestSeconds, BeepVolume}
}

func (f Field) String() string {
	if f < 0 || f >= NumFields {
		return fmt.Sprintf("Field(%d)", int(f))
	}
	return fieldNames[f]
}

// Options returns a copy of the value table for the field.
func (f Field) Options() []int {
	if f < 0 || f >= NumFields {
		return nil
	}
	out := make([]int, len(options[f]))
	copy(out, options[f])
	return out
}

// Len returns the number of options of the field.
func (f Field) Len() int {
	if f < 0 || f >= NumFields {
		return 0
	}
	return len(options[f])
}

// Settings stores the option index of every field.
type Settings struct {
	Indices [NumFields]uint8
}

// Default returns the built-in defaults: 3 sets, 20 reps, 30 s rest, volume 0.
func Default() Settings {
	return Settings{Indices: [NumFields]uint8{0, 1, 0, 0}}
}

// Index returns the stored option index of the field.
func (s Settings) Index(f Field) uint8 {
	return s.Indices[f]
}

// With returns a copy of s with the field set to idx.
func (s Settings) With(f Field, idx uint8) (Settings, error) {
	if f < 0 || f >= NumFields {
		return s, ErrUnknownField
	}
	if int(idx) >= f.Len() {
		return s, fmt.Errorf("%s index %d: %w", f, idx, ErrOutOfRange)
	}
	s.Indices[f] = idx
	return s, nil
}

// Value resolves the field's index against its table.
func (s Settings) Value(f Field) int {
	return options[f][s.Indices[f]]
}

// Validate reports whether every index lies within its table.
func (s Settings) Validate() error {
	for _, f := range Fields() {
		if int(s.Indices[f]) >= f.Len() {
			return fmt.Errorf("%s index %d: %w", f, s.Indices[f], ErrOutOfRange)
		}
	}
	return nil
}

func (s Settings) Sets() int   { return s.Value(SetCount) }
func (s Settings) Reps() int   { return s.Value(RepCount) }
func (s Settings) Volume() int { return s.Value(BeepVolume) }

func (s Settings) Rest() time.Duration {
	return time.Duration(s.Value(RestSeconds)) * time.Second
}

func (s Settings) String() string {
	return fmt.Sprintf("SET: %d, REP: %d, REST: %d", s.Sets(), s.Reps(), s.Value(RestSeconds))
}
