package settings

// Error is a settings error.
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	ErrChecksum     = Error("settings block checksum mismatch")
	ErrOutOfRange   = Error("settings index out of range")
	ErrUnknownField = Error("unknown settings field")
)

// BlockSize is the size of the persisted settings record.
const BlockSize = 8

// Block is the persisted layout:
//
//	0    checksum, sum of bytes 1..7 mod 256
//	1    set count index
//	2    rep count index
//	3    rest seconds index
//	4    volume index
//	5..7 reserved, zero on write
type Block [BlockSize]byte

// Checksum returns the 8-bit sum of bytes 1..7.
func (b Block) Checksum() byte {
	var sum byte
	for _, v := range b[1:] {
		sum += v
	}
	return sum
}

// Valid reports whether the stored checksum matches the payload.
func (b Block) Valid() bool {
	return b[0] == b.Checksum()
}

// Encode lays out s as a block with zeroed reserved bytes and a fresh checksum.
func Encode(s Settings) Block {
	var b Block
	for i, idx := range s.Indices {
		b[1+i] = idx
	}
	b[0] = b.Checksum()
	return b
}

// Decode validates the checksum and every index of b.
func Decode(b Block) (Settings, error) {
	var s Settings
	for i := range s.Indices {
		s.Indices[i] = b[1+i]
	}
	if !b.Valid() {
		return s, ErrChecksum
	}
	if err := s.Validate(); err != nil {
		return s, err
	}
	return s, nil
}
