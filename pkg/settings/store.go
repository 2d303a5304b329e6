package settings

import (
	"fmt"
	"io"
	"log"
)

// Store loads and saves settings through a Backend. Corrupt or unreadable
// blocks are replaced by defaults, so Load never fails.
type Store struct {
	backend Backend
	logger  *log.Logger
}

// NewStore creates a store. A nil logger discards messages.
func NewStore(backend Backend, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Store{backend: backend, logger: logger}
}

// Load reads and validates the stored block. On any failure the defaults are
// written back and returned.
func (s *Store) Load() Settings {
	b, err := s.backend.ReadBlock()
	if err != nil {
		s.logger.Printf("Settings: read failed: %v, resetting to defaults", err)
		return s.ResetToDefault()
	}

	settings, err := Decode(b)
	if err != nil {
		s.logger.Printf("Settings: block % x rejected: %v, resetting to defaults", b[:], err)
		return s.ResetToDefault()
	}

	s.logger.Printf("Settings: loaded %s, volume %d", settings, settings.Volume())
	return settings
}

// Save persists settings with a fresh checksum. The block is committed to the
// backend before Save returns.
func (s *Store) Save(settings Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	if err := s.backend.WriteBlock(Encode(settings)); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	s.logger.Printf("Settings: saved %s, volume %d", settings, settings.Volume())
	return nil
}

// ResetToDefault writes the default block and returns the defaults. A failed
// write is logged; the defaults are still returned.
func (s *Store) ResetToDefault() Settings {
	def := Default()
	if err := s.backend.WriteBlock(Encode(def)); err != nil {
		s.logger.Printf("Settings: failed to write defaults: %v", err)
	}
	return def
}
