package settings

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// Backend is durable storage for one settings block.
type Backend interface {
	ReadBlock() (Block, error)
	WriteBlock(Block) error
}

var (
	_ Backend = (*FileBackend)(nil)
	_ Backend = (*MemoryBackend)(nil)
)

// FileBackend keeps the block in a small file. Writes go to a temporary file
// which is synced and renamed over the target.
type FileBackend struct {
	path string
}

// NewFileBackend creates a backend storing the block at path.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

// Path returns the file location.
func (f *FileBackend) Path() string {
	return f.path
}

// ReadBlock reads exactly BlockSize bytes. A short file is an error.
func (f *FileBackend) ReadBlock() (Block, error) {
	var b Block

	file, err := os.Open(f.path)
	if err != nil {
		return b, fmt.Errorf("failed to open settings file: %w", err)
	}
	defer file.Close()

	if _, err := io.ReadFull(file, b[:]); err != nil {
		return b, fmt.Errorf("failed to read settings file: %w", err)
	}
	return b, nil
}

// WriteBlock replaces the file contents atomically.
func (f *FileBackend) WriteBlock(b Block) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create settings dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp settings file: %w", err)
	}
	tmpName := tmp.Name()

	_, err = tmp.Write(b[:])
	if err == nil {
		err = tmp.Sync()
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write settings file: %w", err)
	}

	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to commit settings file: %w", err)
	}
	return nil
}

// MemoryBackend keeps the block in memory. Useful for tests and the mock pad.
type MemoryBackend struct {
	mu      sync.Mutex
	block   Block
	written bool
	writes  int
	failErr error
}

// ErrNoBlock is returned by MemoryBackend before the first write.
var ErrNoBlock = errors.New("no settings block stored")

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

// NewMemoryBackendWith creates a backend preloaded with raw bytes.
func NewMemoryBackendWith(b Block) *MemoryBackend {
	return &MemoryBackend{block: b, written: true}
}

func (m *MemoryBackend) ReadBlock() (Block, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.written {
		return Block{}, ErrNoBlock
	}
	return m.block, nil
}

func (m *MemoryBackend) WriteBlock(b Block) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	m.block = b
	m.written = true
	m.writes++
	return nil
}

// Block returns the last stored block.
func (m *MemoryBackend) Block() Block {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.block
}

// Writes returns how many blocks were written.
func (m *MemoryBackend) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// FailWrites makes subsequent writes return err. Pass nil to clear.
func (m *MemoryBackend) FailWrites(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failErr = err
}
