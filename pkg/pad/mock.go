package pad

import (
	"context"
	"sync"
	"time"

	"github.com/chewxy/math32"

	"github.com/itohio/stepcoach/pkg/config"
	"github.com/itohio/stepcoach/pkg/step"
)

// Mock simulates a pad with someone stepping right, left, right... at a
// fixed cadence.
type Mock struct {
	cfg config.MockConfig
	now func() time.Time

	mu        sync.RWMutex
	cancel    context.CancelFunc
	done      chan struct{}
	connected bool
	walking   bool
	start     time.Time
	latest    Sample

	beeping bool
	volume  int
	beeps   int
}

// NewMock creates a mock pad. A nil config takes the defaults.
func NewMock(cfg *config.MockConfig) *Mock {
	c := config.Default().Mock
	if cfg != nil {
		c = *cfg
	}
	return &Mock{
		cfg:     c,
		now:     time.Now,
		walking: true,
		latest:  Sample{Right: c.Released, Left: c.Released},
	}
}

// Connect starts the simulation.
func (m *Mock) Connect() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.connected {
		return ErrAlreadyConnected
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.done = make(chan struct{})
	m.connected = true
	m.start = m.now()

	go m.generateSamples(ctx, m.done)
	return nil
}

// Close stops the simulation.
func (m *Mock) Close() error {
	m.mu.Lock()
	if !m.connected {
		m.mu.Unlock()
		return nil
	}
	m.cancel()
	done := m.done
	m.connected = false
	m.mu.Unlock()

	<-done
	return nil
}

// IsConnected returns whether the mock is running.
func (m *Mock) IsConnected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.connected
}

// SetWalking pauses or resumes the simulated steps.
func (m *Mock) SetWalking(walking bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if walking && !m.walking {
		m.start = m.now()
	}
	m.walking = walking
}

// Latest returns the last simulated sample.
func (m *Mock) Latest() Sample {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.latest
}

// Read implements step.Sensor.
func (m *Mock) Read(side step.Side) uint16 {
	return m.Latest().Level(side)
}

// Beep records the buzzer as on.
func (m *Mock) Beep() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.beeping {
		m.beeps++
	}
	m.beeping = true
}

// Mute records the buzzer as off.
func (m *Mock) Mute() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.beeping = false
}

// SetVolume records the buzzer level.
func (m *Mock) SetVolume(level int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = level
}

// Buzzer reports whether the buzzer is on, its level and how many beeps
// were started.
func (m *Mock) Buzzer() (beeping bool, volume, beeps int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.beeping, m.volume, m.beeps
}

func (m *Mock) generateSamples(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(m.cfg.SampleRate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.update()
		}
	}
}

func (m *Mock) update() {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	sample := Sample{Timestamp: now, Right: m.cfg.Released, Left: m.cfg.Released}
	if m.walking {
		elapsed := now.Sub(m.start)
		sample.Right = mockLevel(&m.cfg, elapsed, step.Right)
		sample.Left = mockLevel(&m.cfg, elapsed, step.Left)
	}
	m.latest = sample
}

// mockLevel returns the simulated reading of side after elapsed. Each foot
// lands once per two cadence periods, the right one first; the load follows
// a half sine while the foot is down.
func mockLevel(cfg *config.MockConfig, elapsed time.Duration, side step.Side) uint16 {
	period := float32(cfg.Cadence.Seconds())
	if period <= 0 {
		return cfg.Released
	}
	t := float32(elapsed.Seconds())
	if side == step.Left {
		t -= period
	}
	phase := math32.Mod(t, 2*period)
	if phase < 0 {
		phase += 2 * period
	}

	var load float32
	down := cfg.Duty * period
	if phase < down {
		load = math32.Sin(math32.Pi * phase / down)
	}

	noise := (math32.Sin(t*377) + math32.Cos(t*1013)) * 0.5 * cfg.NoiseLevel
	level := float32(cfg.Released) - load*float32(int(cfg.Released)-int(cfg.Pressed)) + noise
	level = math32.Max(0, math32.Min(level, MaxReading))
	return uint16(level)
}
