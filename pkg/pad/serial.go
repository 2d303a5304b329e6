package pad

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.bug.st/serial"

	"github.com/itohio/stepcoach/pkg/step"
)

// DefaultBaudRate is the UART speed of the pad firmware.
const DefaultBaudRate = 115200

// Commands understood by the pad firmware.
const (
	cmdBeep   = "B1\n"
	cmdMute   = "B0\n"
	cmdVolume = "V%d\n"
)

// Ports returns the names of available serial ports.
func Ports() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}
	return ports, nil
}

// Serial is a connection to the pad MCU.
type Serial struct {
	port     string
	baudRate int
	logger   *log.Logger

	mu        sync.RWMutex
	conn      io.ReadWriteCloser
	latest    Sample
	cancel    context.CancelFunc
	done      chan struct{}
	connected bool
}

// New creates a pad on the given serial port.
func New(port string, baudRate int, logger *log.Logger) *Serial {
	if baudRate == 0 {
		baudRate = DefaultBaudRate
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Serial{
		port:     port,
		baudRate: baudRate,
		logger:   logger,
		latest:   Sample{Right: MaxReading, Left: MaxReading},
	}
}

// Connect opens the serial port and starts reading samples.
func (d *Serial) Connect() error {
	d.mu.RLock()
	connected := d.connected
	d.mu.RUnlock()
	if connected {
		return ErrAlreadyConnected
	}

	port, err := serial.Open(d.port, &serial.Mode{BaudRate: d.baudRate})
	if err != nil {
		return fmt.Errorf("failed to open serial port %s: %w", d.port, err)
	}
	if err := d.attach(port); err != nil {
		port.Close()
		return err
	}
	d.logger.Printf("Pad: connected to %s at %d baud", d.port, d.baudRate)
	return nil
}

// attach starts reading from conn.
func (d *Serial) attach(conn io.ReadWriteCloser) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.connected {
		return ErrAlreadyConnected
	}

	ctx, cancel := context.WithCancel(context.Background())
	d.conn = conn
	d.cancel = cancel
	d.done = make(chan struct{})
	d.connected = true

	go d.readSamples(ctx, conn, d.done)
	return nil
}

// Close closes the connection and waits for the reader to stop.
func (d *Serial) Close() error {
	d.mu.Lock()
	if !d.connected {
		d.mu.Unlock()
		return nil
	}
	d.cancel()
	conn, done := d.conn, d.done
	d.conn = nil
	d.connected = false
	d.latest = Sample{Right: MaxReading, Left: MaxReading}
	d.mu.Unlock()

	err := conn.Close()
	<-done
	if err != nil {
		return fmt.Errorf("failed to close serial port: %w", err)
	}
	return nil
}

// IsConnected returns whether the pad is currently connected.
func (d *Serial) IsConnected() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.connected
}

// Latest returns the last sample received. Before the first sample both
// sides read as unloaded.
func (d *Serial) Latest() Sample {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.latest
}

// Read implements step.Sensor.
func (d *Serial) Read(side step.Side) uint16 {
	return d.Latest().Level(side)
}

// Beep turns the buzzer on.
func (d *Serial) Beep() {
	d.send(cmdBeep)
}

// Mute turns the buzzer off.
func (d *Serial) Mute() {
	d.send(cmdMute)
}

// SetVolume sets the buzzer level. Zero silences it.
func (d *Serial) SetVolume(level int) {
	if level < 0 {
		level = 0
	}
	d.send(fmt.Sprintf(cmdVolume, level))
}

// send writes a command. Audio is best effort: failures are logged only.
func (d *Serial) send(cmd string) {
	if err := d.write(cmd); err != nil {
		d.logger.Printf("Pad: %v", err)
	}
}

func (d *Serial) write(cmd string) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if !d.connected {
		return ErrNotConnected
	}
	if _, err := io.WriteString(d.conn, cmd); err != nil {
		return fmt.Errorf("failed to send %q: %w", strings.TrimSpace(cmd), err)
	}
	return nil
}

// readSamples reads lines from the pad and keeps the latest sample.
func (d *Serial) readSamples(ctx context.Context, r io.Reader, done chan struct{}) {
	defer close(done)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		sample, err := parseLine(line)
		if err != nil {
			d.logger.Printf("Pad: failed to parse line '%s': %v", line, err)
			continue
		}

		d.mu.Lock()
		d.latest = sample
		d.mu.Unlock()
	}

	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		d.logger.Printf("Pad: error reading from serial port: %v", err)
	}
}

// parseLine parses a line from the MCU into a Sample.
// Format: unix_micros,right,left
// Example: 1234567890123,3900,812
func parseLine(line string) (Sample, error) {
	parts := strings.Split(line, ",")
	if len(parts) != 3 {
		return Sample{}, fmt.Errorf("invalid line format: expected 3 comma-separated values, got %d", len(parts))
	}

	micros, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return Sample{}, fmt.Errorf("invalid timestamp: %w", err)
	}

	right, err := parseReading(parts[1])
	if err != nil {
		return Sample{}, fmt.Errorf("invalid right reading: %w", err)
	}
	left, err := parseReading(parts[2])
	if err != nil {
		return Sample{}, fmt.Errorf("invalid left reading: %w", err)
	}

	return Sample{
		Timestamp: time.UnixMicro(micros),
		Right:     right,
		Left:      left,
	}, nil
}

func parseReading(s string) (uint16, error) {
	v, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, err
	}
	if v > MaxReading {
		return 0, fmt.Errorf("out of range: %d (max %d)", v, MaxReading)
	}
	return uint16(v), nil
}
