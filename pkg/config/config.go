package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/itohio/stepcoach/pkg/session"
	"github.com/itohio/stepcoach/pkg/step"
)

// Config represents the application configuration.
type Config struct {
	Serial  SerialConfig  `yaml:"serial"`
	Sensor  SensorConfig  `yaml:"sensor"`
	Timing  TimingConfig  `yaml:"timing"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
	UI      UIConfig      `yaml:"ui"`
	Mock    MockConfig    `yaml:"mock"`
}

// SerialConfig contains serial port configuration of the sensor pad.
type SerialConfig struct {
	Port     string `yaml:"port"`
	BaudRate int    `yaml:"baud_rate"`
}

// SensorConfig contains step debounce parameters.
type SensorConfig struct {
	Threshold   uint16        `yaml:"threshold"` // ADC counts; lower reads as pressed
	Samples     int           `yaml:"samples"`
	SampleDelay time.Duration `yaml:"sample_delay"`
	SettleDelay time.Duration `yaml:"settle_delay"`
}

// TimingConfig contains workout loop intervals.
type TimingConfig struct {
	StepInterval   time.Duration `yaml:"step_interval"`
	ButtonInterval time.Duration `yaml:"button_interval"`
	BlinkInterval  time.Duration `yaml:"blink_interval"`
	MuteDelay      time.Duration `yaml:"mute_delay"`
	RestTick       time.Duration `yaml:"rest_tick"`
}

// StorageConfig points at persisted state.
type StorageConfig struct {
	SettingsFile string `yaml:"settings_file"`
	HistoryDB    string `yaml:"history_db"` // empty disables history
}

// LogConfig contains log rotation settings.
type LogConfig struct {
	File       string `yaml:"file"` // empty logs to stderr only
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// UIConfig selects the display backend: "gui" or "tui".
type UIConfig struct {
	Backend string `yaml:"backend"`
}

// MockConfig contains mock pad configuration.
type MockConfig struct {
	Cadence    time.Duration `yaml:"cadence"`     // Time between simulated steps
	Duty       float32       `yaml:"duty"`        // Fraction of a step the foot is down
	Pressed    uint16        `yaml:"pressed"`     // ADC level with full load
	Released   uint16        `yaml:"released"`    // ADC level with no load
	NoiseLevel float32       `yaml:"noise_level"` // Noise amplitude in ADC counts
	SampleRate time.Duration `yaml:"sample_rate"`
}

// Default returns a default configuration with sensible values.
func Default() *Config {
	dir := defaultDir()
	def := step.DefaultDebounceConfig()
	timing := session.DefaultTiming()

	return &Config{
		Serial: SerialConfig{
			Port:     "/dev/ttyUSB0", // "COM3" on Windows
			BaudRate: 115200,
		},
		Sensor: SensorConfig{
			Threshold:   def.Threshold,
			Samples:     def.Samples,
			SampleDelay: def.SampleDelay,
			SettleDelay: def.SettleDelay,
		},
		Timing: TimingConfig{
			StepInterval:   timing.StepInterval,
			ButtonInterval: timing.ButtonInterval,
			BlinkInterval:  timing.BlinkInterval,
			MuteDelay:      timing.MuteDelay,
			RestTick:       timing.RestTick,
		},
		Storage: StorageConfig{
			SettingsFile: filepath.Join(dir, "settings.bin"),
			HistoryDB:    filepath.Join(dir, "history.db"),
		},
		Log: LogConfig{
			MaxSizeMB:  5,
			MaxBackups: 3,
			MaxAgeDays: 30,
		},
		UI: UIConfig{
			Backend: "gui",
		},
		Mock: MockConfig{
			Cadence:    1200 * time.Millisecond,
			Duty:       0.4,
			Pressed:    600,
			Released:   3600,
			NoiseLevel: 150,
			SampleRate: 5 * time.Millisecond,
		},
	}
}

func defaultDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(dir, "stepcoach")
}

// Load loads configuration from a YAML file. If the file doesn't exist or
// fields are missing, it uses default values.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ensureDefaults()

	return cfg, nil
}

// Save saves the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Debounce converts the sensor section.
func (s SensorConfig) Debounce() step.DebounceConfig {
	return step.DebounceConfig{
		Threshold:   s.Threshold,
		Samples:     s.Samples,
		SampleDelay: s.SampleDelay,
		SettleDelay: s.SettleDelay,
	}
}

// Session converts the timing section.
func (t TimingConfig) Session() session.Timing {
	return session.Timing{
		StepInterval:   t.StepInterval,
		ButtonInterval: t.ButtonInterval,
		BlinkInterval:  t.BlinkInterval,
		MuteDelay:      t.MuteDelay,
		RestTick:       t.RestTick,
	}
}

// ensureDefaults ensures that all required fields have default values if missing.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.Serial.Port == "" {
		c.Serial.Port = def.Serial.Port
	}
	if c.Serial.BaudRate == 0 {
		c.Serial.BaudRate = def.Serial.BaudRate
	}

	if c.Sensor.Threshold == 0 {
		c.Sensor.Threshold = def.Sensor.Threshold
	}
	if c.Sensor.Samples <= 0 {
		c.Sensor.Samples = def.Sensor.Samples
	}

	if c.Timing.StepInterval == 0 {
		c.Timing.StepInterval = def.Timing.StepInterval
	}
	if c.Timing.ButtonInterval == 0 {
		c.Timing.ButtonInterval = def.Timing.ButtonInterval
	}
	if c.Timing.BlinkInterval == 0 {
		c.Timing.BlinkInterval = def.Timing.BlinkInterval
	}
	if c.Timing.MuteDelay == 0 {
		c.Timing.MuteDelay = def.Timing.MuteDelay
	}
	if c.Timing.RestTick == 0 {
		c.Timing.RestTick = def.Timing.RestTick
	}

	if c.Storage.SettingsFile == "" {
		c.Storage.SettingsFile = def.Storage.SettingsFile
	}

	if c.Log.MaxSizeMB == 0 {
		c.Log.MaxSizeMB = def.Log.MaxSizeMB
	}

	if c.UI.Backend == "" {
		c.UI.Backend = def.UI.Backend
	}

	if c.Mock.Cadence == 0 {
		c.Mock.Cadence = def.Mock.Cadence
	}
	if c.Mock.Duty <= 0 || c.Mock.Duty >= 1 {
		c.Mock.Duty = def.Mock.Duty
	}
	if c.Mock.Released == 0 {
		c.Mock.Released = def.Mock.Released
	}
	if c.Mock.SampleRate == 0 {
		c.Mock.SampleRate = def.Mock.SampleRate
	}
}
