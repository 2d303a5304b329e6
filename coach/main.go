package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/itohio/stepcoach/pkg/config"
	"github.com/itohio/stepcoach/pkg/history"
	"github.com/itohio/stepcoach/pkg/pad"
	"github.com/itohio/stepcoach/pkg/session"
	"github.com/itohio/stepcoach/pkg/settings"
	"github.com/itohio/stepcoach/pkg/step"
)

const levelsInterval = 50 * time.Millisecond

func main() {
	var (
		configFlag  = pflag.StringP("config", "c", "stepcoach.yaml", "Configuration file path")
		portFlag    = pflag.StringP("port", "p", "", "Serial port override (e.g., COM3 or /dev/ttyUSB0)")
		mockFlag    = pflag.Bool("mock", false, "Use a simulated pad instead of the serial port")
		uiFlag      = pflag.String("ui", "", "Front end: gui or tui (overrides config)")
		portsFlag   = pflag.Bool("list-ports", false, "List serial ports and exit")
		historyFlag = pflag.Int("history", 0, "Print the last N workouts and exit")
	)
	pflag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *portFlag != "" {
		cfg.Serial.Port = *portFlag
	}
	if *uiFlag != "" {
		cfg.UI.Backend = *uiFlag
	}

	switch {
	case *portsFlag:
		if err := listPorts(os.Stdout); err != nil {
			log.Fatal(err)
		}
		return
	case *historyFlag > 0:
		if err := printHistory(os.Stdout, cfg.Storage.HistoryDB, *historyFlag); err != nil {
			log.Fatal(err)
		}
		return
	}

	// the terminal front end owns stderr
	logger := newLogger(cfg.Log, cfg.UI.Backend != "tui")

	if err := run(cfg, *mockFlag, logger); err != nil {
		logger.Printf("Coach: %v", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger writes to the rotating log file when one is configured and to
// stderr when console is set.
func newLogger(cfg config.LogConfig, console bool) *log.Logger {
	var writers []io.Writer
	if cfg.File != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
		})
	}
	if console {
		writers = append(writers, os.Stderr)
	}
	if len(writers) == 0 {
		return log.New(io.Discard, "", 0)
	}
	return log.New(io.MultiWriter(writers...), "", log.LstdFlags|log.Lmicroseconds)
}

// frontEnd is a display with its own buttons.
type frontEnd interface {
	session.Display
	session.Buttons
}

func run(cfg *config.Config, mock bool, logger *log.Logger) error {
	var dev pad.Device
	if mock {
		dev = pad.NewMock(&cfg.Mock)
		logger.Printf("Coach: using simulated pad")
	} else {
		dev = pad.New(cfg.Serial.Port, cfg.Serial.BaudRate, logger)
	}
	if err := dev.Connect(); err != nil {
		return fmt.Errorf("failed to connect to pad: %w", err)
	}
	defer dev.Close()

	store := settings.NewStore(settings.NewFileBackend(cfg.Storage.SettingsFile), logger)

	var recorder session.Recorder
	if cfg.Storage.HistoryDB != "" {
		h, err := history.Open(cfg.Storage.HistoryDB)
		if err != nil {
			logger.Printf("Coach: history disabled: %v", err)
		} else {
			defer h.Close()
			recorder = h
		}
	}

	detector := step.NewDetector(step.NewDebouncer(dev, session.SystemClock{}, cfg.Sensor.Debounce()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	newMachine := func(fe frontEnd) *session.Machine {
		return session.New(store, session.Devices{
			Steps:   detector,
			Buttons: fe,
			Display: fe,
			Audio:   dev,
			Clock:   session.SystemClock{},
		}, session.Options{
			Timing:   cfg.Timing.Session(),
			Logger:   logger,
			Recorder: recorder,
			Observer: func(s session.State) { logger.Printf("Session: %s", s) },
		})
	}

	var err error
	switch cfg.UI.Backend {
	case "gui":
		err = runGUI(ctx, cfg, dev, newMachine)
	case "tui":
		err = runTUI(ctx, cfg, dev, newMachine)
	default:
		return fmt.Errorf("unknown ui backend %q", cfg.UI.Backend)
	}
	if errors.Is(err, context.Canceled) {
		logger.Printf("Coach: stopped")
		return nil
	}
	return err
}

func listPorts(w io.Writer) error {
	ports, err := pad.Ports()
	if err != nil {
		return err
	}
	if len(ports) == 0 {
		fmt.Fprintln(w, "no serial ports found")
	}
	for _, p := range ports {
		fmt.Fprintln(w, p)
	}
	return nil
}

func printHistory(w io.Writer, path string, n int) error {
	if path == "" {
		return errors.New("history is disabled in the configuration")
	}
	h, err := history.Open(path)
	if err != nil {
		return err
	}
	defer h.Close()

	entries, err := h.Recent(n)
	if err != nil {
		return err
	}
	for _, e := range entries {
		fmt.Fprintf(w, "%s  %d x %d  %4d steps  %v\n",
			e.Started.Local().Format("2006-01-02 15:04"), e.Sets, e.Reps, e.Steps, e.Duration().Round(time.Second))
	}

	totals, err := h.Totals()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "total: %d sessions, %d steps, %v\n", totals.Sessions, totals.Steps, totals.Active.Round(time.Second))
	return nil
}
