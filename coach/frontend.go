package main

import (
	"context"
	"time"

	"fyne.io/fyne/v2/app"

	"github.com/itohio/stepcoach/pkg/config"
	"github.com/itohio/stepcoach/pkg/pad"
	"github.com/itohio/stepcoach/pkg/session"
	"github.com/itohio/stepcoach/pkg/tui"
	"github.com/itohio/stepcoach/pkg/ui"
)

// runGUI runs the machine behind a fyne window. Closing the window cancels
// the machine.
func runGUI(ctx context.Context, cfg *config.Config, dev pad.Device, newMachine func(frontEnd) *session.Machine) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	application := app.NewWithID("com.itohio.stepcoach")
	win := ui.New(application, cfg.Sensor.Threshold)
	machine := newMachine(win)

	done := make(chan error, 1)
	go func() {
		done <- machine.Run(ctx)
		win.Close()
	}()
	go win.Watch(ctx, dev, levelsInterval)

	win.ShowAndRun(cancel)
	cancel()
	return <-done
}

// runTUI runs the machine in the terminal. Escape or q cancels the machine,
// which then stops the event loop.
func runTUI(ctx context.Context, cfg *config.Config, dev pad.Device, newMachine func(frontEnd) *session.Machine) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	term := tui.New(cfg.Sensor.Threshold, cancel)
	machine := newMachine(term)

	done := make(chan error, 1)
	go func() {
		err := machine.Run(ctx)
		term.Stop()
		done <- err
	}()
	go func() {
		ticker := time.NewTicker(levelsInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				term.ShowLevels(dev.Latest())
			}
		}
	}()

	err := term.Run()
	// tview also stops itself on Ctrl-C
	cancel()
	if runErr := <-done; err == nil {
		err = runErr
	}
	return err
}
