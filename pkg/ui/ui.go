// Package ui is the desktop front end: a fyne window standing in for the
// coach's screen and its three buttons.
package ui

import (
	"context"
	"image/color"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"github.com/itohio/stepcoach/pkg/pad"
	"github.com/itohio/stepcoach/pkg/screen"
	"github.com/itohio/stepcoach/pkg/session"
)

// keyButtons maps keyboard shortcuts onto the soft buttons.
var keyButtons = map[fyne.KeyName]session.Button{
	fyne.KeyA:      session.ButtonReturn,
	fyne.KeyLeft:   session.ButtonReturn,
	fyne.KeyS:      session.ButtonNext,
	fyne.KeyDown:   session.ButtonNext,
	fyne.KeyD:      session.ButtonConfirm,
	fyne.KeyRight:  session.ButtonConfirm,
	fyne.KeyReturn: session.ButtonConfirm,
	fyne.KeyEnter:  session.ButtonConfirm,
}

// Window is the coach window. It implements session.Display through its
// model and session.Buttons through its latch.
type Window struct {
	*session.Latch
	*screen.Model

	win fyne.Window

	title    *canvas.Text
	big      *canvas.Text
	lines    *widget.Label
	items    *widget.Label
	progress *widget.ProgressBar
	buttons  [session.NumButtons]*widget.Button
	meter    *LevelMeter
}

// New creates the window. threshold marks the pressed level on the sensor
// meter.
func New(app fyne.App, threshold uint16) *Window {
	w := &Window{
		Latch: &session.Latch{},
		win:   app.NewWindow("Step Coach"),
		title: canvas.NewText("", color.White),
		big:   canvas.NewText("", color.White),
		lines: widget.NewLabel(""),
		items: widget.NewLabel(""),
		meter: NewLevelMeter(threshold),
	}
	w.Model = screen.New(func(v screen.View) {
		fyne.Do(func() { w.apply(v) })
	})

	w.title.TextSize = 24
	w.title.Alignment = fyne.TextAlignCenter
	w.title.TextStyle = fyne.TextStyle{Bold: true}
	w.big.TextSize = 96
	w.big.Alignment = fyne.TextAlignCenter
	w.big.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	w.lines.Alignment = fyne.TextAlignCenter
	w.items.TextStyle = fyne.TextStyle{Monospace: true}
	w.progress = widget.NewProgressBar()
	w.progress.TextFormatter = func() string { return "" }
	w.progress.Hide()

	bar := container.NewGridWithColumns(session.NumButtons)
	for i := range w.buttons {
		b := session.Button(i)
		w.buttons[i] = widget.NewButton("", func() { w.Press(b) })
		w.buttons[i].Disable()
		bar.Add(w.buttons[i])
	}

	screenArea := container.NewVBox(
		w.title,
		w.big,
		w.lines,
		container.NewCenter(w.items),
		layout.NewSpacer(),
		w.progress,
	)
	w.win.SetContent(container.NewBorder(nil, bar, nil, w.meter, screenArea))
	w.win.Resize(fyne.NewSize(640, 480))
	w.win.CenterOnScreen()

	w.win.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if b, ok := keyButtons[ev.Name]; ok {
			w.Press(b)
		}
	})

	return w
}

// apply draws v. Runs on the fyne thread.
func (w *Window) apply(v screen.View) {
	w.title.Text = v.Title
	w.title.Refresh()
	w.big.Text = v.Big
	w.big.Refresh()
	w.lines.SetText(strings.Join(v.Lines, "\n"))

	rows := make([]string, len(v.Items))
	for i, it := range v.Items {
		rows[i] = it.String()
	}
	w.items.SetText(strings.Join(rows, "\n"))

	if v.Progress < 0 {
		w.progress.Hide()
	} else {
		w.progress.SetValue(v.Progress)
		w.progress.Show()
	}

	for i, b := range w.buttons {
		label := v.Bar.Labels[i]
		b.SetText(label)
		if label == "" {
			b.Disable()
		} else {
			b.Enable()
		}
		b.Importance = widget.MediumImportance
		if session.Button(i) == v.Bar.Primary && !v.Bar.Inverted {
			b.Importance = widget.HighImportance
		}
		b.Refresh()
	}
}

// Watch feeds the sensor meter from dev until ctx is done.
func (w *Window) Watch(ctx context.Context, dev pad.Device, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s := dev.Latest()
			fyne.Do(func() { w.meter.Update(s) })
		}
	}
}

// ShowAndRun shows the window and runs the fyne event loop. onClose is
// called when the user closes the window.
func (w *Window) ShowAndRun(onClose func()) {
	w.win.SetOnClosed(onClose)
	w.win.ShowAndRun()
}

// Close closes the window from any goroutine.
func (w *Window) Close() {
	fyne.Do(w.win.Close)
}
