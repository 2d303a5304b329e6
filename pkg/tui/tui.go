// Package tui is the terminal front end built on tview.
package tui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/itohio/stepcoach/pkg/pad"
	"github.com/itohio/stepcoach/pkg/screen"
	"github.com/itohio/stepcoach/pkg/session"
	"github.com/itohio/stepcoach/pkg/step"
)

const progressWidth = 30

// keyButtons maps special keys onto the soft buttons. Runes a, s and d are
// handled in the input capture.
var keyButtons = map[tcell.Key]session.Button{
	tcell.KeyLeft:  session.ButtonReturn,
	tcell.KeyDown:  session.ButtonNext,
	tcell.KeyRight: session.ButtonConfirm,
	tcell.KeyEnter: session.ButtonConfirm,
}

var runeButtons = map[rune]session.Button{
	'a': session.ButtonReturn,
	's': session.ButtonNext,
	'd': session.ButtonConfirm,
}

// Terminal is the coach screen in a terminal. It implements session.Display
// through its model and session.Buttons through its latch.
type Terminal struct {
	*session.Latch
	*screen.Model

	app     *tview.Application
	body    *tview.TextView
	buttons *tview.TextView
	levels  *tview.TextView

	threshold uint16
	onQuit    func()
}

// New creates the terminal UI. onQuit runs when the user presses Escape or
// q.
func New(threshold uint16, onQuit func()) *Terminal {
	t := &Terminal{
		Latch:     &session.Latch{},
		app:       tview.NewApplication(),
		threshold: threshold,
		onQuit:    onQuit,
	}
	t.Model = screen.New(func(v screen.View) {
		t.app.QueueUpdateDraw(func() { t.apply(v) })
	})

	t.body = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	t.body.SetBorder(true).SetTitle(" Step Coach ")

	t.buttons = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)

	t.levels = tview.NewTextView().
		SetDynamicColors(true)
	t.levels.SetBorder(true).SetTitle(" Pad ")

	help := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter).
		SetText("[yellow]A[white]/[yellow]←[white] left  |  [yellow]S[white]/[yellow]↓[white] middle  |  [yellow]D[white]/[yellow]→[white] right  |  [yellow]Esc[white] quit")

	left := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(t.body, 0, 1, false).
		AddItem(t.buttons, 1, 0, false).
		AddItem(help, 1, 0, false)

	root := tview.NewFlex().
		AddItem(left, 0, 3, true).
		AddItem(t.levels, 24, 0, false)

	t.app.SetInputCapture(t.handleKey)
	t.app.SetRoot(root, true)
	return t
}

func (t *Terminal) handleKey(event *tcell.EventKey) *tcell.EventKey {
	if event.Key() == tcell.KeyEscape || (event.Key() == tcell.KeyRune && event.Rune() == 'q') {
		if t.onQuit != nil {
			t.onQuit()
		}
		return nil
	}
	if event.Key() == tcell.KeyRune {
		if b, ok := runeButtons[event.Rune()]; ok {
			t.Press(b)
			return nil
		}
		return event
	}
	if b, ok := keyButtons[event.Key()]; ok {
		t.Press(b)
		return nil
	}
	return event
}

func (t *Terminal) apply(v screen.View) {
	t.body.SetText(renderBody(v))
	t.buttons.SetText(renderBar(v.Bar))
}

// renderBody formats the main area with tview color tags.
func renderBody(v screen.View) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n[::b]%s[::-]\n\n", tview.Escape(v.Title))
	if v.Big != "" {
		fmt.Fprintf(&b, "[yellow::b]%s[-::-]\n", tview.Escape(v.Big))
	}
	for _, l := range v.Lines {
		fmt.Fprintf(&b, "%s\n", tview.Escape(l))
	}
	for _, it := range v.Items {
		if it.Selected {
			fmt.Fprintf(&b, "[black:white]%s[-:-]\n", tview.Escape(it.String()))
		} else {
			fmt.Fprintf(&b, "%s\n", tview.Escape(it.String()))
		}
	}
	if v.Progress >= 0 {
		fmt.Fprintf(&b, "\n%s\n", progressBar(v.Progress, progressWidth))
	}
	if v.Sides != 0 {
		fmt.Fprintf(&b, "\n[gray]%s[-]\n", v.Sides)
	}
	return b.String()
}

// renderBar formats the three soft buttons. The primary one is highlighted
// unless the blink phase inverts it.
func renderBar(bar session.ButtonBar) string {
	cells := make([]string, session.NumButtons)
	for i, label := range bar.Labels {
		cell := fmt.Sprintf("%-10s", label)
		switch {
		case label == "":
		case session.Button(i) == bar.Primary && !bar.Inverted:
			cell = "[black:yellow]" + tview.Escape(cell) + "[-:-]"
		default:
			cell = "[white:blue]" + tview.Escape(cell) + "[-:-]"
		}
		cells[i] = cell
	}
	return strings.Join(cells, "   ")
}

func progressBar(p float64, width int) string {
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	full := int(p*float64(width) + 0.5)
	return "[green]" + strings.Repeat("█", full) + "[gray]" + strings.Repeat("░", width-full) + "[-]"
}

// renderLevels formats both sensor readings.
func renderLevels(s pad.Sample, threshold uint16) string {
	var b strings.Builder
	for _, side := range []step.Side{step.Left, step.Right} {
		level := s.Level(side)
		color := "blue"
		if level < threshold {
			color = "orange"
		}
		fill := 1 - float64(level)/pad.MaxReading
		fmt.Fprintf(&b, "%-5s %4d\n[%s]%s[-]\n\n", side, level, color,
			strings.Repeat("█", int(fill*18+0.5)))
	}
	return b.String()
}

// ShowLevels updates the pad readings from any goroutine.
func (t *Terminal) ShowLevels(s pad.Sample) {
	t.app.QueueUpdateDraw(func() {
		t.levels.SetText(renderLevels(s, t.threshold))
	})
}

// Run runs the terminal event loop until Stop.
func (t *Terminal) Run() error {
	return t.app.Run()
}

// Stop ends the event loop.
func (t *Terminal) Stop() {
	t.app.Stop()
}
