package ui

import (
	"fmt"
	"image/color"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/itohio/stepcoach/pkg/pad"
	"github.com/itohio/stepcoach/pkg/step"
)

var (
	meterBackground = color.RGBA{R: 20, G: 20, B: 20, A: 255}
	meterReleased   = color.RGBA{R: 100, G: 200, B: 255, A: 255} // light blue
	meterPressed    = color.RGBA{R: 255, G: 165, B: 0, A: 255}   // orange
	meterThreshold  = color.RGBA{R: 200, G: 40, B: 40, A: 255}
	meterText       = color.RGBA{R: 150, G: 150, B: 150, A: 255}
)

// LevelMeter shows the load on both sensors as two bars with the pressed
// threshold marked across them.
type LevelMeter struct {
	widget.BaseWidget

	threshold uint16

	mu     sync.RWMutex
	levels [step.NumSides]uint16
}

// NewLevelMeter creates a meter for the given threshold.
func NewLevelMeter(threshold uint16) *LevelMeter {
	m := &LevelMeter{threshold: threshold}
	m.levels = [step.NumSides]uint16{pad.MaxReading, pad.MaxReading}
	m.ExtendBaseWidget(m)
	return m
}

// Update sets the displayed readings. Call on the fyne thread.
func (m *LevelMeter) Update(s pad.Sample) {
	m.mu.Lock()
	m.levels = [step.NumSides]uint16{s.Right, s.Left}
	m.mu.Unlock()
	m.Refresh()
}

// load converts a reading into a bar height fraction. Lower readings mean
// more force, so the bar grows as the reading drops.
func load(level uint16) float32 {
	if level > pad.MaxReading {
		level = pad.MaxReading
	}
	return 1 - float32(level)/pad.MaxReading
}

// CreateRenderer creates the widget renderer.
func (m *LevelMeter) CreateRenderer() fyne.WidgetRenderer {
	r := &meterRenderer{
		meter:      m,
		background: canvas.NewRectangle(meterBackground),
		threshold:  canvas.NewLine(meterThreshold),
	}
	r.threshold.StrokeWidth = 2
	for side := range r.bars {
		r.bars[side] = canvas.NewRectangle(meterReleased)
		r.labels[side] = canvas.NewText("", meterText)
		r.labels[side].TextSize = 10
	}
	r.objects = []fyne.CanvasObject{
		r.background,
		r.bars[step.Right], r.bars[step.Left],
		r.threshold,
		r.labels[step.Right], r.labels[step.Left],
	}
	return r
}

type meterRenderer struct {
	meter *LevelMeter

	background *canvas.Rectangle
	bars       [step.NumSides]*canvas.Rectangle
	labels     [step.NumSides]*canvas.Text
	threshold  *canvas.Line

	objects []fyne.CanvasObject
}

func (r *meterRenderer) MinSize() fyne.Size {
	return fyne.NewSize(120, 160)
}

func (r *meterRenderer) Layout(size fyne.Size) {
	r.background.Resize(size)
	r.Refresh()
}

func (r *meterRenderer) Refresh() {
	r.meter.mu.RLock()
	levels := r.meter.levels
	r.meter.mu.RUnlock()

	size := r.meter.Size()
	if size.Width == 0 || size.Height == 0 {
		return
	}

	const margin, labelHeight = 8, 14
	plotHeight := size.Height - 2*margin - labelHeight
	barWidth := (size.Width - 3*margin) / 2

	// right bar on the right, as seen standing on the pad
	x := [step.NumSides]float32{margin*2 + barWidth, margin}
	for side, level := range levels {
		h := plotHeight * load(level)
		bar := r.bars[side]
		bar.FillColor = meterReleased
		if level < r.meter.threshold {
			bar.FillColor = meterPressed
		}
		bar.Move(fyne.NewPos(x[side], margin+plotHeight-h))
		bar.Resize(fyne.NewSize(barWidth, h))
		bar.Refresh()

		label := r.labels[side]
		label.Text = fmt.Sprintf("%s %d", step.Side(side), level)
		label.Move(fyne.NewPos(x[side], margin+plotHeight+2))
		label.Refresh()
	}

	y := margin + plotHeight*(1-load(r.meter.threshold))
	r.threshold.Position1 = fyne.NewPos(margin/2, y)
	r.threshold.Position2 = fyne.NewPos(size.Width-margin/2, y)
	r.threshold.Refresh()
	r.background.Refresh()
}

func (r *meterRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

func (r *meterRenderer) Destroy() {}
