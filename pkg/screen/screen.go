// Package screen turns session display calls into a View that a front end
// can draw. It holds no toolkit code.
package screen

import (
	"fmt"
	"sync"
	"time"

	"github.com/itohio/stepcoach/pkg/session"
	"github.com/itohio/stepcoach/pkg/settings"
	"github.com/itohio/stepcoach/pkg/step"
)

// Item is one row of a selectable list.
type Item struct {
	Text     string
	Selected bool // under the cursor
	Current  bool // the stored value
}

// String renders the item as a plain text row: a cursor mark in front and a
// star after the stored value.
func (it Item) String() string {
	prefix := "  "
	if it.Selected {
		prefix = "> "
	}
	if it.Current {
		return prefix + it.Text + " *"
	}
	return prefix + it.Text
}

// View is everything shown at one moment.
type View struct {
	Title string
	Big   string
	Lines []string
	Items []Item
	// Progress is in [0, 1]; negative hides the bar.
	Progress float64
	Sides    step.Sides
	Bar      session.ButtonBar
}

// Model implements session.Display by keeping a View and handing a copy to
// render after every change.
type Model struct {
	mu     sync.Mutex
	view   View
	render func(View)
}

var _ session.Display = (*Model)(nil)

// New creates a model. render is called synchronously from the machine
// goroutine and must not block.
func New(render func(View)) *Model {
	if render == nil {
		render = func(View) {}
	}
	return &Model{
		view:   View{Progress: -1, Bar: session.ButtonBar{Primary: session.NoButton}},
		render: render,
	}
}

// View returns the current view.
func (m *Model) View() View {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view
}

func (m *Model) update(fn func(v *View)) {
	m.mu.Lock()
	fn(&m.view)
	v := m.view
	m.mu.Unlock()
	m.render(v)
}

// page replaces the content but keeps the button bar.
func (m *Model) page(v View) {
	m.update(func(cur *View) {
		v.Bar = cur.Bar
		*cur = v
	})
}

func (m *Model) ShowStart(s settings.Settings, completed int) {
	lines := []string{
		fmt.Sprintf("SET: %d", s.Sets()),
		fmt.Sprintf("REP: %d", s.Reps()),
		fmt.Sprintf("REST: %ds", s.Value(settings.RestSeconds)),
	}
	if completed > 0 {
		lines = append(lines, fmt.Sprintf("Completed: %d", completed))
	}
	m.page(View{Title: "STEP COACH", Lines: lines, Progress: -1})
}

func (m *Model) ShowButtons(bar session.ButtonBar) {
	m.update(func(v *View) { v.Bar = bar })
}

func (m *Model) ShowSet(set, sets, reps int) {
	m.page(View{
		Title:    fmt.Sprintf("SET %d/%d", set, sets),
		Big:      "0",
		Lines:    []string{fmt.Sprintf("of %d", reps)},
		Progress: 0,
	})
}

func (m *Model) ShowRep(rep, reps int, sides step.Sides) {
	m.update(func(v *View) {
		v.Big = fmt.Sprint(rep)
		v.Lines = []string{fmt.Sprintf("of %d", reps)}
		v.Progress = ratio(rep, reps)
		v.Sides = sides
	})
}

func (m *Model) ShowRest(remaining, total time.Duration) {
	secs := int((remaining + time.Second - 1) / time.Second)
	m.update(func(v *View) {
		v.Title = "REST"
		v.Big = fmt.Sprint(secs)
		v.Lines = []string{"seconds"}
		v.Items = nil
		v.Progress = ratio(int(remaining), int(total))
		v.Sides = 0
	})
}

func (m *Model) ShowFinished(w session.Workout) {
	m.page(View{
		Title: "FINISHED",
		Big:   fmt.Sprint(w.Steps),
		Lines: []string{
			fmt.Sprintf("%d x %d steps", w.Sets, w.Reps),
			fmt.Sprintf("Time: %v", w.Duration().Round(time.Second)),
		},
		Progress: -1,
	})
}

func (m *Model) ShowSettingItems(item settings.Field, s settings.Settings) {
	items := make([]Item, 0, settings.NumFields)
	for _, f := range settings.Fields() {
		items = append(items, Item{
			Text:     fmt.Sprintf("%s: %d", f, s.Value(f)),
			Selected: f == item,
		})
	}
	m.page(View{Title: "SETTING", Items: items, Progress: -1})
}

func (m *Model) ShowSettingValues(item settings.Field, cursor int, s settings.Settings) {
	current := int(s.Index(item))
	opts := item.Options()
	items := make([]Item, len(opts))
	for i, v := range opts {
		items[i] = Item{Text: fmt.Sprint(v), Selected: i == cursor, Current: i == current}
	}
	m.page(View{Title: item.String(), Items: items, Progress: -1})
}

func ratio(n, total int) float64 {
	if total <= 0 {
		return 0
	}
	r := float64(n) / float64(total)
	if r > 1 {
		return 1
	}
	return r
}
