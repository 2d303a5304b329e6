package screen

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itohio/stepcoach/pkg/session"
	"github.com/itohio/stepcoach/pkg/settings"
	"github.com/itohio/stepcoach/pkg/step"
)

func TestModel_RendersEveryChange(t *testing.T) {
	var views []View
	m := New(func(v View) { views = append(views, v) })

	m.ShowStart(settings.Default(), 0)
	m.ShowButtons(session.ButtonBar{Labels: [3]string{"Setting", "", "Start"}, Primary: session.ButtonConfirm})

	require.Len(t, views, 2)
	assert.Equal(t, "STEP COACH", views[0].Title)
	assert.Equal(t, []string{"SET: 3", "REP: 20", "REST: 30s"}, views[0].Lines)
	assert.Equal(t, -1.0, views[0].Progress)
	assert.Equal(t, "Start", views[1].Bar.Labels[2])
	assert.Equal(t, views[1], m.View())
}

func TestModel_StartShowsCompleted(t *testing.T) {
	m := New(nil)
	m.ShowStart(settings.Default(), 7)
	assert.Contains(t, m.View().Lines, "Completed: 7")
}

func TestModel_PageKeepsBar(t *testing.T) {
	m := New(nil)
	bar := session.ButtonBar{Labels: [3]string{"", "", "OK"}, Primary: session.ButtonConfirm}
	m.ShowButtons(bar)
	m.ShowFinished(session.Workout{Sets: 3, Reps: 20, Steps: 60})
	assert.Equal(t, bar, m.View().Bar)
	assert.Equal(t, "60", m.View().Big)
}

func TestModel_Reps(t *testing.T) {
	m := New(nil)
	m.ShowSet(2, 3, 20)
	v := m.View()
	assert.Equal(t, "SET 2/3", v.Title)
	assert.Equal(t, "0", v.Big)
	assert.Equal(t, 0.0, v.Progress)

	m.ShowRep(5, 20, step.Sides(1<<step.Left))
	v = m.View()
	assert.Equal(t, "SET 2/3", v.Title)
	assert.Equal(t, "5", v.Big)
	assert.Equal(t, 0.25, v.Progress)
	assert.True(t, v.Sides.Has(step.Left))
}

func TestModel_Rest(t *testing.T) {
	tests := []struct {
		name      string
		remaining time.Duration
		big       string
		progress  float64
	}{
		{"full", 30 * time.Second, "30", 1},
		{"partial second rounds up", 29*time.Second + 125*time.Millisecond, "30", 0.9708333333333333},
		{"half", 15 * time.Second, "15", 0.5},
		{"last tick", 125 * time.Millisecond, "1", 0.004166666666666667},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(nil)
			m.ShowRest(tt.remaining, 30*time.Second)
			v := m.View()
			assert.Equal(t, "REST", v.Title)
			assert.Equal(t, tt.big, v.Big)
			assert.InDelta(t, tt.progress, v.Progress, 1e-9)
		})
	}
}

func TestModel_SettingItems(t *testing.T) {
	m := New(nil)
	m.ShowSettingItems(settings.RestSeconds, settings.Default())

	items := m.View().Items
	require.Len(t, items, settings.NumFields)
	assert.Equal(t, "Sets: 3", items[0].Text)
	assert.Equal(t, "Volume: 0", items[3].Text)
	for i, it := range items {
		assert.Equal(t, i == int(settings.RestSeconds), it.Selected)
	}
}

func TestModel_SettingValues(t *testing.T) {
	m := New(nil)
	m.ShowSettingValues(settings.RepCount, 3, settings.Default())

	v := m.View()
	assert.Equal(t, "Reps", v.Title)
	require.Len(t, v.Items, 6)
	assert.Equal(t, "30", v.Items[3].Text)
	assert.True(t, v.Items[3].Selected)
	assert.True(t, v.Items[1].Current, "stored value marked")
	assert.False(t, v.Items[3].Current)
}

func TestItem_String(t *testing.T) {
	tests := []struct {
		item Item
		want string
	}{
		{Item{Text: "20"}, "  20"},
		{Item{Text: "20", Selected: true}, "> 20"},
		{Item{Text: "20", Current: true}, "  20 *"},
		{Item{Text: "20", Selected: true, Current: true}, "> 20 *"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.item.String())
	}
}
