package tui

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/quarterchart-go/pkg/quarterchart/controller"
	"github.com/ukaji3/quarterchart-go/pkg/quarterchart/models"
	"github.com/ukaji3/quarterchart-go/pkg/quarterchart/prefs"
	"github.com/ukaji3/quarterchart-go/pkg/quarterchart/render"
	"github.com/ukaji3/quarterchart-go/pkg/quarterchart/view"
)

type recorder struct {
	mu     sync.Mutex
	events []controller.Event
	tried  []controller.Event
	reply  models.PreferenceDefaults
}

func (r *recorder) Post(ev controller.Event) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	if snap, ok := ev.(controller.ExportSnapshot); ok {
		snap.Reply <- r.reply
	}
	return true
}

func (r *recorder) TryPost(ev controller.Event) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tried = append(r.tried, ev)
	return true
}

func (r *recorder) last() controller.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return nil
	}
	return r.events[len(r.events)-1]
}

func legend(selected string, categories ...string) []controller.LegendItem {
	items := make([]controller.LegendItem, 0, len(categories))
	for _, c := range categories {
		items = append(items, controller.LegendItem{Category: c, Color: "#4E79A7", Selected: c == selected})
	}
	return items
}

func newTestModel(t *testing.T, v controller.View) (Model, *recorder) {
	t.Helper()
	rec := &recorder{}
	m := NewModel(rec, "data.xlsx", filepath.Join(t.TempDir(), prefs.PublishedFileName))
	m.width, m.height = 80, 30
	m.view = v
	return m, rec
}

func press(m Model, key string) Model {
	var msg tea.KeyMsg
	switch key {
	case "space":
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	case "right":
		msg = tea.KeyMsg{Type: tea.KeyRight}
	case "end":
		msg = tea.KeyMsg{Type: tea.KeyEnd}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		msg = tea.KeyMsg{Type: tea.KeyShiftTab}
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	updated, _ := m.Update(msg)
	return updated.(Model)
}

func TestResizePostsViewportInPixels(t *testing.T) {
	m, rec := newTestModel(t, controller.View{})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = updated.(Model)

	cols, rows := m.ChartSize()
	assert.Equal(t, 100, cols)
	assert.Equal(t, 40-headerRows-footerRows, rows)
	assert.Equal(t, controller.Resize{Width: 800, Height: float64(rows * CellHeight)}, rec.last())
}

func TestPlaybackKeys(t *testing.T) {
	m, rec := newTestModel(t, controller.View{MaxStart: 8, Scale: view.ScaleRaw})

	m = press(m, "space")
	assert.Equal(t, controller.TogglePlay{}, rec.last())
	m = press(m, "right")
	assert.Equal(t, controller.Step{Delta: 1}, rec.last())
	m = press(m, "end")
	assert.Equal(t, controller.Seek{Start: 8}, rec.last())
	press(m, "s")
	assert.Equal(t, controller.SetScale{Mode: view.ScaleThousands}, rec.last())
}

func TestSelectionWraps(t *testing.T) {
	m, rec := newTestModel(t, controller.View{Legend: legend("", "A", "B", "C")})
	press(m, "tab")
	assert.Equal(t, controller.Select{Category: "A"}, rec.last())
	press(m, "shift+tab")
	assert.Equal(t, controller.Select{Category: "C"}, rec.last())

	m.view.Legend = legend("C", "A", "B", "C")
	press(m, "tab")
	assert.Equal(t, controller.Select{Category: "A"}, rec.last())
	press(m, "esc")
	assert.Equal(t, controller.Select{Category: ""}, rec.last())
}

func TestReorderKeys(t *testing.T) {
	m, rec := newTestModel(t, controller.View{Legend: legend("B", "A", "B", "C")})
	press(m, "]")
	assert.Equal(t, controller.MoveCategory{From: "B", To: "C"}, rec.last())
	press(m, "[")
	assert.Equal(t, controller.MoveCategory{From: "B", To: "A"}, rec.last())

	m.view.Legend = legend("A", "A", "B", "C")
	n := len(rec.events)
	press(m, "[")
	assert.Len(t, rec.events, n, "bottom category cannot move further down")
}

func TestColorEditor(t *testing.T) {
	m, rec := newTestModel(t, controller.View{Legend: legend("", "A", "B")})
	m = press(m, "c")
	assert.Equal(t, editNone, m.edit)
	assert.NotEmpty(t, m.notice)

	m.view.Legend = legend("B", "A", "B")
	m = press(m, "c")
	require.Equal(t, editColor, m.edit)
	assert.Equal(t, "#4E79A7", m.input.Value())

	m.input.SetValue("#112233")
	m = press(m, "enter")
	assert.Equal(t, editNone, m.edit)
	assert.Equal(t, controller.SetColor{Color: "#112233"}, rec.last())

	m = press(m, "c")
	n := len(rec.events)
	m = press(m, "esc")
	assert.Equal(t, editNone, m.edit)
	assert.Len(t, rec.events, n)
}

func TestOpenWorkbook(t *testing.T) {
	m, rec := newTestModel(t, controller.View{})
	m = press(m, "o")
	require.Equal(t, editPath, m.edit)
	m.input.SetValue(" other.xlsx ")
	m = press(m, "enter")
	assert.Equal(t, controller.LoadRequested{Path: "other.xlsx"}, rec.last())
	assert.Equal(t, "other.xlsx", m.path)

	press(m, "r")
	assert.Equal(t, controller.LoadRequested{Path: "other.xlsx"}, rec.last())
}

func TestMouseHover(t *testing.T) {
	m, rec := newTestModel(t, controller.View{})
	updated, _ := m.Update(tea.MouseMsg{X: 10, Y: headerRows + 2, Action: tea.MouseActionMotion})
	m = updated.(Model)
	require.Len(t, rec.tried, 1)
	assert.Equal(t, controller.Hover{X: 10.5 * CellWidth, Y: 2.5 * CellHeight}, rec.tried[0])

	m.Update(tea.MouseMsg{X: 10, Y: 0, Action: tea.MouseActionMotion})
	assert.Len(t, rec.tried, 1, "no tooltip to hide")

	m.view.Tooltip = &render.Tooltip{Category: "A"}
	m.Update(tea.MouseMsg{X: 10, Y: 0, Action: tea.MouseActionMotion})
	require.Len(t, rec.tried, 2)
	assert.Equal(t, controller.HoverEnd{}, rec.tried[1])

	m.Update(tea.MouseMsg{X: 10, Y: headerRows, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.Len(t, rec.tried, 2)
}

func TestFocusReportsVisibility(t *testing.T) {
	m, rec := newTestModel(t, controller.View{})
	m.Update(tea.BlurMsg{})
	assert.Equal(t, controller.Visibility{Hidden: true}, rec.last())
	m.Update(tea.FocusMsg{})
	assert.Equal(t, controller.Visibility{Hidden: false}, rec.last())
}

func TestAnimationFollowsRenderedViews(t *testing.T) {
	now := time.Unix(100, 0)
	m, _ := newTestModel(t, controller.View{})
	m.now = func() time.Time { return now }

	updated, cmd := m.Update(viewMsg(controller.View{Status: "Loading…"}))
	m = updated.(Model)
	assert.Nil(t, cmd)
	assert.Equal(t, 0, m.frameGen)

	updated, cmd = m.Update(viewMsg(controller.View{Rendered: true, ExcelPath: "x.xlsx"}))
	m = updated.(Model)
	assert.NotNil(t, cmd)
	assert.Equal(t, 1, m.frameGen)
	assert.Equal(t, "x.xlsx", m.path)

	_, cmd = m.Update(frameMsg{gen: 0})
	assert.Nil(t, cmd, "stale frame")
	_, cmd = m.Update(frameMsg{gen: 1})
	assert.NotNil(t, cmd)

	now = now.Add(render.TransitionDuration)
	_, cmd = m.Update(frameMsg{gen: 1})
	assert.Nil(t, cmd, "transition settled")
}

func TestExportSnapshotWritesFile(t *testing.T) {
	m, rec := newTestModel(t, controller.View{})
	rec.reply = models.PreferenceDefaults{ColorsByCategory: map[string]string{"A": "#112233"}, CategoryOrder: []string{"A"}}

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e")})
	require.NotNil(t, cmd)
	msg := cmd()
	updated, _ = updated.(Model).Update(msg)
	m = updated.(Model)
	assert.Equal(t, "Wrote "+m.snapshotPath, m.notice)

	data, err := os.ReadFile(m.snapshotPath)
	require.NoError(t, err)
	d, err := prefs.ParsePublished(data)
	require.NoError(t, err)
	assert.Equal(t, rec.reply, d)
}

func TestViewShowsStatusAndLegend(t *testing.T) {
	m, _ := newTestModel(t, controller.View{
		Status:      "Loaded 20 quarters from data.xlsx",
		WindowLabel: "2000-Q1 → 2002-Q4  (showing 12/12)",
		PlayLabel:   "Play",
		Legend:      legend("A", "A", "B"),
		Tooltip:     &render.Tooltip{Quarter: "2000-Q1", Category: "A", Scaled: "1k", Raw: "1,000"},
	})
	out := m.View()
	assert.Contains(t, out, "Loaded 20 quarters")
	assert.Contains(t, out, "2000-Q1 → 2002-Q4")
	assert.Contains(t, out, "2000-Q1 · A: 1k (1,000)")
	assert.Contains(t, out, "B")

	m.showHelp = true
	assert.Contains(t, m.View(), "press any key")
	m = press(m, "x")
	assert.False(t, m.showHelp)
}
