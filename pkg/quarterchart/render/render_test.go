package render

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/quarterchart-go/pkg/quarterchart/models"
	"github.com/ukaji3/quarterchart-go/pkg/quarterchart/view"
)

func window(quarters []string, categories []string, values ...[]float64) models.Window {
	w := models.Window{Size: view.WindowSize, Quarters: quarters}
	for qi, q := range quarters {
		entry := models.SeriesEntry{Quarter: q, Values: map[string]float64{}}
		for ci, c := range categories {
			entry.Values[c] = values[qi][ci]
		}
		w.Series = append(w.Series, entry)
	}
	return w
}

func input(w models.Window, categories []string) Input {
	return Input{
		Window:     w,
		Categories: categories,
		Color:      func(c string) string { return map[string]string{"A": "#FF0000", "B": "#00FF00"}[c] },
		Viewport:   Viewport{Width: 588, Height: 474, Margins: DefaultMargins},
		Scale:      view.ScaleRaw,
		Format:     view.NewFormatter("en"),
	}
}

func TestNiceDomainAndTicks(t *testing.T) {
	tests := []struct {
		max      float64
		wantMax  float64
		wantTick []float64
	}{
		{max: 1005, wantMax: 1100, wantTick: []float64{0, 200, 400, 600, 800, 1000}},
		{max: 87, wantMax: 90, wantTick: []float64{0, 20, 40, 60, 80}},
		{max: 1, wantMax: 1, wantTick: []float64{0, 0.2, 0.4, 0.6, 0.8, 1}},
	}
	for _, tt := range tests {
		l := Linear{D0: 0, D1: tt.max, R0: 100, R1: 0}.Nice(10)
		assert.Equal(t, tt.wantMax, l.D1)
		ticks := l.Ticks(YTickCount)
		require.Len(t, ticks, len(tt.wantTick))
		for i := range ticks {
			assert.InDelta(t, tt.wantTick[i], ticks[i], 1e-9)
		}
	}
}

func TestBand(t *testing.T) {
	b := NewBand([]string{"a", "b"}, 0, 100, 0.18)
	step := 100 / (2 - 0.18 + 0.36)
	assert.InDelta(t, step*0.82, b.Bandwidth(), 1e-9)
	assert.InDelta(t, step*0.18, b.X("a"), 1e-9)
	assert.InDelta(t, b.X("a")+step, b.X("b"), 1e-9)
}

func TestLayoutStacksInCategoryOrder(t *testing.T) {
	w := window([]string{"2020-Q1", "2020-Q2"}, []string{"A", "B"}, []float64{300, 700}, []float64{100, 5})

	s := Layout(input(w, []string{"B", "A"}))
	require.Len(t, s.Segments, 4)

	byKey := map[Key]Segment{}
	for _, seg := range s.Segments {
		byKey[seg.Key] = seg
	}
	b1 := byKey[Key{"B", "2020-Q1"}]
	a1 := byKey[Key{"A", "2020-Q1"}]
	assert.Equal(t, 0.0, b1.Y0)
	assert.Equal(t, 700.0, b1.Y1)
	assert.Equal(t, 700.0, a1.Y0)
	assert.Equal(t, 1000.0, a1.Y1)
	assert.Equal(t, "#00FF00", b1.Fill)

	assert.Equal(t, [2]float64{0, 1000}, s.YDomain)
	assert.InDelta(t, s.Plot.H, b1.Rect.Y+b1.Rect.H, 1e-9)
	assert.InDelta(t, b1.Rect.Y, a1.Rect.Y+a1.Rect.H, 1e-9)

	assert.Equal(t, 1.0, a1.Label.Opacity)
	assert.Equal(t, "300", a1.Label.Text)

	b2 := byKey[Key{"B", "2020-Q2"}]
	assert.Less(t, b2.Rect.H, LabelMinHeight)
	assert.Equal(t, 0.0, b2.Label.Opacity)
}

func TestLayoutZeroValuesHideLabels(t *testing.T) {
	w := window([]string{"2020-Q1"}, []string{"A"}, []float64{0})
	s := Layout(input(w, []string{"A"}))
	assert.Equal(t, [2]float64{0, 1}, s.YDomain)
	assert.Equal(t, 0.0, s.Segments[0].Label.Opacity)
}

func TestDiffRoles(t *testing.T) {
	w1 := window([]string{"Q1", "Q2"}, []string{"A"}, []float64{10}, []float64{20})
	w2 := window([]string{"Q2", "Q3"}, []string{"A"}, []float64{20}, []float64{30})
	s1 := Layout(input(w1, []string{"A"}))
	s2 := Layout(input(w2, []string{"A"}))

	ops := Diff(s1.Segments, s2.Segments, s2.Baseline())
	roles := map[string]Role{}
	for _, op := range ops {
		roles[op.Key.Quarter] = op.Role
	}
	assert.Equal(t, map[string]Role{"Q1": Exit, "Q2": Update, "Q3": Enter}, roles)

	for _, op := range ops {
		switch op.Role {
		case Enter:
			start := op.At(0)
			assert.Equal(t, 0.0, start.Rect.H)
			assert.Equal(t, s2.Baseline(), start.Rect.Y)
			assert.Equal(t, op.To.Rect, op.At(1).Rect)
		case Exit:
			end := op.At(1)
			assert.Equal(t, 0.0, end.Rect.H)
			assert.Equal(t, 0.0, end.Label.Opacity)
		}
	}
}

func TestEaseCubicInOut(t *testing.T) {
	assert.Equal(t, 0.0, EaseCubicInOut(0))
	assert.Equal(t, 0.5, EaseCubicInOut(0.5))
	assert.Equal(t, 1.0, EaseCubicInOut(1))
	assert.Less(t, EaseCubicInOut(0.25), 0.25)
	assert.Equal(t, 0.5, Progress(TransitionDuration/2))
	assert.Equal(t, 1.0, Progress(2*TransitionDuration))
}

func TestRendererAnimatesFromDisplayedFrame(t *testing.T) {
	w1 := window([]string{"Q1"}, []string{"A"}, []float64{10})
	w2 := window([]string{"Q1"}, []string{"A"}, []float64{40})
	var r Renderer

	first := r.Render(Layout(input(w1, []string{"A"})), 1)
	require.Len(t, first.Ops, 1)
	assert.Equal(t, Enter, first.Ops[0].Role)

	half := first.Frame(0.5).Segments[0]
	second := r.Render(Layout(input(w2, []string{"A"})), 0.5)
	require.Len(t, second.Ops, 1)
	assert.Equal(t, Update, second.Ops[0].Role)
	assert.Equal(t, half.Rect, second.Ops[0].From.Rect)
	assert.Equal(t, "40", second.Frame(0).Segments[0].Label.Text)

	r.Reset()
	third := r.Render(Layout(input(w2, []string{"A"})), 1)
	assert.Equal(t, Enter, third.Ops[0].Role)
}

func TestExitingSegmentsDropWhenSettled(t *testing.T) {
	w1 := window([]string{"Q1"}, []string{"A"}, []float64{10})
	w2 := window([]string{"Q2"}, []string{"A"}, []float64{10})
	var r Renderer
	r.Render(Layout(input(w1, []string{"A"})), 1)
	tr := r.Render(Layout(input(w2, []string{"A"})), 1)

	assert.Len(t, tr.Frame(0.3).Segments, 2)
	settled := tr.Frame(1)
	assert.True(t, settled.Settled())
	assert.Len(t, settled.Segments, 1)
}

func TestTooltip(t *testing.T) {
	w := window([]string{"2020-Q1"}, []string{"A"}, []float64{1234567})
	in := input(w, []string{"A"})
	in.Scale = view.ScaleThousands
	s := Layout(in)

	seg := s.Segments[0]
	px := s.Plot.X + seg.Rect.X + seg.Rect.W/2
	py := s.Plot.Y + seg.Rect.Y + seg.Rect.H/2
	tip, ok := s.Tooltip(px, py)
	require.True(t, ok)
	assert.Equal(t, "2020-Q1", tip.Quarter)
	assert.Equal(t, "A", tip.Category)
	assert.Equal(t, "1,235k", tip.Scaled)
	assert.Equal(t, "1,234,567", tip.Raw)
	assert.Equal(t, px+TooltipOffset, tip.X)

	_, ok = s.Tooltip(1, 1)
	assert.False(t, ok)
}

func TestWriteSVG(t *testing.T) {
	w := window([]string{"2020-Q1"}, []string{"A & B"}, []float64{50})
	s := Layout(input(w, []string{"A & B"}))
	var buf bytes.Buffer
	require.NoError(t, WriteSVG(&buf, Transition{Target: s, Ops: Diff(nil, s.Segments, s.Baseline())}.Frame(1)))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "<svg"))
	assert.Contains(t, out, "A &amp; B")
	assert.Contains(t, out, "2020-Q1")
	assert.Equal(t, 1, strings.Count(out, "<rect"))
	assert.False(t, math.IsNaN(s.Segments[0].Rect.H))
}
