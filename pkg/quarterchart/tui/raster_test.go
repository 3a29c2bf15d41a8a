package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/quarterchart-go/pkg/quarterchart/models"
	"github.com/ukaji3/quarterchart-go/pkg/quarterchart/render"
	"github.com/ukaji3/quarterchart-go/pkg/quarterchart/view"
)

func TestRasterizeFillsGrid(t *testing.T) {
	const cols, rows = 60, 14
	w := models.Window{
		Size:     view.WindowSize,
		Quarters: []string{"Q1", "Q2"},
		Series: []models.SeriesEntry{
			{Quarter: "Q1", Values: map[string]float64{"A": 100, "B": 50}},
			{Quarter: "Q2", Values: map[string]float64{"A": 80, "B": 20}},
		},
	}
	scene := render.Layout(render.Input{
		Window:     w,
		Categories: []string{"A", "B"},
		Viewport:   render.Viewport{Width: cols * CellWidth, Height: rows * CellHeight, Margins: render.DefaultMargins},
		Format:     view.NewFormatter("en"),
	})
	var r render.Renderer
	frame := r.Render(scene, 1).Frame(1)

	lines := Rasterize(frame, cols, rows)
	require.Len(t, lines, rows)
	plain := make([]string, len(lines))
	for i, l := range lines {
		plain[i] = ansi.Strip(l)
		assert.Equal(t, cols, ansi.StringWidth(plain[i]), "row %d", i)
	}
	all := strings.Join(plain, "\n")
	assert.Contains(t, all, "Q1")
	assert.Contains(t, all, "Q2")
	assert.Contains(t, all, "─")
	assert.Contains(t, all, "┤")
	assert.Contains(t, all, "160", "top y tick")
}

func TestRasterizeEmpty(t *testing.T) {
	assert.Nil(t, Rasterize(render.Frame{}, 0, 10))
	lines := Rasterize(render.Frame{}, 5, 2)
	assert.Equal(t, []string{"     ", "     "}, lines)
}

func TestTextOn(t *testing.T) {
	assert.Equal(t, "#000000", textOn("#FFFFFF"))
	assert.Equal(t, "#FFFFFF", textOn("#000080"))
	assert.Equal(t, "#000000", textOn("bogus"))
}
