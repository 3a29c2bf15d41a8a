package export

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/ukaji3/quarterchart-go/pkg/quarterchart/models"
	"github.com/ukaji3/quarterchart-go/pkg/quarterchart/render"
	"github.com/ukaji3/quarterchart-go/pkg/quarterchart/view"
)

func testScene() render.Scene {
	w := models.Window{
		Size:     view.WindowSize,
		Quarters: []string{"2020-Q1", "2020-Q2"},
		Series: []models.SeriesEntry{
			{Quarter: "2020-Q1", Values: map[string]float64{"A": 1000, "B": 500}},
			{Quarter: "2020-Q2", Values: map[string]float64{"A": 0, "B": 0}},
		},
	}
	return render.Layout(render.Input{
		Window:     w,
		Categories: []string{"A", "B"},
		Color:      func(c string) string { return map[string]string{"A": "#FF0000", "B": "#0000FF"}[c] },
		Viewport:   render.Viewport{Width: 400, Height: 300, Margins: render.DefaultMargins},
		Scale:      view.ScaleRaw,
		Format:     view.NewFormatter("en"),
	})
}

func TestWritePNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, PNG, testScene()))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 400, img.Bounds().Dx())
	assert.Equal(t, 300, img.Bounds().Dy())
}

func TestWriteSVG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, SVG, testScene()))
	assert.Contains(t, buf.String(), "<svg")
	assert.Contains(t, buf.String(), "2020-Q1")
}

func TestWriteEmptyScene(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, Write(&buf, PNG, render.Scene{}), ErrEmptyScene)
}

func TestHexColor(t *testing.T) {
	assert.Equal(t, drawing.Color{R: 255, G: 0, B: 0, A: 255}, hexColor("#FF0000"))
	assert.Equal(t, drawing.Color{R: 0x99, G: 0x99, B: 0x99, A: 255}, hexColor("nope"))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(".PNG")
	require.NoError(t, err)
	assert.Equal(t, PNG, f)
	_, err = ParseFormat("gif")
	assert.Error(t, err)
}
