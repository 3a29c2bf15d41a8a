// Package export renders a settled chart scene to a PNG or SVG file
// through go-chart's raster and vector renderers.
package export

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/ukaji3/quarterchart-go/pkg/quarterchart/prefs"
	"github.com/ukaji3/quarterchart-go/pkg/quarterchart/render"
)

// ErrEmptyScene is returned when the scene has no drawable area.
var ErrEmptyScene = errors.New("scene has no size")

// Format is an output image format.
type Format string

const (
	PNG Format = "png"
	SVG Format = "svg"
)

// ParseFormat accepts "png" or "svg"; a file extension may be passed.
func ParseFormat(s string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".") {
	case "png":
		return PNG, nil
	case "svg":
		return SVG, nil
	default:
		return "", fmt.Errorf("unsupported export format: %q (must be png or svg)", s)
	}
}

var (
	background = drawing.Color{R: 0x0B, G: 0x10, B: 0x20, A: 255}
	axisText   = drawing.Color{R: 0xD0, G: 0xD4, B: 0xDC, A: 255}
	gridLine   = drawing.Color{R: 255, G: 255, B: 255, A: 26}
	labelText  = drawing.Color{R: 255, G: 255, B: 255, A: 242}
)

// Provider returns the go-chart renderer for f.
func Provider(f Format) chart.RendererProvider {
	if f == SVG {
		return chart.SVG
	}
	return chart.PNG
}

// Write draws s in format f. Segments are drawn at their final
// positions; hidden labels are skipped.
func Write(out io.Writer, f Format, s render.Scene) error {
	w, h := int(math.Round(s.Width)), int(math.Round(s.Height))
	if w <= 0 || h <= 0 {
		return ErrEmptyScene
	}
	r, err := Provider(f)(w, h)
	if err != nil {
		return fmt.Errorf("failed to create %s renderer: %w", f, err)
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return fmt.Errorf("failed to load font: %w", err)
	}
	r.SetFont(font)

	fillRect(r, render.Rect{W: s.Width, H: s.Height}, background)

	ox, oy := s.Plot.X, s.Plot.Y
	r.SetFontSize(11)
	r.SetFontColor(axisText)
	for _, t := range s.YTicks {
		y := int(math.Round(oy + t.Y))
		r.SetStrokeColor(gridLine)
		r.SetStrokeWidth(1)
		r.MoveTo(int(ox), y)
		r.LineTo(int(ox+s.Plot.W), y)
		r.Stroke()

		box := r.MeasureText(t.Text)
		r.Text(t.Text, int(ox)-8-box.Width(), y+box.Height()/2)
	}

	r.SetTextRotation(chart.DegreesToRadians(-35))
	for _, t := range s.XTicks {
		box := r.MeasureText(t.Quarter)
		r.Text(t.Quarter, int(ox+t.X)-box.Width(), int(oy+s.Plot.H)+14)
	}
	r.ClearTextRotation()

	for _, seg := range s.Segments {
		if seg.Rect.H <= 0 {
			continue
		}
		rect := seg.Rect
		rect.X += ox
		rect.Y += oy
		fillRect(r, rect, hexColor(seg.Fill))
	}

	r.SetFontColor(labelText)
	for _, seg := range s.Segments {
		if seg.Label.Opacity <= 0 {
			continue
		}
		box := r.MeasureText(seg.Label.Text)
		r.Text(seg.Label.Text, int(ox+seg.Label.X)-box.Width()/2, int(oy+seg.Label.Y)+box.Height()/2)
	}

	if err := r.Save(out); err != nil {
		return fmt.Errorf("failed to write %s: %w", f, err)
	}
	return nil
}

func fillRect(r chart.Renderer, rect render.Rect, c drawing.Color) {
	x0, y0 := int(math.Round(rect.X)), int(math.Round(rect.Y))
	x1, y1 := int(math.Round(rect.X+rect.W)), int(math.Round(rect.Y+rect.H))
	r.SetFillColor(c)
	r.SetStrokeColor(c)
	r.SetStrokeWidth(0)
	r.MoveTo(x0, y0)
	r.LineTo(x1, y0)
	r.LineTo(x1, y1)
	r.LineTo(x0, y1)
	r.Close()
	r.Fill()
}

func hexColor(hex string) drawing.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		c, _ = colorful.Hex(prefs.FallbackColor)
	}
	r, g, b := c.RGB255()
	return drawing.Color{R: r, G: g, B: b, A: 255}
}
