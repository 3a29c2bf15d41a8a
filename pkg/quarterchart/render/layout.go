// Package render turns a chart window into stacked-bar draw operations
// and animates between successive frames.
package render

import (
	"time"

	"github.com/samber/lo"

	"github.com/ukaji3/quarterchart-go/pkg/quarterchart/models"
	"github.com/ukaji3/quarterchart-go/pkg/quarterchart/view"
)

const (
	// TransitionDuration is the length of every enter/update/exit animation.
	TransitionDuration = 520 * time.Millisecond
	// LabelMinHeight is the smallest segment height, in pixels, that shows
	// a value label.
	LabelMinHeight = 14.0
	// BandPadding is the gap between bars as a fraction of the band step.
	BandPadding = 0.18
	// YTickCount is the requested number of y-axis ticks.
	YTickCount = 6
)

// Margins surround the plot area.
type Margins struct {
	Top, Right, Bottom, Left float64
}

// DefaultMargins leave room for rotated quarter labels and the y axis.
var DefaultMargins = Margins{Top: 18, Right: 18, Bottom: 56, Left: 70}

// Viewport is the drawing surface size.
type Viewport struct {
	Width, Height float64
	Margins       Margins
}

// Key identifies a segment across frames.
type Key struct {
	Category string
	Quarter  string
}

type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether (x, y) falls inside r.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Label is a value label centered in its segment. Hidden labels keep
// their place with Opacity 0 so they can fade back in.
type Label struct {
	Text    string
	X, Y    float64
	Opacity float64
}

// Segment is one category's slice of one quarter's bar, in plot
// coordinates.
type Segment struct {
	Key
	Value  float64
	Y0, Y1 float64
	Rect   Rect
	Fill   string
	Label  Label
}

type YTick struct {
	Value float64
	Y     float64
	Text  string
}

type XTick struct {
	Quarter string
	X       float64
}

// Scene is the fully laid out target state of one render.
type Scene struct {
	Viewport
	Plot     Rect
	YDomain  [2]float64
	YTicks   []YTick
	XTicks   []XTick
	Segments []Segment
	Scale    view.ScaleMode

	format view.Formatter
}

// Baseline is the y coordinate of the value axis origin.
func (s Scene) Baseline() float64 {
	return s.Plot.H
}

// Input is everything Layout needs for one frame.
type Input struct {
	Window     models.Window
	Categories []string
	Color      func(category string) string
	Viewport   Viewport
	Scale      view.ScaleMode
	Format     view.Formatter
}

// Layout stacks the window's values in category order and projects them
// into the viewport.
func Layout(in Input) Scene {
	m := in.Viewport.Margins
	innerW := max(1, in.Viewport.Width-m.Left-m.Right)
	innerH := max(1, in.Viewport.Height-m.Top-m.Bottom)

	s := Scene{
		Viewport: in.Viewport,
		Plot:     Rect{X: m.Left, Y: m.Top, W: innerW, H: innerH},
		Scale:    in.Scale,
		format:   in.Format,
		Segments: []Segment{},
	}

	x := NewBand(in.Window.Quarters, 0, innerW, BandPadding)
	bw := x.Bandwidth()

	type stacked struct {
		key    Key
		value  float64
		y0, y1 float64
	}
	layers := make([][]stacked, len(in.Categories))
	tops := make([]float64, len(in.Window.Series))
	for ci, cat := range in.Categories {
		layers[ci] = make([]stacked, len(in.Window.Series))
		for qi, entry := range in.Window.Series {
			v := entry.Values[cat]
			layers[ci][qi] = stacked{key: Key{Category: cat, Quarter: entry.Quarter}, value: v, y0: tops[qi], y1: tops[qi] + v}
			tops[qi] += v
		}
	}

	maxY := lo.Max(tops)
	if maxY <= 0 {
		maxY = 1
	}
	y := Linear{D0: 0, D1: maxY, R0: innerH, R1: 0}.Nice(10)
	s.YDomain = [2]float64{y.D0, y.D1}

	for _, v := range y.Ticks(YTickCount) {
		s.YTicks = append(s.YTicks, YTick{Value: v, Y: y.Map(v), Text: in.Format.Scaled(v, in.Scale)})
	}
	for _, q := range in.Window.Quarters {
		s.XTicks = append(s.XTicks, XTick{Quarter: q, X: x.X(q) + bw/2})
	}

	color := in.Color
	if color == nil {
		color = func(string) string { return "#999999" }
	}
	for ci, layer := range layers {
		fill := color(in.Categories[ci])
		for _, d := range layer {
			top, bottom := y.Map(d.y1), y.Map(d.y0)
			h := max(0, bottom-top)
			left := x.X(d.key.Quarter)
			opacity := 0.0
			if d.value > 0 && h >= LabelMinHeight {
				opacity = 1
			}
			s.Segments = append(s.Segments, Segment{
				Key:   d.key,
				Value: d.value,
				Y0:    d.y0,
				Y1:    d.y1,
				Rect:  Rect{X: left, Y: top, W: bw, H: h},
				Fill:  fill,
				Label: Label{
					Text:    in.Format.Scaled(d.value, in.Scale),
					X:       left + bw/2,
					Y:       (top + bottom) / 2,
					Opacity: opacity,
				},
			})
		}
	}
	return s
}
