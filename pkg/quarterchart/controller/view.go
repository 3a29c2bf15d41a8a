package controller

import (
	"github.com/ukaji3/quarterchart-go/pkg/quarterchart/render"
	"github.com/ukaji3/quarterchart-go/pkg/quarterchart/view"
)

// LegendItem is one category in display order.
type LegendItem struct {
	Category string
	Color    string
	Selected bool
}

// View is everything a surface needs to draw the chart and its controls.
type View struct {
	// Transition animates from the previously shown frame to this state.
	Transition render.Transition
	// Rendered is false for views that only change status or tooltip.
	Rendered bool

	ExcelPath   string
	Loaded      bool
	Status      string
	WindowLabel string
	PlayLabel   string
	Playing     bool
	WindowStart int
	MaxStart    int
	Scale       view.ScaleMode
	Legend      []LegendItem
	Selected    string
	Tooltip     *render.Tooltip
}

// Sink receives every view the controller produces, on the controller
// goroutine.
type Sink interface {
	Show(View)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(View)

func (f SinkFunc) Show(v View) { f(v) }
