package controller

import (
	"github.com/ukaji3/quarterchart-go/pkg/quarterchart/models"
	"github.com/ukaji3/quarterchart-go/pkg/quarterchart/view"
)

// Event is an input to the controller loop.
type Event interface {
	event()
}

type (
	// LoadRequested replaces the dataset with the one at Path.
	LoadRequested struct{ Path string }
	// Play starts playback, rewinding first when at the end.
	Play struct{}
	// Pause stops playback.
	Pause struct{}
	// TogglePlay plays when idle and pauses when playing.
	TogglePlay struct{}
	// Seek moves the window; it always pauses.
	Seek struct{ Start int }
	// Step moves the window by Delta quarters; it always pauses.
	Step struct{ Delta int }
	// SetScale changes the y-axis display unit.
	SetScale struct{ Mode view.ScaleMode }
	// Select chooses the category to edit; "" clears the selection.
	Select struct{ Category string }
	// SetColor overrides a category's color. An empty Category means
	// the selected one.
	SetColor struct{ Category, Color string }
	// ResetColors drops all color overrides and the selection.
	ResetColors struct{}
	// MoveCategory drops From onto To in the stacking order.
	MoveCategory struct{ From, To string }
	// ResetOrder drops the order override.
	ResetOrder struct{}
	// Resize changes the viewport.
	Resize struct{ Width, Height float64 }
	// Visibility reports whether the surface is hidden.
	Visibility struct{ Hidden bool }
	// Hover moves the pointer over the chart.
	Hover struct{ X, Y float64 }
	// HoverEnd hides the tooltip.
	HoverEnd struct{}
	// ExportSnapshot replies with the current overrides in the
	// published-defaults shape. Reply should be buffered.
	ExportSnapshot struct {
		Reply chan<- models.PreferenceDefaults
	}
	// PublishedLoaded installs published defaults fetched at startup.
	PublishedLoaded struct{ Defaults models.PreferenceDefaults }

	tick struct{ gen uint64 }

	loaded struct {
		seq  uint64
		path string
		ds   *models.Dataset
		err  error
	}
)

func (LoadRequested) event()   {}
func (Play) event()            {}
func (Pause) event()           {}
func (TogglePlay) event()      {}
func (Seek) event()            {}
func (Step) event()            {}
func (SetScale) event()        {}
func (Select) event()          {}
func (SetColor) event()        {}
func (ResetColors) event()     {}
func (MoveCategory) event()    {}
func (ResetOrder) event()      {}
func (Resize) event()          {}
func (Visibility) event()      {}
func (Hover) event()           {}
func (HoverEnd) event()        {}
func (ExportSnapshot) event()  {}
func (PublishedLoaded) event() {}
func (tick) event()            {}
func (loaded) event()          {}
