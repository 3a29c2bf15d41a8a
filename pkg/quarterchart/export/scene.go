package export

import (
	"github.com/ukaji3/quarterchart-go/pkg/quarterchart/models"
	"github.com/ukaji3/quarterchart-go/pkg/quarterchart/prefs"
	"github.com/ukaji3/quarterchart-go/pkg/quarterchart/render"
	"github.com/ukaji3/quarterchart-go/pkg/quarterchart/view"
)

// Snapshot selects the window and size of a still chart.
type Snapshot struct {
	Start  int
	Width  int
	Height int
	Scale  view.ScaleMode
}

// DefaultSnapshot is the first window at 960x540.
var DefaultSnapshot = Snapshot{Width: 960, Height: 540, Scale: view.ScaleRaw}

// Scene lays out one window of ds with the store's effective order and
// colors.
func Scene(ds *models.Dataset, store *prefs.Store, format view.Formatter, snap Snapshot) render.Scene {
	ordered := store.EffectiveOrder(ds.Categories)
	return render.Layout(render.Input{
		Window:     view.DeriveWindow(ds, snap.Start, view.WindowSize),
		Categories: ordered,
		Color:      store.Palette(ordered),
		Viewport:   render.Viewport{Width: float64(snap.Width), Height: float64(snap.Height), Margins: render.DefaultMargins},
		Scale:      snap.Scale,
		Format:     format,
	})
}

// Still is the settled frame of s, as drawn once every bar has entered.
func Still(s render.Scene) render.Frame {
	return render.Transition{Target: s, Ops: render.Diff(nil, s.Segments, s.Baseline())}.Frame(1)
}
