// Package controller owns the live chart state and applies every change
// to it on a single goroutine.
package controller

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ukaji3/quarterchart-go/pkg/quarterchart/models"
	"github.com/ukaji3/quarterchart-go/pkg/quarterchart/prefs"
	"github.com/ukaji3/quarterchart-go/pkg/quarterchart/render"
	"github.com/ukaji3/quarterchart-go/pkg/quarterchart/view"
)

// Status messages shown to the user.
const (
	StatusLoading       = "Loading…"
	StatusInvalidColor  = "Invalid color. Use #RRGGBB."
	StatusSnapshotSaved = "Downloaded published-defaults.json. Put it in data/ and run build-pages."
)

const queueSize = 64

// Config wires a controller to its collaborators.
type Config struct {
	Source    Source
	Prefs     *prefs.Store
	Scheduler view.Scheduler
	Sink      Sink
	Viewport  render.Viewport
	Locale    string
	Logger    *zap.Logger
	// Now is the clock used to track transition progress.
	Now func() time.Time
}

// Controller is the single writer of the view state, the dataset and the
// preferences. Inputs arrive as events through Post; Run applies them in
// order.
type Controller struct {
	cfg    Config
	log    *zap.Logger
	format view.Formatter

	events chan Event
	done   chan struct{}
	ctx    context.Context
	loads  sync.WaitGroup

	ds       *models.Dataset
	state    *view.State
	status   string
	tooltip  *render.Tooltip
	viewport render.Viewport

	renderer   render.Renderer
	transition render.Transition
	renderedAt time.Time

	task    view.Task
	tickGen uint64
	loadSeq uint64
}

// New returns a controller. Nil collaborators get in-memory defaults.
func New(cfg Config) *Controller {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Prefs == nil {
		cfg.Prefs = prefs.NewStore(prefs.NewMemoryStorage(), cfg.Logger)
	}
	if cfg.Scheduler == nil {
		cfg.Scheduler = view.TimerScheduler{}
	}
	if cfg.Sink == nil {
		cfg.Sink = SinkFunc(func(View) {})
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Viewport.Width == 0 && cfg.Viewport.Height == 0 {
		cfg.Viewport = render.Viewport{Width: 960, Height: 540, Margins: render.DefaultMargins}
	}
	return &Controller{
		cfg:      cfg,
		log:      cfg.Logger,
		format:   view.NewFormatter(cfg.Locale),
		events:   make(chan Event, queueSize),
		done:     make(chan struct{}),
		ctx:      context.Background(),
		state:    view.NewState(0),
		viewport: cfg.Viewport,
	}
}

// Post queues an event. It returns false once the controller stopped.
func (c *Controller) Post(ev Event) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.events <- ev:
		return true
	case <-c.done:
		return false
	}
}

// TryPost queues an event unless the queue is full. Surfaces use it for
// high-rate input such as pointer motion.
func (c *Controller) TryPost(ev Event) bool {
	select {
	case c.events <- ev:
		return true
	default:
		return false
	}
}

// Run applies queued events until ctx is done.
func (c *Controller) Run(ctx context.Context) error {
	c.ctx = ctx
	defer func() {
		c.stopTicking()
		close(c.done)
		c.loads.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-c.events:
			c.Handle(ev)
		}
	}
}

// Handle applies one event. It must only be called from the goroutine
// running Run, or before Run starts.
func (c *Controller) Handle(ev Event) {
	switch ev := ev.(type) {
	case LoadRequested:
		c.stop()
		c.tooltip = nil
		c.status = StatusLoading
		c.startLoad(ev.Path)
		c.emit(false)

	case loaded:
		if ev.seq != c.loadSeq {
			return
		}
		if ev.err != nil {
			c.log.Warn("Load failed", zap.String("path", ev.path), zap.Error(ev.err))
			c.status = "Load failed: " + ev.err.Error()
			c.emit(false)
			return
		}
		c.stop()
		c.ds = ev.ds
		c.state.Reset(len(ev.ds.Quarters))
		c.status = fmt.Sprintf("Loaded %d quarters from %s", len(ev.ds.Series), ev.ds.ExcelPath)
		c.emit(true)

	case Play:
		c.play()
	case TogglePlay:
		if c.state.Playing {
			c.stop()
			c.emit(false)
		} else {
			c.play()
		}
	case tick:
		if ev.gen != c.tickGen || !c.state.Playing {
			return
		}
		c.state.Tick()
		if !c.state.Playing {
			c.stopTicking()
		}
		c.emit(true)
	case Pause:
		c.stop()
		c.emit(false)
	case Seek:
		c.stop()
		c.state.Seek(ev.Start)
		c.emit(true)
	case Step:
		c.stop()
		c.state.Seek(c.state.WindowStart + ev.Delta)
		c.emit(true)

	case SetScale:
		c.state.Scale = ev.Mode
		c.emit(true)
	case Select:
		if ev.Category == "" || c.hasCategory(ev.Category) {
			c.state.Selected = ev.Category
		}
		c.emit(false)
	case SetColor:
		c.setColor(ev)
	case ResetColors:
		c.state.Selected = ""
		c.persist("colors", c.cfg.Prefs.ClearColorOverrides())
		c.emit(true)
	case MoveCategory:
		c.stop()
		if c.ds != nil {
			moved, err := c.cfg.Prefs.MoveCategory(c.ds.Categories, ev.From, ev.To)
			c.persist("order", err)
			if moved {
				c.log.Debug("Moved category", zap.String("from", ev.From), zap.String("to", ev.To))
			}
		}
		c.emit(true)
	case ResetOrder:
		c.persist("order", c.cfg.Prefs.ClearOrderOverride())
		c.emit(true)

	case Resize:
		c.stop()
		c.viewport.Width, c.viewport.Height = ev.Width, ev.Height
		c.tooltip = nil
		c.emit(true)
	case Visibility:
		if ev.Hidden && c.state.Playing {
			c.stop()
			c.emit(false)
		}
	case Hover:
		if tip, ok := c.transition.Target.Tooltip(ev.X, ev.Y); ok {
			c.tooltip = &tip
		} else {
			c.tooltip = nil
		}
		c.emit(false)
	case HoverEnd:
		c.tooltip = nil
		c.emit(false)

	case ExportSnapshot:
		snapshot := c.cfg.Prefs.ExportSnapshot()
		if ev.Reply != nil {
			select {
			case ev.Reply <- snapshot:
			default:
				c.log.Warn("Dropped snapshot reply")
			}
		}
		c.status = StatusSnapshotSaved
		c.emit(false)
	case PublishedLoaded:
		c.cfg.Prefs.SetPublished(ev.Defaults)
		c.emit(true)

	default:
		c.log.Warn("Unknown event", zap.String("type", fmt.Sprintf("%T", ev)))
	}
}

func (c *Controller) play() {
	if c.ds == nil {
		return
	}
	c.stopTicking()
	c.state.Play()
	c.startTicking()
	c.emit(true)
}

// stop cancels a pending tick before any other state change.
func (c *Controller) stop() {
	c.stopTicking()
	c.state.Pause()
}

func (c *Controller) startTicking() {
	c.stopTicking()
	c.tickGen++
	gen := c.tickGen
	c.task = c.cfg.Scheduler.Every(view.TickInterval, func() {
		c.Post(tick{gen: gen})
	})
}

func (c *Controller) stopTicking() {
	if c.task != nil {
		c.task.Cancel()
		c.task = nil
	}
	c.tickGen++
}

func (c *Controller) startLoad(path string) {
	c.loadSeq++
	seq := c.loadSeq
	ctx := c.ctx
	c.loads.Add(1)
	go func() {
		defer c.loads.Done()
		ds, err := c.load(ctx, path)
		c.Post(loaded{seq: seq, path: path, ds: ds, err: err})
	}()
}

func (c *Controller) load(ctx context.Context, path string) (*models.Dataset, error) {
	if c.cfg.Source == nil {
		return nil, errors.New("no data source configured")
	}
	ds, err := c.cfg.Source.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := ds.Validate(); err != nil {
		ds.Densify()
	}
	return ds, nil
}

func (c *Controller) setColor(ev SetColor) {
	category := ev.Category
	if category == "" {
		category = c.state.Selected
	}
	if category == "" || c.ds == nil {
		return
	}
	err := c.cfg.Prefs.SetColorOverride(category, ev.Color)
	if errors.Is(err, prefs.ErrInvalidColor) {
		c.status = StatusInvalidColor
		c.emit(false)
		return
	}
	c.persist("colors", err)
	c.emit(true)
}

func (c *Controller) persist(kind string, err error) {
	if err != nil {
		c.log.Error("Failed to save preferences", zap.String("kind", kind), zap.Error(err))
		c.status = "Failed to save " + kind + ": " + err.Error()
	}
}

func (c *Controller) hasCategory(category string) bool {
	return c.ds != nil && slices.Contains(c.ds.Categories, category)
}

// emit pushes the current view to the sink. With rerender the chart is
// laid out again and a new transition starts from what is on screen.
func (c *Controller) emit(rerender bool) {
	v := View{
		Status:      c.status,
		Playing:     c.state.Playing,
		PlayLabel:   c.state.PlayLabel(),
		WindowStart: c.state.WindowStart,
		MaxStart:    c.state.MaxStart(),
		Scale:       c.state.Scale,
		Selected:    c.state.Selected,
		Tooltip:     c.tooltip,
	}
	if c.ds == nil {
		v.Transition = c.transition
		c.cfg.Sink.Show(v)
		return
	}

	v.Loaded = true
	v.ExcelPath = c.ds.ExcelPath
	ordered := c.cfg.Prefs.EffectiveOrder(c.ds.Categories)
	palette := c.cfg.Prefs.Palette(ordered)
	for _, cat := range ordered {
		v.Legend = append(v.Legend, LegendItem{Category: cat, Color: palette(cat), Selected: cat == c.state.Selected})
	}
	window := view.DeriveWindow(c.ds, c.state.WindowStart, c.state.WindowSize)
	v.WindowLabel = window.Label()

	if rerender {
		scene := render.Layout(render.Input{
			Window:     window,
			Categories: ordered,
			Color:      palette,
			Viewport:   c.viewport,
			Scale:      c.state.Scale,
			Format:     c.format,
		})
		now := c.cfg.Now()
		progress := 1.0
		if !c.renderedAt.IsZero() {
			progress = render.Progress(now.Sub(c.renderedAt))
		}
		c.transition = c.renderer.Render(scene, progress)
		c.renderedAt = now
		v.Rendered = true
	}
	v.Transition = c.transition
	c.cfg.Sink.Show(v)
}
