package render

// Frame is what is on screen at one instant of a transition. Axes jump
// straight to the target scene; segments are interpolated.
type Frame struct {
	Scene    Scene
	Segments []Segment
	Progress float64
}

// Settled reports whether the transition has finished.
func (f Frame) Settled() bool {
	return f.Progress >= 1
}

// Transition moves the display to Target.
type Transition struct {
	Target Scene
	Ops    []Op
}

// Frame samples the transition at linear progress t. Exiting segments
// are dropped once the transition completes.
func (tr Transition) Frame(t float64) Frame {
	t = min(1, max(0, t))
	f := Frame{Scene: tr.Target, Progress: t, Segments: make([]Segment, 0, len(tr.Ops))}
	for _, op := range tr.Ops {
		if op.Role == Exit && t >= 1 {
			continue
		}
		f.Segments = append(f.Segments, op.At(t))
	}
	return f
}

// Renderer retains what was last drawn so each new scene animates from
// the current display rather than from scratch.
type Renderer struct {
	last *Transition
}

// Render starts a transition to next. progress is how far the previous
// transition had run when it was interrupted (1 if it finished).
func (r *Renderer) Render(next Scene, progress float64) Transition {
	var shown []Segment
	if r.last != nil {
		shown = r.last.Frame(progress).Segments
	}
	tr := Transition{Target: next, Ops: Diff(shown, next.Segments, next.Baseline())}
	r.last = &tr
	return tr
}

// Reset forgets the display, so the next scene enters from the baseline.
func (r *Renderer) Reset() {
	r.last = nil
}
