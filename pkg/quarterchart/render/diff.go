package render

import "time"

// Role is the reconciliation role of a keyed segment.
type Role int

const (
	Enter Role = iota
	Update
	Exit
)

func (r Role) String() string {
	switch r {
	case Enter:
		return "enter"
	case Update:
		return "update"
	default:
		return "exit"
	}
}

// Op animates one segment from From to To.
type Op struct {
	Role Role
	Key  Key
	From Segment
	To   Segment
}

// Diff reconciles the displayed segments with the next layout by Key.
// New segments grow from the baseline, kept segments move, and vanished
// segments collapse onto the baseline. Ops follow next's order with
// exits appended.
func Diff(prev, next []Segment, baseline float64) []Op {
	shown := make(map[Key]Segment, len(prev))
	for _, s := range prev {
		shown[s.Key] = s
	}

	ops := make([]Op, 0, len(next)+len(prev))
	kept := make(map[Key]bool, len(next))
	for _, to := range next {
		kept[to.Key] = true
		if from, ok := shown[to.Key]; ok {
			ops = append(ops, Op{Role: Update, Key: to.Key, From: from, To: to})
			continue
		}
		from := to
		from.Rect.Y = baseline
		from.Rect.H = 0
		from.Label.Y = baseline
		from.Label.Opacity = 0
		ops = append(ops, Op{Role: Enter, Key: to.Key, From: from, To: to})
	}
	for _, from := range prev {
		if kept[from.Key] {
			continue
		}
		to := from
		to.Rect.Y = baseline
		to.Rect.H = 0
		to.Label.Y = baseline
		to.Label.Opacity = 0
		ops = append(ops, Op{Role: Exit, Key: from.Key, From: from, To: to})
	}
	return ops
}

// EaseCubicInOut is the transition timing curve.
func EaseCubicInOut(t float64) float64 {
	t *= 2
	if t <= 1 {
		return t * t * t / 2
	}
	t -= 2
	return (t*t*t + 2) / 2
}

// Progress converts elapsed time into linear transition progress in [0, 1].
func Progress(elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	if elapsed >= TransitionDuration {
		return 1
	}
	return float64(elapsed) / float64(TransitionDuration)
}

// At returns the segment as drawn at linear progress t.
func (o Op) At(t float64) Segment {
	t = min(1, max(0, t))
	k := EaseCubicInOut(t)
	s := o.To
	if o.Role == Exit {
		s = o.From
	}
	s.Rect = Rect{
		X: lerp(o.From.Rect.X, o.To.Rect.X, k),
		Y: lerp(o.From.Rect.Y, o.To.Rect.Y, k),
		W: lerp(o.From.Rect.W, o.To.Rect.W, k),
		H: lerp(o.From.Rect.H, o.To.Rect.H, k),
	}
	s.Label.X = lerp(o.From.Label.X, o.To.Label.X, k)
	s.Label.Y = lerp(o.From.Label.Y, o.To.Label.Y, k)
	s.Label.Opacity = lerp(o.From.Label.Opacity, o.To.Label.Opacity, k)
	return s
}

func lerp(a, b, t float64) float64 {
	if t >= 1 {
		return b
	}
	return a + (b-a)*t
}
