package render

// TooltipOffset shifts the tooltip away from the pointer.
const TooltipOffset = 12

// Tooltip describes the hovered segment.
type Tooltip struct {
	Quarter  string
	Category string
	Value    float64
	Scaled   string
	Raw      string
	X, Y     float64
}

// HitTest finds the segment under a viewport point.
func (s Scene) HitTest(x, y float64) (Segment, bool) {
	px, py := x-s.Plot.X, y-s.Plot.Y
	for i := len(s.Segments) - 1; i >= 0; i-- {
		seg := s.Segments[i]
		if seg.Rect.H > 0 && seg.Rect.Contains(px, py) {
			return seg, true
		}
	}
	return Segment{}, false
}

// Tooltip returns the tooltip for the segment under (x, y), if any.
func (s Scene) Tooltip(x, y float64) (Tooltip, bool) {
	seg, ok := s.HitTest(x, y)
	if !ok {
		return Tooltip{}, false
	}
	return Tooltip{
		Quarter:  seg.Quarter,
		Category: seg.Category,
		Value:    seg.Value,
		Scaled:   s.format.Scaled(seg.Value, s.Scale),
		Raw:      s.format.Int(seg.Value),
		X:        x + TooltipOffset,
		Y:        y + TooltipOffset,
	}, true
}
