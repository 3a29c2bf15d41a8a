package render

import "math"

var (
	e10 = math.Sqrt(50)
	e5  = math.Sqrt(10)
	e2  = math.Sqrt(2)
)

// Band maps each quarter of a window to an equal-width band.
type Band struct {
	Domain  []string
	Start   float64
	Stop    float64
	Padding float64

	index map[string]int
	step  float64
	first float64
}

// NewBand lays out domain across [start, stop] with the same inner and
// outer padding fraction, centered.
func NewBand(domain []string, start, stop, padding float64) *Band {
	b := &Band{Domain: domain, Start: start, Stop: stop, Padding: padding, index: make(map[string]int, len(domain))}
	for i, d := range domain {
		if _, ok := b.index[d]; !ok {
			b.index[d] = i
		}
	}
	n := float64(len(domain))
	b.step = (stop - start) / math.Max(1, n-padding+padding*2)
	b.first = start + (stop-start-b.step*(n-padding))*0.5
	return b
}

// Bandwidth is the width of one band.
func (b *Band) Bandwidth() float64 {
	return b.step * (1 - b.Padding)
}

// X returns the left edge of d's band, or Start when d is unknown.
func (b *Band) X(d string) float64 {
	i, ok := b.index[d]
	if !ok {
		return b.Start
	}
	return b.first + b.step*float64(i)
}

// Linear maps [D0, D1] onto [R0, R1].
type Linear struct {
	D0, D1 float64
	R0, R1 float64
}

// Map projects v into the range.
func (l Linear) Map(v float64) float64 {
	if l.D1 == l.D0 {
		return l.R0
	}
	return l.R0 + (v-l.D0)/(l.D1-l.D0)*(l.R1-l.R0)
}

// Nice extends the domain to round multiples of a tick step.
func (l Linear) Nice(count int) Linear {
	start, stop := l.D0, l.D1
	if stop < start {
		start, stop = stop, start
	}
	var prestep float64
loop:
	for iter := 0; iter < 10; iter++ {
		step := tickIncrement(start, stop, count)
		if step == prestep {
			break
		}
		switch {
		case step > 0:
			start = math.Floor(start/step) * step
			stop = math.Ceil(stop/step) * step
		case step < 0:
			start = math.Ceil(start*step) / step
			stop = math.Floor(stop*step) / step
		default:
			break loop
		}
		prestep = step
	}
	l.D0, l.D1 = start, stop
	return l
}

// Ticks returns roughly count round values inside the domain.
func (l Linear) Ticks(count int) []float64 {
	start, stop := l.D0, l.D1
	if start == stop {
		return []float64{start}
	}
	inc := tickIncrement(start, stop, count)
	if inc == 0 || math.IsInf(inc, 0) || math.IsNaN(inc) {
		return nil
	}
	var ticks []float64
	if inc > 0 {
		i0, i1 := math.Ceil(start/inc), math.Floor(stop/inc)
		for i := i0; i <= i1; i++ {
			ticks = append(ticks, i*inc)
		}
		return ticks
	}
	inv := -inc
	i0, i1 := math.Ceil(start*inv), math.Floor(stop*inv)
	for i := i0; i <= i1; i++ {
		ticks = append(ticks, i/inv)
	}
	return ticks
}

// tickIncrement returns a 1-2-5 step; negative values encode 1/step.
func tickIncrement(start, stop float64, count int) float64 {
	step := (stop - start) / math.Max(0, float64(count))
	power := math.Floor(math.Log10(step))
	e := step / math.Pow(10, power)
	factor := 1.0
	switch {
	case e >= e10:
		factor = 10
	case e >= e5:
		factor = 5
	case e >= e2:
		factor = 2
	}
	if power >= 0 {
		return factor * math.Pow(10, power)
	}
	return -math.Pow(10, -power) / factor
}
