package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/ukaji3/quarterchart-go/pkg/quarterchart/render"
)

// A terminal cell stands for this many viewport pixels.
const (
	CellWidth  = 8
	CellHeight = 16
)

type cell struct {
	ch rune
	bg string
	fg string
}

type canvas struct {
	cols, rows int
	cells      [][]cell
}

func newCanvas(cols, rows int) *canvas {
	c := &canvas{cols: cols, rows: rows, cells: make([][]cell, rows)}
	for r := range c.cells {
		c.cells[r] = make([]cell, cols)
		for i := range c.cells[r] {
			c.cells[r][i].ch = ' '
		}
	}
	return c
}

func (c *canvas) at(col, row int) *cell {
	if col < 0 || row < 0 || col >= c.cols || row >= c.rows {
		return nil
	}
	return &c.cells[row][col]
}

func (c *canvas) text(col, row int, s, fg string) {
	for _, r := range s {
		if p := c.at(col, row); p != nil {
			p.ch = r
			p.fg = fg
		}
		col++
	}
}

// lines renders each row, merging runs of equally styled cells.
func (c *canvas) lines() []string {
	out := make([]string, c.rows)
	for r, row := range c.cells {
		var b strings.Builder
		var run strings.Builder
		var cur cell
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if cur.bg == "" && cur.fg == "" {
				b.WriteString(run.String())
			} else {
				b.WriteString(styleFor(cur.bg, cur.fg).Render(run.String()))
			}
			run.Reset()
		}
		for i, p := range row {
			if i == 0 || p.bg != cur.bg || p.fg != cur.fg {
				flush()
				cur = p
			}
			run.WriteRune(p.ch)
		}
		flush()
		out[r] = b.String()
	}
	return out
}

func styleFor(bg, fg string) lipgloss.Style {
	s := lipgloss.NewStyle()
	if bg != "" {
		s = s.Background(lipgloss.Color(bg))
	}
	if fg != "" {
		s = s.Foreground(lipgloss.Color(fg))
	}
	return s
}

// Rasterize draws a frame whose viewport is cols*CellWidth by
// rows*CellHeight pixels. A cell takes the color of the segment under
// its center.
func Rasterize(f render.Frame, cols, rows int) []string {
	if cols <= 0 || rows <= 0 {
		return nil
	}
	c := newCanvas(cols, rows)
	s := f.Scene
	plot := s.Plot

	baseRow := rowOf(plot.Y + plot.H)
	leftCol := colOf(plot.X)
	for col := leftCol; col < colOf(plot.X+plot.W); col++ {
		if p := c.at(col, baseRow); p != nil {
			p.ch = '─'
			p.fg = colorAxis
		}
	}
	for _, t := range s.YTicks {
		row := rowOf(plot.Y + t.Y)
		if leftCol < 2 || (row == baseRow && t.Value != 0) {
			continue
		}
		label := ansi.Truncate(t.Text, leftCol-1, "")
		c.text(leftCol-1-ansi.StringWidth(label), row, label, colorMuted)
		if p := c.at(leftCol-1, row); p != nil {
			p.ch = '┤'
			p.fg = colorAxis
		}
	}

	for _, seg := range f.Segments {
		if seg.Rect.W <= 0 || seg.Rect.H <= 0 {
			continue
		}
		x0, x1 := plot.X+seg.Rect.X, plot.X+seg.Rect.X+seg.Rect.W
		y0, y1 := plot.Y+seg.Rect.Y, plot.Y+seg.Rect.Y+seg.Rect.H
		for row := rowOf(y0); row <= rowOf(y1); row++ {
			cy := (float64(row) + 0.5) * CellHeight
			if cy < y0 || cy >= y1 {
				continue
			}
			for col := colOf(x0); col <= colOf(x1); col++ {
				cx := (float64(col) + 0.5) * CellWidth
				if cx < x0 || cx >= x1 {
					continue
				}
				if p := c.at(col, row); p != nil {
					p.bg = seg.Fill
				}
			}
		}
	}

	for _, seg := range f.Segments {
		if seg.Label.Opacity < 0.5 || seg.Label.Text == "" {
			continue
		}
		width := int(seg.Rect.W / CellWidth)
		if ansi.StringWidth(seg.Label.Text) > width {
			continue
		}
		row := rowOf(plot.Y + seg.Label.Y)
		col := colOf(plot.X+seg.Label.X) - ansi.StringWidth(seg.Label.Text)/2
		c.text(col, row, seg.Label.Text, textOn(seg.Fill))
	}

	next := 0
	for _, t := range s.XTicks {
		label := t.Quarter
		col := colOf(plot.X+t.X) - ansi.StringWidth(label)/2
		if col < next {
			continue
		}
		c.text(col, baseRow+1, label, colorMuted)
		next = col + ansi.StringWidth(label) + 1
	}
	return c.lines()
}

// textOn picks a readable label color for a fill.
func textOn(fill string) string {
	col, err := colorful.Hex(fill)
	if err != nil {
		return "#000000"
	}
	if l, _, _ := col.Lab(); l > 0.6 {
		return "#000000"
	}
	return "#FFFFFF"
}

func colOf(x float64) int { return int(math.Floor(x / CellWidth)) }
func rowOf(y float64) int { return int(math.Floor(y / CellHeight)) }
