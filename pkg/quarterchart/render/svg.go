package render

import (
	"fmt"
	"html"
	"io"
	"strings"
)

// WriteSVG draws a frame as a standalone SVG document.
func WriteSVG(w io.Writer, f Frame) error {
	s := f.Scene
	var b strings.Builder

	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%s" height="%s" font-family="system-ui, sans-serif">`+"\n",
		num(s.Width), num(s.Height), num(s.Width), num(s.Height))
	fmt.Fprintf(&b, `<g class="root" transform="translate(%s,%s)">`+"\n", num(s.Plot.X), num(s.Plot.Y))

	b.WriteString(`<g class="grid">` + "\n")
	for _, t := range s.YTicks {
		fmt.Fprintf(&b, `<line x1="0" x2="%s" y1="%s" y2="%s" stroke="rgba(127,127,127,0.25)"/>`+"\n", num(s.Plot.W), num(t.Y), num(t.Y))
	}
	b.WriteString("</g>\n")

	b.WriteString(`<g class="y" font-size="11" text-anchor="end">` + "\n")
	for _, t := range s.YTicks {
		fmt.Fprintf(&b, `<text x="-8" y="%s" dominant-baseline="middle">%s</text>`+"\n", num(t.Y), html.EscapeString(t.Text))
	}
	b.WriteString("</g>\n")

	fmt.Fprintf(&b, `<g class="x" font-size="11" text-anchor="end" transform="translate(0,%s)">`+"\n", num(s.Plot.H))
	for _, t := range s.XTicks {
		fmt.Fprintf(&b, `<text transform="translate(%s,14) rotate(-35)">%s</text>`+"\n", num(t.X), html.EscapeString(t.Quarter))
	}
	b.WriteString("</g>\n")

	b.WriteString(`<g class="bars">` + "\n")
	for _, seg := range f.Segments {
		fmt.Fprintf(&b, `<rect x="%s" y="%s" width="%s" height="%s" rx="3" fill="%s"><title>%s · %s</title></rect>`+"\n",
			num(seg.Rect.X), num(seg.Rect.Y), num(seg.Rect.W), num(seg.Rect.H),
			html.EscapeString(seg.Fill), html.EscapeString(seg.Quarter), html.EscapeString(seg.Category))
	}
	b.WriteString("</g>\n")

	b.WriteString(`<g class="labels" font-size="11" font-weight="600" text-anchor="middle" fill="rgba(255,255,255,0.95)" stroke="rgba(0,0,0,0.55)" stroke-width="3" paint-order="stroke">` + "\n")
	for _, seg := range f.Segments {
		if seg.Label.Opacity <= 0 {
			continue
		}
		fmt.Fprintf(&b, `<text x="%s" y="%s" dominant-baseline="middle" opacity="%s">%s</text>`+"\n",
			num(seg.Label.X), num(seg.Label.Y), num(seg.Label.Opacity), html.EscapeString(seg.Label.Text))
	}
	b.WriteString("</g>\n</g>\n</svg>\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func num(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}
