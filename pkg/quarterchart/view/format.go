package view

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultLocale groups thousands with ’ (1’234).
const DefaultLocale = "de-CH"

// Formatter renders counts for axis ticks, labels and tooltips.
// Formatting never changes the stored values.
type Formatter struct {
	printer *message.Printer
}

// NewFormatter returns a formatter for a BCP 47 locale. Unknown locales
// fall back to DefaultLocale.
func NewFormatter(locale string) Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.MustParse(DefaultLocale)
	}
	return Formatter{printer: message.NewPrinter(tag)}
}

// Int rounds n and groups its digits.
func (f Formatter) Int(n float64) string {
	p := f.printer
	if p == nil {
		p = message.NewPrinter(language.MustParse(DefaultLocale))
	}
	return p.Sprintf("%d", int64(math.Round(n)))
}

// Scaled divides n by the mode's unit, rounds and appends "k" or "M".
func (f Formatter) Scaled(n float64, mode ScaleMode) string {
	switch mode {
	case ScaleThousands:
		return f.Int(n/1_000) + "k"
	case ScaleMillions:
		return f.Int(n/1_000_000) + "M"
	default:
		return f.Int(n)
	}
}
