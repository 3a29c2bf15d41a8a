// Package prefs manages per-category color and stacking-order preferences.
//
// Every preference resolves through three tiers in priority order: the
// user's local override, the published defaults file and a computed
// default. Overrides are written through to a durable key-value Storage.
package prefs

import (
	"errors"
	"regexp"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// FallbackColor is used when no tier yields a color.
const FallbackColor = "#999999"

// ErrInvalidColor is returned for colors not in #RRGGBB form.
var ErrInvalidColor = errors.New("invalid color: use #RRGGBB")

var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// ValidColor reports whether s is a #RRGGBB color (surrounding space allowed).
func ValidColor(s string) bool {
	return hexColorPattern.MatchString(strings.TrimSpace(s))
}

// NormalizeColor validates s and returns it trimmed and upper-cased.
func NormalizeColor(s string) (string, error) {
	if !ValidColor(s) {
		return "", ErrInvalidColor
	}
	return strings.ToUpper(strings.TrimSpace(s)), nil
}

// SweepColor returns the computed default color of the i-th of n
// categories: an evenly spaced hue sweep over the middle 70% of the wheel.
func SweepColor(i, n int) string {
	t := float64(i) / float64(max(1, n-1))
	hue := 360 * (0.15 + 0.7*t)
	return strings.ToUpper(colorful.Hcl(hue, 0.55, 0.62).Clamped().Hex())
}
