package prefs

import "github.com/samber/lo"

// ColorProvider is one tier of the color lookup.
type ColorProvider interface {
	Color(category string) (string, bool)
}

// ColorFunc resolves the effective color of a category.
type ColorFunc func(category string) string

// colorMap is a tier backed by a category→color map.
type colorMap map[string]string

func (m colorMap) Color(category string) (string, bool) {
	c, ok := m[category]
	return c, ok
}

// computedTier assigns sweep colors by position in an ordered category list.
type computedTier struct {
	index map[string]int
	n     int
}

func newComputedTier(ordered []string) computedTier {
	index := make(map[string]int, len(ordered))
	for i, c := range ordered {
		if _, dup := index[c]; !dup {
			index[c] = i
		}
	}
	return computedTier{index: index, n: len(ordered)}
}

func (t computedTier) Color(category string) (string, bool) {
	i, ok := t.index[category]
	if !ok {
		return "", false
	}
	return SweepColor(i, t.n), true
}

// Chain queries providers in order; the first valid color wins.
func Chain(providers ...ColorProvider) ColorFunc {
	return func(category string) string {
		for _, p := range providers {
			if c, ok := p.Color(category); ok {
				if normalized, err := NormalizeColor(c); err == nil {
					return normalized
				}
			}
		}
		return FallbackColor
	}
}

// MergeOrder returns all categories ordered by the first non-empty
// candidate order. Entries unknown to all are dropped; categories the
// order does not list keep their relative order at the end.
func MergeOrder(all []string, candidates ...[]string) []string {
	var base []string
	for _, c := range candidates {
		if len(c) > 0 {
			base = c
			break
		}
	}
	if len(base) == 0 {
		return append([]string(nil), all...)
	}

	known := lo.SliceToMap(all, func(c string) (string, struct{}) { return c, struct{}{} })
	ordered := make([]string, 0, len(all))
	placed := make(map[string]struct{}, len(all))
	for _, c := range base {
		if _, ok := known[c]; !ok {
			continue
		}
		if _, dup := placed[c]; dup {
			continue
		}
		placed[c] = struct{}{}
		ordered = append(ordered, c)
	}
	for _, c := range all {
		if _, ok := placed[c]; !ok {
			placed[c] = struct{}{}
			ordered = append(ordered, c)
		}
	}
	return ordered
}

// Move relocates from onto to's index, as a drag-and-drop reorder does.
// ok is false when either category is missing or both are the same.
func Move(order []string, from, to string) (moved []string, ok bool) {
	fromIdx := lo.IndexOf(order, from)
	toIdx := lo.IndexOf(order, to)
	if fromIdx < 0 || toIdx < 0 || from == to {
		return order, false
	}
	moved = append([]string(nil), order...)
	moved = append(moved[:fromIdx], moved[fromIdx+1:]...)
	moved = append(moved[:toIdx], append([]string{from}, moved[toIdx:]...)...)
	return moved, true
}
