package models

// PreferenceDefaults is the published-defaults file shape. The same shape
// is produced by a preference snapshot export.
type PreferenceDefaults struct {
	// ColorsByCategory maps category to a "#RRGGBB" color.
	ColorsByCategory map[string]string `json:"colorsByCategory"`
	// CategoryOrder lists categories in stacking order.
	CategoryOrder []string `json:"categoryOrder"`
}

// IsEmpty reports whether neither colors nor order are set.
func (p PreferenceDefaults) IsEmpty() bool {
	return len(p.ColorsByCategory) == 0 && len(p.CategoryOrder) == 0
}
