package models

import "fmt"

// Window is the visible slice of a dataset.
type Window struct {
	// Start is the index of the first visible quarter.
	Start int `json:"start"`
	// Size is the configured window length; Quarters may be shorter.
	Size int `json:"size"`
	// Quarters contains the visible quarters in order.
	Quarters []string `json:"quarters"`
	// Series contains the entries of the visible quarters.
	Series []SeriesEntry `json:"series"`
}

// Label returns the "first → last  (showing n/size)" caption.
func (w Window) Label() string {
	first, last := "", ""
	if len(w.Quarters) > 0 {
		first = w.Quarters[0]
		last = w.Quarters[len(w.Quarters)-1]
	}
	return fmt.Sprintf("%s → %s  (showing %d/%d)", first, last, len(w.Quarters), w.Size)
}
