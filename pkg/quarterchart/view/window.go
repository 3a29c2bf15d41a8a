package view

import "github.com/ukaji3/quarterchart-go/pkg/quarterchart/models"

// DeriveWindow projects the quarters [start, start+size) of ds. start is
// clamped to the valid range; near the end the window is simply shorter.
func DeriveWindow(ds *models.Dataset, start, size int) models.Window {
	w := models.Window{Size: size, Quarters: []string{}, Series: []models.SeriesEntry{}}
	if ds == nil || size <= 0 {
		return w
	}

	n := len(ds.Quarters)
	start = max(0, min(max(0, n-size), start))
	end := min(n, start+size)

	w.Start = start
	w.Quarters = ds.Quarters[start:end]
	if end <= len(ds.Series) {
		w.Series = ds.Series[start:end]
	}
	return w
}
