package models

import "fmt"

// SeriesEntry holds the dense per-category values of one quarter.
type SeriesEntry struct {
	// Quarter is the quarter identifier.
	Quarter string `json:"quarter"`
	// Values maps every known category to its aggregated count.
	Values map[string]float64 `json:"values"`
}

// Dataset is the aggregated, gap-free time series.
type Dataset struct {
	// ExcelPath is the provenance label of the source workbook.
	ExcelPath string `json:"excelPath"`
	// Quarters is sorted by quarter order, each unique.
	Quarters []string `json:"quarters"`
	// Categories is sorted lexicographically, each unique.
	Categories []string `json:"categories"`
	// Series has one entry per quarter, in Quarters order.
	Series []SeriesEntry `json:"series"`
}

// Validate reports the first violated density invariant.
func (d *Dataset) Validate() error {
	if len(d.Series) != len(d.Quarters) {
		return fmt.Errorf("series has %d entries, want %d", len(d.Series), len(d.Quarters))
	}
	for i, entry := range d.Series {
		if entry.Quarter != d.Quarters[i] {
			return fmt.Errorf("series[%d] is quarter %q, want %q", i, entry.Quarter, d.Quarters[i])
		}
		if len(entry.Values) != len(d.Categories) {
			return fmt.Errorf("series[%d] has %d values, want %d", i, len(entry.Values), len(d.Categories))
		}
		for _, c := range d.Categories {
			if _, ok := entry.Values[c]; !ok {
				return fmt.Errorf("series[%d] is missing category %q", i, c)
			}
		}
	}
	return nil
}

// Densify rebuilds Series so that it matches Quarters and every entry
// carries every category. Missing values default to 0 and values for
// unknown categories are dropped. Used for data received from outside
// the aggregator.
func (d *Dataset) Densify() {
	byQuarter := make(map[string]map[string]float64, len(d.Series))
	for _, entry := range d.Series {
		if _, seen := byQuarter[entry.Quarter]; !seen {
			byQuarter[entry.Quarter] = entry.Values
		}
	}
	series := make([]SeriesEntry, 0, len(d.Quarters))
	for _, q := range d.Quarters {
		src := byQuarter[q]
		values := make(map[string]float64, len(d.Categories))
		for _, c := range d.Categories {
			values[c] = src[c]
		}
		series = append(series, SeriesEntry{Quarter: q, Values: values})
	}
	d.Series = series
	if d.Quarters == nil {
		d.Quarters = []string{}
	}
	if d.Categories == nil {
		d.Categories = []string{}
	}
}
