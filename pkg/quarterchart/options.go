// Package quarterchart loads quarterly category counts from Excel workbooks
// into dense, sorted time series.
package quarterchart

import "go.uber.org/zap"

// DefaultExcelPath is used when no workbook path is given.
const DefaultExcelPath = "data/data.xlsx"

// Options configures loading behavior.
type Options struct {
	// Sheet names the sheet to read. If empty, the first sheet is used.
	Sheet string
	// Locale drives category collation. If empty, the root collation is used.
	Locale string
	// Logger receives load diagnostics. If nil, logging is disabled.
	Logger *zap.Logger
}

// DefaultOptions returns default load options.
func DefaultOptions() Options {
	return Options{}
}

func (o Options) logger() *zap.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return zap.NewNop()
}
