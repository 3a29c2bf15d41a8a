// Package models defines data structures for quarterly chart data.
package models

// Column names of the source sheet.
const (
	QuarterColumn  = "Quartal"
	CategoryColumn = "Kategorie"
	ValueColumn    = "Anzahl Anschlüsse"
)

// RawRow is one sheet row keyed by header name.
// Values are int64, float64, string or nil (missing cell).
type RawRow map[string]interface{}

// Field returns the value stored under the named column.
// ok is false when the column is absent or holds a null value.
func (r RawRow) Field(name string) (interface{}, bool) {
	v, ok := r[name]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Triple is a normalized (quarter, category, value) observation.
type Triple struct {
	// Quarter is the trimmed quarter identifier (e.g. "2020-Q1").
	Quarter string
	// Category is the trimmed category label.
	Category string
	// Value is the coerced count.
	Value float64
}
