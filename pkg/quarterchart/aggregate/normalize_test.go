package aggregate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ukaji3/quarterchart-go/pkg/quarterchart/models"
)

func row(q, k, v interface{}) models.RawRow {
	return models.RawRow{
		models.QuarterColumn:  q,
		models.CategoryColumn: k,
		models.ValueColumn:    v,
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		row  models.RawRow
		want models.Triple
		ok   bool
	}{
		{"numeric value", row("2020-Q1", "A", int64(5)), models.Triple{Quarter: "2020-Q1", Category: "A", Value: 5}, true},
		{"trims labels", row(" 2020-Q1 ", "  A ", 1.5), models.Triple{Quarter: "2020-Q1", Category: "A", Value: 1.5}, true},
		{"grouped string", row("2020-Q1", "A", "1'234 "), models.Triple{Quarter: "2020-Q1", Category: "A", Value: 1234}, true},
		{"typographic apostrophe", row("2020-Q1", "A", "12’345"), models.Triple{Quarter: "2020-Q1", Category: "A", Value: 12345}, true},
		{"garbage value", row("2020-Q1", "A", "n/a"), models.Triple{Quarter: "2020-Q1", Category: "A", Value: 0}, true},
		{"missing value", row("2020-Q1", "A", nil), models.Triple{Quarter: "2020-Q1", Category: "A", Value: 0}, true},
		{"numeric quarter label", row(int64(2020), "A", int64(1)), models.Triple{Quarter: "2020", Category: "A", Value: 1}, true},
		{"missing quarter", row(nil, "A", int64(1)), models.Triple{}, false},
		{"blank category", row("2020-Q1", "   ", int64(1)), models.Triple{}, false},
		{"absent columns", models.RawRow{"other": "x"}, models.Triple{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Normalize(tt.row)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCoerceValue(t *testing.T) {
	tests := []struct {
		input interface{}
		want  float64
		clean bool
	}{
		{int64(7), 7, true},
		{3.25, 3.25, true},
		{"1'234 ", 1234, true},
		{"1 000 000", 1000000, true},
		{"", 0, true},
		{"abc", 0, false},
		{"Infinity", 0, false},
		{math.NaN(), 0, false},
		{true, 0, false},
	}

	for _, tt := range tests {
		got, clean := CoerceValue(tt.input)
		assert.Equal(t, tt.want, got, "CoerceValue(%v)", tt.input)
		assert.Equal(t, tt.clean, clean, "CoerceValue(%v) clean", tt.input)
	}
}
