package aggregate

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ukaji3/quarterchart-go/pkg/quarterchart/models"
)

// numberNoise holds the apostrophe and space variants used as digit
// group separators in exported counts ("1'234", "1’234", "1 234").
var numberNoise = strings.NewReplacer(
	"'", "",
	"\u2019", "",
	" ", "",
	"\u00a0", "",
	"\u202f", "",
)

// Normalize converts a raw row into a triple. ok is false when the
// quarter or category cell is missing or blank. A bad value never
// rejects the row; it is coerced to 0.
func Normalize(row models.RawRow) (triple models.Triple, ok bool) {
	triple, ok, _ = normalize(row)
	return triple, ok
}

func normalize(row models.RawRow) (models.Triple, bool, bool) {
	q, hasQuarter := row.Field(models.QuarterColumn)
	k, hasCategory := row.Field(models.CategoryColumn)
	if !hasQuarter || !hasCategory {
		return models.Triple{}, false, true
	}

	quarter := strings.TrimSpace(cellString(q))
	category := strings.TrimSpace(cellString(k))
	if quarter == "" || category == "" {
		return models.Triple{}, false, true
	}

	v, _ := row.Field(models.ValueColumn)
	value, clean := CoerceValue(v)
	return models.Triple{Quarter: quarter, Category: category, Value: value}, true, clean
}

// CoerceValue turns a cell value into a finite number. Numbers pass
// through; anything else is stripped of separators and parsed. clean is
// false when the value had to default to 0.
func CoerceValue(v interface{}) (value float64, clean bool) {
	switch n := v.(type) {
	case float64:
		return finite(n)
	case float32:
		return finite(float64(n))
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case nil:
		return 0, true
	}

	s := numberNoise.Replace(cellString(v))
	if s == "" {
		return 0, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return finite(f)
}

func finite(f float64) (float64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// cellString renders a cell value the way it reads in the sheet.
func cellString(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(s, 10)
	default:
		return fmt.Sprint(v)
	}
}
