// Package aggregate turns raw sheet rows into a dense quarterly dataset.
package aggregate

import (
	"cmp"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// quarterPattern matches "2020-Q1", "2020Q1", "2021 - q4".
var quarterPattern = regexp.MustCompile(`(?i)^(\d{4})\s*-?\s*Q([1-4])\s*$`)

// ParseQuarter extracts year and quarter number from a quarter identifier.
func ParseQuarter(s string) (year, quarter int, ok bool) {
	m := quarterPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, 0, false
	}
	year, _ = strconv.Atoi(m[1])
	quarter, _ = strconv.Atoi(m[2])
	return year, quarter, true
}

// QuarterOrder returns year*4 + (quarter-1), or +Inf for unparsable input.
func QuarterOrder(s string) float64 {
	year, quarter, ok := ParseQuarter(s)
	if !ok {
		return math.Inf(1)
	}
	return float64(year*4 + quarter - 1)
}

// CompareQuarters orders quarter identifiers chronologically. Unparsable
// identifiers sort last, among themselves by string.
func CompareQuarters(a, b string) int {
	if c := cmp.Compare(QuarterOrder(a), QuarterOrder(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}
