package aggregate

import (
	"iter"
	"slices"
	"strings"

	"github.com/samber/lo"
	"github.com/ukaji3/quarterchart-go/pkg/quarterchart/models"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Stats summarizes one aggregation pass.
type Stats struct {
	// Rows is the number of rows read.
	Rows int
	// Skipped counts rows without quarter or category.
	Skipped int
	// Defaulted counts accepted rows whose value fell back to 0.
	Defaulted int
}

type config struct {
	locale language.Tag
}

// Option configures Aggregate.
type Option func(*config)

// WithLocale sets the collation locale used to sort categories.
func WithLocale(tag language.Tag) Option {
	return func(c *config) {
		c.locale = tag
	}
}

// Aggregate folds rows into a dense dataset. Values of duplicate
// (quarter, category) pairs are summed. Quarters are sorted
// chronologically, categories by locale-aware collation. The result does
// not depend on row order.
func Aggregate(source string, rows iter.Seq[models.RawRow], opts ...Option) (*models.Dataset, Stats) {
	cfg := config{locale: language.Und}
	for _, opt := range opts {
		opt(&cfg)
	}

	var stats Stats
	byQuarter := make(map[string]map[string]float64)
	categorySet := make(map[string]struct{})

	for row := range rows {
		stats.Rows++
		triple, ok, clean := normalize(row)
		if !ok {
			stats.Skipped++
			continue
		}
		if !clean {
			stats.Defaulted++
		}

		m, exists := byQuarter[triple.Quarter]
		if !exists {
			m = make(map[string]float64)
			byQuarter[triple.Quarter] = m
		}
		m[triple.Category] += triple.Value
		categorySet[triple.Category] = struct{}{}
	}

	quarters := lo.Keys(byQuarter)
	slices.SortFunc(quarters, CompareQuarters)

	categories := lo.Keys(categorySet)
	sortCategories(categories, cfg.locale)

	series := make([]models.SeriesEntry, 0, len(quarters))
	for _, q := range quarters {
		src := byQuarter[q]
		values := make(map[string]float64, len(categories))
		for _, c := range categories {
			values[c] = src[c]
		}
		series = append(series, models.SeriesEntry{Quarter: q, Values: values})
	}

	return &models.Dataset{
		ExcelPath:  source,
		Quarters:   quarters,
		Categories: categories,
		Series:     series,
	}, stats
}

// sortCategories sorts by collation, falling back to byte order for
// strings the collator considers equal.
func sortCategories(categories []string, locale language.Tag) {
	c := collate.New(locale)
	slices.SortFunc(categories, func(a, b string) int {
		if r := c.CompareString(a, b); r != 0 {
			return r
		}
		return strings.Compare(a, b)
	})
}
