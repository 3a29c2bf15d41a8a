package aggregate

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/quarterchart-go/pkg/quarterchart/models"
	"golang.org/x/text/language"
)

func sampleRows() []models.RawRow {
	return []models.RawRow{
		row("2020-Q2", "Kabel", int64(10)),
		row("2020-Q1", "Glasfaser", int64(5)),
		row("2020-Q1", "Glasfaser", int64(7)),
		row("bogus", "DSL", "3"),
		row("2021 - Q1", "andere", "1'000"),
		row("2020-Q1", nil, int64(99)),
		row("2020Q3", "DSL", "x"),
	}
}

func TestAggregate(t *testing.T) {
	ds, stats := Aggregate("data.xlsx", slices.Values(sampleRows()))

	require.NoError(t, ds.Validate())
	assert.Equal(t, "data.xlsx", ds.ExcelPath)
	assert.Equal(t, []string{"2020-Q1", "2020-Q2", "2020Q3", "2021 - Q1", "bogus"}, ds.Quarters)
	assert.Equal(t, []string{"andere", "DSL", "Glasfaser", "Kabel"}, ds.Categories)

	assert.Equal(t, 12.0, ds.Series[0].Values["Glasfaser"])
	assert.Equal(t, 0.0, ds.Series[0].Values["Kabel"])
	assert.Equal(t, 10.0, ds.Series[1].Values["Kabel"])
	assert.Equal(t, 0.0, ds.Series[2].Values["DSL"])
	assert.Equal(t, 1000.0, ds.Series[3].Values["andere"])
	assert.Equal(t, 3.0, ds.Series[4].Values["DSL"])

	assert.Equal(t, Stats{Rows: 7, Skipped: 1, Defaulted: 1}, stats)
}

func TestAggregateDuplicatesAreAdditive(t *testing.T) {
	rows := []models.RawRow{
		row("2020-Q1", "A", int64(5)),
		row("2020-Q1", "A", int64(7)),
	}
	ds, _ := Aggregate("", slices.Values(rows))
	assert.Equal(t, 12.0, ds.Series[0].Values["A"])
}

func TestAggregateIsOrderIndependent(t *testing.T) {
	rows := sampleRows()
	want, _ := Aggregate("src", slices.Values(rows))

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := slices.Clone(rows)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		got, _ := Aggregate("src", slices.Values(shuffled))
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("permutation %d changed the dataset (-want +got):\n%s", i, diff)
		}
	}
}

func TestAggregateIsIdempotent(t *testing.T) {
	first, _ := Aggregate("src", slices.Values(sampleRows()))
	second, _ := Aggregate("src", slices.Values(sampleRows()))
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("repeated aggregation differs (-first +second):\n%s", diff)
	}
}

func TestAggregateEmpty(t *testing.T) {
	ds, stats := Aggregate("empty", slices.Values([]models.RawRow(nil)))
	require.NoError(t, ds.Validate())
	assert.Empty(t, ds.Quarters)
	assert.Empty(t, ds.Categories)
	assert.NotNil(t, ds.Series)
	assert.Zero(t, stats.Rows)
}

func TestAggregateWithLocale(t *testing.T) {
	rows := []models.RawRow{
		row("2020-Q1", "Zürich", int64(1)),
		row("2020-Q1", "Aarau", int64(1)),
		row("2020-Q1", "Ölten", int64(1)),
	}
	ds, _ := Aggregate("", slices.Values(rows), WithLocale(language.German))
	assert.Equal(t, []string{"Aarau", "Ölten", "Zürich"}, ds.Categories)
}
