package prefs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeOrder(t *testing.T) {
	all := []string{"A", "B", "C", "D"}

	tests := []struct {
		name       string
		candidates [][]string
		want       []string
	}{
		{"stored order first", [][]string{{"C", "A"}}, []string{"C", "A", "B", "D"}},
		{"falls through empty tier", [][]string{{}, {"D"}}, []string{"D", "A", "B", "C"}},
		{"override beats published", [][]string{{"B"}, {"D"}}, []string{"B", "A", "C", "D"}},
		{"unknown and duplicate entries dropped", [][]string{{"X", "C", "C", "A"}}, []string{"C", "A", "B", "D"}},
		{"no tiers", nil, []string{"A", "B", "C", "D"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MergeOrder(all, tt.candidates...))
		})
	}
}

func TestMove(t *testing.T) {
	order := []string{"A", "B", "C", "D"}

	moved, ok := Move(order, "A", "C")
	assert.True(t, ok)
	assert.Equal(t, []string{"B", "C", "A", "D"}, moved)

	moved, ok = Move(order, "D", "A")
	assert.True(t, ok)
	assert.Equal(t, []string{"D", "A", "B", "C"}, moved)

	_, ok = Move(order, "A", "A")
	assert.False(t, ok)
	_, ok = Move(order, "X", "A")
	assert.False(t, ok)
	assert.Equal(t, []string{"A", "B", "C", "D"}, order, "input must not be modified")
}

func TestChain(t *testing.T) {
	override := colorMap{"A": "#111111", "B": "garbage"}
	published := colorMap{"B": "#222222", "C": "#333333"}
	computed := newComputedTier([]string{"A", "B", "C", "D"})

	color := Chain(override, published, computed)
	assert.Equal(t, "#111111", color("A"))
	assert.Equal(t, "#222222", color("B"), "invalid override falls through")
	assert.Equal(t, "#333333", color("C"))
	assert.Equal(t, SweepColor(3, 4), color("D"))
	assert.Equal(t, FallbackColor, color("unknown"))
}
