package preference

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{name: "identical", a: []float64{1, 0}, b: []float64{1, 0}, want: 1},
		{name: "orthogonal", a: []float64{1, 0}, b: []float64{0, 1}, want: 0},
		{name: "opposite", a: []float64{1, 0}, b: []float64{-1, 0}, want: -1},
		{name: "scale invariant", a: []float64{2, 2}, b: []float64{9, 9}, want: 1},
		{name: "mismatched dims", a: []float64{1}, b: []float64{1, 0}, want: 0},
		{name: "zero vector", a: []float64{0, 0}, b: []float64{1, 0}, want: 0},
		{name: "empty", a: nil, b: nil, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CosineSimilarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestNormalize(t *testing.T) {
	v := Normalize([]float64{3, 4})

	var norm float64
	for _, f := range v {
		norm += f * f
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-6)
	assert.InDelta(t, 0.6, v[0], 1e-6)
	assert.InDelta(t, 0.8, v[1], 1e-6)
}

func TestNormalizeZeroVector(t *testing.T) {
	v := Normalize([]float64{0, 0, 0})

	require.Len(t, v, 3)
	for _, f := range v {
		assert.False(t, math.IsNaN(f))
		assert.False(t, math.IsInf(f, 0))
		assert.Zero(t, f)
	}
}

func TestAccumulate(t *testing.T) {
	acc := make([]float64, 3)
	Accumulate(acc, []float64{1, 2, 3}, 2)
	Accumulate(acc, []float64{1, 1, 1}, -1)

	assert.Equal(t, []float64{1, 3, 5}, acc)
}

func TestIsZero(t *testing.T) {
	assert.True(t, IsZero([]float64{0, 0}))
	assert.True(t, IsZero(nil))
	assert.False(t, IsZero([]float64{0, 1e-12}))
}

func TestTopKSimilar(t *testing.T) {
	query := []float64{1, 0}
	candidates := map[string][]float64{
		"far":   {0, 1},
		"near":  {1, 0.1},
		"exact": {1, 0},
	}

	got := TopKSimilar(query, candidates, 2)

	require.Len(t, got, 2)
	assert.Equal(t, "exact", got[0].ID)
	assert.Equal(t, "near", got[1].ID)
}

func TestSortScoredTieBreak(t *testing.T) {
	scored := []Scored{
		{ID: "b", Score: 0.5},
		{ID: "a", Score: 0.5},
		{ID: "c", Score: 0.9},
	}
	SortScored(scored)

	assert.Equal(t, "c", scored[0].ID)
	assert.Equal(t, "a", scored[1].ID)
	assert.Equal(t, "b", scored[2].ID)
}
