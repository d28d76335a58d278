package preference

import (
	"math"
	"sort"
)

// normEpsilon guards against division by zero when normalizing a vector whose
// magnitude is (numerically) zero.
const normEpsilon = 1e-8

// CosineSimilarity computes the cosine similarity between two vectors.
// Mismatched dimensions or zero vectors yield 0.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Normalize returns the L2-normalized copy of v.
func Normalize(v []float64) []float64 {
	var sum float64
	for _, f := range v {
		sum += f * f
	}
	norm := math.Sqrt(sum) + normEpsilon
	out := make([]float64, len(v))
	for i, f := range v {
		out[i] = f / norm
	}
	return out
}

// Accumulate adds w*v into acc element-wise. The accumulator must already
// have the vector's dimension.
func Accumulate(acc, v []float64, w float64) {
	for i := range acc {
		if i < len(v) {
			acc[i] += w * v[i]
		}
	}
}

// IsZero reports whether every element of v is zero.
func IsZero(v []float64) bool {
	for _, f := range v {
		if f != 0 {
			return false
		}
	}
	return true
}

// Scored pairs an image ID with a similarity score.
type Scored struct {
	ID    string
	Score float64
}

// TopKSimilar scores candidates against the query vector and returns the k
// highest, descending by score with ascending ID as the tie-break.
func TopKSimilar(query []float64, candidates map[string][]float64, k int) []Scored {
	scored := make([]Scored, 0, len(candidates))
	for id, vec := range candidates {
		scored = append(scored, Scored{ID: id, Score: CosineSimilarity(query, vec)})
	}
	SortScored(scored)
	if k > 0 && len(scored) > k {
		scored = scored[:k]
	}
	return scored
}

// SortScored orders scores descending, breaking ties by ascending ID so
// identical inputs always produce identical orderings.
func SortScored(scored []Scored) {
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].ID < scored[j].ID
	})
}
