package preference

import "time"

// Profile is a user's learned preference vector, recomputed from the full
// choice ledger after every phase advancement.
type Profile struct {
	userID      string
	vector      []float64
	choiceCount int
	updatedAt   time.Time
}

// NewProfile creates a Profile. The vector is copied.
func NewProfile(userID string, vector []float64, choiceCount int, updatedAt time.Time) Profile {
	cp := make([]float64, len(vector))
	copy(cp, vector)
	return Profile{
		userID:      userID,
		vector:      cp,
		choiceCount: choiceCount,
		updatedAt:   updatedAt,
	}
}

// UserID returns the owning user ID.
func (p Profile) UserID() string { return p.userID }

// Vector returns a copy of the unit-norm preference vector.
func (p Profile) Vector() []float64 {
	cp := make([]float64, len(p.vector))
	copy(cp, p.vector)
	return cp
}

// Dimension returns the vector dimensionality.
func (p Profile) Dimension() int { return len(p.vector) }

// ChoiceCount returns the number of ledger choices the vector was computed from.
func (p Profile) ChoiceCount() int { return p.choiceCount }

// UpdatedAt returns when the vector was last recomputed.
func (p Profile) UpdatedAt() time.Time { return p.updatedAt }

// Recommendation is one ranked entry of a persisted recommendation run.
type Recommendation struct {
	userID    string
	imageID   string
	score     float64
	rank      int
	createdAt time.Time
}

// NewRecommendation creates a Recommendation.
func NewRecommendation(userID, imageID string, score float64, rank int, createdAt time.Time) Recommendation {
	return Recommendation{
		userID:    userID,
		imageID:   imageID,
		score:     score,
		rank:      rank,
		createdAt: createdAt,
	}
}

// UserID returns the owning user ID.
func (r Recommendation) UserID() string { return r.userID }

// ImageID returns the recommended pool image ID.
func (r Recommendation) ImageID() string { return r.imageID }

// Score returns the cosine similarity score.
func (r Recommendation) Score() float64 { return r.score }

// Rank returns the 1-based position in the run.
func (r Recommendation) Rank() int { return r.rank }

// CreatedAt returns when the run was generated.
func (r Recommendation) CreatedAt() time.Time { return r.createdAt }
