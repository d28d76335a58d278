// Package image holds the pool image and face embedding types.
package image

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PoolImage is one image of the candidate pool shown during onboarding and
// ranked for recommendations.
type PoolImage struct {
	id           string
	url          string
	phase        int
	hasEmbedding bool
	active       bool
	createdAt    time.Time
}

// NewPoolImage creates a pool image. A phase of 0 means the image is
// eligible for any phase; 1..3 restricts it to that phase.
func NewPoolImage(url string, phase int) (PoolImage, error) {
	if url == "" {
		return PoolImage{}, fmt.Errorf("image url is required")
	}
	if phase < 0 || phase > 3 {
		return PoolImage{}, fmt.Errorf("phase tag %d out of range", phase)
	}
	return PoolImage{
		id:        uuid.NewString(),
		url:       url,
		phase:     phase,
		active:    true,
		createdAt: time.Now().UTC(),
	}, nil
}

// NewPoolImageFull creates a PoolImage with all fields (used by stores).
func NewPoolImageFull(id, url string, phase int, hasEmbedding, active bool, createdAt time.Time) PoolImage {
	return PoolImage{
		id:           id,
		url:          url,
		phase:        phase,
		hasEmbedding: hasEmbedding,
		active:       active,
		createdAt:    createdAt,
	}
}

// ID returns the image ID.
func (p PoolImage) ID() string { return p.id }

// URL returns the image location.
func (p PoolImage) URL() string { return p.url }

// Phase returns the phase eligibility tag (0 = any phase).
func (p PoolImage) Phase() int { return p.phase }

// HasEmbedding reports whether a usable embedding is stored for the image.
func (p PoolImage) HasEmbedding() bool { return p.hasEmbedding }

// Active reports whether the image participates in selection and ranking.
func (p PoolImage) Active() bool { return p.active }

// CreatedAt returns when the image was added to the pool.
func (p PoolImage) CreatedAt() time.Time { return p.createdAt }

// WithEmbedding marks the image as carrying a usable embedding.
func (p PoolImage) WithEmbedding() PoolImage {
	p.hasEmbedding = true
	return p
}

// Deactivate removes the image from selection and ranking.
func (p PoolImage) Deactivate() PoolImage {
	p.active = false
	return p
}

// EligibleFor reports whether the image may be shown in the given 1-based
// phase.
func (p PoolImage) EligibleFor(phase int) bool {
	return p.active && (p.phase == 0 || p.phase == phase)
}
