package image

import "time"

// Embedding is the cached detection result for one image. A row with
// Detected() == false is the sentinel for "no usable face": it is stored so
// the detector is never asked about the same image twice.
type Embedding struct {
	imageID    string
	vector     []float64
	confidence float64
	detected   bool
	createdAt  time.Time
}

// NewEmbedding creates a usable embedding. The vector is copied.
func NewEmbedding(imageID string, vector []float64, confidence float64) Embedding {
	cp := make([]float64, len(vector))
	copy(cp, vector)
	return Embedding{
		imageID:    imageID,
		vector:     cp,
		confidence: confidence,
		detected:   true,
		createdAt:  time.Now().UTC(),
	}
}

// NewSentinelEmbedding creates the "no usable face" marker for an image.
func NewSentinelEmbedding(imageID string, confidence float64) Embedding {
	return Embedding{
		imageID:    imageID,
		confidence: confidence,
		createdAt:  time.Now().UTC(),
	}
}

// NewEmbeddingFull creates an Embedding with all fields (used by stores).
// A nil vector stays nil so sentinel rows round-trip unchanged.
func NewEmbeddingFull(imageID string, vector []float64, confidence float64, detected bool, createdAt time.Time) Embedding {
	var cp []float64
	if vector != nil {
		cp = make([]float64, len(vector))
		copy(cp, vector)
	}
	return Embedding{
		imageID:    imageID,
		vector:     cp,
		confidence: confidence,
		detected:   detected,
		createdAt:  createdAt,
	}
}

// ImageID returns the owning image ID.
func (e Embedding) ImageID() string { return e.imageID }

// Vector returns a copy of the embedding vector, or nil for a sentinel.
func (e Embedding) Vector() []float64 {
	if e.vector == nil {
		return nil
	}
	cp := make([]float64, len(e.vector))
	copy(cp, e.vector)
	return cp
}

// Confidence returns the detection confidence.
func (e Embedding) Confidence() float64 { return e.confidence }

// Detected reports whether the image has a usable face embedding.
func (e Embedding) Detected() bool { return e.detected }

// CreatedAt returns when the detection result was cached.
func (e Embedding) CreatedAt() time.Time { return e.createdAt }
