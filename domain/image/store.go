package image

import (
	"context"

	"github.com/Kidkender/dating-ai-engine/domain/store"
)

// PoolStore persists pool images.
type PoolStore interface {
	// Save upserts a pool image.
	Save(ctx context.Context, img PoolImage) error

	// Get returns the image by ID, or database.ErrNotFound.
	Get(ctx context.Context, id string) (PoolImage, error)

	// GetByURL returns the image by URL, or database.ErrNotFound.
	GetByURL(ctx context.Context, url string) (PoolImage, error)

	// Find returns images matching the given options.
	Find(ctx context.Context, options ...store.Option) ([]PoolImage, error)

	// Count returns the number of images matching the given options.
	Count(ctx context.Context, options ...store.Option) (int64, error)
}

// UserImageStore persists user-uploaded images.
type UserImageStore interface {
	// Save upserts a user image.
	Save(ctx context.Context, img UserImage) error

	// Get returns the image by ID, or database.ErrNotFound.
	Get(ctx context.Context, id string) (UserImage, error)

	// FindByUser returns all images uploaded by the user, oldest first.
	FindByUser(ctx context.Context, userID string) ([]UserImage, error)

	// SetPrimary marks the given image as the user's primary one, clearing
	// the flag on every other image. Returns database.ErrNotFound when the
	// image does not exist or belongs to another user.
	SetPrimary(ctx context.Context, userID, imageID string) error
}

// EmbeddingStore persists cached detection results, including sentinel rows.
type EmbeddingStore interface {
	// Save stores a detection result for an image, replacing any prior row.
	Save(ctx context.Context, emb Embedding) error

	// Get returns the cached result for an image, or database.ErrNotFound
	// when the image has never been processed.
	Get(ctx context.Context, imageID string) (Embedding, error)

	// GetBatch returns the cached results for the given image IDs, keyed by
	// image ID. Missing images are simply absent from the map.
	GetBatch(ctx context.Context, imageIDs []string) (map[string]Embedding, error)

	// Vectors returns the usable embedding vectors for the given image IDs.
	// Sentinel rows and unprocessed images are omitted.
	Vectors(ctx context.Context, imageIDs []string) (map[string][]float64, error)
}

// Embeddable is any image that can be sent to the detector: it has a stable
// identity for caching and a fetchable location.
type Embeddable interface {
	ID() string
	URL() string
}

// Detection is the raw output of the face detector for one image.
type Detection struct {
	// Found is false when the detector saw no face at all.
	Found bool

	// Vector is the face embedding (empty when Found is false).
	Vector []float64

	// Confidence is the detector's confidence in the strongest face.
	Confidence float64
}

// Detector extracts face embeddings from images.
type Detector interface {
	// Detect fetches the image at url and runs face detection on it.
	Detect(ctx context.Context, url string) (Detection, error)
}
