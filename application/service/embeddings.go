package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Kidkender/dating-ai-engine/domain/image"
	"github.com/Kidkender/dating-ai-engine/internal/config"
	"github.com/Kidkender/dating-ai-engine/internal/database"
)

// Embeddings resolves face embeddings for pool images, caching detector
// results so each image is processed at most once. Images whose strongest
// face falls below the confidence floor are remembered with a sentinel row
// and never re-detected.
type Embeddings struct {
	store    image.EmbeddingStore
	detector image.Detector
	cfg      config.AppConfig
	logger   *slog.Logger
}

// NewEmbeddings creates the embedding service.
func NewEmbeddings(store image.EmbeddingStore, detector image.Detector, cfg config.AppConfig, logger *slog.Logger) *Embeddings {
	if logger == nil {
		logger = slog.Default()
	}
	return &Embeddings{
		store:    store,
		detector: detector,
		cfg:      cfg,
		logger:   logger,
	}
}

// GetOrCompute returns the cached embedding for an image, invoking the
// detector on a cache miss. A cached sentinel or a sub-floor detection
// yields ErrNotDetected. Transient detector failures surface as
// ErrDependency without writing any cache entry.
func (s *Embeddings) GetOrCompute(ctx context.Context, img image.Embeddable) (image.Embedding, error) {
	cached, err := s.store.Get(ctx, img.ID())
	if err == nil {
		if !cached.Detected() {
			return image.Embedding{}, fmt.Errorf("%w: image %s", ErrNotDetected, img.ID())
		}
		return cached, nil
	}
	if !errors.Is(err, database.ErrNotFound) {
		return image.Embedding{}, fmt.Errorf("%w: load embedding: %v", ErrDependency, err)
	}

	detection, err := s.detector.Detect(ctx, img.URL())
	if err != nil {
		// no cache write: a timed-out detection must stay retryable
		return image.Embedding{}, fmt.Errorf("%w: detect %s: %v", ErrDependency, img.ID(), err)
	}

	if !detection.Found || detection.Confidence < s.cfg.MinFaceConfidence() {
		sentinel := image.NewSentinelEmbedding(img.ID(), detection.Confidence)
		if err := s.store.Save(ctx, sentinel); err != nil {
			return image.Embedding{}, fmt.Errorf("%w: save sentinel: %v", ErrDependency, err)
		}
		s.logger.Debug("no usable face",
			"image_id", img.ID(),
			"found", detection.Found,
			"confidence", detection.Confidence,
		)
		return image.Embedding{}, fmt.Errorf("%w: image %s", ErrNotDetected, img.ID())
	}

	if dim := s.cfg.EmbeddingDim(); len(detection.Vector) != dim {
		return image.Embedding{}, fmt.Errorf(
			"%w: detector returned %d-dim vector, expected %d",
			ErrDependency, len(detection.Vector), dim,
		)
	}

	emb := image.NewEmbedding(img.ID(), detection.Vector, detection.Confidence)
	if err := s.store.Save(ctx, emb); err != nil {
		return image.Embedding{}, fmt.Errorf("%w: save embedding: %v", ErrDependency, err)
	}
	return emb, nil
}

// Vectors returns usable embedding vectors for the given image IDs.
func (s *Embeddings) Vectors(ctx context.Context, imageIDs []string) (map[string][]float64, error) {
	vectors, err := s.store.Vectors(ctx, imageIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: load vectors: %v", ErrDependency, err)
	}
	return vectors, nil
}
