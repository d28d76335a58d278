package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Kidkender/dating-ai-engine/domain/image"
)

// UserImages manages the images a user uploads of themselves. Detection
// results share the embedding cache with pool images, so an upload whose
// strongest face falls below the confidence floor is remembered with a
// sentinel row and never re-detected.
type UserImages struct {
	store      image.UserImageStore
	embeddings *Embeddings
	logger     *slog.Logger
}

// NewUserImages creates the user image service.
func NewUserImages(store image.UserImageStore, embeddings *Embeddings, logger *slog.Logger) *UserImages {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserImages{
		store:      store,
		embeddings: embeddings,
		logger:     logger,
	}
}

// Upload records a new image for the user and runs face detection on it.
// The image is kept even when no usable face is found; in that case the
// saved image is returned together with ErrNotDetected and stays excluded
// from anything that needs an embedding. The user's first image becomes
// primary automatically; primary forces the flag regardless.
func (s *UserImages) Upload(ctx context.Context, userID, url string, primary bool) (image.UserImage, error) {
	img, err := image.NewUserImage(userID, url)
	if err != nil {
		return image.UserImage{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	existing, err := s.store.FindByUser(ctx, userID)
	if err != nil {
		return image.UserImage{}, fmt.Errorf("%w: list user images: %v", ErrDependency, err)
	}
	if primary || len(existing) == 0 {
		img = img.AsPrimary()
	}

	if err := s.store.Save(ctx, img); err != nil {
		return image.UserImage{}, fmt.Errorf("%w: save user image: %v", ErrDependency, err)
	}
	if img.Primary() && len(existing) > 0 {
		if err := s.store.SetPrimary(ctx, userID, img.ID()); err != nil {
			return image.UserImage{}, fmt.Errorf("%w: set primary: %v", ErrDependency, err)
		}
	}

	_, embErr := s.embeddings.GetOrCompute(ctx, img)
	if embErr != nil && !errors.Is(embErr, ErrNotDetected) {
		return image.UserImage{}, embErr
	}
	if embErr == nil {
		img = img.WithEmbedding()
		if err := s.store.Save(ctx, img); err != nil {
			return image.UserImage{}, fmt.Errorf("%w: save user image: %v", ErrDependency, err)
		}
	}

	s.logger.Info("user image uploaded",
		"user_id", userID,
		"image_id", img.ID(),
		"primary", img.Primary(),
		"face_found", img.HasEmbedding(),
	)
	return img, embErr
}

// List returns the user's images, oldest first.
func (s *UserImages) List(ctx context.Context, userID string) ([]image.UserImage, error) {
	images, err := s.store.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: list user images: %v", ErrDependency, err)
	}
	return images, nil
}

// SetPrimary marks one of the user's images as primary. The store clears
// the flag on every other image atomically.
func (s *UserImages) SetPrimary(ctx context.Context, userID, imageID string) error {
	if imageID == "" {
		return fmt.Errorf("%w: image id is required", ErrValidation)
	}
	return s.store.SetPrimary(ctx, userID, imageID)
}
