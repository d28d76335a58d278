package image

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// UserImage is one image a user uploaded of themselves. Each image has at
// most one cached detection result, keyed by its ID like pool images. At
// most one image per user is primary.
type UserImage struct {
	id           string
	userID       string
	url          string
	primary      bool
	hasEmbedding bool
	createdAt    time.Time
}

// NewUserImage creates a user image.
func NewUserImage(userID, url string) (UserImage, error) {
	if userID == "" {
		return UserImage{}, fmt.Errorf("user id is required")
	}
	if url == "" {
		return UserImage{}, fmt.Errorf("image url is required")
	}
	return UserImage{
		id:        uuid.NewString(),
		userID:    userID,
		url:       url,
		createdAt: time.Now().UTC(),
	}, nil
}

// NewUserImageFull creates a UserImage with all fields (used by stores).
func NewUserImageFull(id, userID, url string, primary, hasEmbedding bool, createdAt time.Time) UserImage {
	return UserImage{
		id:           id,
		userID:       userID,
		url:          url,
		primary:      primary,
		hasEmbedding: hasEmbedding,
		createdAt:    createdAt,
	}
}

// ID returns the image ID.
func (u UserImage) ID() string { return u.id }

// UserID returns the owning user ID.
func (u UserImage) UserID() string { return u.userID }

// URL returns the image location.
func (u UserImage) URL() string { return u.url }

// Primary reports whether this is the user's primary image.
func (u UserImage) Primary() bool { return u.primary }

// HasEmbedding reports whether a usable embedding is stored for the image.
func (u UserImage) HasEmbedding() bool { return u.hasEmbedding }

// CreatedAt returns when the image was uploaded.
func (u UserImage) CreatedAt() time.Time { return u.createdAt }

// WithEmbedding marks the image as carrying a usable embedding.
func (u UserImage) WithEmbedding() UserImage {
	u.hasEmbedding = true
	return u
}

// AsPrimary marks the image as the user's primary one.
func (u UserImage) AsPrimary() UserImage {
	u.primary = true
	return u
}
