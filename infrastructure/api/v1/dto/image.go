package dto

import "time"

// UploadImageRequest is the body of POST /api/v1/images.
type UploadImageRequest struct {
	URL     string `json:"url"`
	Primary bool   `json:"primary,omitempty"`
}

// UserImageData is one user-uploaded image.
type UserImageData struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Primary   bool      `json:"primary"`
	FaceFound bool      `json:"face_found"`
	CreatedAt time.Time `json:"created_at"`
}

// UserImageResponse wraps a single user image.
type UserImageResponse struct {
	Data UserImageData `json:"data"`
}

// UserImageListResponse wraps a user's images.
type UserImageListResponse struct {
	Data []UserImageData `json:"data"`
}
