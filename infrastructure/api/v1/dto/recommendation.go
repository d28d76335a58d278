package dto

import "time"

// RecommendationData is one ranked recommendation entry.
type RecommendationData struct {
	ImageID   string    `json:"image_id"`
	Score     float64   `json:"score"`
	Rank      int       `json:"rank"`
	CreatedAt time.Time `json:"created_at"`
}

// RecommendationListResponse is the body of the recommendation endpoints.
type RecommendationListResponse struct {
	Data []RecommendationData `json:"data"`
}
