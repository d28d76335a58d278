package dto

// CandidateImage is one pool image of a candidate pair.
type CandidateImage struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CandidatePairData is one pair to present for a binary choice.
type CandidatePairData struct {
	ImageA CandidateImage `json:"image_a"`
	ImageB CandidateImage `json:"image_b"`
}

// CandidateBatchResponse is the body of GET /api/v1/candidates.
type CandidateBatchResponse struct {
	Phase string              `json:"phase"`
	Data  []CandidatePairData `json:"data"`
}
