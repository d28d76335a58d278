// Package dto holds request and response bodies for the v1 API.
package dto

// ChoiceItem is one pairwise decision of a submitted batch.
type ChoiceItem struct {
	ShownA string `json:"shown_a"`
	ShownB string `json:"shown_b"`
	Chosen string `json:"chosen"`
}

// ChoiceBatchRequest is the body of POST /api/v1/choices.
type ChoiceBatchRequest struct {
	Phase   string       `json:"phase"`
	Choices []ChoiceItem `json:"choices"`
}

// PhaseStatusData describes a user's onboarding progress.
type PhaseStatusData struct {
	CurrentPhase string         `json:"current_phase"`
	Quota        int            `json:"quota"`
	Completed    bool           `json:"completed"`
	Phases       []PhaseCounter `json:"phases"`
}

// PhaseCounter is the per-phase progress entry.
type PhaseCounter struct {
	Phase     string `json:"phase"`
	Recorded  int    `json:"recorded"`
	Completed bool   `json:"completed"`
}

// PhaseStatusResponse wraps a phase status report.
type PhaseStatusResponse struct {
	Data PhaseStatusData `json:"data"`
}
