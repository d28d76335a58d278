// Package preference holds the choice ledger, the onboarding phase machine,
// and the preference vector types.
package preference

import "fmt"

// PhaseCount is the number of onboarding phases before completion.
const PhaseCount = 3

// Phase represents the onboarding phase of a user.
type Phase string

// Phase values.
const (
	Phase1        Phase = "PHASE_1"
	Phase2        Phase = "PHASE_2"
	Phase3        Phase = "PHASE_3"
	PhaseComplete Phase = "COMPLETE"
)

var phaseOrder = [...]Phase{Phase1, Phase2, Phase3, PhaseComplete}

// ParsePhase parses a phase string.
func ParsePhase(s string) (Phase, error) {
	for _, p := range phaseOrder {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown phase %q", s)
}

// PhaseFromNumber returns the phase for a 1-based phase number.
func PhaseFromNumber(n int) (Phase, error) {
	if n < 1 || n > PhaseCount {
		return "", fmt.Errorf("phase number %d out of range", n)
	}
	return phaseOrder[n-1], nil
}

// Number returns the 1-based phase number, or 0 for the terminal phase.
func (p Phase) Number() int {
	for i, candidate := range phaseOrder[:PhaseCount] {
		if p == candidate {
			return i + 1
		}
	}
	return 0
}

// IsTerminal returns true when no further choices are accepted.
func (p Phase) IsTerminal() bool {
	return p == PhaseComplete
}

// IsValid reports whether the phase is one of the known values.
func (p Phase) IsValid() bool {
	for _, candidate := range phaseOrder {
		if p == candidate {
			return true
		}
	}
	return false
}

// Next returns the phase that follows this one. Advancing past the terminal
// phase is an error.
func (p Phase) Next() (Phase, error) {
	for i, candidate := range phaseOrder {
		if p != candidate {
			continue
		}
		if candidate.IsTerminal() {
			return "", &StateError{From: p, Reason: "already complete"}
		}
		return phaseOrder[i+1], nil
	}
	return "", fmt.Errorf("unknown phase %q", p)
}

// StateError reports an illegal phase operation, such as submitting choices
// to a finished or not-yet-current phase.
type StateError struct {
	From   Phase
	Reason string
}

// Error implements the error interface.
func (e *StateError) Error() string {
	return fmt.Sprintf("phase %s: %s", e.From, e.Reason)
}

// Progress describes how far a user has moved through onboarding.
type Progress struct {
	current Phase
	counts  [PhaseCount]int
	quota   int
}

// NewProgress derives a Progress from per-phase recorded choice counts and
// the per-phase quota. The current phase is the first phase whose quota is
// not yet met; when all quotas are met the progress is terminal.
func NewProgress(counts [PhaseCount]int, quota int) Progress {
	current := PhaseComplete
	for i, n := range counts {
		if n < quota {
			current = phaseOrder[i]
			break
		}
	}
	return Progress{current: current, counts: counts, quota: quota}
}

// Current returns the phase currently accepting choices.
func (p Progress) Current() Phase { return p.current }

// Quota returns the per-phase choice quota.
func (p Progress) Quota() int { return p.quota }

// Count returns the recorded choice count for a 1-based phase number.
func (p Progress) Count(phase int) int {
	if phase < 1 || phase > PhaseCount {
		return 0
	}
	return p.counts[phase-1]
}

// Completed reports whether the given 1-based phase has met its quota.
func (p Progress) Completed(phase int) bool {
	return p.Count(phase) >= p.quota
}

// Done reports whether all phases have met their quotas.
func (p Progress) Done() bool {
	return p.current.IsTerminal()
}

// Accepts validates that a batch of the given size may be recorded against
// the given phase. The phase must be the current one and the batch must
// exactly fill its remaining quota.
func (p Progress) Accepts(phase Phase, batchSize int) error {
	if p.current.IsTerminal() {
		return &StateError{From: p.current, Reason: "onboarding already complete"}
	}
	if phase != p.current {
		return &StateError{
			From:   p.current,
			Reason: fmt.Sprintf("batch targets %s but current phase is %s", phase, p.current),
		}
	}
	remaining := p.quota - p.counts[phase.Number()-1]
	if batchSize != remaining {
		return &StateError{
			From:   p.current,
			Reason: fmt.Sprintf("batch of %d does not fill remaining quota of %d", batchSize, remaining),
		}
	}
	return nil
}
