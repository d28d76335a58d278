package preference

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Choice records one pairwise decision: two pool images were shown and the
// user picked one of them.
type Choice struct {
	id        string
	userID    string
	phase     Phase
	shownA    string
	shownB    string
	chosen    string
	createdAt time.Time
}

// NewChoice creates a validated Choice. The chosen image must be one of the
// two shown images and the pair must be distinct.
func NewChoice(userID string, phase Phase, shownA, shownB, chosen string) (Choice, error) {
	if userID == "" {
		return Choice{}, fmt.Errorf("user id is required")
	}
	if !phase.IsValid() || phase.IsTerminal() {
		return Choice{}, fmt.Errorf("invalid choice phase %q", phase)
	}
	if shownA == "" || shownB == "" {
		return Choice{}, fmt.Errorf("both shown images are required")
	}
	if shownA == shownB {
		return Choice{}, fmt.Errorf("shown images must be distinct")
	}
	if chosen != shownA && chosen != shownB {
		return Choice{}, fmt.Errorf("chosen image %q is not one of the shown pair", chosen)
	}
	return Choice{
		id:        uuid.NewString(),
		userID:    userID,
		phase:     phase,
		shownA:    shownA,
		shownB:    shownB,
		chosen:    chosen,
		createdAt: time.Now().UTC(),
	}, nil
}

// NewChoiceFull creates a Choice with all fields (used by stores).
func NewChoiceFull(id, userID string, phase Phase, shownA, shownB, chosen string, createdAt time.Time) Choice {
	return Choice{
		id:        id,
		userID:    userID,
		phase:     phase,
		shownA:    shownA,
		shownB:    shownB,
		chosen:    chosen,
		createdAt: createdAt,
	}
}

// ID returns the choice ID.
func (c Choice) ID() string { return c.id }

// UserID returns the owning user ID.
func (c Choice) UserID() string { return c.userID }

// Phase returns the phase the choice was recorded in.
func (c Choice) Phase() Phase { return c.phase }

// ShownA returns the first shown image ID.
func (c Choice) ShownA() string { return c.shownA }

// ShownB returns the second shown image ID.
func (c Choice) ShownB() string { return c.shownB }

// Chosen returns the chosen image ID.
func (c Choice) Chosen() string { return c.chosen }

// Rejected returns the shown image that was not chosen.
func (c Choice) Rejected() string {
	if c.chosen == c.shownA {
		return c.shownB
	}
	return c.shownA
}

// CreatedAt returns when the choice was recorded.
func (c Choice) CreatedAt() time.Time { return c.createdAt }
