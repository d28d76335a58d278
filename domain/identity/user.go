// Package identity holds the user lifecycle types.
package identity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status represents a user's onboarding lifecycle state.
type Status string

// Status values.
const (
	StatusOnboarding Status = "ONBOARDING"
	StatusActive     Status = "ACTIVE"
	StatusCompleted  Status = "COMPLETED"
)

// IsValid reports whether the status is a known value.
func (s Status) IsValid() bool {
	switch s {
	case StatusOnboarding, StatusActive, StatusCompleted:
		return true
	}
	return false
}

// User is a participant identified by an opaque external ID.
type User struct {
	id          string
	externalID  string
	status      Status
	createdAt   time.Time
	completedAt *time.Time
}

// NewUser creates a new onboarding user.
func NewUser(externalID string) (User, error) {
	if externalID == "" {
		return User{}, fmt.Errorf("external id is required")
	}
	return User{
		id:         uuid.NewString(),
		externalID: externalID,
		status:     StatusOnboarding,
		createdAt:  time.Now().UTC(),
	}, nil
}

// NewUserFull creates a User with all fields (used by stores).
func NewUserFull(id, externalID string, status Status, createdAt time.Time, completedAt *time.Time) User {
	return User{
		id:          id,
		externalID:  externalID,
		status:      status,
		createdAt:   createdAt,
		completedAt: completedAt,
	}
}

// ID returns the user ID.
func (u User) ID() string { return u.id }

// ExternalID returns the opaque upstream identifier.
func (u User) ExternalID() string { return u.externalID }

// Status returns the lifecycle status.
func (u User) Status() Status { return u.status }

// CreatedAt returns when the user was created.
func (u User) CreatedAt() time.Time { return u.createdAt }

// CompletedAt returns when onboarding finished, or nil.
func (u User) CompletedAt() *time.Time {
	if u.completedAt == nil {
		return nil
	}
	t := *u.completedAt
	return &t
}

// Activate moves an onboarding user to active after the first phase finishes.
// Activating from a later state is a no-op.
func (u User) Activate() User {
	if u.status == StatusOnboarding {
		u.status = StatusActive
	}
	return u
}

// Complete marks onboarding as finished. Completing twice keeps the first
// completion time.
func (u User) Complete(at time.Time) User {
	if u.status == StatusCompleted {
		return u
	}
	u.status = StatusCompleted
	at = at.UTC()
	u.completedAt = &at
	return u
}
