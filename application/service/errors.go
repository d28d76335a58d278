// Package service implements the application operations on top of the
// domain stores and providers.
package service

import "errors"

// Sentinel errors returned by the services. Callers match them with
// errors.Is; the API layer maps them to HTTP statuses.
var (
	// ErrValidation indicates a malformed or inconsistent request.
	ErrValidation = errors.New("validation failed")

	// ErrNotDetected indicates an image carries no usable face embedding.
	ErrNotDetected = errors.New("no usable face detected")

	// ErrPhaseState indicates an operation that is illegal for the user's
	// current onboarding phase.
	ErrPhaseState = errors.New("phase state violation")

	// ErrInsufficientData indicates there is not enough recorded signal to
	// compute the requested result.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrDependency indicates an external dependency (detector, database)
	// failed.
	ErrDependency = errors.New("dependency failure")
)
