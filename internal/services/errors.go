package services

import "errors"

// Sentinel errors surfaced by the triage services. Callers distinguish them
// with errors.Is; everything else is an unexpected store failure.
var (
	// ErrNotFound means the referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation means the raw input is missing required fields or
	// carries an unmappable enum value. Raised before any store mutation.
	ErrValidation = errors.New("validation failed")
)
