// Package usecase implements the business logic for the entries feature.
package usecase

import "errors"

var (
	// ErrValidation is returned when input is rejected before any storage call.
	ErrValidation = errors.New("validation failed")

	// ErrEntryNotFound is returned when no entry matches both id and owner.
	ErrEntryNotFound = errors.New("entry not found")

	// ErrStorage wraps failures of the backing store (network, query, encoding).
	ErrStorage = errors.New("storage failure")
)
