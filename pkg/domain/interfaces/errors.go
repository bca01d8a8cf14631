package interfaces

import "errors"

// Sentinel errors shared by all repository backends
var (
	// ErrNotFound is returned when a requested record does not exist
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateRisk is returned by RiskRepository.Create when an active
	// risk already exists for the same (title, entity) pair. Callers treat
	// it as a no-op outcome, not a failure.
	ErrDuplicateRisk = errors.New("active risk already exists for the same title and entity")
)
