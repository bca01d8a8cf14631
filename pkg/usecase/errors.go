package usecase

import "errors"

// Sentinel errors for the use case layer
var (
	// Not found errors
	ErrRiskNotFound   = errors.New("risk not found")
	ErrReviewNotFound = errors.New("review request not found")

	// Conflict errors
	ErrReviewAlreadyCompleted = errors.New("review request is already completed")
	ErrCycleAlreadyRunning    = errors.New("a pipeline cycle is already running")

	// Validation errors
	ErrInvalidReviewOutcome = errors.New("invalid review outcome")
)
