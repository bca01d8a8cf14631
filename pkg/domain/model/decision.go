package model

import (
	"time"

	"github.com/secmon-lab/briareus/pkg/domain/types"
)

// WorkflowDecision is an immutable audit entry created exactly once per
// routing evaluation. It is never mutated after creation.
type WorkflowDecision struct {
	ID              string
	RiskID          int64
	Decision        types.Decision
	ConfidenceScore float64
	Reasoning       []string
	Factors         DecisionFactors
	Automated       bool
	DecidedAt       time.Time
}
