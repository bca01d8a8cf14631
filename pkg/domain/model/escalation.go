package model

import (
	"time"

	"github.com/secmon-lab/briareus/pkg/domain/types"
)

// EscalationRecord is created when a review request becomes overdue.
// At most one record exists per review request; the escalation scan
// excludes already-escalated requests.
type EscalationRecord struct {
	ID          string
	ReviewID    string
	RiskID      int64
	EscalatedAt time.Time
	Reason      string
	EscalatedTo types.EscalationTarget
}
