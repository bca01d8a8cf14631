package model

import (
	"time"

	"github.com/secmon-lab/briareus/pkg/domain/types"
)

// ReviewRequest is created when a risk is routed to human review.
// Once completed it is immutable; a second decision submission is a conflict.
type ReviewRequest struct {
	ID            string
	RiskID        int64
	Priority      types.ReviewPriority
	AssignedTo    string
	Reason        string
	Context       ReviewContext
	Status        types.ReviewStatus
	CreatedAt     time.Time
	DueDate       time.Time
	CompletedAt   *time.Time
	Outcome       types.ReviewOutcome
	Reviewer      string
	ReviewerNotes string
}

// ReviewContext carries what a reviewer needs to judge the risk
type ReviewContext struct {
	EntityName        string
	Description       string
	Justification     string
	RecommendedAction string
}

// IsOverdue reports whether the request is past due and still open
func (r *ReviewRequest) IsOverdue(now time.Time) bool {
	return r.Status.IsOpen() && r.DueDate.Before(now)
}

// DerivePriority maps decision factors to a review priority
func DerivePriority(f DecisionFactors) types.ReviewPriority {
	switch {
	case f.BusinessImpact >= 0.8 && f.SeverityLevel >= 0.8:
		return types.ReviewPriorityUrgent
	case f.BusinessImpact >= 0.7 || f.SeverityLevel >= 0.7:
		return types.ReviewPriorityHigh
	case f.BusinessImpact >= 0.5 || f.SeverityLevel >= 0.5:
		return types.ReviewPriorityMedium
	default:
		return types.ReviewPriorityLow
	}
}
