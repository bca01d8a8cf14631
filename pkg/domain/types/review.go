package types

import "fmt"

// ReviewStatus represents the status of a human review request
type ReviewStatus string

const (
	ReviewStatusPending    ReviewStatus = "pending"
	ReviewStatusInProgress ReviewStatus = "in_progress"
	ReviewStatusCompleted  ReviewStatus = "completed"
	ReviewStatusEscalated  ReviewStatus = "escalated"
)

// IsValid checks if the review status is valid
func (s ReviewStatus) IsValid() bool {
	switch s {
	case ReviewStatusPending, ReviewStatusInProgress, ReviewStatusCompleted, ReviewStatusEscalated:
		return true
	default:
		return false
	}
}

// IsOpen reports whether the request is still waiting for a reviewer.
// Escalated requests stay open; completed requests are immutable.
func (s ReviewStatus) IsOpen() bool {
	switch s {
	case ReviewStatusPending, ReviewStatusInProgress:
		return true
	default:
		return false
	}
}

// String returns the string representation of the review status
func (s ReviewStatus) String() string {
	return string(s)
}

// ParseReviewStatus parses a string into a ReviewStatus
func ParseReviewStatus(s string) (ReviewStatus, error) {
	status := ReviewStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid review status: %s", s)
	}
	return status, nil
}

// ReviewPriority represents the urgency of a review request
type ReviewPriority string

const (
	ReviewPriorityUrgent ReviewPriority = "urgent"
	ReviewPriorityHigh   ReviewPriority = "high"
	ReviewPriorityMedium ReviewPriority = "medium"
	ReviewPriorityLow    ReviewPriority = "low"
)

// AllReviewPriorities returns all valid review priorities in descending urgency
func AllReviewPriorities() []ReviewPriority {
	return []ReviewPriority{
		ReviewPriorityUrgent,
		ReviewPriorityHigh,
		ReviewPriorityMedium,
		ReviewPriorityLow,
	}
}

// IsValid checks if the review priority is valid
func (p ReviewPriority) IsValid() bool {
	switch p {
	case ReviewPriorityUrgent, ReviewPriorityHigh, ReviewPriorityMedium, ReviewPriorityLow:
		return true
	default:
		return false
	}
}

// EscalationTarget returns the role an overdue review of this priority is routed to
func (p ReviewPriority) EscalationTarget() EscalationTarget {
	switch p {
	case ReviewPriorityUrgent:
		return EscalationTargetSecurityManager
	case ReviewPriorityHigh:
		return EscalationTargetSeniorAnalyst
	case ReviewPriorityMedium:
		return EscalationTargetTeamLead
	default:
		return EscalationTargetSupervisor
	}
}

// String returns the string representation of the review priority
func (p ReviewPriority) String() string {
	return string(p)
}

// ParseReviewPriority parses a string into a ReviewPriority
func ParseReviewPriority(s string) (ReviewPriority, error) {
	p := ReviewPriority(s)
	if !p.IsValid() {
		return "", fmt.Errorf("invalid review priority: %s", s)
	}
	return p, nil
}

// ReviewOutcome represents the verdict a human reviewer submits
type ReviewOutcome string

const (
	ReviewOutcomeApprove ReviewOutcome = "approve"
	ReviewOutcomeReject  ReviewOutcome = "reject"
	ReviewOutcomeModify  ReviewOutcome = "modify"
)

// IsValid checks if the review outcome is valid
func (o ReviewOutcome) IsValid() bool {
	switch o {
	case ReviewOutcomeApprove, ReviewOutcomeReject, ReviewOutcomeModify:
		return true
	default:
		return false
	}
}

// RiskStatus returns the terminal risk status a reviewer outcome applies.
// Modify approves the risk with the reviewer's modifications attached as notes.
func (o ReviewOutcome) RiskStatus() RiskStatus {
	switch o {
	case ReviewOutcomeReject:
		return RiskStatusRejected
	default:
		return RiskStatusActive
	}
}

// String returns the string representation of the review outcome
func (o ReviewOutcome) String() string {
	return string(o)
}

// ParseReviewOutcome parses a string into a ReviewOutcome
func ParseReviewOutcome(s string) (ReviewOutcome, error) {
	o := ReviewOutcome(s)
	if !o.IsValid() {
		return "", fmt.Errorf("invalid review outcome: %s", s)
	}
	return o, nil
}

// EscalationTarget represents the role an overdue review is escalated to
type EscalationTarget string

const (
	EscalationTargetSecurityManager EscalationTarget = "security_manager"
	EscalationTargetSeniorAnalyst   EscalationTarget = "senior_analyst"
	EscalationTargetTeamLead        EscalationTarget = "team_lead"
	EscalationTargetSupervisor      EscalationTarget = "supervisor"
)

// String returns the string representation of the escalation target
func (t EscalationTarget) String() string {
	return string(t)
}
