package types

import "fmt"

// Decision represents a terminal routing decision for a risk record
type Decision string

const (
	DecisionAutoApprove   Decision = "auto_approve"
	DecisionRequireReview Decision = "require_review"
	DecisionAutoReject    Decision = "auto_reject"
)

// AllDecisions returns all valid routing decisions
func AllDecisions() []Decision {
	return []Decision{
		DecisionAutoApprove,
		DecisionRequireReview,
		DecisionAutoReject,
	}
}

// IsValid checks if the decision is valid
func (d Decision) IsValid() bool {
	switch d {
	case DecisionAutoApprove, DecisionRequireReview, DecisionAutoReject:
		return true
	default:
		return false
	}
}

// RiskStatus returns the risk status a routing decision transitions to
func (d Decision) RiskStatus() RiskStatus {
	switch d {
	case DecisionAutoApprove:
		return RiskStatusActive
	case DecisionRequireReview:
		return RiskStatusUnderReview
	case DecisionAutoReject:
		return RiskStatusRejected
	default:
		return RiskStatusPending
	}
}

// String returns the string representation of the decision
func (d Decision) String() string {
	return string(d)
}

// ParseDecision parses a string into a Decision
func ParseDecision(s string) (Decision, error) {
	d := Decision(s)
	if !d.IsValid() {
		return "", fmt.Errorf("invalid decision: %s", s)
	}
	return d, nil
}
