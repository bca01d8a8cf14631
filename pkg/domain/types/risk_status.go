package types

import "fmt"

// RiskStatus represents the lifecycle status of a risk record
type RiskStatus string

const (
	RiskStatusPending     RiskStatus = "pending"
	RiskStatusActive      RiskStatus = "active"
	RiskStatusRejected    RiskStatus = "rejected"
	RiskStatusUnderReview RiskStatus = "under_review"
	RiskStatusEscalated   RiskStatus = "escalated"
)

// AllRiskStatuses returns all valid risk statuses
func AllRiskStatuses() []RiskStatus {
	return []RiskStatus{
		RiskStatusPending,
		RiskStatusActive,
		RiskStatusRejected,
		RiskStatusUnderReview,
		RiskStatusEscalated,
	}
}

// IsValid checks if the risk status is valid
func (s RiskStatus) IsValid() bool {
	switch s {
	case RiskStatusPending,
		RiskStatusActive,
		RiskStatusRejected,
		RiskStatusUnderReview,
		RiskStatusEscalated:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the status is a terminal routing outcome.
// A terminal risk is not re-evaluated without a new discovery event.
func (s RiskStatus) IsTerminal() bool {
	switch s {
	case RiskStatusActive, RiskStatusRejected:
		return true
	default:
		return false
	}
}

// String returns the string representation of the risk status
func (s RiskStatus) String() string {
	return string(s)
}

// ParseRiskStatus parses a string into a RiskStatus
func ParseRiskStatus(s string) (RiskStatus, error) {
	status := RiskStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid risk status: %s", s)
	}
	return status, nil
}
