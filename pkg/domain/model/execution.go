package model

import (
	"time"

	"github.com/secmon-lab/briareus/pkg/domain/types"
)

// CycleTrigger identifies what started a pipeline cycle
type CycleTrigger string

const (
	CycleTriggerScheduled CycleTrigger = "scheduled"
	CycleTriggerManual    CycleTrigger = "manual"
)

// DiscoveryResult summarizes the discovery stage of one cycle
type DiscoveryResult struct {
	Discovered        int
	DuplicatesSkipped int
	Errors            int
}

// RoutingResult summarizes the routing stage of one cycle
type RoutingResult struct {
	Processed    int
	AutoApproved int
	AutoRejected int
	SentToReview int
	Errors       int
}

// EscalationResult summarizes the overdue-escalation scan of one cycle
type EscalationResult struct {
	Scanned   int
	Escalated int
	Errors    int
}

// ExecutionSummary is the per-cycle diagnostic record. It is persisted for
// trend analysis with a retention window and is not authoritative state.
type ExecutionSummary struct {
	ID         string
	Trigger    CycleTrigger
	StartedAt  time.Time
	FinishedAt time.Time
	Duration   time.Duration
	Discovery  DiscoveryResult
	Routing    RoutingResult
	Escalation EscalationResult
	Errors     []string
	Success    bool
}

// ComponentHealth is the rolling-window health of one pipeline component
type ComponentHealth struct {
	Component   types.Component
	Status      types.ComponentStatus
	Attempts    int
	Failures    int
	SuccessRate float64
	CheckedAt   time.Time
}

// SystemHealth aggregates component health into a system-wide status
type SystemHealth struct {
	Status      types.SystemStatus
	Components  []ComponentHealth
	OnlineRatio float64
	CheckedAt   time.Time
}

// SLAMetrics are reported each health check; breaching a target is
// observability, never a blocking condition.
type SLAMetrics struct {
	DiscoveryAutomationRate float64
	AvgResolutionMinutes    float64
	ApprovalAccuracyRate    float64
	CheckedAt               time.Time
}

// SLA targets reported alongside the metrics
const (
	SLATargetAutomationRate    = 90.0
	SLATargetResolutionMinutes = 15.0
)

// WorkflowMetrics is the read model for get_workflow_metrics
type WorkflowMetrics struct {
	AutoApproved   int
	AutoRejected   int
	PendingReviews int
	OverdueReviews int
	SLACompliance  float64
}

// Dashboard is the read model for get_dashboard
type Dashboard struct {
	SystemHealth    SystemHealth
	Performance     SLAMetrics
	RecentExecution *ExecutionSummary
}
