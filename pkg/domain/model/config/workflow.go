package config

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/briareus/pkg/domain/types"
)

// WorkflowConfig holds the tunable parameters of the risk lifecycle pipeline
type WorkflowConfig struct {
	AutoApproveThreshold float64
	ReviewThreshold      float64
	ReviewSLAHours       map[types.ReviewPriority]int
	CycleInterval        time.Duration
	HealthCheckInterval  time.Duration
	HealthWindow         time.Duration
	Retention            time.Duration
	ComponentHealth      ComponentHealthThresholds
	SystemOnlineRatio    float64
	RoutingConcurrency   int
}

// ComponentHealthThresholds are success-rate cutoffs for component health
type ComponentHealthThresholds struct {
	OnlineMin   float64
	DegradedMin float64
}

// DefaultWorkflowConfig returns the pipeline defaults
func DefaultWorkflowConfig() *WorkflowConfig {
	return &WorkflowConfig{
		AutoApproveThreshold: 0.8,
		ReviewThreshold:      0.6,
		ReviewSLAHours: map[types.ReviewPriority]int{
			types.ReviewPriorityUrgent: 4,
			types.ReviewPriorityHigh:   24,
			types.ReviewPriorityMedium: 72,
			types.ReviewPriorityLow:    168,
		},
		CycleInterval:       5 * time.Minute,
		HealthCheckInterval: time.Minute,
		HealthWindow:        time.Hour,
		Retention:           24 * time.Hour,
		ComponentHealth: ComponentHealthThresholds{
			OnlineMin:   0.8,
			DegradedMin: 0.5,
		},
		SystemOnlineRatio:  0.75,
		RoutingConcurrency: 4,
	}
}

// SLAHours returns the SLA hours for a priority, falling back to the
// low-priority window for unknown values
func (c *WorkflowConfig) SLAHours(p types.ReviewPriority) int {
	if h, ok := c.ReviewSLAHours[p]; ok {
		return h
	}
	return c.ReviewSLAHours[types.ReviewPriorityLow]
}

// DueDate computes the review due date from creation time and priority
func (c *WorkflowConfig) DueDate(createdAt time.Time, p types.ReviewPriority) time.Time {
	return createdAt.Add(time.Duration(c.SLAHours(p)) * time.Hour)
}

// Validate checks the workflow configuration
func (c *WorkflowConfig) Validate() error {
	if c.AutoApproveThreshold < 0 || c.AutoApproveThreshold > 1 {
		return goerr.New("auto_approve_threshold must be within [0,1]",
			goerr.V("value", c.AutoApproveThreshold))
	}
	if c.ReviewThreshold < 0 || c.ReviewThreshold > 1 {
		return goerr.New("review_threshold must be within [0,1]",
			goerr.V("value", c.ReviewThreshold))
	}
	if c.ReviewThreshold > c.AutoApproveThreshold {
		return goerr.New("review_threshold must not exceed auto_approve_threshold",
			goerr.V("review", c.ReviewThreshold), goerr.V("approve", c.AutoApproveThreshold))
	}
	for _, p := range types.AllReviewPriorities() {
		h, ok := c.ReviewSLAHours[p]
		if !ok {
			return goerr.New("missing SLA hours for priority", goerr.V("priority", p))
		}
		if h <= 0 {
			return goerr.New("SLA hours must be positive",
				goerr.V("priority", p), goerr.V("hours", h))
		}
	}
	if c.CycleInterval <= 0 {
		return goerr.New("cycle_interval must be positive", goerr.V("value", c.CycleInterval))
	}
	if c.HealthCheckInterval <= 0 {
		return goerr.New("health_check_interval must be positive", goerr.V("value", c.HealthCheckInterval))
	}
	if c.HealthWindow <= 0 {
		return goerr.New("health_window must be positive", goerr.V("value", c.HealthWindow))
	}
	if c.Retention <= 0 {
		return goerr.New("retention must be positive", goerr.V("value", c.Retention))
	}
	if c.ComponentHealth.OnlineMin < c.ComponentHealth.DegradedMin {
		return goerr.New("online_min must not be below degraded_min",
			goerr.V("online_min", c.ComponentHealth.OnlineMin),
			goerr.V("degraded_min", c.ComponentHealth.DegradedMin))
	}
	if c.SystemOnlineRatio <= 0 || c.SystemOnlineRatio > 1 {
		return goerr.New("system_online_ratio must be within (0,1]",
			goerr.V("value", c.SystemOnlineRatio))
	}
	if c.RoutingConcurrency <= 0 {
		return goerr.New("routing_concurrency must be positive",
			goerr.V("value", c.RoutingConcurrency))
	}
	return nil
}
