package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/briareus/pkg/domain/interfaces"
	"github.com/secmon-lab/briareus/pkg/domain/model"
	"github.com/secmon-lab/briareus/pkg/domain/model/config"
	"github.com/secmon-lab/briareus/pkg/domain/types"
)

// healthBucket aggregates attempt counts for one minute of the window
type healthBucket struct {
	start     time.Time
	attempts  int
	successes int
}

// HealthTracker keeps bounded per-component attempt/success counters over a
// rolling window. Buckets older than the window are evicted on every write
// and read, so memory stays constant under continuous operation.
type HealthTracker struct {
	mu      sync.Mutex
	window  time.Duration
	now     func() time.Time
	buckets map[types.Component][]healthBucket
}

const healthBucketSize = time.Minute

func NewHealthTracker(window time.Duration, now func() time.Time) *HealthTracker {
	return &HealthTracker{
		window:  window,
		now:     now,
		buckets: make(map[types.Component][]healthBucket),
	}
}

// Record notes one attempt for a component
func (t *HealthTracker) Record(component types.Component, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	buckets := t.evict(component, now)

	start := now.Truncate(healthBucketSize)
	if n := len(buckets); n > 0 && buckets[n-1].start.Equal(start) {
		buckets[n-1].attempts++
		if ok {
			buckets[n-1].successes++
		}
	} else {
		b := healthBucket{start: start, attempts: 1}
		if ok {
			b.successes = 1
		}
		buckets = append(buckets, b)
	}
	t.buckets[component] = buckets
}

// Snapshot returns attempt and success counts within the window
func (t *HealthTracker) Snapshot(component types.Component) (attempts, successes int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	buckets := t.evict(component, t.now())
	t.buckets[component] = buckets
	for _, b := range buckets {
		attempts += b.attempts
		successes += b.successes
	}
	return attempts, successes
}

func (t *HealthTracker) evict(component types.Component, now time.Time) []healthBucket {
	buckets := t.buckets[component]
	cutoff := now.Add(-t.window)
	i := 0
	for i < len(buckets) && buckets[i].start.Before(cutoff) {
		i++
	}
	return buckets[i:]
}

// HealthUseCase computes component/system health and the reporting-only
// SLA and workflow metrics.
type HealthUseCase struct {
	repo    interfaces.Repository
	cfg     *config.WorkflowConfig
	tracker *HealthTracker
	now     func() time.Time
}

// metricsWindow bounds the read models below to the trailing day
const metricsWindow = 24 * time.Hour

// ComponentHealth derives one component's status from its rolling window.
// A component with no attempts in the window reports online: absence of
// evidence is not failure.
func (uc *HealthUseCase) ComponentHealth(component types.Component) model.ComponentHealth {
	attempts, successes := uc.tracker.Snapshot(component)

	rate := 1.0
	if attempts > 0 {
		rate = float64(successes) / float64(attempts)
	}

	status := types.ComponentStatusError
	switch {
	case rate >= uc.cfg.ComponentHealth.OnlineMin:
		status = types.ComponentStatusOnline
	case rate >= uc.cfg.ComponentHealth.DegradedMin:
		status = types.ComponentStatusDegraded
	}

	return model.ComponentHealth{
		Component:   component,
		Status:      status,
		Attempts:    attempts,
		Failures:    attempts - successes,
		SuccessRate: rate,
		CheckedAt:   uc.now(),
	}
}

// SystemHealth aggregates all component healths into a system status
func (uc *HealthUseCase) SystemHealth() model.SystemHealth {
	components := types.AllComponents()
	healths := make([]model.ComponentHealth, 0, len(components))
	online := 0
	for _, c := range components {
		h := uc.ComponentHealth(c)
		healths = append(healths, h)
		if h.Status == types.ComponentStatusOnline {
			online++
		}
	}

	ratio := float64(online) / float64(len(components))
	status := types.SystemStatusCritical
	switch {
	case online == len(components):
		status = types.SystemStatusHealthy
	case ratio >= uc.cfg.SystemOnlineRatio:
		status = types.SystemStatusDegraded
	}

	return model.SystemHealth{
		Status:      status,
		Components:  healths,
		OnlineRatio: ratio,
		CheckedAt:   uc.now(),
	}
}

// SLAMetrics reports the trailing-day service levels. Breaching a target is
// observability only; nothing in the pipeline blocks on these numbers.
func (uc *HealthUseCase) SLAMetrics(ctx context.Context) (*model.SLAMetrics, error) {
	now := uc.now()
	since := now.Add(-metricsWindow)

	risks, err := uc.repo.Risk().List(ctx, interfaces.WithRiskCreatedSince(since))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list recent risks")
	}
	automated := 0
	for _, r := range risks {
		if r.SourceSystem != "manual" {
			automated++
		}
	}
	automationRate := 100.0
	if len(risks) > 0 {
		automationRate = float64(automated) / float64(len(risks)) * 100
	}

	completed, err := uc.completedReviews(ctx, since)
	if err != nil {
		return nil, err
	}

	var totalMinutes float64
	approved := 0
	for _, r := range completed {
		totalMinutes += r.CompletedAt.Sub(r.CreatedAt).Minutes()
		if r.Outcome != types.ReviewOutcomeReject {
			approved++
		}
	}
	avgMinutes := 0.0
	accuracy := 100.0
	if len(completed) > 0 {
		avgMinutes = totalMinutes / float64(len(completed))
		accuracy = float64(approved) / float64(len(completed)) * 100
	}

	return &model.SLAMetrics{
		DiscoveryAutomationRate: automationRate,
		AvgResolutionMinutes:    avgMinutes,
		ApprovalAccuracyRate:    accuracy,
		CheckedAt:               now,
	}, nil
}

// WorkflowMetrics is the read model behind get_workflow_metrics
func (uc *HealthUseCase) WorkflowMetrics(ctx context.Context) (*model.WorkflowMetrics, error) {
	now := uc.now()
	since := now.Add(-metricsWindow)

	decisions, err := uc.repo.Decision().ListSince(ctx, since)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list recent decisions")
	}
	metrics := &model.WorkflowMetrics{}
	for _, d := range decisions {
		switch d.Decision {
		case types.DecisionAutoApprove:
			metrics.AutoApproved++
		case types.DecisionAutoReject:
			metrics.AutoRejected++
		}
	}

	reviews, err := uc.repo.Review().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list review requests")
	}
	for _, r := range reviews {
		if r.Status != types.ReviewStatusCompleted {
			metrics.PendingReviews++
		}
		if r.IsOverdue(now) {
			metrics.OverdueReviews++
		}
	}

	completed, err := uc.completedReviews(ctx, since)
	if err != nil {
		return nil, err
	}
	onTime := 0
	for _, r := range completed {
		if !r.CompletedAt.After(r.DueDate) {
			onTime++
		}
	}
	metrics.SLACompliance = 100.0
	if len(completed) > 0 {
		metrics.SLACompliance = float64(onTime) / float64(len(completed)) * 100
	}

	return metrics, nil
}

// Dashboard is the read model behind get_dashboard
func (uc *HealthUseCase) Dashboard(ctx context.Context) (*model.Dashboard, error) {
	performance, err := uc.SLAMetrics(ctx)
	if err != nil {
		return nil, err
	}

	dashboard := &model.Dashboard{
		SystemHealth: uc.SystemHealth(),
		Performance:  *performance,
	}

	latest, err := uc.repo.Execution().Latest(ctx)
	switch {
	case err == nil:
		dashboard.RecentExecution = latest
	case errors.Is(err, interfaces.ErrNotFound):
		// No cycle has run yet
	default:
		return nil, goerr.Wrap(err, "failed to load latest execution summary")
	}

	return dashboard, nil
}

// PruneExecutionLogs deletes execution summaries outside the retention
// window and returns the number of deleted rows
func (uc *HealthUseCase) PruneExecutionLogs(ctx context.Context) (int, error) {
	cutoff := uc.now().Add(-uc.cfg.Retention)
	deleted, err := uc.repo.Execution().Prune(ctx, cutoff)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to prune execution logs")
	}
	return deleted, nil
}

func (uc *HealthUseCase) completedReviews(ctx context.Context, since time.Time) ([]*model.ReviewRequest, error) {
	reviews, err := uc.repo.Review().List(ctx,
		interfaces.WithReviewStatus(types.ReviewStatusCompleted))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list completed reviews")
	}
	out := make([]*model.ReviewRequest, 0, len(reviews))
	for _, r := range reviews {
		if r.CompletedAt != nil && !r.CompletedAt.Before(since) {
			out = append(out, r)
		}
	}
	return out, nil
}
