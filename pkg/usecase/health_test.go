package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/briareus/pkg/domain/model"
	"github.com/secmon-lab/briareus/pkg/domain/model/config"
	"github.com/secmon-lab/briareus/pkg/domain/types"
	"github.com/secmon-lab/briareus/pkg/repository/memory"
	"github.com/secmon-lab/briareus/pkg/usecase"
)

func TestHealthTracker(t *testing.T) {
	t.Run("computes success rate over the window", func(t *testing.T) {
		current := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
		tracker := usecase.NewHealthTracker(time.Hour, func() time.Time { return current })

		for i := 0; i < 8; i++ {
			tracker.Record(types.ComponentDiscovery, true)
		}
		tracker.Record(types.ComponentDiscovery, false)
		tracker.Record(types.ComponentDiscovery, false)

		attempts, successes := tracker.Snapshot(types.ComponentDiscovery)
		gt.Number(t, attempts).Equal(10)
		gt.Number(t, successes).Equal(8)
	})

	t.Run("evicts buckets outside the window", func(t *testing.T) {
		current := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
		tracker := usecase.NewHealthTracker(time.Hour, func() time.Time { return current })

		tracker.Record(types.ComponentRouting, false)
		current = current.Add(2 * time.Hour)
		tracker.Record(types.ComponentRouting, true)

		attempts, successes := tracker.Snapshot(types.ComponentRouting)
		gt.Number(t, attempts).Equal(1)
		gt.Number(t, successes).Equal(1)
	})
}

func TestSystemHealthAggregation(t *testing.T) {
	newHealth := func(t *testing.T) *usecase.UseCases {
		cfg := config.DefaultWorkflowConfig()
		cfg.SystemOnlineRatio = 0.75
		return usecase.New(memory.New(), usecase.WithWorkflowConfig(cfg))
	}

	t.Run("all components online is healthy", func(t *testing.T) {
		uc := newHealth(t)
		for _, c := range types.AllComponents() {
			uc.Tracker().Record(c, true)
		}

		health := uc.Health.SystemHealth()
		gt.Value(t, health.Status).Equal(types.SystemStatusHealthy)
		gt.Number(t, health.OnlineRatio).Equal(1.0)
	})

	t.Run("three of four online is degraded", func(t *testing.T) {
		uc := newHealth(t)
		uc.Tracker().Record(types.ComponentDiscovery, true)
		uc.Tracker().Record(types.ComponentRouting, true)
		uc.Tracker().Record(types.ComponentStore, true)
		// Escalation fails every attempt in the window
		uc.Tracker().Record(types.ComponentEscalation, false)
		uc.Tracker().Record(types.ComponentEscalation, false)

		health := uc.Health.SystemHealth()
		gt.Value(t, health.Status).Equal(types.SystemStatusDegraded)
		gt.Number(t, health.OnlineRatio).Equal(0.75)
	})

	t.Run("half online is critical", func(t *testing.T) {
		uc := newHealth(t)
		uc.Tracker().Record(types.ComponentDiscovery, true)
		uc.Tracker().Record(types.ComponentRouting, true)
		uc.Tracker().Record(types.ComponentEscalation, false)
		uc.Tracker().Record(types.ComponentStore, false)

		health := uc.Health.SystemHealth()
		gt.Value(t, health.Status).Equal(types.SystemStatusCritical)
	})

	t.Run("degraded component counts against the online ratio", func(t *testing.T) {
		uc := newHealth(t)
		// 6 of 10 succeeded: below online (0.8), above degraded (0.5)
		for i := 0; i < 6; i++ {
			uc.Tracker().Record(types.ComponentDiscovery, true)
		}
		for i := 0; i < 4; i++ {
			uc.Tracker().Record(types.ComponentDiscovery, false)
		}

		health := uc.Health.ComponentHealth(types.ComponentDiscovery)
		gt.Value(t, health.Status).Equal(types.ComponentStatusDegraded)
		gt.Number(t, health.Attempts).Equal(10)
		gt.Number(t, health.Failures).Equal(4)
	})
}

func TestWorkflowMetrics(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	uc := usecase.New(repo)

	approve := model.DecisionFactors{
		MLConfidence: 0.9, HistoricalAccuracy: 0.9, SourceReliability: 0.9,
		SeverityLevel: 0.1, BusinessImpact: 0.1,
	}
	reject := model.DecisionFactors{
		MLConfidence: 0.2, HistoricalAccuracy: 0.3, SourceReliability: 0.3,
		SeverityLevel: 0.5, BusinessImpact: 0.5,
	}
	review := model.DecisionFactors{
		MLConfidence: 0.7, HistoricalAccuracy: 0.7, SourceReliability: 0.7,
		SeverityLevel: 0.5, BusinessImpact: 0.5,
	}

	for i, f := range []model.DecisionFactors{approve, reject, review} {
		risk, err := repo.Risk().Create(ctx, pendingRisk(
			[]string{"A", "B", "C"}[i], "svc", f, types.SeverityMedium))
		gt.NoError(t, err)
		_, err = uc.Workflow.Route(ctx, risk)
		gt.NoError(t, err)
	}

	metrics, err := uc.Health.WorkflowMetrics(ctx)
	gt.NoError(t, err)
	gt.Number(t, metrics.AutoApproved).Equal(1)
	gt.Number(t, metrics.AutoRejected).Equal(1)
	gt.Number(t, metrics.PendingReviews).Equal(1)
	gt.Number(t, metrics.OverdueReviews).Equal(0)
	gt.Number(t, metrics.SLACompliance).Equal(100.0)
}

func TestDashboard(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	src := &stubSource{name: "defender", accuracy: 0.85, rel: 0.9, batch: []*model.RawSignal{
		rawSignal("Exposed bucket", "svc-1"),
	}}
	uc := usecase.New(repo, usecase.WithSources(src))

	t.Run("empty system has no recent execution", func(t *testing.T) {
		dashboard, err := uc.Health.Dashboard(ctx)
		gt.NoError(t, err)
		gt.Value(t, dashboard.RecentExecution).Nil()
	})

	t.Run("reports the latest cycle after a run", func(t *testing.T) {
		_, err := uc.Cycle.Run(ctx, model.CycleTriggerManual)
		gt.NoError(t, err)

		dashboard, err := uc.Health.Dashboard(ctx)
		gt.NoError(t, err)
		gt.Value(t, dashboard.RecentExecution).NotNil()
		gt.Value(t, dashboard.RecentExecution.Trigger).Equal(model.CycleTriggerManual)
		gt.Number(t, dashboard.Performance.DiscoveryAutomationRate).Equal(100.0)
	})
}

func TestPruneExecutionLogs(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	current := time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC)
	uc := usecase.New(repo, usecase.WithClock(func() time.Time { return current }))

	old := &model.ExecutionSummary{
		Trigger:   model.CycleTriggerScheduled,
		StartedAt: current.Add(-48 * time.Hour),
		Success:   true,
	}
	gt.NoError(t, repo.Execution().Put(ctx, old))

	recent := &model.ExecutionSummary{
		Trigger:   model.CycleTriggerScheduled,
		StartedAt: current.Add(-time.Hour),
		Success:   true,
	}
	gt.NoError(t, repo.Execution().Put(ctx, recent))

	deleted, err := uc.Health.PruneExecutionLogs(ctx)
	gt.NoError(t, err)
	gt.Number(t, deleted).Equal(1)
}
