package worker

import (
	"context"
	"errors"
	"time"

	"github.com/secmon-lab/briareus/pkg/domain/interfaces"
	"github.com/secmon-lab/briareus/pkg/domain/types"
	"github.com/secmon-lab/briareus/pkg/usecase"
	"github.com/secmon-lab/briareus/pkg/utils/logging"
)

// HealthWorker probes the store, reports system health and SLA metrics,
// and prunes execution logs outside the retention window.
type HealthWorker struct {
	uc       *usecase.UseCases
	repo     interfaces.Repository
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

func NewHealthWorker(uc *usecase.UseCases, repo interfaces.Repository, interval time.Duration) *HealthWorker {
	return &HealthWorker{
		uc:       uc,
		repo:     repo,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the health check loop in a background goroutine
func (w *HealthWorker) Start(ctx context.Context) {
	logging.From(ctx).Info("health worker starting", "interval", w.interval.String())
	go w.run(ctx)
}

// Stop signals the worker to stop and waits for completion
func (w *HealthWorker) Stop() {
	close(w.stopCh)
	<-w.doneCh
	logging.Default().Info("health worker stopped")
}

func (w *HealthWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.check(ctx)
		case <-w.stopCh:
			return
		case <-ctx.Done():
			logging.From(ctx).Info("health worker context cancelled")
			return
		}
	}
}

func (w *HealthWorker) check(ctx context.Context) {
	logger := logging.From(ctx)

	// Store probe: a read that works (or cleanly reports empty) means the
	// backend is reachable
	_, err := w.repo.Execution().Latest(ctx)
	storeOK := err == nil || errors.Is(err, interfaces.ErrNotFound)
	w.uc.Tracker().Record(types.ComponentStore, storeOK)
	if !storeOK {
		logger.Error("store probe failed", "error", err.Error())
	}

	health := w.uc.Health.SystemHealth()
	logger.Info("system health",
		"status", health.Status,
		"online_ratio", health.OnlineRatio,
	)

	if metrics, err := w.uc.Health.SLAMetrics(ctx); err != nil {
		logger.Error("failed to compute SLA metrics", "error", err.Error())
	} else {
		logger.Info("SLA metrics",
			"automation_rate", metrics.DiscoveryAutomationRate,
			"avg_resolution_minutes", metrics.AvgResolutionMinutes,
			"approval_accuracy", metrics.ApprovalAccuracyRate,
		)
	}

	if deleted, err := w.uc.Health.PruneExecutionLogs(ctx); err != nil {
		logger.Error("failed to prune execution logs", "error", err.Error())
	} else if deleted > 0 {
		logger.Info("pruned execution logs", "deleted", deleted)
	}
}
