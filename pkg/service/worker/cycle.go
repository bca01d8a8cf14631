// Package worker runs the background loops of the pipeline: the periodic
// full cycle and the more frequent health check. Both support cooperative
// shutdown: stop accepting ticks, let in-flight work finish.
//
// Architecture assumptions:
// - Single server instance (no distributed locking)
// - For future horizontal scaling, implement distributed locking or leader election
package worker

import (
	"context"
	"errors"
	"time"

	"github.com/secmon-lab/briareus/pkg/domain/model"
	"github.com/secmon-lab/briareus/pkg/usecase"
	"github.com/secmon-lab/briareus/pkg/utils/logging"
)

// CycleWorker drives full pipeline cycles on a fixed interval
type CycleWorker struct {
	uc       *usecase.UseCases
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

func NewCycleWorker(uc *usecase.UseCases, interval time.Duration) *CycleWorker {
	return &CycleWorker{
		uc:       uc,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the cycle loop in a background goroutine
func (w *CycleWorker) Start(ctx context.Context) {
	logging.From(ctx).Info("cycle worker starting", "interval", w.interval.String())
	go w.run(ctx)
}

// Stop signals the worker to stop and waits for the in-flight cycle to finish
func (w *CycleWorker) Stop() {
	close(w.stopCh)
	<-w.doneCh
	logging.Default().Info("cycle worker stopped")
}

func (w *CycleWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	w.tick(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.tick(ctx)
		case <-w.stopCh:
			return
		case <-ctx.Done():
			logging.From(ctx).Info("cycle worker context cancelled")
			return
		}
	}
}

func (w *CycleWorker) tick(ctx context.Context) {
	_, err := w.uc.Cycle.Run(ctx, model.CycleTriggerScheduled)
	switch {
	case err == nil:
	case errors.Is(err, usecase.ErrCycleAlreadyRunning):
		logging.From(ctx).Warn("skipped scheduled cycle, previous cycle still running")
	default:
		logging.From(ctx).Error("scheduled cycle failed", "error", err.Error())
	}
}
