package worker_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/briareus/pkg/domain/interfaces"
	"github.com/secmon-lab/briareus/pkg/domain/model"
	"github.com/secmon-lab/briareus/pkg/domain/types"
	"github.com/secmon-lab/briareus/pkg/repository/memory"
	"github.com/secmon-lab/briareus/pkg/service/signal"
	"github.com/secmon-lab/briareus/pkg/service/worker"
	"github.com/secmon-lab/briareus/pkg/usecase"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestCycleWorkerRunsCycles(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	uc := usecase.New(repo, usecase.WithSources(signal.NewDefender(1)))

	w := worker.NewCycleWorker(uc, 20*time.Millisecond)
	w.Start(ctx)
	defer w.Stop()

	waitFor(t, func() bool {
		_, err := repo.Execution().Latest(ctx)
		return err == nil
	})

	latest, err := repo.Execution().Latest(ctx)
	gt.NoError(t, err)
	gt.Number(t, latest.Discovery.Discovered).GreaterOrEqual(1)
}

func TestCycleWorkerStops(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	uc := usecase.New(repo, usecase.WithSources(signal.NewDefender(1)))

	w := worker.NewCycleWorker(uc, time.Hour)
	w.Start(ctx)

	done := make(chan struct{})
	go func() {
		w.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop in time")
	}
}

func TestHealthWorkerRecordsStoreProbe(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	uc := usecase.New(repo)

	w := worker.NewHealthWorker(uc, repo, 20*time.Millisecond)
	w.Start(ctx)
	defer w.Stop()

	waitFor(t, func() bool {
		attempts, _ := uc.Tracker().Snapshot(types.ComponentStore)
		return attempts >= 1
	})

	attempts, successes := uc.Tracker().Snapshot(types.ComponentStore)
	gt.Number(t, successes).Equal(attempts)
}

func staleSummary() *model.ExecutionSummary {
	return &model.ExecutionSummary{
		Trigger:   model.CycleTriggerScheduled,
		StartedAt: time.Now().UTC().Add(-48 * time.Hour),
		Success:   true,
	}
}

func TestHealthWorkerPrunesOldSummaries(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	uc := usecase.New(repo)

	// A summary far outside the default 24h retention window
	gt.NoError(t, repo.Execution().Put(ctx, staleSummary()))

	w := worker.NewHealthWorker(uc, repo, 20*time.Millisecond)
	w.Start(ctx)
	defer w.Stop()

	waitFor(t, func() bool {
		_, err := repo.Execution().Latest(ctx)
		return errors.Is(err, interfaces.ErrNotFound)
	})
}
