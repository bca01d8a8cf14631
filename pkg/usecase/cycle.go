package usecase

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/briareus/pkg/domain/interfaces"
	"github.com/secmon-lab/briareus/pkg/domain/model"
	"github.com/secmon-lab/briareus/pkg/domain/types"
	"github.com/secmon-lab/briareus/pkg/utils/errutil"
	"github.com/secmon-lab/briareus/pkg/utils/logging"
)

// CycleUseCase runs one full pipeline cycle: discovery, routing over all
// pending risks, then the overdue-escalation scan, in that fixed order.
// A single-flight guard rejects overlapping cycles.
type CycleUseCase struct {
	repo    interfaces.Repository
	tracker *HealthTracker
	now     func() time.Time
	running atomic.Bool

	discovery *DiscoveryUseCase
	workflow  *WorkflowUseCase
	review    *ReviewUseCase
}

// Run executes one cycle. A stage failure is appended to the summary's
// error list and never prevents later stages from running; the summary is
// persisted even for failed cycles so partial progress stays visible.
func (uc *CycleUseCase) Run(ctx context.Context, trigger model.CycleTrigger) (*model.ExecutionSummary, error) {
	if !uc.running.CompareAndSwap(false, true) {
		return nil, goerr.Wrap(ErrCycleAlreadyRunning, "cycle rejected", goerr.V("trigger", trigger))
	}
	defer uc.running.Store(false)

	logger := logging.From(ctx)
	started := uc.now()
	summary := &model.ExecutionSummary{
		Trigger:   trigger,
		StartedAt: started,
	}

	var stageErrs []string

	discovery, errs := uc.discovery.Run(ctx)
	summary.Discovery = discovery
	stageErrs = append(stageErrs, errs...)
	uc.tracker.Record(types.ComponentDiscovery, len(errs) == 0)

	routing, errs := uc.workflow.ProcessPending(ctx)
	summary.Routing = routing
	stageErrs = append(stageErrs, errs...)
	uc.tracker.Record(types.ComponentRouting, len(errs) == 0)

	escalation, errs := uc.review.EscalateOverdue(ctx)
	summary.Escalation = escalation
	stageErrs = append(stageErrs, errs...)
	uc.tracker.Record(types.ComponentEscalation, len(errs) == 0)

	summary.FinishedAt = uc.now()
	summary.Duration = summary.FinishedAt.Sub(summary.StartedAt)
	summary.Errors = stageErrs
	summary.Success = len(stageErrs) == 0

	if err := uc.repo.Execution().Put(ctx, summary); err != nil {
		uc.tracker.Record(types.ComponentStore, false)
		_ = errutil.Handle(ctx, err, "failed to persist execution summary")
	} else {
		uc.tracker.Record(types.ComponentStore, true)
	}

	logger.Info("pipeline cycle finished",
		"trigger", trigger,
		"duration", summary.Duration,
		"discovered", discovery.Discovered,
		"duplicates", discovery.DuplicatesSkipped,
		"routed", routing.Processed,
		"escalated", escalation.Escalated,
		"errors", len(stageErrs),
		"success", summary.Success,
	)

	return summary, nil
}

// Running reports whether a cycle is currently executing
func (uc *CycleUseCase) Running() bool {
	return uc.running.Load()
}
