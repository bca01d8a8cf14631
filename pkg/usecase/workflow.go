package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/briareus/pkg/domain/interfaces"
	"github.com/secmon-lab/briareus/pkg/domain/model"
	"github.com/secmon-lab/briareus/pkg/domain/model/config"
	"github.com/secmon-lab/briareus/pkg/domain/types"
	"github.com/secmon-lab/briareus/pkg/service/notify"
	"github.com/secmon-lab/briareus/pkg/service/scoring"
	"github.com/secmon-lab/briareus/pkg/utils/async"
	"golang.org/x/sync/errgroup"
)

// WorkflowUseCase routes pending risks through the decision state machine.
// Each evaluation produces exactly one immutable WorkflowDecision record.
type WorkflowUseCase struct {
	repo     interfaces.Repository
	cfg      *config.WorkflowConfig
	notifier *notify.Notifier
	now      func() time.Time
}

// Evaluation is the outcome of one routing evaluation
type Evaluation struct {
	Decision  types.Decision
	Composite float64
	Reasoning []string
}

// Evaluate applies the threshold bands and then the override rules.
// Overrides replace any threshold outcome with require_review; a critical
// or compliance-related candidate never resolves automatically.
func (uc *WorkflowUseCase) Evaluate(f model.DecisionFactors) Evaluation {
	composite := scoring.Score(f)

	var decision types.Decision
	var reasoning []string
	switch {
	case composite >= uc.cfg.AutoApproveThreshold:
		decision = types.DecisionAutoApprove
		reasoning = append(reasoning, fmt.Sprintf(
			"Composite confidence %.2f meets auto-approve threshold %.2f",
			composite, uc.cfg.AutoApproveThreshold))
	case composite >= uc.cfg.ReviewThreshold:
		decision = types.DecisionRequireReview
		reasoning = append(reasoning, fmt.Sprintf(
			"Composite confidence %.2f meets review threshold %.2f",
			composite, uc.cfg.ReviewThreshold))
	default:
		decision = types.DecisionAutoReject
		reasoning = append(reasoning, fmt.Sprintf(
			"Composite confidence %.2f below review threshold %.2f",
			composite, uc.cfg.ReviewThreshold))
	}

	if f.MLConfidence >= 0.85 {
		reasoning = append(reasoning, fmt.Sprintf("High ML confidence (%.2f)", f.MLConfidence))
	}

	var overrides []string
	if f.BusinessImpact >= 0.9 {
		overrides = append(overrides, fmt.Sprintf(
			"Business impact %.2f requires manual review", f.BusinessImpact))
	}
	if f.SeverityLevel >= 0.9 {
		overrides = append(overrides, fmt.Sprintf(
			"Severity level %.2f requires manual review", f.SeverityLevel))
	}
	if f.CriticalAsset {
		overrides = append(overrides,
			"Critical asset requires manual review regardless of confidence")
	}
	if f.ComplianceRelated {
		overrides = append(overrides,
			"Compliance-related risk requires manual review")
	}
	if len(overrides) > 0 {
		decision = types.DecisionRequireReview
		reasoning = append(reasoning, overrides...)
	}

	return Evaluation{Decision: decision, Composite: composite, Reasoning: reasoning}
}

// ProcessPending routes every pending risk. Independent risks are evaluated
// in parallel up to the configured concurrency; a failure for one risk is
// isolated and reported without aborting the others.
func (uc *WorkflowUseCase) ProcessPending(ctx context.Context) (model.RoutingResult, []string) {
	var result model.RoutingResult
	var errs []string

	pending, err := uc.repo.Risk().List(ctx, interfaces.WithRiskStatus(types.RiskStatusPending))
	if err != nil {
		errs = append(errs, fmt.Sprintf("routing: failed to list pending risks: %v", err))
		return result, errs
	}

	var mu sync.Mutex
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(uc.cfg.RoutingConcurrency)

	for _, risk := range pending {
		eg.Go(func() error {
			decision, routeErr := uc.Route(egCtx, risk)

			mu.Lock()
			defer mu.Unlock()
			result.Processed++
			if routeErr != nil {
				result.Errors++
				errs = append(errs, fmt.Sprintf("routing: risk %d failed: %v", risk.ID, routeErr))
				return nil
			}
			switch decision {
			case types.DecisionAutoApprove:
				result.AutoApproved++
			case types.DecisionAutoReject:
				result.AutoRejected++
			case types.DecisionRequireReview:
				result.SentToReview++
			}
			return nil
		})
	}
	_ = eg.Wait()

	return result, errs
}

// Route evaluates one risk, persists the audit record, applies the status
// transition, and hands require_review outcomes to the review engine.
func (uc *WorkflowUseCase) Route(ctx context.Context, risk *model.Risk) (types.Decision, error) {
	factors := risk.Factors
	if model.ComplianceRelatedText(risk.Description) {
		factors.ComplianceRelated = true
	}

	eval := uc.Evaluate(factors)
	now := uc.now()

	decision := &model.WorkflowDecision{
		RiskID:          risk.ID,
		Decision:        eval.Decision,
		ConfidenceScore: eval.Composite,
		Reasoning:       eval.Reasoning,
		Factors:         factors,
		Automated:       true,
		DecidedAt:       now,
	}
	if _, err := uc.repo.Decision().Create(ctx, decision); err != nil {
		return "", goerr.Wrap(err, "failed to record workflow decision",
			goerr.V("risk_id", risk.ID))
	}

	risk.Status = eval.Decision.RiskStatus()
	risk.ConfidenceScore = eval.Composite
	updated, err := uc.repo.Risk().Update(ctx, risk)
	if err != nil {
		return "", goerr.Wrap(err, "failed to apply routing transition",
			goerr.V("risk_id", risk.ID), goerr.V("decision", eval.Decision))
	}

	if eval.Decision == types.DecisionRequireReview {
		if err := uc.createReviewRequest(ctx, updated, factors, eval, now); err != nil {
			return "", err
		}
	}

	if eval.Decision == types.DecisionAutoReject &&
		(risk.Severity == types.SeverityHigh || risk.Severity == types.SeverityCritical) {
		async.Dispatch(ctx, func(ctx context.Context) error {
			return uc.notifier.NotifyDecision(ctx, updated, decision)
		})
	}

	return eval.Decision, nil
}

func (uc *WorkflowUseCase) createReviewRequest(ctx context.Context, risk *model.Risk, factors model.DecisionFactors, eval Evaluation, now time.Time) error {
	priority := model.DerivePriority(factors)

	review := &model.ReviewRequest{
		RiskID:     risk.ID,
		Priority:   priority,
		AssignedTo: risk.AssignedTo,
		Reason:     eval.Reasoning[len(eval.Reasoning)-1],
		Context: model.ReviewContext{
			EntityName:        risk.EntityID,
			Description:       risk.Description,
			Justification:     fmt.Sprintf("Composite confidence %.2f", eval.Composite),
			RecommendedAction: fmt.Sprintf("Review %s finding and confirm or reject the risk", risk.Category),
		},
		CreatedAt: now,
		DueDate:   uc.cfg.DueDate(now, priority),
	}

	if _, err := uc.repo.Review().Create(ctx, review); err != nil {
		return goerr.Wrap(err, "failed to create review request",
			goerr.V("risk_id", risk.ID), goerr.V("priority", priority))
	}
	return nil
}
