package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/briareus/pkg/domain/interfaces"
	"github.com/secmon-lab/briareus/pkg/domain/model"
	"github.com/secmon-lab/briareus/pkg/domain/types"
	"github.com/secmon-lab/briareus/pkg/service/notify"
	"github.com/secmon-lab/briareus/pkg/utils/async"
	"github.com/secmon-lab/briareus/pkg/utils/errutil"
)

// ReviewUseCase handles reviewer decision intake and the overdue
// escalation scan.
type ReviewUseCase struct {
	repo     interfaces.Repository
	notifier *notify.Notifier
	now      func() time.Time
}

// ListPending returns review requests that still need a reviewer verdict.
// Escalated requests are included: escalation raises urgency, it does not
// take the request away from reviewers. Empty filter values match all.
func (uc *ReviewUseCase) ListPending(ctx context.Context, assignedTo string, priority types.ReviewPriority) ([]*model.ReviewRequest, error) {
	var opts []interfaces.ListReviewOption
	if assignedTo != "" {
		opts = append(opts, interfaces.WithReviewAssignee(assignedTo))
	}
	if priority != "" {
		opts = append(opts, interfaces.WithReviewPriority(priority))
	}

	reviews, err := uc.repo.Review().List(ctx, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list review requests")
	}

	out := make([]*model.ReviewRequest, 0, len(reviews))
	for _, review := range reviews {
		if review.Status != types.ReviewStatusCompleted {
			out = append(out, review)
		}
	}
	return out, nil
}

// SubmitDecision records a reviewer verdict and applies the terminal
// transition to the linked risk. A second submission for the same review
// fails with ErrReviewAlreadyCompleted and changes nothing.
func (uc *ReviewUseCase) SubmitDecision(ctx context.Context, reviewID string, outcome types.ReviewOutcome, reviewer, notes string) (*model.ReviewRequest, error) {
	if !outcome.IsValid() {
		return nil, goerr.Wrap(ErrInvalidReviewOutcome, "unknown review outcome",
			goerr.V("outcome", outcome))
	}
	if reviewer == "" {
		return nil, goerr.New("reviewer is required", goerr.V("review_id", reviewID))
	}

	review, err := uc.repo.Review().Get(ctx, reviewID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(ErrReviewNotFound, "unknown review request",
				goerr.V("review_id", reviewID))
		}
		return nil, goerr.Wrap(err, "failed to load review request",
			goerr.V("review_id", reviewID))
	}
	if review.Status == types.ReviewStatusCompleted {
		return nil, goerr.Wrap(ErrReviewAlreadyCompleted, "decision already submitted",
			goerr.V("review_id", reviewID), goerr.V("outcome", review.Outcome))
	}

	risk, err := uc.repo.Risk().Get(ctx, review.RiskID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(ErrRiskNotFound, "review references unknown risk",
				goerr.V("review_id", reviewID), goerr.V("risk_id", review.RiskID))
		}
		return nil, goerr.Wrap(err, "failed to load linked risk",
			goerr.V("risk_id", review.RiskID))
	}

	completedAt := uc.now()
	review.Status = types.ReviewStatusCompleted
	review.CompletedAt = &completedAt
	review.Outcome = outcome
	review.Reviewer = reviewer
	review.ReviewerNotes = notes

	updated, err := uc.repo.Review().Update(ctx, review)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to complete review request",
			goerr.V("review_id", reviewID))
	}

	risk.Status = outcome.RiskStatus()
	if _, err := uc.repo.Risk().Update(ctx, risk); err != nil {
		return nil, goerr.Wrap(err, "failed to apply review outcome to risk",
			goerr.V("risk_id", risk.ID), goerr.V("outcome", outcome))
	}

	return updated, nil
}

// EscalateOverdue scans for open review requests past their due date and
// escalates each exactly once. The status flip to escalated excludes the
// request from every later scan, so reruns are no-ops.
func (uc *ReviewUseCase) EscalateOverdue(ctx context.Context) (model.EscalationResult, []string) {
	var result model.EscalationResult
	var errs []string

	now := uc.now()
	overdue, err := uc.repo.Review().ListOverdue(ctx, now)
	if err != nil {
		errs = append(errs, fmt.Sprintf("escalation: failed to list overdue reviews: %v", err))
		return result, errs
	}
	result.Scanned = len(overdue)

	for _, review := range overdue {
		if err := uc.escalate(ctx, review, now); err != nil {
			result.Errors++
			errs = append(errs, fmt.Sprintf("escalation: review %s failed: %v", review.ID, err))
			continue
		}
		result.Escalated++
	}

	return result, errs
}

func (uc *ReviewUseCase) escalate(ctx context.Context, review *model.ReviewRequest, now time.Time) error {
	// Flip status first so a retry after a partial failure cannot create a
	// second EscalationRecord for the same request.
	review.Status = types.ReviewStatusEscalated
	if _, err := uc.repo.Review().Update(ctx, review); err != nil {
		return goerr.Wrap(err, "failed to mark review escalated",
			goerr.V("review_id", review.ID))
	}

	record := &model.EscalationRecord{
		ReviewID:    review.ID,
		RiskID:      review.RiskID,
		EscalatedAt: now,
		Reason: fmt.Sprintf("overdue by %.1f hours",
			now.Sub(review.DueDate).Hours()),
		EscalatedTo: review.Priority.EscalationTarget(),
	}
	created, err := uc.repo.Escalation().Create(ctx, record)
	if err != nil {
		return goerr.Wrap(err, "failed to create escalation record",
			goerr.V("review_id", review.ID))
	}

	if risk, err := uc.repo.Risk().Get(ctx, review.RiskID); err == nil {
		risk.Status = types.RiskStatusEscalated
		if _, err := uc.repo.Risk().Update(ctx, risk); err != nil {
			_ = errutil.Handle(ctx, err, "failed to mark risk escalated")
		}
	}

	async.Dispatch(ctx, func(ctx context.Context) error {
		return uc.notifier.NotifyEscalation(ctx, review, created)
	})

	return nil
}
