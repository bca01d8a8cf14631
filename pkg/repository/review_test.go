package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/secmon-lab/briareus/pkg/domain/interfaces"
	"github.com/secmon-lab/briareus/pkg/domain/model"
	"github.com/secmon-lab/briareus/pkg/domain/types"
)

func validReview(riskID int64, priority types.ReviewPriority, due time.Time) *model.ReviewRequest {
	return &model.ReviewRequest{
		RiskID:   riskID,
		Priority: priority,
		Reason:   "Critical asset requires manual review",
		Context: model.ReviewContext{
			EntityName:        "payment-service",
			Description:       "Public storage bucket exposes customer data",
			Justification:     "Confidence 0.72 below auto-approve threshold",
			RecommendedAction: "Verify exposure and restrict bucket policy",
		},
		DueDate: due,
	}
}

func TestReviewRepository(t *testing.T) {
	eachBackend(t, func(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
		now := time.Now().UTC()

		t.Run("Create assigns ID and pending status", func(t *testing.T) {
			repo := newRepo(t)

			created, err := repo.Review().Create(context.Background(),
				validReview(1, types.ReviewPriorityUrgent, now.Add(4*time.Hour)))
			if err != nil {
				t.Fatalf("failed to create review: %v", err)
			}
			if created.ID == "" {
				t.Error("expected non-empty ID")
			}
			if created.Status != types.ReviewStatusPending {
				t.Errorf("expected status=pending, got %s", created.Status)
			}
			if created.CreatedAt.IsZero() {
				t.Error("expected non-zero CreatedAt")
			}
		})

		t.Run("Get returns ErrNotFound for unknown ID", func(t *testing.T) {
			repo := newRepo(t)

			_, err := repo.Review().Get(context.Background(), "no-such-review")
			if !errors.Is(err, interfaces.ErrNotFound) {
				t.Errorf("expected ErrNotFound, got %v", err)
			}
		})

		t.Run("List filters by priority and assignee", func(t *testing.T) {
			repo := newRepo(t)
			ctx := context.Background()

			urgent := validReview(1, types.ReviewPriorityUrgent, now.Add(4*time.Hour))
			urgent.AssignedTo = "alice"
			if _, err := repo.Review().Create(ctx, urgent); err != nil {
				t.Fatalf("failed to create review: %v", err)
			}

			low := validReview(2, types.ReviewPriorityLow, now.Add(168*time.Hour))
			low.AssignedTo = "bob"
			if _, err := repo.Review().Create(ctx, low); err != nil {
				t.Fatalf("failed to create review: %v", err)
			}

			got, err := repo.Review().List(ctx,
				interfaces.WithReviewPriority(types.ReviewPriorityUrgent))
			if err != nil {
				t.Fatalf("failed to list reviews: %v", err)
			}
			if len(got) != 1 || got[0].AssignedTo != "alice" {
				t.Errorf("unexpected priority filter result: %+v", got)
			}

			got, err = repo.Review().List(ctx, interfaces.WithReviewAssignee("bob"))
			if err != nil {
				t.Fatalf("failed to list reviews: %v", err)
			}
			if len(got) != 1 || got[0].Priority != types.ReviewPriorityLow {
				t.Errorf("unexpected assignee filter result: %+v", got)
			}
		})

		t.Run("ListOverdue returns only open past-due requests", func(t *testing.T) {
			repo := newRepo(t)
			ctx := context.Background()

			overdue, err := repo.Review().Create(ctx,
				validReview(1, types.ReviewPriorityUrgent, now.Add(-time.Hour)))
			if err != nil {
				t.Fatalf("failed to create review: %v", err)
			}

			if _, err := repo.Review().Create(ctx,
				validReview(2, types.ReviewPriorityLow, now.Add(24*time.Hour))); err != nil {
				t.Fatalf("failed to create review: %v", err)
			}

			escalated, err := repo.Review().Create(ctx,
				validReview(3, types.ReviewPriorityHigh, now.Add(-2*time.Hour)))
			if err != nil {
				t.Fatalf("failed to create review: %v", err)
			}
			escalated.Status = types.ReviewStatusEscalated
			if _, err := repo.Review().Update(ctx, escalated); err != nil {
				t.Fatalf("failed to escalate review: %v", err)
			}

			got, err := repo.Review().ListOverdue(ctx, now)
			if err != nil {
				t.Fatalf("failed to list overdue reviews: %v", err)
			}
			if len(got) != 1 {
				t.Fatalf("expected 1 overdue review, got %d", len(got))
			}
			if got[0].ID != overdue.ID {
				t.Errorf("unexpected overdue review: %s", got[0].ID)
			}
		})

		t.Run("Update stores completion fields", func(t *testing.T) {
			repo := newRepo(t)
			ctx := context.Background()

			created, err := repo.Review().Create(ctx,
				validReview(1, types.ReviewPriorityMedium, now.Add(72*time.Hour)))
			if err != nil {
				t.Fatalf("failed to create review: %v", err)
			}

			completedAt := now
			created.Status = types.ReviewStatusCompleted
			created.CompletedAt = &completedAt
			created.Outcome = types.ReviewOutcomeApprove
			created.Reviewer = "alice"
			created.ReviewerNotes = "verified and contained"

			updated, err := repo.Review().Update(ctx, created)
			if err != nil {
				t.Fatalf("failed to update review: %v", err)
			}
			if updated.Status != types.ReviewStatusCompleted {
				t.Errorf("expected status=completed, got %s", updated.Status)
			}
			if updated.CompletedAt == nil || !updated.CompletedAt.Equal(completedAt) {
				t.Errorf("expected CompletedAt=%v, got %v", completedAt, updated.CompletedAt)
			}
			if updated.Outcome != types.ReviewOutcomeApprove {
				t.Errorf("expected outcome=approve, got %s", updated.Outcome)
			}
		})
	})
}
