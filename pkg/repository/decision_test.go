package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/secmon-lab/briareus/pkg/domain/interfaces"
	"github.com/secmon-lab/briareus/pkg/domain/model"
	"github.com/secmon-lab/briareus/pkg/domain/types"
)

func TestDecisionRepository(t *testing.T) {
	eachBackend(t, func(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
		t.Run("Create stores immutable audit entry", func(t *testing.T) {
			repo := newRepo(t)

			created, err := repo.Decision().Create(context.Background(), &model.WorkflowDecision{
				RiskID:          1,
				Decision:        types.DecisionAutoApprove,
				ConfidenceScore: 0.91,
				Reasoning:       []string{"High ML confidence (0.91)"},
				Automated:       true,
			})
			if err != nil {
				t.Fatalf("failed to create decision: %v", err)
			}
			if created.ID == "" {
				t.Error("expected non-empty ID")
			}
			if created.DecidedAt.IsZero() {
				t.Error("expected non-zero DecidedAt")
			}
			if len(created.Reasoning) != 1 {
				t.Errorf("expected 1 reasoning entry, got %d", len(created.Reasoning))
			}
		})

		t.Run("ListByRisk returns decisions for the risk only", func(t *testing.T) {
			repo := newRepo(t)
			ctx := context.Background()

			for _, riskID := range []int64{1, 1, 2} {
				if _, err := repo.Decision().Create(ctx, &model.WorkflowDecision{
					RiskID:    riskID,
					Decision:  types.DecisionAutoReject,
					Automated: true,
				}); err != nil {
					t.Fatalf("failed to create decision: %v", err)
				}
			}

			got, err := repo.Decision().ListByRisk(ctx, 1)
			if err != nil {
				t.Fatalf("failed to list decisions: %v", err)
			}
			if len(got) != 2 {
				t.Errorf("expected 2 decisions for risk 1, got %d", len(got))
			}
		})

		t.Run("ListSince filters by decided_at", func(t *testing.T) {
			repo := newRepo(t)
			ctx := context.Background()

			old := &model.WorkflowDecision{
				RiskID:    1,
				Decision:  types.DecisionAutoApprove,
				Automated: true,
				DecidedAt: time.Now().UTC().Add(-48 * time.Hour),
			}
			if _, err := repo.Decision().Create(ctx, old); err != nil {
				t.Fatalf("failed to create decision: %v", err)
			}

			recent := &model.WorkflowDecision{
				RiskID:    2,
				Decision:  types.DecisionRequireReview,
				Automated: true,
			}
			if _, err := repo.Decision().Create(ctx, recent); err != nil {
				t.Fatalf("failed to create decision: %v", err)
			}

			got, err := repo.Decision().ListSince(ctx, time.Now().UTC().Add(-24*time.Hour))
			if err != nil {
				t.Fatalf("failed to list decisions: %v", err)
			}
			if len(got) != 1 {
				t.Fatalf("expected 1 recent decision, got %d", len(got))
			}
			if got[0].Decision != types.DecisionRequireReview {
				t.Errorf("unexpected decision: %s", got[0].Decision)
			}
		})
	})
}
