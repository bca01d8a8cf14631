package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/secmon-lab/briareus/pkg/domain/interfaces"
	"github.com/secmon-lab/briareus/pkg/domain/model"
	"github.com/secmon-lab/briareus/pkg/domain/types"
)

func validRisk(title, entity string) *model.Risk {
	return &model.Risk{
		SourceSystem: "defender",
		SourceID:     "DEF-1001",
		Title:        title,
		Description:  "Public storage bucket exposes customer data",
		Category:     "data_exposure",
		Severity:     types.SeverityHigh,
		Probability:  70,
		Impact:       80,
		EntityID:     entity,
		Factors: model.DecisionFactors{
			MLConfidence:       0.8,
			HistoricalAccuracy: 0.7,
			SourceReliability:  0.9,
			SeverityLevel:      0.75,
			BusinessImpact:     0.8,
		},
	}
}

func TestRiskRepository(t *testing.T) {
	eachBackend(t, func(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
		t.Run("Create assigns sequential IDs and pending status", func(t *testing.T) {
			repo := newRepo(t)
			ctx := context.Background()

			first, err := repo.Risk().Create(ctx, validRisk("Exposed bucket", "svc-1"))
			if err != nil {
				t.Fatalf("failed to create risk: %v", err)
			}
			if first.ID != 1 {
				t.Errorf("expected ID=1, got %d", first.ID)
			}
			if first.Status != types.RiskStatusPending {
				t.Errorf("expected status=pending, got %s", first.Status)
			}
			if first.CreatedAt.IsZero() || first.UpdatedAt.IsZero() {
				t.Error("expected non-zero timestamps")
			}

			second, err := repo.Risk().Create(ctx, validRisk("Weak TLS config", "svc-2"))
			if err != nil {
				t.Fatalf("failed to create second risk: %v", err)
			}
			if second.ID != 2 {
				t.Errorf("expected ID=2, got %d", second.ID)
			}
		})

		t.Run("Create rejects duplicate of active risk", func(t *testing.T) {
			repo := newRepo(t)
			ctx := context.Background()

			created, err := repo.Risk().Create(ctx, validRisk("Exposed bucket", "svc-1"))
			if err != nil {
				t.Fatalf("failed to create risk: %v", err)
			}

			created.Status = types.RiskStatusActive
			if _, err := repo.Risk().Update(ctx, created); err != nil {
				t.Fatalf("failed to activate risk: %v", err)
			}

			_, err = repo.Risk().Create(ctx, validRisk("Exposed bucket", "svc-1"))
			if !errors.Is(err, interfaces.ErrDuplicateRisk) {
				t.Errorf("expected ErrDuplicateRisk, got %v", err)
			}
		})

		t.Run("Create allows same title on different entity", func(t *testing.T) {
			repo := newRepo(t)
			ctx := context.Background()

			created, err := repo.Risk().Create(ctx, validRisk("Exposed bucket", "svc-1"))
			if err != nil {
				t.Fatalf("failed to create risk: %v", err)
			}
			created.Status = types.RiskStatusActive
			if _, err := repo.Risk().Update(ctx, created); err != nil {
				t.Fatalf("failed to activate risk: %v", err)
			}

			if _, err := repo.Risk().Create(ctx, validRisk("Exposed bucket", "svc-2")); err != nil {
				t.Errorf("expected creation on different entity to succeed, got %v", err)
			}
		})

		t.Run("Create allows duplicate while prior record is not active", func(t *testing.T) {
			repo := newRepo(t)
			ctx := context.Background()

			if _, err := repo.Risk().Create(ctx, validRisk("Exposed bucket", "svc-1")); err != nil {
				t.Fatalf("failed to create risk: %v", err)
			}

			// Prior record is still pending, so a new candidate is allowed
			if _, err := repo.Risk().Create(ctx, validRisk("Exposed bucket", "svc-1")); err != nil {
				t.Errorf("expected creation to succeed, got %v", err)
			}
		})

		t.Run("Get returns ErrNotFound for unknown ID", func(t *testing.T) {
			repo := newRepo(t)

			_, err := repo.Risk().Get(context.Background(), 99999)
			if !errors.Is(err, interfaces.ErrNotFound) {
				t.Errorf("expected ErrNotFound, got %v", err)
			}
		})

		t.Run("List filters by status", func(t *testing.T) {
			repo := newRepo(t)
			ctx := context.Background()

			a, err := repo.Risk().Create(ctx, validRisk("Exposed bucket", "svc-1"))
			if err != nil {
				t.Fatalf("failed to create risk: %v", err)
			}
			if _, err := repo.Risk().Create(ctx, validRisk("Weak TLS config", "svc-2")); err != nil {
				t.Fatalf("failed to create risk: %v", err)
			}

			a.Status = types.RiskStatusActive
			if _, err := repo.Risk().Update(ctx, a); err != nil {
				t.Fatalf("failed to update risk: %v", err)
			}

			pending, err := repo.Risk().List(ctx, interfaces.WithRiskStatus(types.RiskStatusPending))
			if err != nil {
				t.Fatalf("failed to list risks: %v", err)
			}
			if len(pending) != 1 {
				t.Fatalf("expected 1 pending risk, got %d", len(pending))
			}
			if pending[0].Title != "Weak TLS config" {
				t.Errorf("unexpected pending risk: %s", pending[0].Title)
			}
		})

		t.Run("Update preserves CreatedAt and keeps factors", func(t *testing.T) {
			repo := newRepo(t)
			ctx := context.Background()

			created, err := repo.Risk().Create(ctx, validRisk("Exposed bucket", "svc-1"))
			if err != nil {
				t.Fatalf("failed to create risk: %v", err)
			}

			created.Status = types.RiskStatusUnderReview
			created.ConfidenceScore = 0.72
			updated, err := repo.Risk().Update(ctx, created)
			if err != nil {
				t.Fatalf("failed to update risk: %v", err)
			}

			if !updated.CreatedAt.Equal(created.CreatedAt) {
				t.Errorf("expected CreatedAt preserved, got %v", updated.CreatedAt)
			}
			if updated.Status != types.RiskStatusUnderReview {
				t.Errorf("expected status=under_review, got %s", updated.Status)
			}
			if updated.Factors.MLConfidence != 0.8 {
				t.Errorf("expected factors preserved, got %+v", updated.Factors)
			}
		})

		t.Run("Update returns ErrNotFound for unknown risk", func(t *testing.T) {
			repo := newRepo(t)

			missing := validRisk("Ghost risk", "svc-9")
			missing.ID = 4242
			missing.Status = types.RiskStatusPending
			_, err := repo.Risk().Update(context.Background(), missing)
			if !errors.Is(err, interfaces.ErrNotFound) {
				t.Errorf("expected ErrNotFound, got %v", err)
			}
		})
	})
}
