package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/secmon-lab/briareus/pkg/domain/interfaces"
	"github.com/secmon-lab/briareus/pkg/domain/model"
)

func summaryAt(started time.Time, success bool) *model.ExecutionSummary {
	return &model.ExecutionSummary{
		Trigger:    model.CycleTriggerScheduled,
		StartedAt:  started,
		FinishedAt: started.Add(3 * time.Second),
		Duration:   3 * time.Second,
		Discovery:  model.DiscoveryResult{Discovered: 2, DuplicatesSkipped: 1},
		Routing:    model.RoutingResult{Processed: 2, AutoApproved: 1, SentToReview: 1},
		Success:    success,
	}
}

func TestExecutionLogRepository(t *testing.T) {
	eachBackend(t, func(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
		t.Run("Latest returns most recent summary", func(t *testing.T) {
			repo := newRepo(t)
			ctx := context.Background()
			now := time.Now().UTC()

			if err := repo.Execution().Put(ctx, summaryAt(now.Add(-2*time.Hour), true)); err != nil {
				t.Fatalf("failed to put summary: %v", err)
			}
			if err := repo.Execution().Put(ctx, summaryAt(now.Add(-time.Minute), false)); err != nil {
				t.Fatalf("failed to put summary: %v", err)
			}

			latest, err := repo.Execution().Latest(ctx)
			if err != nil {
				t.Fatalf("failed to get latest summary: %v", err)
			}
			if latest.Success {
				t.Error("expected latest summary to be the failed one")
			}
			if latest.Discovery.Discovered != 2 {
				t.Errorf("expected discovered=2, got %d", latest.Discovery.Discovered)
			}
		})

		t.Run("Latest returns ErrNotFound when empty", func(t *testing.T) {
			repo := newRepo(t)

			_, err := repo.Execution().Latest(context.Background())
			if !errors.Is(err, interfaces.ErrNotFound) {
				t.Errorf("expected ErrNotFound, got %v", err)
			}
		})

		t.Run("Prune deletes summaries outside retention", func(t *testing.T) {
			repo := newRepo(t)
			ctx := context.Background()
			now := time.Now().UTC()

			if err := repo.Execution().Put(ctx, summaryAt(now.Add(-48*time.Hour), true)); err != nil {
				t.Fatalf("failed to put summary: %v", err)
			}
			if err := repo.Execution().Put(ctx, summaryAt(now.Add(-time.Hour), true)); err != nil {
				t.Fatalf("failed to put summary: %v", err)
			}

			deleted, err := repo.Execution().Prune(ctx, now.Add(-24*time.Hour))
			if err != nil {
				t.Fatalf("failed to prune summaries: %v", err)
			}
			if deleted != 1 {
				t.Errorf("expected 1 deleted summary, got %d", deleted)
			}

			remaining, err := repo.Execution().ListSince(ctx, now.Add(-72*time.Hour))
			if err != nil {
				t.Fatalf("failed to list summaries: %v", err)
			}
			if len(remaining) != 1 {
				t.Errorf("expected 1 remaining summary, got %d", len(remaining))
			}
		})
	})
}
