package interfaces

import (
	"context"
	"time"

	"github.com/secmon-lab/briareus/pkg/domain/model"
)

// ExecutionLogRepository stores per-cycle diagnostics. Summaries are
// append-only and pruned by a retention window; they are never business state.
type ExecutionLogRepository interface {
	// Put stores an execution summary
	Put(ctx context.Context, summary *model.ExecutionSummary) error

	// Latest retrieves the most recent execution summary, or ErrNotFound
	Latest(ctx context.Context) (*model.ExecutionSummary, error)

	// ListSince retrieves summaries started at or after the given time,
	// newest first
	ListSince(ctx context.Context, since time.Time) ([]*model.ExecutionSummary, error)

	// Prune deletes summaries older than the given time and returns the
	// number of deleted rows
	Prune(ctx context.Context, olderThan time.Time) (int, error)
}
