package interfaces

import (
	"context"
	"time"

	"github.com/secmon-lab/briareus/pkg/domain/model"
)

// DecisionRepository is insert-only; workflow decisions are a permanent
// audit trail and are never updated or deleted.
type DecisionRepository interface {
	// Create stores a workflow decision with a generated ID
	Create(ctx context.Context, decision *model.WorkflowDecision) (*model.WorkflowDecision, error)

	// ListByRisk retrieves all decisions for a risk, oldest first
	ListByRisk(ctx context.Context, riskID int64) ([]*model.WorkflowDecision, error)

	// ListSince retrieves decisions made at or after the given time
	ListSince(ctx context.Context, since time.Time) ([]*model.WorkflowDecision, error)
}
