package interfaces

import (
	"context"
	"time"

	"github.com/secmon-lab/briareus/pkg/domain/model"
)

// EscalationRepository is insert-only; escalation records are part of the
// audit trail. The at-most-one-per-review invariant is enforced by the
// escalation scan excluding already-escalated requests.
type EscalationRepository interface {
	// Create stores an escalation record with a generated ID
	Create(ctx context.Context, record *model.EscalationRecord) (*model.EscalationRecord, error)

	// ListByReview retrieves escalation records for a review request
	ListByReview(ctx context.Context, reviewID string) ([]*model.EscalationRecord, error)

	// ListSince retrieves escalation records created at or after the given time
	ListSince(ctx context.Context, since time.Time) ([]*model.EscalationRecord, error)
}
