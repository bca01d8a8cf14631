package interfaces

import (
	"context"
	"time"

	"github.com/secmon-lab/briareus/pkg/domain/model"
	"github.com/secmon-lab/briareus/pkg/domain/types"
)

type RiskRepository interface {
	// Create creates a new risk with auto-generated ID. It fails with
	// ErrDuplicateRisk when an active risk already exists for the same
	// (title, entity) pair; the check runs under the backend's
	// transactional guarantee so concurrent inserts cannot race.
	Create(ctx context.Context, risk *model.Risk) (*model.Risk, error)

	// Get retrieves a risk by ID
	Get(ctx context.Context, id int64) (*model.Risk, error)

	// List retrieves risks, optionally filtered
	List(ctx context.Context, opts ...ListRiskOption) ([]*model.Risk, error)

	// Update updates an existing risk
	Update(ctx context.Context, risk *model.Risk) (*model.Risk, error)
}

// ListRiskOption is a functional option for filtering risks in List
type ListRiskOption func(*listRiskConfig)

type listRiskConfig struct {
	status *types.RiskStatus
	since  *time.Time
}

// WithRiskStatus filters risks by status
func WithRiskStatus(status types.RiskStatus) ListRiskOption {
	return func(c *listRiskConfig) {
		c.status = &status
	}
}

// WithRiskCreatedSince filters risks created at or after the given time
func WithRiskCreatedSince(since time.Time) ListRiskOption {
	return func(c *listRiskConfig) {
		c.since = &since
	}
}

// BuildListRiskConfig builds a listRiskConfig from options
func BuildListRiskConfig(opts ...ListRiskOption) *listRiskConfig {
	cfg := &listRiskConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Status returns the status filter value, or nil if not set
func (c *listRiskConfig) Status() *types.RiskStatus {
	return c.status
}

// CreatedSince returns the created-at filter value, or nil if not set
func (c *listRiskConfig) CreatedSince() *time.Time {
	return c.since
}
