package interfaces

import (
	"context"
	"time"

	"github.com/secmon-lab/briareus/pkg/domain/model"
	"github.com/secmon-lab/briareus/pkg/domain/types"
)

type ReviewRepository interface {
	// Create stores a new review request
	Create(ctx context.Context, review *model.ReviewRequest) (*model.ReviewRequest, error)

	// Get retrieves a review request by ID
	Get(ctx context.Context, id string) (*model.ReviewRequest, error)

	// List retrieves review requests, optionally filtered
	List(ctx context.Context, opts ...ListReviewOption) ([]*model.ReviewRequest, error)

	// ListOverdue retrieves open (pending or in-progress) requests whose
	// due date is before now. Escalated and completed requests are excluded.
	ListOverdue(ctx context.Context, now time.Time) ([]*model.ReviewRequest, error)

	// Update updates an existing review request
	Update(ctx context.Context, review *model.ReviewRequest) (*model.ReviewRequest, error)
}

// ListReviewOption is a functional option for filtering review requests
type ListReviewOption func(*listReviewConfig)

type listReviewConfig struct {
	status     *types.ReviewStatus
	priority   *types.ReviewPriority
	assignedTo *string
	since      *time.Time
}

// WithReviewStatus filters review requests by status
func WithReviewStatus(status types.ReviewStatus) ListReviewOption {
	return func(c *listReviewConfig) {
		c.status = &status
	}
}

// WithReviewPriority filters review requests by priority
func WithReviewPriority(priority types.ReviewPriority) ListReviewOption {
	return func(c *listReviewConfig) {
		c.priority = &priority
	}
}

// WithReviewAssignee filters review requests by assignee
func WithReviewAssignee(assignedTo string) ListReviewOption {
	return func(c *listReviewConfig) {
		c.assignedTo = &assignedTo
	}
}

// WithReviewCreatedSince filters review requests created at or after the given time
func WithReviewCreatedSince(since time.Time) ListReviewOption {
	return func(c *listReviewConfig) {
		c.since = &since
	}
}

// BuildListReviewConfig builds a listReviewConfig from options
func BuildListReviewConfig(opts ...ListReviewOption) *listReviewConfig {
	cfg := &listReviewConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Status returns the status filter value, or nil if not set
func (c *listReviewConfig) Status() *types.ReviewStatus {
	return c.status
}

// Priority returns the priority filter value, or nil if not set
func (c *listReviewConfig) Priority() *types.ReviewPriority {
	return c.priority
}

// AssignedTo returns the assignee filter value, or nil if not set
func (c *listReviewConfig) AssignedTo() *string {
	return c.assignedTo
}

// CreatedSince returns the created-at filter value, or nil if not set
func (c *listReviewConfig) CreatedSince() *time.Time {
	return c.since
}
