package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/briareus/pkg/domain/interfaces"
	"github.com/secmon-lab/briareus/pkg/domain/model"
	"github.com/secmon-lab/briareus/pkg/domain/types"
)

type reviewRepository struct {
	mu      sync.RWMutex
	reviews map[string]*model.ReviewRequest
}

func newReviewRepository() *reviewRepository {
	return &reviewRepository{
		reviews: make(map[string]*model.ReviewRequest),
	}
}

func copyReview(r *model.ReviewRequest) *model.ReviewRequest {
	c := *r
	if r.CompletedAt != nil {
		at := *r.CompletedAt
		c.CompletedAt = &at
	}
	return &c
}

func (r *reviewRepository) Create(ctx context.Context, review *model.ReviewRequest) (*model.ReviewRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := copyReview(review)
	if created.ID == "" {
		created.ID = uuid.NewString()
	}
	if created.Status == "" {
		created.Status = types.ReviewStatusPending
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}

	r.reviews[created.ID] = created
	return copyReview(created), nil
}

func (r *reviewRepository) Get(ctx context.Context, id string) (*model.ReviewRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	review, exists := r.reviews[id]
	if !exists {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "review request not found", goerr.V("id", id))
	}

	return copyReview(review), nil
}

func (r *reviewRepository) List(ctx context.Context, opts ...interfaces.ListReviewOption) ([]*model.ReviewRequest, error) {
	cfg := interfaces.BuildListReviewConfig(opts...)

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*model.ReviewRequest
	for _, review := range r.reviews {
		if cfg.Status() != nil && review.Status != *cfg.Status() {
			continue
		}
		if cfg.Priority() != nil && review.Priority != *cfg.Priority() {
			continue
		}
		if cfg.AssignedTo() != nil && review.AssignedTo != *cfg.AssignedTo() {
			continue
		}
		if cfg.CreatedSince() != nil && review.CreatedAt.Before(*cfg.CreatedSince()) {
			continue
		}
		out = append(out, copyReview(review))
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}

func (r *reviewRepository) ListOverdue(ctx context.Context, now time.Time) ([]*model.ReviewRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*model.ReviewRequest
	for _, review := range r.reviews {
		if review.IsOverdue(now) {
			out = append(out, copyReview(review))
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].DueDate.Before(out[j].DueDate)
	})

	return out, nil
}

func (r *reviewRepository) Update(ctx context.Context, review *model.ReviewRequest) (*model.ReviewRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.reviews[review.ID]
	if !exists {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "review request not found", goerr.V("id", review.ID))
	}

	updated := copyReview(review)
	updated.CreatedAt = existing.CreatedAt

	r.reviews[updated.ID] = updated
	return copyReview(updated), nil
}
