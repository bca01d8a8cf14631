package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/secmon-lab/briareus/pkg/domain/model"
)

type decisionRepository struct {
	mu        sync.RWMutex
	decisions []*model.WorkflowDecision
}

func newDecisionRepository() *decisionRepository {
	return &decisionRepository{}
}

func copyDecision(d *model.WorkflowDecision) *model.WorkflowDecision {
	c := *d
	c.Reasoning = append([]string(nil), d.Reasoning...)
	return &c
}

func (r *decisionRepository) Create(ctx context.Context, decision *model.WorkflowDecision) (*model.WorkflowDecision, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := copyDecision(decision)
	created.ID = uuid.NewString()
	if created.DecidedAt.IsZero() {
		created.DecidedAt = time.Now().UTC()
	}

	r.decisions = append(r.decisions, created)
	return copyDecision(created), nil
}

func (r *decisionRepository) ListByRisk(ctx context.Context, riskID int64) ([]*model.WorkflowDecision, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*model.WorkflowDecision
	for _, d := range r.decisions {
		if d.RiskID == riskID {
			out = append(out, copyDecision(d))
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].DecidedAt.Before(out[j].DecidedAt)
	})

	return out, nil
}

func (r *decisionRepository) ListSince(ctx context.Context, since time.Time) ([]*model.WorkflowDecision, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*model.WorkflowDecision
	for _, d := range r.decisions {
		if !d.DecidedAt.Before(since) {
			out = append(out, copyDecision(d))
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].DecidedAt.Before(out[j].DecidedAt)
	})

	return out, nil
}
