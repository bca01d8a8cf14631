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
)

type executionLogRepository struct {
	mu        sync.RWMutex
	summaries []*model.ExecutionSummary
}

func newExecutionLogRepository() *executionLogRepository {
	return &executionLogRepository{}
}

func copySummary(s *model.ExecutionSummary) *model.ExecutionSummary {
	c := *s
	c.Errors = append([]string(nil), s.Errors...)
	return &c
}

func (r *executionLogRepository) Put(ctx context.Context, summary *model.ExecutionSummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := copySummary(summary)
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}

	r.summaries = append(r.summaries, stored)
	return nil
}

func (r *executionLogRepository) Latest(ctx context.Context) (*model.ExecutionSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.summaries) == 0 {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "no execution summaries")
	}

	latest := r.summaries[0]
	for _, s := range r.summaries[1:] {
		if s.StartedAt.After(latest.StartedAt) {
			latest = s
		}
	}

	return copySummary(latest), nil
}

func (r *executionLogRepository) ListSince(ctx context.Context, since time.Time) ([]*model.ExecutionSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*model.ExecutionSummary
	for _, s := range r.summaries {
		if !s.StartedAt.Before(since) {
			out = append(out, copySummary(s))
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].StartedAt.After(out[j].StartedAt)
	})

	return out, nil
}

func (r *executionLogRepository) Prune(ctx context.Context, olderThan time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.summaries[:0]
	deleted := 0
	for _, s := range r.summaries {
		if s.StartedAt.Before(olderThan) {
			deleted++
			continue
		}
		kept = append(kept, s)
	}
	r.summaries = kept

	return deleted, nil
}
