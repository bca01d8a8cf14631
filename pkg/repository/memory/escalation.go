package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/secmon-lab/briareus/pkg/domain/model"
)

type escalationRepository struct {
	mu      sync.RWMutex
	records []*model.EscalationRecord
}

func newEscalationRepository() *escalationRepository {
	return &escalationRepository{}
}

func copyEscalation(e *model.EscalationRecord) *model.EscalationRecord {
	c := *e
	return &c
}

func (r *escalationRepository) Create(ctx context.Context, record *model.EscalationRecord) (*model.EscalationRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := copyEscalation(record)
	created.ID = uuid.NewString()
	if created.EscalatedAt.IsZero() {
		created.EscalatedAt = time.Now().UTC()
	}

	r.records = append(r.records, created)
	return copyEscalation(created), nil
}

func (r *escalationRepository) ListByReview(ctx context.Context, reviewID string) ([]*model.EscalationRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*model.EscalationRecord
	for _, e := range r.records {
		if e.ReviewID == reviewID {
			out = append(out, copyEscalation(e))
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].EscalatedAt.Before(out[j].EscalatedAt)
	})

	return out, nil
}

func (r *escalationRepository) ListSince(ctx context.Context, since time.Time) ([]*model.EscalationRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*model.EscalationRecord
	for _, e := range r.records {
		if !e.EscalatedAt.Before(since) {
			out = append(out, copyEscalation(e))
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].EscalatedAt.Before(out[j].EscalatedAt)
	})

	return out, nil
}
