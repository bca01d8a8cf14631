package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/briareus/pkg/domain/interfaces"
	"github.com/secmon-lab/briareus/pkg/domain/model"
	"github.com/secmon-lab/briareus/pkg/domain/types"
)

type riskRepository struct {
	mu     sync.RWMutex
	risks  map[int64]*model.Risk
	nextID int64
}

func newRiskRepository() *riskRepository {
	return &riskRepository{
		risks:  make(map[int64]*model.Risk),
		nextID: 1,
	}
}

func copyRisk(r *model.Risk) *model.Risk {
	c := *r
	return &c
}

func (r *riskRepository) Create(ctx context.Context, risk *model.Risk) (*model.Risk, error) {
	if err := risk.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid risk")
	}

	// Duplicate check and insert run under the same lock so concurrent
	// discovery cannot race duplicate inserts.
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.risks {
		if existing.Status == types.RiskStatusActive && existing.DedupKey() == risk.DedupKey() {
			return nil, goerr.Wrap(interfaces.ErrDuplicateRisk, "risk already active",
				goerr.V("title", risk.Title), goerr.V("entity", risk.EntityID),
				goerr.V("existing_id", existing.ID))
		}
	}

	now := time.Now().UTC()
	created := copyRisk(risk)
	created.ID = r.nextID
	if created.Status == "" {
		created.Status = types.RiskStatusPending
	}
	created.CreatedAt = now
	created.UpdatedAt = now
	r.nextID++

	r.risks[created.ID] = created
	return copyRisk(created), nil
}

func (r *riskRepository) Get(ctx context.Context, id int64) (*model.Risk, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	risk, exists := r.risks[id]
	if !exists {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "risk not found", goerr.V("id", id))
	}

	return copyRisk(risk), nil
}

func (r *riskRepository) List(ctx context.Context, opts ...interfaces.ListRiskOption) ([]*model.Risk, error) {
	cfg := interfaces.BuildListRiskConfig(opts...)

	r.mu.RLock()
	defer r.mu.RUnlock()

	risks := make([]*model.Risk, 0, len(r.risks))
	for _, risk := range r.risks {
		if cfg.Status() != nil && risk.Status != *cfg.Status() {
			continue
		}
		if cfg.CreatedSince() != nil && risk.CreatedAt.Before(*cfg.CreatedSince()) {
			continue
		}
		risks = append(risks, copyRisk(risk))
	}

	sort.Slice(risks, func(i, j int) bool {
		return risks[i].ID < risks[j].ID
	})

	return risks, nil
}

func (r *riskRepository) Update(ctx context.Context, risk *model.Risk) (*model.Risk, error) {
	if err := risk.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid risk")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.risks[risk.ID]
	if !exists {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "risk not found", goerr.V("id", risk.ID))
	}

	updated := copyRisk(risk)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.risks[updated.ID] = updated
	return copyRisk(updated), nil
}
