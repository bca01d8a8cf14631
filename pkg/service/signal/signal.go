// Package signal provides simulated signal sources for the discovery
// pipeline. Each simulator emits candidate events from a fixed catalog with
// seeded randomness, so runs are reproducible for a given seed. The pipeline
// consumes them only through interfaces.SignalSource and never depends on
// which variant supplied an event.
package signal

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/secmon-lab/briareus/pkg/domain/model"
	"github.com/secmon-lab/briareus/pkg/domain/types"
)

type template struct {
	title          string
	description    string
	category       string
	severity       types.Severity
	entityName     string
	entityCritical bool
	compliance     bool
	confidence     float64
}

// Simulator is a deterministic SignalSource backed by a catalog of event
// templates. Safe for concurrent use.
type Simulator struct {
	name        string
	accuracy    float64
	reliability float64
	batchMax    int
	catalog     []template

	mu     sync.Mutex
	rng    *rand.Rand
	cursor int
	seq    int
	now    func() time.Time
}

type Option func(*Simulator)

// WithBatchMax caps how many candidates one FetchCandidates call may return
func WithBatchMax(n int) Option {
	return func(s *Simulator) {
		if n > 0 {
			s.batchMax = n
		}
	}
}

// WithClock overrides the observed-at timestamp source
func WithClock(now func() time.Time) Option {
	return func(s *Simulator) {
		s.now = now
	}
}

func newSimulator(name string, accuracy, reliability float64, seed int64, catalog []template, options []Option) *Simulator {
	s := &Simulator{
		name:        name,
		accuracy:    accuracy,
		reliability: reliability,
		batchMax:    3,
		catalog:     catalog,
		rng:         rand.New(rand.NewSource(seed)),
		now:         func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *Simulator) Name() string                { return s.name }
func (s *Simulator) HistoricalAccuracy() float64 { return s.accuracy }
func (s *Simulator) Reliability() float64        { return s.reliability }

// FetchCandidates returns between 1 and batchMax candidate events, walking
// the catalog round-robin with a seeded confidence jitter.
func (s *Simulator) FetchCandidates(ctx context.Context) ([]*model.RawSignal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	count := 1 + s.rng.Intn(s.batchMax)
	signals := make([]*model.RawSignal, 0, count)
	observedAt := s.now()

	for i := 0; i < count; i++ {
		tpl := s.catalog[s.cursor%len(s.catalog)]
		s.cursor++
		s.seq++

		// Jitter within ±0.05, clamped to [0,1]
		confidence := tpl.confidence + (s.rng.Float64()-0.5)*0.1
		if confidence < 0 {
			confidence = 0
		} else if confidence > 1 {
			confidence = 1
		}

		signals = append(signals, &model.RawSignal{
			SourceSystem:   s.name,
			SourceID:       fmt.Sprintf("%s-%04d", s.name, s.seq),
			Title:          tpl.title,
			Description:    tpl.description,
			Category:       tpl.category,
			Severity:       tpl.severity,
			Confidence:     confidence,
			EntityName:     tpl.entityName,
			EntityCritical: tpl.entityCritical,
			Compliance:     tpl.compliance,
			ObservedAt:     observedAt,
		})
	}

	return signals, nil
}
