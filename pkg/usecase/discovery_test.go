package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/briareus/pkg/domain/model"
	"github.com/secmon-lab/briareus/pkg/domain/types"
	"github.com/secmon-lab/briareus/pkg/repository/memory"
	"github.com/secmon-lab/briareus/pkg/usecase"
)

// stubSource replays fixed batches for discovery tests
type stubSource struct {
	name     string
	accuracy float64
	rel      float64
	batch    []*model.RawSignal
	err      error
}

func (s *stubSource) Name() string                { return s.name }
func (s *stubSource) HistoricalAccuracy() float64 { return s.accuracy }
func (s *stubSource) Reliability() float64        { return s.rel }

func (s *stubSource) FetchCandidates(ctx context.Context) ([]*model.RawSignal, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.batch, nil
}

func rawSignal(title, entity string) *model.RawSignal {
	return &model.RawSignal{
		SourceSystem: "defender",
		SourceID:     "DEF-1",
		Title:        title,
		Description:  "Public storage bucket exposes customer data",
		Category:     "data_exposure",
		Severity:     types.SeverityHigh,
		Confidence:   0.8,
		EntityName:   entity,
		ObservedAt:   time.Now().UTC(),
	}
}

func TestDiscoveryRun(t *testing.T) {
	ctx := context.Background()

	t.Run("persists new candidates as pending risks", func(t *testing.T) {
		repo := memory.New()
		src := &stubSource{name: "defender", accuracy: 0.85, rel: 0.9, batch: []*model.RawSignal{
			rawSignal("Exposed bucket", "svc-1"),
			rawSignal("Weak TLS config", "svc-2"),
		}}
		uc := usecase.New(repo, usecase.WithSources(src))

		result, errs := uc.Discovery.Run(ctx)
		gt.Array(t, errs).Length(0)
		gt.Number(t, result.Discovered).Equal(2)
		gt.Number(t, result.DuplicatesSkipped).Equal(0)
		gt.Number(t, result.Errors).Equal(0)

		risks, err := repo.Risk().List(ctx)
		gt.NoError(t, err)
		gt.Number(t, len(risks)).Equal(2)
		gt.Value(t, risks[0].Status).Equal(types.RiskStatusPending)
		gt.Value(t, risks[0].Factors.HistoricalAccuracy).Equal(0.85)
		gt.Value(t, risks[0].Factors.SourceReliability).Equal(0.9)
	})

	t.Run("skips duplicates of active risks without error", func(t *testing.T) {
		repo := memory.New()
		src := &stubSource{name: "defender", accuracy: 0.85, rel: 0.9, batch: []*model.RawSignal{
			rawSignal("Exposed bucket", "svc-1"),
			rawSignal("Exposed bucket", "svc-1"),
		}}
		uc := usecase.New(repo, usecase.WithSources(src))

		existing, err := repo.Risk().Create(ctx, pendingRisk("Exposed bucket", "svc-1", model.DecisionFactors{
			MLConfidence: 0.8, HistoricalAccuracy: 0.85, SourceReliability: 0.9,
			SeverityLevel: 0.75, BusinessImpact: 0.6,
		}, types.SeverityHigh))
		gt.NoError(t, err)
		existing.Status = types.RiskStatusActive
		_, err = repo.Risk().Update(ctx, existing)
		gt.NoError(t, err)

		result, errs := uc.Discovery.Run(ctx)
		gt.Array(t, errs).Length(0)
		gt.Number(t, result.Discovered).Equal(0)
		gt.Number(t, result.DuplicatesSkipped).Equal(2)
		gt.Number(t, result.Errors).Equal(0)

		risks, err := repo.Risk().List(ctx)
		gt.NoError(t, err)
		gt.Number(t, len(risks)).Equal(1)
	})

	t.Run("malformed signal is skipped and counted", func(t *testing.T) {
		repo := memory.New()
		bad := rawSignal("", "svc-1")
		src := &stubSource{name: "defender", accuracy: 0.85, rel: 0.9, batch: []*model.RawSignal{
			bad,
			rawSignal("Weak TLS config", "svc-2"),
		}}
		uc := usecase.New(repo, usecase.WithSources(src))

		result, errs := uc.Discovery.Run(ctx)
		gt.Array(t, errs).Length(1)
		gt.Number(t, result.Discovered).Equal(1)
		gt.Number(t, result.Errors).Equal(1)
	})

	t.Run("failing source does not block other sources", func(t *testing.T) {
		repo := memory.New()
		broken := &stubSource{name: "itsm", accuracy: 0.7, rel: 0.75, err: errors.New("api unavailable")}
		healthy := &stubSource{name: "defender", accuracy: 0.85, rel: 0.9, batch: []*model.RawSignal{
			rawSignal("Exposed bucket", "svc-1"),
		}}
		uc := usecase.New(repo, usecase.WithSources(broken, healthy))

		result, errs := uc.Discovery.Run(ctx)
		gt.Array(t, errs).Length(1)
		gt.String(t, errs[0]).Contains("itsm")
		gt.Number(t, result.Discovered).Equal(1)
		gt.Number(t, result.Errors).Equal(1)
	})

	t.Run("critical entity raises business impact", func(t *testing.T) {
		repo := memory.New()
		sig := rawSignal("Credential dumping", "srv-db")
		sig.EntityCritical = true
		src := &stubSource{name: "defender", accuracy: 0.85, rel: 0.9, batch: []*model.RawSignal{sig}}
		uc := usecase.New(repo, usecase.WithSources(src))

		result, errs := uc.Discovery.Run(ctx)
		gt.Array(t, errs).Length(0)
		gt.Number(t, result.Discovered).Equal(1)

		risks, err := repo.Risk().List(ctx)
		gt.NoError(t, err)
		gt.Bool(t, risks[0].Factors.CriticalAsset).True()
		gt.Number(t, risks[0].Factors.BusinessImpact).GreaterOrEqual(0.9)
	})
}
