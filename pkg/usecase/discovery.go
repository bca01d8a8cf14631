package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/briareus/pkg/domain/interfaces"
	"github.com/secmon-lab/briareus/pkg/domain/model"
	"github.com/secmon-lab/briareus/pkg/utils/logging"
)

// DiscoveryUseCase pulls candidate events from every configured signal
// source and persists them as pending risks. A duplicate of an active risk
// is a no-op outcome, never an error.
type DiscoveryUseCase struct {
	repo    interfaces.Repository
	sources []interfaces.SignalSource
	now     func() time.Time
}

// Run processes one batch from each source. Per-event failures are isolated:
// a malformed signal or a failed insert is counted, reported in the returned
// messages, and never aborts the remaining events.
func (uc *DiscoveryUseCase) Run(ctx context.Context) (model.DiscoveryResult, []string) {
	var result model.DiscoveryResult
	var errs []string
	logger := logging.From(ctx)

	for _, src := range uc.sources {
		if err := ctx.Err(); err != nil {
			errs = append(errs, fmt.Sprintf("discovery aborted: %v", err))
			return result, errs
		}

		signals, err := src.FetchCandidates(ctx)
		if err != nil {
			result.Errors++
			errs = append(errs, fmt.Sprintf("discovery: fetch from %s failed: %v", src.Name(), err))
			continue
		}

		for _, sig := range signals {
			switch err := uc.ingest(ctx, src, sig); {
			case err == nil:
				result.Discovered++
			case errors.Is(err, interfaces.ErrDuplicateRisk):
				result.DuplicatesSkipped++
				logger.Debug("skipped duplicate candidate",
					"source", src.Name(), "title", sig.Title, "entity", sig.EntityName)
			default:
				result.Errors++
				errs = append(errs, fmt.Sprintf("discovery: event %s/%s failed: %v",
					src.Name(), sig.SourceID, err))
			}
		}
	}

	return result, errs
}

func (uc *DiscoveryUseCase) ingest(ctx context.Context, src interfaces.SignalSource, sig *model.RawSignal) error {
	if err := sig.Validate(); err != nil {
		return goerr.Wrap(err, "invalid candidate event")
	}

	risk := riskFromSignal(src, sig)
	if _, err := uc.repo.Risk().Create(ctx, risk); err != nil {
		if errors.Is(err, interfaces.ErrDuplicateRisk) {
			return err
		}
		return goerr.Wrap(err, "failed to persist candidate risk",
			goerr.V("source", src.Name()), goerr.V("source_id", sig.SourceID))
	}
	return nil
}

// riskFromSignal maps a raw candidate event to a pending risk record with
// its decision factors filled in from the source's trust ratings.
func riskFromSignal(src interfaces.SignalSource, sig *model.RawSignal) *model.Risk {
	impact := int(sig.Severity.Weight() * 80)
	if sig.EntityCritical {
		impact = 95
	}

	compliance := sig.Compliance ||
		model.ComplianceRelatedText(sig.Title) ||
		model.ComplianceRelatedText(sig.Description)

	return &model.Risk{
		SourceSystem: sig.SourceSystem,
		SourceID:     sig.SourceID,
		Title:        sig.Title,
		Description:  sig.Description,
		Category:     sig.Category,
		Severity:     sig.Severity,
		Probability:  int(sig.Confidence * 100),
		Impact:       impact,
		EntityID:     sig.EntityName,
		Factors: model.DecisionFactors{
			MLConfidence:       sig.Confidence,
			HistoricalAccuracy: src.HistoricalAccuracy(),
			SourceReliability:  src.Reliability(),
			SeverityLevel:      sig.Severity.Weight(),
			BusinessImpact:     float64(impact) / 100,
			CriticalAsset:      sig.EntityCritical,
			ComplianceRelated:  compliance,
		},
	}
}
