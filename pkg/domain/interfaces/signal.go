package interfaces

import (
	"context"

	"github.com/secmon-lab/briareus/pkg/domain/model"
)

// SignalSource produces candidate events for discovery. The pipeline treats
// every source the same way regardless of which integration supplies it.
type SignalSource interface {
	// Name identifies the source system (e.g. "defender", "itsm")
	Name() string

	// HistoricalAccuracy is the track record of the source in [0,1]
	HistoricalAccuracy() float64

	// Reliability is the static trust rating of the source in [0,1]
	Reliability() float64

	// FetchCandidates returns a bounded batch of candidate events
	FetchCandidates(ctx context.Context) ([]*model.RawSignal, error)
}
