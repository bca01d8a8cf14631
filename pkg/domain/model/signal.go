package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/briareus/pkg/domain/types"
)

// RawSignal is a candidate event produced by a signal source.
// The pipeline does not depend on which source variant supplied it.
type RawSignal struct {
	SourceSystem   string
	SourceID       string
	Title          string
	Description    string
	Category       string
	Severity       types.Severity
	Confidence     float64
	EntityName     string
	EntityCritical bool
	Compliance     bool
	ObservedAt     time.Time
}

// Validate checks the signal before it enters discovery.
// A malformed signal is skipped, never fatal for the batch.
func (s *RawSignal) Validate() error {
	if s.SourceSystem == "" {
		return goerr.New("signal source system is required")
	}
	if s.Title == "" {
		return goerr.New("signal title is required", goerr.V("source", s.SourceSystem))
	}
	if !s.Severity.IsValid() {
		return goerr.New("invalid signal severity",
			goerr.V("source", s.SourceSystem), goerr.V("severity", s.Severity))
	}
	if s.Confidence < 0 || s.Confidence > 1 {
		return goerr.New("signal confidence must be within [0,1]",
			goerr.V("source", s.SourceSystem), goerr.V("confidence", s.Confidence))
	}
	return nil
}
