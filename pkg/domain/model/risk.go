package model

import (
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/briareus/pkg/domain/types"
)

// Risk represents a candidate or confirmed risk record.
// At most one active risk may exist for a given (Title, EntityID) pair;
// the repository enforces that invariant on create.
type Risk struct {
	ID              int64
	SourceSystem    string
	SourceID        string
	Title           string
	Description     string
	Category        string
	Severity        types.Severity
	Probability     int
	Impact          int
	ConfidenceScore float64
	Status          types.RiskStatus
	EntityID        string
	AssignedTo      string
	Factors         DecisionFactors
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// DedupKey returns the logical identity used for duplicate detection.
// Keyed on (title, linked entity) only; differently worded titles for the
// same underlying condition are not caught.
func (r *Risk) DedupKey() string {
	return r.Title + "\x00" + r.EntityID
}

// Validate checks the risk record at the store boundary
func (r *Risk) Validate() error {
	if r.Title == "" {
		return goerr.New("risk title is required")
	}
	if !r.Severity.IsValid() {
		return goerr.New("invalid risk severity", goerr.V("severity", r.Severity))
	}
	if r.Status != "" && !r.Status.IsValid() {
		return goerr.New("invalid risk status", goerr.V("status", r.Status))
	}
	if r.Probability < 0 || r.Probability > 100 {
		return goerr.New("risk probability must be within [0,100]", goerr.V("probability", r.Probability))
	}
	if r.Impact < 0 || r.Impact > 100 {
		return goerr.New("risk impact must be within [0,100]", goerr.V("impact", r.Impact))
	}
	return r.Factors.Validate()
}

// DecisionFactors holds the normalized inputs of a routing evaluation.
// All float fields are expected in [0,1].
type DecisionFactors struct {
	MLConfidence       float64
	HistoricalAccuracy float64
	SourceReliability  float64
	SeverityLevel      float64
	BusinessImpact     float64
	CriticalAsset      bool
	ComplianceRelated  bool
}

// Validate checks that every factor is within [0,1]
func (f DecisionFactors) Validate() error {
	checks := []struct {
		name  string
		value float64
	}{
		{"ml_confidence", f.MLConfidence},
		{"historical_accuracy", f.HistoricalAccuracy},
		{"source_reliability", f.SourceReliability},
		{"severity_level", f.SeverityLevel},
		{"business_impact", f.BusinessImpact},
	}
	for _, c := range checks {
		if c.value < 0 || c.value > 1 {
			return goerr.New("decision factor must be within [0,1]",
				goerr.V("factor", c.name), goerr.V("value", c.value))
		}
	}
	return nil
}

// ComplianceRelatedText reports whether free text mentions compliance.
// Used when a signal does not carry an explicit compliance flag.
func ComplianceRelatedText(text string) bool {
	return strings.Contains(strings.ToLower(text), "compliance")
}
