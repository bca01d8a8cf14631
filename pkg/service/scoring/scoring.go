// Package scoring implements the composite confidence scoring function.
// The function is pure: same factors in, same score out, no side effects.
package scoring

import "github.com/secmon-lab/briareus/pkg/domain/model"

// Weights of the composite confidence score. They sum to 1.0.
// Severity and business impact are inverted on purpose: the more dangerous
// a candidate is, the lower its confidence-to-auto-approve, which biases
// severe findings toward human review instead of automatic action.
const (
	WeightMLConfidence       = 0.35
	WeightHistoricalAccuracy = 0.25
	WeightSourceReliability  = 0.20
	WeightInverseSeverity    = 0.10
	WeightInverseImpact      = 0.10
)

// Score computes the composite confidence score in [0,1]
func Score(f model.DecisionFactors) float64 {
	composite := WeightMLConfidence*f.MLConfidence +
		WeightHistoricalAccuracy*f.HistoricalAccuracy +
		WeightSourceReliability*f.SourceReliability +
		WeightInverseSeverity*(1-f.SeverityLevel) +
		WeightInverseImpact*(1-f.BusinessImpact)

	return clamp(composite)
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
