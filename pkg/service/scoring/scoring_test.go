package scoring_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/briareus/pkg/domain/model"
	"github.com/secmon-lab/briareus/pkg/service/scoring"
)

func TestScoreBoundaryCase(t *testing.T) {
	// 0.35*0.9 + 0.25*0.9 + 0.20*0.9 + 0.10*0.9 + 0.10*0.9 = 0.9
	f := model.DecisionFactors{
		MLConfidence:       0.9,
		HistoricalAccuracy: 0.9,
		SourceReliability:  0.9,
		SeverityLevel:      0.1,
		BusinessImpact:     0.1,
	}

	got := scoring.Score(f)
	if math.Abs(got-0.9) > 1e-9 {
		t.Errorf("expected composite 0.9, got %f", got)
	}
}

func TestScoreLowConfidence(t *testing.T) {
	f := model.DecisionFactors{
		MLConfidence:       0.2,
		HistoricalAccuracy: 0.3,
		SourceReliability:  0.3,
		SeverityLevel:      0.5,
		BusinessImpact:     0.5,
	}

	// 0.07 + 0.075 + 0.06 + 0.05 + 0.05 = 0.305
	got := scoring.Score(f)
	gt.Number(t, got).Less(0.6)
}

func TestScoreDeterminism(t *testing.T) {
	f := model.DecisionFactors{
		MLConfidence:       0.71,
		HistoricalAccuracy: 0.42,
		SourceReliability:  0.88,
		SeverityLevel:      0.33,
		BusinessImpact:     0.65,
	}

	first := scoring.Score(f)
	for i := 0; i < 100; i++ {
		gt.Value(t, scoring.Score(f)).Equal(first)
	}
}

func TestScoreBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 1000; i++ {
		f := model.DecisionFactors{
			MLConfidence:       rng.Float64(),
			HistoricalAccuracy: rng.Float64(),
			SourceReliability:  rng.Float64(),
			SeverityLevel:      rng.Float64(),
			BusinessImpact:     rng.Float64(),
		}
		got := scoring.Score(f)
		gt.Number(t, got).GreaterOrEqual(0.0)
		gt.Number(t, got).LessOrEqual(1.0)
	}
}

func TestSeverityLowersScore(t *testing.T) {
	base := model.DecisionFactors{
		MLConfidence:       0.9,
		HistoricalAccuracy: 0.9,
		SourceReliability:  0.9,
	}

	mild := base
	mild.SeverityLevel = 0.1
	mild.BusinessImpact = 0.1

	severe := base
	severe.SeverityLevel = 0.95
	severe.BusinessImpact = 0.95

	gt.Number(t, scoring.Score(severe)).Less(scoring.Score(mild))
}
