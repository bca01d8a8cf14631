package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/briareus/pkg/domain/model"
	"github.com/secmon-lab/briareus/pkg/domain/types"
)

func TestDecisionFactorsValidate(t *testing.T) {
	t.Run("valid factors", func(t *testing.T) {
		f := model.DecisionFactors{
			MLConfidence:       0.9,
			HistoricalAccuracy: 0.8,
			SourceReliability:  0.7,
			SeverityLevel:      0.5,
			BusinessImpact:     0.5,
		}
		gt.NoError(t, f.Validate())
	})

	t.Run("out of range factor", func(t *testing.T) {
		f := model.DecisionFactors{MLConfidence: 1.2}
		gt.Error(t, f.Validate())

		f = model.DecisionFactors{BusinessImpact: -0.1}
		gt.Error(t, f.Validate())
	})
}

func TestRiskValidate(t *testing.T) {
	valid := func() *model.Risk {
		return &model.Risk{
			Title:       "Exposed storage bucket",
			Severity:    types.SeverityHigh,
			Status:      types.RiskStatusPending,
			Probability: 60,
			Impact:      70,
		}
	}

	t.Run("valid risk", func(t *testing.T) {
		gt.NoError(t, valid().Validate())
	})

	t.Run("missing title", func(t *testing.T) {
		r := valid()
		r.Title = ""
		gt.Error(t, r.Validate())
	})

	t.Run("invalid severity", func(t *testing.T) {
		r := valid()
		r.Severity = "catastrophic"
		gt.Error(t, r.Validate())
	})

	t.Run("probability out of range", func(t *testing.T) {
		r := valid()
		r.Probability = 120
		gt.Error(t, r.Validate())
	})
}

func TestDedupKey(t *testing.T) {
	a := &model.Risk{Title: "Exposed bucket", EntityID: "svc-1"}
	b := &model.Risk{Title: "Exposed bucket", EntityID: "svc-1"}
	c := &model.Risk{Title: "Exposed bucket", EntityID: "svc-2"}

	gt.Value(t, a.DedupKey()).Equal(b.DedupKey())
	gt.Value(t, a.DedupKey()).NotEqual(c.DedupKey())
}

func TestComplianceRelatedText(t *testing.T) {
	gt.Bool(t, model.ComplianceRelatedText("PCI compliance gap on payment service")).True()
	gt.Bool(t, model.ComplianceRelatedText("Suspicious login burst")).False()
}
