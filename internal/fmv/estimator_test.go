package fmv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pembroke-collections/acquisition-engine/internal/model"
)

func comp(tier model.RelevanceTier, price float64) model.ClassifiedComparable {
	return model.ClassifiedComparable{
		RawComparable: model.RawComparable{Source: model.SourceSold, Title: "comp"},
		Price:         price,
		Currency:      "USD",
		Relevance:     tier,
	}
}

func TestEstimate_HighTierRange(t *testing.T) {
	comps := []model.ClassifiedComparable{
		comp(model.RelevanceHigh, 300),
		comp(model.RelevanceHigh, 100),
		comp(model.RelevanceHigh, 200),
		comp(model.RelevanceMedium, 5), // ignored once HIGH qualifies
	}

	est := Estimate(comps)
	require.True(t, est.HasRange())
	assert.Equal(t, 100.0, est.Low)
	assert.Equal(t, 300.0, est.High)
	assert.Equal(t, model.ConfidenceHigh, est.Confidence)
	assert.Empty(t, est.Notes)
	assert.Equal(t, 3, est.TierCounts[model.RelevanceHigh])
}

func TestEstimate_TwoHighIsLowConfidence(t *testing.T) {
	comps := []model.ClassifiedComparable{
		comp(model.RelevanceHigh, 1000),
		comp(model.RelevanceHigh, 1200),
	}

	est := Estimate(comps)
	require.True(t, est.HasRange())
	assert.Equal(t, 1000.0, est.Low)
	assert.Equal(t, 1200.0, est.High)
	assert.Equal(t, model.ConfidenceLow, est.Confidence)
	assert.NotEmpty(t, est.Notes)
}

func TestEstimate_MediumFallback(t *testing.T) {
	comps := []model.ClassifiedComparable{
		comp(model.RelevanceHigh, 9999), // single HIGH is not enough
		comp(model.RelevanceMedium, 100),
		comp(model.RelevanceMedium, 200),
		comp(model.RelevanceMedium, 300),
	}

	est := Estimate(comps)
	require.True(t, est.HasRange())
	assert.Equal(t, 100.0, est.Low)
	assert.Equal(t, 300.0, est.High)
	assert.Equal(t, model.ConfidenceMedium, est.Confidence)
}

func TestEstimate_InsufficientData(t *testing.T) {
	comps := []model.ClassifiedComparable{
		comp(model.RelevanceHigh, 500),
		comp(model.RelevanceMedium, 400),
		comp(model.RelevanceMedium, 450),
		comp(model.RelevanceLow, 50),
	}

	est := Estimate(comps)
	assert.False(t, est.HasRange())
	assert.Equal(t, model.ConfidenceLow, est.Confidence)
	assert.Equal(t, model.InsufficientDataNote, est.Notes)
	assert.Equal(t, 1, est.TierCounts[model.RelevanceHigh])
	assert.Equal(t, 2, est.TierCounts[model.RelevanceMedium])
	assert.Equal(t, 1, est.TierCounts[model.RelevanceLow])
}

func TestEstimate_NoComparables(t *testing.T) {
	est := Estimate(nil)
	assert.False(t, est.HasRange())
	assert.Equal(t, model.InsufficientDataNote, est.Notes)
}

func TestEstimate_LowTierNeverContributes(t *testing.T) {
	comps := []model.ClassifiedComparable{
		comp(model.RelevanceLow, 1),
		comp(model.RelevanceLow, 2),
		comp(model.RelevanceLow, 3),
		comp(model.RelevanceLow, 4),
	}

	est := Estimate(comps)
	assert.False(t, est.HasRange())
}

func TestEstimate_IdenticalPrices(t *testing.T) {
	comps := []model.ClassifiedComparable{
		comp(model.RelevanceHigh, 750),
		comp(model.RelevanceHigh, 750),
		comp(model.RelevanceHigh, 750),
	}

	est := Estimate(comps)
	assert.Equal(t, 750.0, est.Low)
	assert.Equal(t, 750.0, est.High)
	assert.True(t, est.HasRange())
}

func TestWeightedPercentile(t *testing.T) {
	comps := []model.ClassifiedComparable{
		comp(model.RelevanceHigh, 400),
		comp(model.RelevanceHigh, 100),
		comp(model.RelevanceHigh, 300),
		comp(model.RelevanceHigh, 200),
	}

	assert.Equal(t, 100.0, weightedPercentile(comps, 0.25))
	assert.Equal(t, 300.0, weightedPercentile(comps, 0.75))
	assert.Equal(t, 400.0, weightedPercentile(comps, 1.0))
	assert.Equal(t, 0.0, weightedPercentile(nil, 0.5))
}
