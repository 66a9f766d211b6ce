package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pembroke-collections/acquisition-engine/internal/model"
)

func rangeEstimate(low, high float64) model.FmvEstimate {
	return model.FmvEstimate{Low: low, High: high, Confidence: model.ConfidenceHigh}
}

func noRangeEstimate() model.FmvEstimate {
	return model.FmvEstimate{Confidence: model.ConfidenceLow, Notes: model.InsufficientDataNote}
}

func breakdown(quality, strategic, combined float64) model.ScoreBreakdown {
	return model.ScoreBreakdown{Quality: quality, StrategicFit: strategic, Combined: combined}
}

func TestRecommend_StrongBuyAtExcellentPrice(t *testing.T) {
	score := breakdown(90, 78, 85)
	rec := Recommend(600, rangeEstimate(900, 1100), &score)

	assert.Equal(t, model.TierStrongBuy, rec.Tier)
	assert.Equal(t, model.PositionExcellent, rec.PricePosition)
	assert.Nil(t, rec.SuggestedOffer)
	assert.False(t, rec.AskAtOrBelowOffer)
	assert.Empty(t, score.FloorsApplied)
}

func TestRecommend_StrategicFitFloorForcesConditional(t *testing.T) {
	score := breakdown(70, 10, 65)
	rec := Recommend(1000, rangeEstimate(800, 1200), &score)

	// Matrix says BUY for a 60-79 score at a FAIR price; the floor caps it.
	assert.Equal(t, model.TierConditional, rec.Tier)
	assert.Equal(t, model.PositionFair, rec.PricePosition)
	assert.Equal(t, []string{"strategic_fit"}, score.FloorsApplied)

	// Floor-triggered CONDITIONAL uses the steeper 40% minimum discount:
	// 1000 * 0.6 = 600, clamped up to fmv low.
	require.NotNil(t, rec.SuggestedOffer)
	assert.Equal(t, 800.0, *rec.SuggestedOffer)
}

func TestRecommend_MatrixConditionalOffer(t *testing.T) {
	score := breakdown(60, 50, 55)
	rec := Recommend(100, rangeEstimate(80, 120), &score)

	assert.Equal(t, model.TierConditional, rec.Tier)
	assert.Empty(t, score.FloorsApplied)

	// 100 * (1-0.35) = 65, clamped up to fmv low 80.
	require.NotNil(t, rec.SuggestedOffer)
	assert.Equal(t, 80.0, *rec.SuggestedOffer)
}

func TestRecommend_AskAlreadyBelowOffer(t *testing.T) {
	score := breakdown(60, 50, 55)
	rec := Recommend(75, rangeEstimate(80, 120), &score)

	assert.Equal(t, model.TierConditional, rec.Tier)
	assert.Nil(t, rec.SuggestedOffer)
	assert.True(t, rec.AskAtOrBelowOffer)
	assert.Contains(t, rec.Reasoning, "already at or below")
}

func TestRecommend_NoRangeIsNeutralPositionAndNoOffer(t *testing.T) {
	score := breakdown(60, 50, 55)
	rec := Recommend(1000, noRangeEstimate(), &score)

	assert.Equal(t, model.PositionFair, rec.PricePosition)
	assert.Equal(t, model.TierConditional, rec.Tier)
	assert.Nil(t, rec.SuggestedOffer)
	assert.False(t, rec.AskAtOrBelowOffer)
	assert.Contains(t, rec.Reasoning, model.InsufficientDataNote)
}

func TestRecommend_Idempotent(t *testing.T) {
	score := breakdown(70, 10, 65)
	first := Recommend(1000, rangeEstimate(800, 1200), &score)
	second := Recommend(1000, rangeEstimate(800, 1200), &score)

	assert.Equal(t, first, second)
	// Floors are recorded, not accumulated.
	assert.Equal(t, []string{"strategic_fit"}, score.FloorsApplied)
}

func TestRecommend_BothFloorsRecorded(t *testing.T) {
	score := breakdown(20, 10, 16)
	rec := Recommend(600, rangeEstimate(900, 1100), &score)

	assert.Equal(t, model.TierConditional, rec.Tier)
	assert.Equal(t, []string{"strategic_fit", "quality"}, score.FloorsApplied)
}

func TestClassifyPosition_Boundaries(t *testing.T) {
	fmv := rangeEstimate(900, 1100) // mid 1000
	cases := map[float64]model.PricePosition{
		500:  model.PositionExcellent,
		699:  model.PositionExcellent,
		700:  model.PositionGood,
		849:  model.PositionGood,
		850:  model.PositionFair,
		1000: model.PositionFair,
		1001: model.PositionPoor,
	}
	for asking, want := range cases {
		assert.Equal(t, want, classifyPosition(asking, fmv), "asking %.0f", asking)
	}
}

func TestMatrixTier(t *testing.T) {
	cases := []struct {
		combined float64
		position model.PricePosition
		want     model.Tier
	}{
		{85, model.PositionExcellent, model.TierStrongBuy},
		{85, model.PositionFair, model.TierBuy},
		{85, model.PositionPoor, model.TierConditional},
		{65, model.PositionExcellent, model.TierStrongBuy},
		{65, model.PositionGood, model.TierBuy},
		{65, model.PositionPoor, model.TierConditional},
		{55, model.PositionExcellent, model.TierBuy},
		{55, model.PositionFair, model.TierConditional},
		{55, model.PositionPoor, model.TierPass},
		{30, model.PositionExcellent, model.TierConditional},
		{30, model.PositionGood, model.TierPass},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, matrixTier(tc.combined, tc.position),
			"combined %.0f position %s", tc.combined, tc.position)
	}
}

func TestApplyFloors_NeverRaises(t *testing.T) {
	weak := breakdown(20, 10, 16)
	for _, tier := range []model.Tier{model.TierStrongBuy, model.TierBuy, model.TierConditional, model.TierPass} {
		capped, fired := applyFloors(tier, weak)
		assert.LessOrEqual(t, capped.Rank(), tier.Rank())
		assert.Len(t, fired, 2)
	}

	// PASS stays PASS even with both floors fired.
	capped, _ := applyFloors(model.TierPass, weak)
	assert.Equal(t, model.TierPass, capped)
}

func TestTargetDiscount(t *testing.T) {
	assert.Equal(t, 0.25, targetDiscount(80, false))
	assert.Equal(t, 0.25, targetDiscount(65, false))
	assert.Equal(t, 0.35, targetDiscount(55, false))
	assert.Equal(t, 0.45, targetDiscount(30, false))
	// Floor trigger enforces the steeper minimum but never shrinks a deeper one.
	assert.Equal(t, 0.40, targetDiscount(65, true))
	assert.Equal(t, 0.45, targetDiscount(30, true))
}

func TestComputeOffer_Bounds(t *testing.T) {
	fmv := rangeEstimate(80, 120)

	offer, below := computeOffer(100, fmv, 55, false)
	require.NotNil(t, offer)
	assert.False(t, below)
	assert.GreaterOrEqual(t, *offer, fmv.Low)
	assert.Less(t, *offer, 100.0)

	offer, below = computeOffer(1000, noRangeEstimate(), 55, false)
	assert.Nil(t, offer)
	assert.False(t, below)
}

func TestComposeReasoning_NamesStrongestFactor(t *testing.T) {
	score := breakdown(70, 50, 62)
	score.Components = []model.ScoreComponent{
		{Name: "binder_tier", Points: 30},
		{Name: "era_match", Points: 15},
	}
	rec := Recommend(1000, rangeEstimate(900, 1100), &score)

	assert.Contains(t, rec.Reasoning, "binder quality")
	assert.Contains(t, rec.Reasoning, "$1000")
}

func TestComposeReasoning_FloorMentioned(t *testing.T) {
	score := breakdown(70, 10, 65)
	rec := Recommend(1000, rangeEstimate(800, 1200), &score)

	assert.Contains(t, rec.Reasoning, "weak strategic fit")
	assert.Contains(t, rec.Reasoning, "$800")
}
