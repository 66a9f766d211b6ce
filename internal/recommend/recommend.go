// Package recommend turns an FMV estimate, asking price, and score breakdown
// into a terminal recommendation tier with an optional counter-offer.
package recommend

import (
	"go.uber.org/zap"

	"github.com/pembroke-collections/acquisition-engine/internal/model"
)

// Recommend runs the full decision pipeline: price position, matrix lookup,
// floor caps, offer calculation, reasoning. It is a pure computation — same
// inputs always yield the same recommendation — and records fired floors on
// the breakdown for auditability.
func Recommend(asking float64, fmv model.FmvEstimate, score *model.ScoreBreakdown) model.Recommendation {
	position := classifyPosition(asking, fmv)
	tier := matrixTier(score.Combined, position)

	capped, fired := applyFloors(tier, *score)
	score.FloorsApplied = fired

	rec := model.Recommendation{
		Tier:          capped,
		PricePosition: position,
	}

	if capped == model.TierConditional {
		rec.SuggestedOffer, rec.AskAtOrBelowOffer = computeOffer(asking, fmv, score.Combined, len(fired) > 0)
	}

	rec.Reasoning = composeReasoning(rec, asking, fmv, *score)

	logRecommendation(rec, asking, tier)
	return rec
}

func logRecommendation(rec model.Recommendation, asking float64, matrixTier model.Tier) {
	fields := []zap.Field{
		zap.String("tier", string(rec.Tier)),
		zap.String("matrix_tier", string(matrixTier)),
		zap.String("price_position", string(rec.PricePosition)),
		zap.Float64("asking", asking),
	}
	if rec.SuggestedOffer != nil {
		fields = append(fields, zap.Float64("suggested_offer", *rec.SuggestedOffer))
	}
	zap.L().Info("recommend: decision made", fields...)
}
