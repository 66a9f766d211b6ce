// Package fmv estimates a fair-market-value range from classified comparables
// via tiered, weighted percentile aggregation.
package fmv

import (
	"sort"

	"go.uber.org/zap"

	"github.com/pembroke-collections/acquisition-engine/internal/model"
)

const (
	// minHighListings is the HIGH-relevance count needed to estimate from
	// HIGH alone.
	minHighListings = 2
	// minMediumListings is the MEDIUM-relevance count needed for the
	// downgraded fallback when HIGH is too thin.
	minMediumListings = 3
	// confidentHighCount is the HIGH count at which confidence is "high".
	confidentHighCount = 3
)

// Estimate produces a price range from comparables pooled across both
// sources. SOLD and OFFERED listings carry identical relevance weights; LOW
// listings are always excluded.
func Estimate(comps []model.ClassifiedComparable) model.FmvEstimate {
	counts := model.CountByTier(comps)

	est := model.FmvEstimate{
		TierCounts: counts,
	}

	var chosen []model.ClassifiedComparable
	switch {
	case counts[model.RelevanceHigh] >= minHighListings:
		chosen = filterTier(comps, model.RelevanceHigh)
		if counts[model.RelevanceHigh] >= confidentHighCount {
			est.Confidence = model.ConfidenceHigh
		} else {
			est.Confidence = model.ConfidenceLow
			est.Notes = "fewer than 3 high-relevance comparables"
		}
	case counts[model.RelevanceMedium] >= minMediumListings:
		chosen = filterTier(comps, model.RelevanceMedium)
		est.Confidence = model.ConfidenceMedium
	default:
		est.Confidence = model.ConfidenceLow
		est.Notes = model.InsufficientDataNote
		zap.L().Info("fmv: insufficient comparable data",
			zap.Int("high", counts[model.RelevanceHigh]),
			zap.Int("medium", counts[model.RelevanceMedium]),
			zap.Int("low", counts[model.RelevanceLow]),
		)
		return est
	}

	est.Low = weightedPercentile(chosen, 0.25)
	est.High = weightedPercentile(chosen, 0.75)

	// Cannot happen with correct percentile arithmetic; clamp defensively.
	if est.Low > est.High {
		zap.L().Error("fmv: low exceeded high, clamping",
			zap.Float64("low", est.Low),
			zap.Float64("high", est.High),
		)
		est.Low = est.High
	}

	zap.L().Info("fmv: estimated",
		zap.Float64("low", est.Low),
		zap.Float64("high", est.High),
		zap.String("confidence", string(est.Confidence)),
		zap.Int("contributing", len(chosen)),
	)
	return est
}

func filterTier(comps []model.ClassifiedComparable, tier model.RelevanceTier) []model.ClassifiedComparable {
	var out []model.ClassifiedComparable
	for _, c := range comps {
		if c.Relevance == tier {
			out = append(out, c)
		}
	}
	return out
}

// weightedPercentile computes the p-th weighted percentile of comparable
// prices, with each listing weighted by its relevance tier. Uses the
// cumulative-weight method: the result is the first price whose cumulative
// weight reaches p of the total.
func weightedPercentile(comps []model.ClassifiedComparable, p float64) float64 {
	if len(comps) == 0 {
		return 0
	}

	sorted := make([]model.ClassifiedComparable, len(comps))
	copy(sorted, comps)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Price < sorted[j].Price
	})

	var total float64
	for _, c := range sorted {
		total += c.Relevance.Weight()
	}
	if total == 0 {
		return 0
	}

	target := p * total
	var cum float64
	for _, c := range sorted {
		cum += c.Relevance.Weight()
		if cum >= target {
			return c.Price
		}
	}
	return sorted[len(sorted)-1].Price
}
