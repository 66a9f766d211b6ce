// Package scorer computes the quality and strategic-fit scores that drive the
// recommendation matrix.
package scorer

import (
	"go.uber.org/zap"

	"github.com/pembroke-collections/acquisition-engine/internal/model"
)

const (
	qualityWeight      = 0.6
	strategicFitWeight = 0.4
)

// Score computes both 0-100 scores and their weighted blend from item
// attributes and the collection context. Pure; no I/O.
func Score(item model.ItemMetadata, coll model.CollectionContext) model.ScoreBreakdown {
	var components []model.ScoreComponent

	quality := scoreQuality(item, coll, &components)
	strategic := scoreStrategicFit(item, coll, &components)

	breakdown := model.ScoreBreakdown{
		Quality:      quality,
		StrategicFit: strategic,
		Combined:     quality*qualityWeight + strategic*strategicFitWeight,
		Components:   components,
	}

	zap.L().Debug("scorer: scored item",
		zap.String("title", item.Title),
		zap.Float64("quality", breakdown.Quality),
		zap.Float64("strategic_fit", breakdown.StrategicFit),
		zap.Float64("combined", breakdown.Combined),
	)
	return breakdown
}

// clampScore keeps a score inside [0,100]. Raw sums outside the range are
// expected from stacked penalties or bonuses, not an arithmetic fault.
func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// add appends a named contribution and returns the running total.
func add(components *[]model.ScoreComponent, total float64, name string, points float64) float64 {
	if points == 0 {
		return total
	}
	*components = append(*components, model.ScoreComponent{Name: name, Points: points})
	return total + points
}
