package recommend

import "github.com/pembroke-collections/acquisition-engine/internal/model"

const (
	excellentBelow = 0.70
	goodBelow      = 0.85
	fairUpTo       = 1.00
)

// classifyPosition compares the asking price to the FMV midpoint. Without a
// numeric range there is no evidence either way, so the position is neutral.
func classifyPosition(asking float64, fmv model.FmvEstimate) model.PricePosition {
	if !fmv.HasRange() {
		return model.PositionFair
	}

	ratio := asking / fmv.Mid()
	switch {
	case ratio < excellentBelow:
		return model.PositionExcellent
	case ratio < goodBelow:
		return model.PositionGood
	case ratio <= fairUpTo:
		return model.PositionFair
	default:
		return model.PositionPoor
	}
}
