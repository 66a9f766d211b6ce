package recommend

import "github.com/pembroke-collections/acquisition-engine/internal/model"

// scoreBand indexes the matrix rows from the strongest combined-score band
// down.
func scoreBand(combined float64) int {
	switch {
	case combined >= 80:
		return 0
	case combined >= 60:
		return 1
	case combined >= 40:
		return 2
	default:
		return 3
	}
}

func positionColumn(p model.PricePosition) int {
	switch p {
	case model.PositionExcellent:
		return 0
	case model.PositionGood:
		return 1
	case model.PositionFair:
		return 2
	default:
		return 3
	}
}

// decisionMatrix maps (score band, price position) to a candidate tier.
// Rows: >=80, 60-79, 40-59, <40. Columns: EXCELLENT, GOOD, FAIR, POOR.
var decisionMatrix = [4][4]model.Tier{
	{model.TierStrongBuy, model.TierStrongBuy, model.TierBuy, model.TierConditional},
	{model.TierStrongBuy, model.TierBuy, model.TierBuy, model.TierConditional},
	{model.TierBuy, model.TierConditional, model.TierConditional, model.TierPass},
	{model.TierConditional, model.TierPass, model.TierPass, model.TierPass},
}

func matrixTier(combined float64, position model.PricePosition) model.Tier {
	return decisionMatrix[scoreBand(combined)][positionColumn(position)]
}
