package recommend

import (
	"math"

	"github.com/pembroke-collections/acquisition-engine/internal/model"
)

const (
	discountUpperBand = 0.25 // combined >= 60
	discountMidBand   = 0.35 // combined 40-59
	discountLowBand   = 0.45 // combined < 40
	// floorDiscountMin applies when a floor rule, not the matrix, produced
	// the CONDITIONAL: a structural weakness warrants a steeper ask.
	floorDiscountMin = 0.40
)

func targetDiscount(combined float64, floorTriggered bool) float64 {
	var d float64
	switch {
	case combined >= 60:
		d = discountUpperBand
	case combined >= 40:
		d = discountMidBand
	default:
		d = discountLowBand
	}
	if floorTriggered && d < floorDiscountMin {
		d = floorDiscountMin
	}
	return d
}

// computeOffer produces a counter-offer for a CONDITIONAL recommendation.
// The offer is anchored to the FMV midpoint, never below fmv low, and never
// at or above the asking price. When the ask is already at or below the
// computed level it returns (nil, true) instead of proposing a no-op offer.
// Without an FMV range there is nothing to anchor to and no offer is made.
func computeOffer(asking float64, fmv model.FmvEstimate, combined float64, floorTriggered bool) (*float64, bool) {
	if !fmv.HasRange() {
		return nil, false
	}

	discount := targetDiscount(combined, floorTriggered)
	offer := fmv.Mid() * (1 - discount)
	if offer < fmv.Low {
		offer = fmv.Low
	}
	offer = math.Round(offer*100) / 100

	if asking <= offer {
		return nil, true
	}
	return &offer, false
}
