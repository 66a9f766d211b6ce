package model

// Confidence expresses how much comparable evidence backs an FMV estimate.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// InsufficientDataNote is set on estimates produced without enough comparables.
const InsufficientDataNote = "insufficient comparable data"

// FmvEstimate is a fair-market-value range with the evidence that produced it.
// Low <= High always; Notes is populated whenever Confidence is low.
type FmvEstimate struct {
	Low        float64               `json:"low"`
	High       float64               `json:"high"`
	Confidence Confidence            `json:"confidence"`
	TierCounts map[RelevanceTier]int `json:"contributing_counts_by_tier"`
	Notes      string                `json:"notes,omitempty"`
}

// HasRange reports whether a numeric range was produced.
func (f FmvEstimate) HasRange() bool {
	return f.High > 0
}

// Mid returns the range midpoint, or 0 when no range exists.
func (f FmvEstimate) Mid() float64 {
	return (f.Low + f.High) / 2
}

// ScoreComponent records one additive contribution to a score.
type ScoreComponent struct {
	Name   string  `json:"name"`
	Points float64 `json:"points"`
}

// ScoreBreakdown holds the two independent 0-100 scores, their weighted blend,
// and the per-component contributions that produced them.
type ScoreBreakdown struct {
	Quality       float64          `json:"quality_score"`
	StrategicFit  float64          `json:"strategic_fit_score"`
	Combined      float64          `json:"combined_score"`
	Components    []ScoreComponent `json:"component_contributions"`
	FloorsApplied []string         `json:"floors_applied"`
}

// Tier is the terminal recommendation for an evaluation.
type Tier string

const (
	TierStrongBuy   Tier = "STRONG_BUY"
	TierBuy         Tier = "BUY"
	TierConditional Tier = "CONDITIONAL"
	TierPass        Tier = "PASS"
)

var tierRank = map[Tier]int{
	TierPass:        0,
	TierConditional: 1,
	TierBuy:         2,
	TierStrongBuy:   3,
}

// Rank orders tiers from PASS (0) to STRONG_BUY (3). Floor rules cap a tier
// by taking the minimum rank.
func (t Tier) Rank() int {
	return tierRank[t]
}

// MinTier returns the lower-ranked of two tiers.
func MinTier(a, b Tier) Tier {
	if b.Rank() < a.Rank() {
		return b
	}
	return a
}

// PricePosition expresses the asking price relative to the FMV midpoint.
type PricePosition string

const (
	PositionExcellent PricePosition = "EXCELLENT"
	PositionGood      PricePosition = "GOOD"
	PositionFair      PricePosition = "FAIR"
	PositionPoor      PricePosition = "POOR"
)

// Recommendation is the engine's terminal output for one evaluation.
// SuggestedOffer, when present, satisfies fmv_low <= offer <= asking_price.
type Recommendation struct {
	Tier              Tier          `json:"tier"`
	PricePosition     PricePosition `json:"price_position"`
	SuggestedOffer    *float64      `json:"suggested_offer,omitempty"`
	AskAtOrBelowOffer bool          `json:"ask_at_or_below_offer,omitempty"`
	Reasoning         string        `json:"reasoning"`
}
