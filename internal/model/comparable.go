package model

// SourceTag identifies which marketplace category a comparable came from.
type SourceTag string

const (
	// SourceSold marks listings representing completed transactions.
	SourceSold SourceTag = "sold"
	// SourceOffered marks listings currently offered for sale.
	SourceOffered SourceTag = "offered"
)

// RelevanceTier classifies how comparable a listing is to the target item.
type RelevanceTier string

const (
	RelevanceHigh   RelevanceTier = "high"
	RelevanceMedium RelevanceTier = "medium"
	RelevanceLow    RelevanceTier = "low"
)

// Weight returns the aggregation weight for the tier. LOW listings carry no
// weight and are always excluded from the estimate.
func (r RelevanceTier) Weight() float64 {
	switch r {
	case RelevanceHigh:
		return 1.0
	case RelevanceMedium:
		return 0.5
	default:
		return 0.0
	}
}

// ValidRelevance reports whether s is a recognized relevance tier.
func ValidRelevance(s string) bool {
	switch RelevanceTier(s) {
	case RelevanceHigh, RelevanceMedium, RelevanceLow:
		return true
	}
	return false
}

// RawComparable is an adapter's unstructured view of one marketplace listing.
// Fields hold listing text as found, not yet normalized.
type RawComparable struct {
	Source        SourceTag `json:"source_tag"`
	Title         string    `json:"raw_title"`
	PriceText     string    `json:"raw_price_text"`
	ConditionText string    `json:"raw_condition_text"`
	ObservedAt    string    `json:"observed_at"`
	URL           string    `json:"url"`
}

// ClassifiedComparable is a raw listing after LLM extraction: a normalized
// price in USD and a relevance tier against the target item. Ephemeral
// evidence, discarded after the evaluation.
type ClassifiedComparable struct {
	RawComparable
	Price     float64       `json:"normalized_price"`
	Currency  string        `json:"currency"`
	Relevance RelevanceTier `json:"relevance"`
}

// CountByTier tallies comparables per relevance tier.
func CountByTier(comps []ClassifiedComparable) map[RelevanceTier]int {
	counts := make(map[RelevanceTier]int)
	for _, c := range comps {
		counts[c.Relevance]++
	}
	return counts
}
