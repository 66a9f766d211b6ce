package recommend

import (
	"fmt"
	"math"
	"strings"

	"github.com/pembroke-collections/acquisition-engine/internal/model"
)

var componentPhrases = map[string]string{
	"publisher_tier":   "publisher quality",
	"binder_tier":      "binder quality",
	"premium_pairing":  "the premium publisher and binder pairing",
	"era_match":        "the target-era match",
	"condition":        "condition",
	"complete_set":     "set completeness",
	"author_priority":  "author priority",
	"duplicate_title":  "a duplicate copy already held",
	"large_set":        "the large volume count",
	"publisher_target": "a stated publisher target",
	"new_author":       "adding a new author to the collection",
	"deepens_author":   "deepening an existing author",
	"completes_set":    "completing an incomplete set",
	"goal_alignment":   "a collection-goal match",
}

var floorPhrases = map[string]string{
	"strategic_fit": "weak strategic fit",
	"quality":       "a low quality score",
}

// composeReasoning explains the tier in one to three sentences consistent
// with the numeric output: the price position, the single strongest or most
// limiting factor, and the offer when one was computed.
func composeReasoning(rec model.Recommendation, asking float64, fmv model.FmvEstimate, score model.ScoreBreakdown) string {
	var sentences []string

	if fmv.HasRange() {
		pct := int(math.Round(asking / fmv.Mid() * 100))
		sentences = append(sentences, fmt.Sprintf(
			"%s: combined score %.0f with the %s ask at %d%% of the %s-%s fair-market midpoint (%s confidence).",
			rec.Tier, score.Combined, money(asking), pct, money(fmv.Low), money(fmv.High), fmv.Confidence,
		))
	} else {
		sentences = append(sentences, fmt.Sprintf(
			"%s: combined score %.0f; no fair-market range could be estimated (%s), so price position is treated as neutral.",
			rec.Tier, score.Combined, fmv.Notes,
		))
	}

	if factor := limitingOrDrivingFactor(rec, score); factor != "" {
		sentences = append(sentences, factor)
	}

	switch {
	case rec.SuggestedOffer != nil:
		sentences = append(sentences, fmt.Sprintf("Suggested offer: %s.", money(*rec.SuggestedOffer)))
	case rec.AskAtOrBelowOffer:
		sentences = append(sentences, "The asking price is already at or below the computed offer level.")
	}

	return strings.Join(sentences, " ")
}

// limitingOrDrivingFactor names the single strongest contributor, or the
// floor or price deviation that held the tier down.
func limitingOrDrivingFactor(rec model.Recommendation, score model.ScoreBreakdown) string {
	if len(score.FloorsApplied) > 0 {
		name := score.FloorsApplied[0]
		phrase, ok := floorPhrases[name]
		if !ok {
			phrase = name
		}
		return fmt.Sprintf("Tier capped at %s by %s.", rec.Tier, phrase)
	}

	if rec.PricePosition == model.PositionPoor {
		return "The asking price exceeds the fair-market midpoint."
	}

	var strongest model.ScoreComponent
	for _, c := range score.Components {
		if math.Abs(c.Points) > math.Abs(strongest.Points) {
			strongest = c
		}
	}
	if strongest.Name == "" {
		return ""
	}

	phrase, ok := componentPhrases[strongest.Name]
	if !ok {
		phrase = strongest.Name
	}
	if strongest.Points < 0 {
		return fmt.Sprintf("The largest drag on the score is %s (%.0f points).", phrase, strongest.Points)
	}
	return fmt.Sprintf("The strongest factor is %s (+%.0f points).", phrase, strongest.Points)
}

func money(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("$%.0f", v)
	}
	return fmt.Sprintf("$%.2f", v)
}
