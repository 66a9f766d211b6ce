package scorer

import (
	"strings"

	"github.com/pembroke-collections/acquisition-engine/internal/model"
)

const (
	publisherTier1Points = 25
	publisherTier2Points = 10
	binderTier1Points    = 30
	binderTier2Points    = 15
	premiumPairingBonus  = 10
	eraMatchPoints       = 15
	conditionFinePoints  = 15
	conditionGoodPoints  = 10
	completeSetPoints    = 10
	authorPriorityCap    = 15
	duplicatePenalty     = -30
	largeSetPenalty      = -10
	largeSetThreshold    = 5
)

// scoreQuality sums the intrinsic-desirability contributions of the item
// itself, independent of collection strategy. The duplicate-title penalty is
// the one collection-aware input: a copy already on the shelf is worth less
// regardless of its own merits.
func scoreQuality(item model.ItemMetadata, coll model.CollectionContext, components *[]model.ScoreComponent) float64 {
	var total float64

	switch item.PublisherTier {
	case 1:
		total = add(components, total, "publisher_tier", publisherTier1Points)
	case 2:
		total = add(components, total, "publisher_tier", publisherTier2Points)
	}

	switch item.BinderTier {
	case 1:
		total = add(components, total, "binder_tier", binderTier1Points)
	case 2:
		total = add(components, total, "binder_tier", binderTier2Points)
	}

	if item.PublisherTier == 1 && item.BinderTier == 1 {
		total = add(components, total, "premium_pairing", premiumPairingBonus)
	}

	if eraMatches(item.Era, coll.TargetEras) {
		total = add(components, total, "era_match", eraMatchPoints)
	}

	total = add(components, total, "condition", conditionPoints(item.ConditionGrade))

	if item.Complete() {
		total = add(components, total, "complete_set", completeSetPoints)
	}

	total = add(components, total, "author_priority", authorPriorityPoints(item.Author, coll.AuthorPriority))

	if hasDuplicateTitle(item, coll) {
		total = add(components, total, "duplicate_title", duplicatePenalty)
	}

	if item.VolumeCount >= largeSetThreshold {
		total = add(components, total, "large_set", largeSetPenalty)
	}

	return clampScore(total)
}

func conditionPoints(grade string) float64 {
	switch strings.ToLower(strings.TrimSpace(grade)) {
	case "fine", "very good", "very-good", "vg":
		return conditionFinePoints
	case "good":
		return conditionGoodPoints
	default:
		return 0
	}
}

func eraMatches(era string, targets []string) bool {
	if era == "" {
		return false
	}
	for _, t := range targets {
		if strings.EqualFold(era, t) {
			return true
		}
	}
	return false
}

// authorPriorityPoints looks the author up case-insensitively and caps the
// configured priority at the maximum contribution.
func authorPriorityPoints(author string, priorities map[string]int) float64 {
	for name, p := range priorities {
		if strings.EqualFold(name, author) {
			if p < 0 {
				return 0
			}
			if p > authorPriorityCap {
				return authorPriorityCap
			}
			return float64(p)
		}
	}
	return 0
}

// hasDuplicateTitle reports whether a complete copy of this work is already
// held. An incomplete holding is not a duplicate; acquiring against it is a
// set completion, credited on the strategic side instead.
func hasDuplicateTitle(item model.ItemMetadata, coll model.CollectionContext) bool {
	for _, h := range coll.Holdings {
		if strings.EqualFold(h.Title, item.Title) && !h.Incomplete() {
			return true
		}
	}
	return false
}
