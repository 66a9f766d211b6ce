package scorer

import (
	"strings"

	"github.com/pembroke-collections/acquisition-engine/internal/model"
)

const (
	publisherTargetPoints = 40
	newAuthorPoints       = 30
	deepensAuthorPoints   = 15
	completesSetPoints    = 25
	goalAlignmentPoints   = 20
)

// scoreStrategicFit sums the collection-strategy contributions: how much this
// acquisition advances the collector's stated direction rather than how fine
// the object is.
func scoreStrategicFit(item model.ItemMetadata, coll model.CollectionContext, components *[]model.ScoreComponent) float64 {
	var total float64

	if matchesPublisherTarget(item, coll.PublisherTargets) {
		total = add(components, total, "publisher_target", publisherTargetPoints)
	}

	held := coll.HoldingsByAuthor(item.Author)
	if len(held) == 0 {
		total = add(components, total, "new_author", newAuthorPoints)
	} else if !holdsTitle(held, item.Title) {
		total = add(components, total, "deepens_author", deepensAuthorPoints)
	}

	if completesIncompleteSet(item, coll) {
		total = add(components, total, "completes_set", completesSetPoints)
	}

	if _, ok := matchingGoal(item, coll.Goals); ok {
		total = add(components, total, "goal_alignment", goalAlignmentPoints)
	}

	return clampScore(total)
}

// matchesPublisherTarget checks the per-author acquisition targets: the
// collector wants works by this author from this specific publisher.
func matchesPublisherTarget(item model.ItemMetadata, targets map[string]string) bool {
	if item.Publisher == "" {
		return false
	}
	for author, publisher := range targets {
		if strings.EqualFold(author, item.Author) && strings.EqualFold(publisher, item.Publisher) {
			return true
		}
	}
	return false
}

func holdsTitle(holdings []model.Holding, title string) bool {
	for _, h := range holdings {
		if strings.EqualFold(h.Title, title) {
			return true
		}
	}
	return false
}

// completesIncompleteSet reports whether this acquisition fills out a held
// set that is missing volumes.
func completesIncompleteSet(item model.ItemMetadata, coll model.CollectionContext) bool {
	for _, h := range coll.Holdings {
		if strings.EqualFold(h.Title, item.Title) && strings.EqualFold(h.Author, item.Author) && h.Incomplete() {
			return true
		}
	}
	return false
}

// matchingGoal returns the first configured goal with a keyword appearing in
// the item's descriptive fields.
func matchingGoal(item model.ItemMetadata, goals []model.Goal) (model.Goal, bool) {
	haystack := strings.ToLower(strings.Join([]string{
		item.Title, item.Author, item.Publisher, item.BindingType, item.Binder, item.Era,
	}, " "))
	for _, g := range goals {
		for _, kw := range g.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw != "" && strings.Contains(haystack, kw) {
				return g, true
			}
		}
	}
	return model.Goal{}, false
}
