package recommend

import "github.com/pembroke-collections/acquisition-engine/internal/model"

// floorRule caps the matrix tier when a specific weakness is present. Rules
// are evaluated in order after the matrix lookup; caps only ever lower a
// tier.
type floorRule struct {
	name      string
	triggered func(model.ScoreBreakdown) bool
	cap       model.Tier
}

const (
	strategicFitFloor = 30
	qualityFloor      = 40
)

var floorRules = []floorRule{
	{
		name:      "strategic_fit",
		triggered: func(s model.ScoreBreakdown) bool { return s.StrategicFit < strategicFitFloor },
		cap:       model.TierConditional,
	},
	{
		name:      "quality",
		triggered: func(s model.ScoreBreakdown) bool { return s.Quality < qualityFloor },
		cap:       model.TierConditional,
	},
}

// applyFloors caps the candidate tier and reports every rule that fired, in
// rule order.
func applyFloors(tier model.Tier, score model.ScoreBreakdown) (model.Tier, []string) {
	var fired []string
	for _, rule := range floorRules {
		if rule.triggered(score) {
			tier = model.MinTier(tier, rule.cap)
			fired = append(fired, rule.name)
		}
	}
	return tier, fired
}
