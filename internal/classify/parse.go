package classify

import (
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/pembroke-collections/acquisition-engine/internal/model"
)

// entry is one validated listing rating from the model.
type entry struct {
	Index     int
	Price     float64
	Currency  string
	Relevance string
}

// rawEntry uses pointers so a missing field is distinguishable from a zero
// value. Mistyped fields fail json.Unmarshal outright.
type rawEntry struct {
	Index     *int     `json:"index"`
	Price     *float64 `json:"price"`
	Currency  *string  `json:"currency"`
	Relevance *string  `json:"relevance"`
}

// parseEntries applies the strict schema check to a classification response.
// Any missing or mistyped field, out-of-range index, or unknown relevance
// value rejects the whole batch.
func parseEntries(text string, listingCount int) ([]entry, error) {
	text = cleanJSONArray(text)

	var raws []rawEntry
	if err := json.Unmarshal([]byte(text), &raws); err != nil {
		return nil, eris.Wrap(err, "classify: unmarshal response")
	}

	entries := make([]entry, 0, len(raws))
	for i, r := range raws {
		if r.Index == nil || r.Price == nil || r.Currency == nil || r.Relevance == nil {
			return nil, eris.Errorf("classify: entry %d missing required field", i)
		}
		if *r.Index < 0 || *r.Index >= listingCount {
			return nil, eris.Errorf("classify: entry %d index %d out of range [0,%d)", i, *r.Index, listingCount)
		}
		if *r.Price < 0 {
			return nil, eris.Errorf("classify: entry %d has negative price", i)
		}
		relevance := strings.ToLower(*r.Relevance)
		if !model.ValidRelevance(relevance) {
			return nil, eris.Errorf("classify: entry %d has unknown relevance %q", i, *r.Relevance)
		}
		entries = append(entries, entry{
			Index:     *r.Index,
			Price:     *r.Price,
			Currency:  strings.ToUpper(*r.Currency),
			Relevance: relevance,
		})
	}

	return entries, nil
}

// cleanJSONArray strips markdown fences and surrounding prose, keeping the
// outermost JSON array.
func cleanJSONArray(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}

	return strings.TrimSpace(text)
}
