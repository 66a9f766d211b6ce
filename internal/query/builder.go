// Package query builds marketplace search strings from item metadata.
package query

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/pembroke-collections/acquisition-engine/internal/model"
)

// maxTitleTokens caps how many significant title tokens enter the query.
const maxTitleTokens = 5

// stopwords are excluded from the significant title tokens.
var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "at": true, "by": true,
	"for": true, "from": true, "in": true, "into": true, "of": true,
	"on": true, "or": true, "the": true, "to": true, "with": true,
}

// bindingKeywords maps a binding-type keyword to the literal search term.
var bindingKeywords = []string{"morocco", "calf", "vellum"}

// foldDiacritics strips combining marks so accented titles match plain-ASCII
// marketplace listings ("Œuvres complètes" → "Œuvres completes").
var foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Build constructs the primary search query for an item. It is pure and
// deterministic: the same metadata always yields the same string.
func Build(item model.ItemMetadata) string {
	parts := []string{base(item)}

	if item.VolumeCount > 1 {
		parts = append(parts, fmt.Sprintf("%d volumes", item.VolumeCount))
	}

	if kw := bindingTerm(item.BindingType); kw != "" {
		parts = append(parts, kw)
	}

	if b := strings.TrimSpace(item.Binder); b != "" {
		parts = append(parts, strings.ToLower(b))
	}

	if item.FirstEdition() {
		parts = append(parts, "first edition")
	}

	return strings.Join(parts, " ")
}

// Simplified constructs the fallback query: title tokens and author surname
// only, all conditional terms discarded.
func Simplified(item model.ItemMetadata) string {
	return base(item)
}

func base(item model.ItemMetadata) string {
	tokens := significantTokens(item.Title)
	if s := surname(item.Author); s != "" {
		tokens = append(tokens, s)
	}
	return strings.Join(tokens, " ")
}

// significantTokens returns the first significant tokens of a title,
// lowercased, diacritics folded, punctuation stripped, stopwords excluded.
func significantTokens(title string) []string {
	folded, _, err := transform.String(foldDiacritics, title)
	if err != nil {
		folded = title
	}

	var tokens []string
	for _, raw := range strings.Fields(strings.ToLower(folded)) {
		tok := strings.TrimFunc(raw, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})
		if tok == "" || stopwords[tok] {
			continue
		}
		tokens = append(tokens, tok)
		if len(tokens) == maxTitleTokens {
			break
		}
	}
	return tokens
}

// surname extracts the author's surname. Handles both "Edward Gibbon" and
// "Gibbon, Edward" forms.
func surname(author string) string {
	author = strings.TrimSpace(author)
	if author == "" {
		return ""
	}

	if idx := strings.Index(author, ","); idx >= 0 {
		author = author[:idx]
	} else {
		fields := strings.Fields(author)
		author = fields[len(fields)-1]
	}

	folded, _, err := transform.String(foldDiacritics, author)
	if err != nil {
		folded = author
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

// bindingTerm returns the literal binding search term when the binding type
// mentions a known keyword.
func bindingTerm(bindingType string) string {
	bt := strings.ToLower(bindingType)
	for _, kw := range bindingKeywords {
		if strings.Contains(bt, kw) {
			return kw
		}
	}
	return ""
}
