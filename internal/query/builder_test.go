package query

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pembroke-collections/acquisition-engine/internal/model"
)

func gibbon() model.ItemMetadata {
	return model.ItemMetadata{
		Title:       "The History of the Decline and Fall of the Roman Empire",
		Author:      "Edward Gibbon",
		VolumeCount: 6,
		BindingType: "full morocco",
		Binder:      "Riviere",
		Edition:     "First edition",
		AskingPrice: 1200,
	}
}

func TestBuild_FullQualifiers(t *testing.T) {
	got := Build(gibbon())
	assert.Equal(t, "history decline fall roman empire gibbon 6 volumes morocco riviere first edition", got)
}

func TestBuild_Deterministic(t *testing.T) {
	item := gibbon()
	assert.Equal(t, Build(item), Build(item))
}

func TestBuild_SingleVolumeOmitsCount(t *testing.T) {
	item := gibbon()
	item.VolumeCount = 1
	assert.NotContains(t, Build(item), "volumes")
}

func TestBuild_UnknownBindingOmitted(t *testing.T) {
	item := gibbon()
	item.BindingType = "publisher's cloth"
	item.Binder = ""
	item.Edition = ""
	assert.Equal(t, "history decline fall roman empire gibbon 6 volumes", Build(item))
}

func TestBuild_BindingKeywords(t *testing.T) {
	for _, tc := range []struct {
		binding string
		want    string
	}{
		{"full morocco, gilt", "morocco"},
		{"Tree calf", "calf"},
		{"limp vellum", "vellum"},
	} {
		item := gibbon()
		item.BindingType = tc.binding
		assert.Contains(t, Build(item), tc.want, tc.binding)
	}
}

func TestBuild_LaterPrintingOmitsFirstEdition(t *testing.T) {
	item := gibbon()
	item.Edition = "Third edition"
	assert.NotContains(t, Build(item), "first edition")
}

func TestSimplified_TitleAndAuthorOnly(t *testing.T) {
	got := Simplified(gibbon())
	assert.Equal(t, "history decline fall roman empire gibbon", got)
}

func TestSignificantTokens_CapsAtFive(t *testing.T) {
	toks := significantTokens("One Two Three Four Five Six Seven")
	assert.Equal(t, []string{"one", "two", "three", "four", "five"}, toks)
}

func TestSignificantTokens_FoldsDiacritics(t *testing.T) {
	toks := significantTokens("Œuvres complètes de Molière")
	assert.Contains(t, toks, "completes")
	assert.Contains(t, toks, "moliere")
}

func TestSignificantTokens_StripsPunctuation(t *testing.T) {
	toks := significantTokens("Tristram Shandy; Gentleman's Life &c.")
	assert.Equal(t, []string{"tristram", "shandy", "gentleman's", "life", "c"}, toks)
}

func TestSurname_CommaForm(t *testing.T) {
	assert.Equal(t, "gibbon", surname("Gibbon, Edward"))
	assert.Equal(t, "thackeray", surname("William Makepeace Thackeray"))
	assert.Equal(t, "", surname("  "))
	assert.Equal(t, "bronte", surname("Charlotte Brontë"))
}
