// Package model defines the domain types shared across the evaluation engine.
package model

import (
	"strings"

	"github.com/rotisserie/eris"
)

// ItemMetadata describes a candidate acquisition. It is supplied fresh per
// evaluation run and never mutated by the engine.
type ItemMetadata struct {
	Title          string  `json:"title" yaml:"title"`
	Author         string  `json:"author" yaml:"author"`
	Publisher      string  `json:"publisher" yaml:"publisher"`
	VolumeCount    int     `json:"volume_count" yaml:"volume_count"`
	MissingVolumes int     `json:"missing_volumes" yaml:"missing_volumes"`
	BindingType    string  `json:"binding_type" yaml:"binding_type"`
	Binder         string  `json:"binder" yaml:"binder"`
	BinderTier     int     `json:"binder_tier" yaml:"binder_tier"`
	PublisherTier  int     `json:"publisher_tier" yaml:"publisher_tier"`
	Edition        string  `json:"edition" yaml:"edition"`
	ConditionGrade string  `json:"condition_grade" yaml:"condition_grade"`
	Era            string  `json:"era" yaml:"era"`
	AskingPrice    float64 `json:"asking_price" yaml:"asking_price"`
	Currency       string  `json:"currency" yaml:"currency"`
}

// Validate checks the fields required before any external call is made.
// It normalizes the currency to an uppercase code, defaulting to USD.
func (m *ItemMetadata) Validate() error {
	if strings.TrimSpace(m.Title) == "" {
		return eris.New("item: title is required")
	}
	if strings.TrimSpace(m.Author) == "" {
		return eris.New("item: author is required")
	}
	if m.AskingPrice <= 0 {
		return eris.Errorf("item: asking price must be positive, got %.2f", m.AskingPrice)
	}
	if m.VolumeCount < 0 {
		return eris.Errorf("item: volume count cannot be negative, got %d", m.VolumeCount)
	}
	if m.MissingVolumes < 0 {
		return eris.Errorf("item: missing volumes cannot be negative, got %d", m.MissingVolumes)
	}
	if m.BinderTier < 0 || m.BinderTier > 2 {
		return eris.Errorf("item: binder tier must be 0-2, got %d", m.BinderTier)
	}
	if m.PublisherTier < 0 || m.PublisherTier > 2 {
		return eris.Errorf("item: publisher tier must be 0-2, got %d", m.PublisherTier)
	}
	if m.VolumeCount == 0 {
		m.VolumeCount = 1
	}
	if m.Currency == "" {
		m.Currency = "USD"
	} else {
		m.Currency = strings.ToUpper(strings.TrimSpace(m.Currency))
	}
	return nil
}

// Complete reports whether the set has no missing volumes.
func (m ItemMetadata) Complete() bool {
	return m.MissingVolumes == 0
}

// FirstEdition reports whether the edition field indicates a first printing.
func (m ItemMetadata) FirstEdition() bool {
	e := strings.ToLower(m.Edition)
	return strings.Contains(e, "first") || strings.Contains(e, "1st")
}

// Holding is a work already present in the collection.
type Holding struct {
	Title           string `json:"title" yaml:"title"`
	Author          string `json:"author" yaml:"author"`
	VolumesHeld     int    `json:"volumes_held" yaml:"volumes_held"`
	VolumesExpected int    `json:"volumes_expected" yaml:"volumes_expected"`
}

// Incomplete reports whether the holding is missing volumes.
func (h Holding) Incomplete() bool {
	return h.VolumesExpected > 0 && h.VolumesHeld < h.VolumesExpected
}

// Goal is a configured collection goal matched by keyword against item metadata.
type Goal struct {
	Name     string   `json:"name" yaml:"name"`
	Keywords []string `json:"keywords" yaml:"keywords"`
}

// CollectionContext carries the collector's existing holdings and stated
// strategy, supplied by the persistence-layer collaborator.
type CollectionContext struct {
	Holdings         []Holding         `json:"holdings" yaml:"holdings"`
	PublisherTargets map[string]string `json:"publisher_targets" yaml:"publisher_targets"`
	AuthorPriority   map[string]int    `json:"author_priority" yaml:"author_priority"`
	TargetEras       []string          `json:"target_eras" yaml:"target_eras"`
	Goals            []Goal            `json:"goals" yaml:"goals"`
}

// HoldingsByAuthor returns the holdings attributed to the given author,
// matched case-insensitively.
func (c CollectionContext) HoldingsByAuthor(author string) []Holding {
	var out []Holding
	for _, h := range c.Holdings {
		if strings.EqualFold(h.Author, author) {
			out = append(out, h)
		}
	}
	return out
}
