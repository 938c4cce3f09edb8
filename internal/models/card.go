package models

import (
	"time"
)

// Rarity is the ordinal tier of a card, worst to best.
type Rarity string

const (
	RarityCommon    Rarity = "Common"
	RarityRare      Rarity = "Rare"
	RarityEpic      Rarity = "Epic"
	RarityLegendary Rarity = "Legendary"
	RarityCollector Rarity = "Collector"
)

// AllRarities returns every tier ordered worst-to-best
func AllRarities() []Rarity {
	return []Rarity{
		RarityCommon,
		RarityRare,
		RarityEpic,
		RarityLegendary,
		RarityCollector,
	}
}

// Rank returns the position of the rarity in the worst-to-best order, or -1 if unknown.
func (r Rarity) Rank() int {
	for i, rr := range AllRarities() {
		if rr == r {
			return i
		}
	}
	return -1
}

// IsValid reports whether r is one of the known tiers
func (r Rarity) IsValid() bool {
	return r.Rank() >= 0
}

// IsShiny returns true for the tiers that always roll shiny cards.
func (r Rarity) IsShiny() bool {
	return r == RarityEpic || r == RarityLegendary || r == RarityCollector
}

// NextEvolution returns the tier an evolution moves to.
// Legendary and Collector are terminal.
func (r Rarity) NextEvolution() (Rarity, bool) {
	switch r {
	case RarityCommon:
		return RarityRare, true
	case RarityRare:
		return RarityEpic, true
	case RarityEpic:
		return RarityLegendary, true
	default:
		return r, false
	}
}

// Species is a normalized creature record from the metadata provider.
type Species struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	Types    []string `json:"types"`
	ImageURL string   `json:"image_url"`
}

// Card is one owned collectible instance. InstanceID is its identity for every lookup.
type Card struct {
	InstanceID  string    `json:"instance_id"`
	SpeciesID   int       `json:"species_id"`
	Name        string    `json:"name"`
	Types       []string  `json:"types"`
	ImageURL    string    `json:"image_url"`
	Rarity      Rarity    `json:"rarity"`
	IsShiny     bool      `json:"is_shiny"`
	ResaleValue int       `json:"resale_value"`
	AcquiredAt  time.Time `json:"acquired_at"`
	IsFavorite  bool      `json:"is_favorite"`
}

// HasType reports whether the card carries the given elemental type
func (c Card) HasType(t string) bool {
	for _, ct := range c.Types {
		if ct == t {
			return true
		}
	}
	return false
}

// WithSpecies returns a copy of the card whose species-derived fields are replaced by s.
func (c Card) WithSpecies(s Species) Card {
	c.SpeciesID = s.ID
	c.Name = s.Name
	c.Types = append([]string(nil), s.Types...)
	c.ImageURL = s.ImageURL
	return c
}

type CardSearchResult struct {
	Cards      []Card `json:"cards"`
	TotalCount int    `json:"total_count"`
}
