package models

import (
	"fmt"
	"math"
)

// PackType identifies one of the shop's booster packs
type PackType string

const (
	PackStandard   PackType = "standard"
	PackGuaranteed PackType = "guaranteed"
	PackCollector  PackType = "collector"
)

const (
	// InitialTokens is the balance of a fresh save
	InitialTokens = 100
	// FreeTokensAmount is credited by ClaimFreeTokens
	FreeTokensAmount = 10
	// MaxDeckSize caps the squad
	MaxDeckSize = 6
	// MaxPackQuantity is the largest number of packs opened in one purchase
	MaxPackQuantity = 10
	// SpeciesCatalogSize is the number of species the provider knows about (ids 1..N)
	SpeciesCatalogSize = 1025
	// MinAuctionValue is the lowest resale value that can be listed in the auction house
	MinAuctionValue = 5
)

// AllPackTypes returns all valid pack types
func AllPackTypes() []PackType {
	return []PackType{
		PackStandard,
		PackGuaranteed,
		PackCollector,
	}
}

// RarityChance is one step of a cumulative weighted draw.
// Steps are evaluated in order; the first step whose cumulative threshold exceeds the roll wins.
type RarityChance struct {
	Rarity Rarity  `yaml:"rarity" json:"rarity"`
	Chance float64 `yaml:"chance" json:"chance"`
}

// RarityConfig holds the static values attached to one rarity tier
type RarityConfig struct {
	PossibleValues  []int   `yaml:"possible_values" json:"possible_values"`
	PowerMultiplier float64 `yaml:"power_multiplier" json:"power_multiplier"`
}

// Tables is the full randomness and pricing configuration consumed by the factory,
// the store and the battle simulator.
type Tables struct {
	PackCosts      map[PackType]int        `yaml:"pack_costs" json:"pack_costs"`
	StandardDraw   []RarityChance          `yaml:"standard_draw" json:"standard_draw"`
	GuaranteedDraw []RarityChance          `yaml:"guaranteed_draw" json:"guaranteed_draw"`
	GuaranteedBase Rarity                  `yaml:"guaranteed_base" json:"guaranteed_base"`
	Rarities       map[Rarity]RarityConfig `yaml:"rarities" json:"rarities"`
	EvolutionCosts map[Rarity]int          `yaml:"evolution_costs" json:"evolution_costs"`
}

// DefaultTables returns the stock configuration
func DefaultTables() Tables {
	return Tables{
		PackCosts: map[PackType]int{
			PackStandard:   5,
			PackGuaranteed: 30,
			PackCollector:  100,
		},
		StandardDraw: []RarityChance{
			{Rarity: RarityCollector, Chance: 0.02},
			{Rarity: RarityLegendary, Chance: 0.04},
			{Rarity: RarityEpic, Chance: 0.09},
			{Rarity: RarityRare, Chance: 0.25},
			{Rarity: RarityCommon, Chance: 0.60},
		},
		GuaranteedDraw: []RarityChance{
			{Rarity: RarityLegendary, Chance: 0.10},
			{Rarity: RarityEpic, Chance: 0.25},
		},
		GuaranteedBase: RarityRare,
		Rarities: map[Rarity]RarityConfig{
			RarityCommon:    {PossibleValues: []int{1}, PowerMultiplier: 1.0},
			RarityRare:      {PossibleValues: []int{5, 10}, PowerMultiplier: 1.5},
			RarityEpic:      {PossibleValues: []int{15, 20, 25, 30}, PowerMultiplier: 2.0},
			RarityLegendary: {PossibleValues: []int{35, 40, 45}, PowerMultiplier: 3.0},
			RarityCollector: {PossibleValues: []int{50}, PowerMultiplier: 4.0},
		},
		EvolutionCosts: map[Rarity]int{
			RarityCommon: 10,
			RarityRare:   20,
			RarityEpic:   30,
		},
	}
}

// PackCost returns the price of quantity packs of the given type
func (t Tables) PackCost(packType PackType, quantity int) (int, error) {
	unit, ok := t.PackCosts[packType]
	if !ok {
		return 0, fmt.Errorf("unknown pack type %q", packType)
	}
	return unit * quantity, nil
}

// EvolutionCost returns the flat cost of evolving a card of rarity r, false when r is terminal.
func (t Tables) EvolutionCost(r Rarity) (int, bool) {
	if _, ok := r.NextEvolution(); !ok {
		return 0, false
	}
	cost, ok := t.EvolutionCosts[r]
	return cost, ok
}

// PowerMultiplier returns the battle multiplier for r, defaulting to 1
func (t Tables) PowerMultiplier(r Rarity) float64 {
	if cfg, ok := t.Rarities[r]; ok && cfg.PowerMultiplier > 0 {
		return cfg.PowerMultiplier
	}
	return 1
}

// Validate checks that the tables are internally consistent.
func (t Tables) Validate() error {
	for _, pt := range AllPackTypes() {
		if cost, ok := t.PackCosts[pt]; !ok || cost <= 0 {
			return fmt.Errorf("pack %q must have a positive cost", pt)
		}
	}
	for _, r := range AllRarities() {
		cfg, ok := t.Rarities[r]
		if !ok || len(cfg.PossibleValues) == 0 {
			return fmt.Errorf("rarity %q has no possible values", r)
		}
		for _, v := range cfg.PossibleValues {
			if v < 1 {
				return fmt.Errorf("rarity %q has value %d below 1", r, v)
			}
		}
	}
	if sum := chanceSum(t.StandardDraw); math.Abs(sum-1) > 1e-9 {
		return fmt.Errorf("standard draw chances sum to %.4f, want 1", sum)
	}
	if sum := chanceSum(t.GuaranteedDraw); sum > 1+1e-9 {
		return fmt.Errorf("guaranteed draw chances sum to %.4f, want <= 1", sum)
	}
	if t.GuaranteedBase.Rank() < RarityRare.Rank() {
		return fmt.Errorf("guaranteed base rarity %q must be Rare or better", t.GuaranteedBase)
	}
	for _, step := range append(append([]RarityChance(nil), t.StandardDraw...), t.GuaranteedDraw...) {
		if !step.Rarity.IsValid() {
			return fmt.Errorf("unknown rarity %q in draw table", step.Rarity)
		}
	}
	return nil
}

func chanceSum(steps []RarityChance) float64 {
	sum := 0.0
	for _, s := range steps {
		sum += s.Chance
	}
	return sum
}
