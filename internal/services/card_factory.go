package services

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/codyseavey/pokemarket/internal/metrics"
	"github.com/codyseavey/pokemarket/internal/models"
)

// CardFactory turns a pack purchase into card instances
type CardFactory struct {
	provider SpeciesProvider
	rng      RandomSource
	tables   models.Tables
	clock    Clock
}

// NewCardFactory creates a factory. A nil rng or clock falls back to the real ones.
func NewCardFactory(provider SpeciesProvider, rng RandomSource, tables models.Tables, clock Clock) *CardFactory {
	if rng == nil {
		rng = DefaultRNG()
	}
	if clock == nil {
		clock = RealClock{}
	}
	return &CardFactory{
		provider: provider,
		rng:      rng,
		tables:   tables,
		clock:    clock,
	}
}

// packUnit is one pre-rolled card waiting for its metadata
type packUnit struct {
	speciesID int
	rarity    models.Rarity
	value     int
}

// OpenPack rolls quantity cards of packType. Units whose metadata cannot be fetched are dropped,
// so the result may be shorter than quantity, or empty. Balance is not checked here.
func (f *CardFactory) OpenPack(ctx context.Context, packType models.PackType, quantity int) ([]models.Card, error) {
	if _, ok := f.tables.PackCosts[packType]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPackType, packType)
	}
	if quantity < 1 || quantity > models.MaxPackQuantity {
		return nil, fmt.Errorf("%w: %d", ErrInvalidQuantity, quantity)
	}

	// Roll everything up front so a seeded generator gives the same pack regardless of fetch timing
	units := make([]packUnit, quantity)
	for i := range units {
		rarity := f.DrawRarity(packType)
		units[i] = packUnit{
			speciesID: f.rng.IntN(models.SpeciesCatalogSize) + 1,
			rarity:    rarity,
			value:     f.DrawResaleValue(rarity),
		}
	}

	species := make([]*models.Species, quantity)
	var wg sync.WaitGroup
	for i, u := range units {
		wg.Add(1)
		go func(i int, speciesID int) {
			defer wg.Done()
			s, err := f.provider.GetSpecies(ctx, speciesID)
			if err != nil {
				log.Printf("Card factory: species %d unavailable: %v", speciesID, err)
				return
			}
			species[i] = s
		}(i, u.speciesID)
	}
	wg.Wait()

	now := f.clock.Now()
	cards := make([]models.Card, 0, quantity)
	for i, u := range units {
		if species[i] == nil {
			metrics.PackUnitsDroppedTotal.Inc()
			continue
		}
		card := models.Card{
			InstanceID:  uuid.New().String(),
			Rarity:      u.rarity,
			IsShiny:     u.rarity.IsShiny(),
			ResaleValue: u.value,
			AcquiredAt:  now,
		}.WithSpecies(*species[i])
		cards = append(cards, card)
		metrics.CardsOpenedTotal.WithLabelValues(string(u.rarity)).Inc()
	}

	return cards, nil
}

// DrawRarity resolves the rarity of one unit of packType with an independent uniform roll.
func (f *CardFactory) DrawRarity(packType models.PackType) models.Rarity {
	switch packType {
	case models.PackCollector:
		return models.RarityCollector
	case models.PackGuaranteed:
		return drawCumulative(f.rng.Float64(), f.tables.GuaranteedDraw, f.tables.GuaranteedBase)
	default:
		return drawCumulative(f.rng.Float64(), f.tables.StandardDraw, models.RarityCommon)
	}
}

// DrawResaleValue picks uniformly from the rarity's possible values
func (f *CardFactory) DrawResaleValue(r models.Rarity) int {
	values := f.tables.Rarities[r].PossibleValues
	if len(values) == 0 {
		return 1
	}
	return values[f.rng.IntN(len(values))]
}

// drawCumulative walks the steps accumulating chances; the first threshold above roll wins.
func drawCumulative(roll float64, steps []models.RarityChance, fallback models.Rarity) models.Rarity {
	threshold := 0.0
	for _, step := range steps {
		threshold += step.Chance
		if roll < threshold {
			return step.Rarity
		}
	}
	return fallback
}
