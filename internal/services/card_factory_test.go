package services

import (
	"context"
	"errors"
	"testing"

	"github.com/codyseavey/pokemarket/internal/models"
)

func TestDrawRarity(t *testing.T) {
	tests := []struct {
		packType models.PackType
		roll     float64
		want     models.Rarity
	}{
		{models.PackStandard, 0.00, models.RarityCollector},
		{models.PackStandard, 0.019, models.RarityCollector},
		{models.PackStandard, 0.05, models.RarityLegendary},
		{models.PackStandard, 0.10, models.RarityEpic},
		{models.PackStandard, 0.30, models.RarityRare},
		{models.PackStandard, 0.50, models.RarityCommon},
		{models.PackStandard, 0.999, models.RarityCommon},
		{models.PackGuaranteed, 0.05, models.RarityLegendary},
		{models.PackGuaranteed, 0.20, models.RarityEpic},
		{models.PackGuaranteed, 0.50, models.RarityRare},
		{models.PackGuaranteed, 0.999, models.RarityRare},
		{models.PackCollector, 0.999, models.RarityCollector},
	}

	for _, tt := range tests {
		f := NewCardFactory(newFakeProvider(), constRNG{f: tt.roll}, models.DefaultTables(), nil)
		if got := f.DrawRarity(tt.packType); got != tt.want {
			t.Errorf("DrawRarity(%s) with roll %.3f = %s, want %s", tt.packType, tt.roll, got, tt.want)
		}
	}
}

func TestDrawResaleValue(t *testing.T) {
	tables := models.DefaultTables()
	for _, r := range models.AllRarities() {
		values := tables.Rarities[r].PossibleValues
		for i := range values {
			f := NewCardFactory(newFakeProvider(), constRNG{i: i}, tables, nil)
			if got := f.DrawResaleValue(r); got != values[i] {
				t.Errorf("DrawResaleValue(%s) with index %d = %d, want %d", r, i, got, values[i])
			}
		}
	}
}

func TestOpenPack(t *testing.T) {
	provider := newFakeProvider()
	provider.types[25] = []string{"electric"}
	// Epic roll, species 25, third Epic value
	rng := &scriptedRNG{floats: []float64{0.10}, ints: []int{24, 2}}
	clock := NewFakeClock(testNow)
	f := NewCardFactory(provider, rng, models.DefaultTables(), clock)

	cards, err := f.OpenPack(context.Background(), models.PackStandard, 1)
	if err != nil {
		t.Fatalf("OpenPack() error = %v", err)
	}
	if len(cards) != 1 {
		t.Fatalf("expected 1 card, got %d", len(cards))
	}

	c := cards[0]
	if c.SpeciesID != 25 || c.Name != "species-25" {
		t.Errorf("expected species 25, got %d (%s)", c.SpeciesID, c.Name)
	}
	if c.Rarity != models.RarityEpic || !c.IsShiny {
		t.Errorf("expected shiny Epic, got %s shiny=%v", c.Rarity, c.IsShiny)
	}
	if c.ResaleValue != 25 {
		t.Errorf("expected value 25, got %d", c.ResaleValue)
	}
	if !c.HasType("electric") {
		t.Errorf("expected electric type, got %v", c.Types)
	}
	if c.InstanceID == "" {
		t.Error("expected an instance id")
	}
	if !c.AcquiredAt.Equal(testNow) {
		t.Errorf("expected acquired at %v, got %v", testNow, c.AcquiredAt)
	}
}

func TestOpenPack_UniqueInstanceIDs(t *testing.T) {
	f := NewCardFactory(newFakeProvider(), constRNG{f: 0.9}, models.DefaultTables(), nil)

	cards, err := f.OpenPack(context.Background(), models.PackGuaranteed, models.MaxPackQuantity)
	if err != nil {
		t.Fatalf("OpenPack() error = %v", err)
	}
	seen := map[string]bool{}
	for _, c := range cards {
		if seen[c.InstanceID] {
			t.Fatalf("duplicate instance id %s", c.InstanceID)
		}
		seen[c.InstanceID] = true
		if c.Rarity.Rank() < models.RarityRare.Rank() {
			t.Errorf("guaranteed pack yielded %s", c.Rarity)
		}
	}
	if len(cards) != models.MaxPackQuantity {
		t.Errorf("expected %d cards, got %d", models.MaxPackQuantity, len(cards))
	}
}

func TestOpenPack_DropsFailedUnits(t *testing.T) {
	provider := newFakeProvider()
	provider.failing[3] = true
	rng := &scriptedRNG{ints: []int{0, 0, 2, 0, 4, 0}, f: 0.9}
	f := NewCardFactory(provider, rng, models.DefaultTables(), nil)

	cards, err := f.OpenPack(context.Background(), models.PackStandard, 3)
	if err != nil {
		t.Fatalf("OpenPack() error = %v", err)
	}
	if len(cards) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(cards))
	}
	if cards[0].SpeciesID != 1 || cards[1].SpeciesID != 5 {
		t.Errorf("expected species 1 and 5 in order, got %d and %d", cards[0].SpeciesID, cards[1].SpeciesID)
	}
}

func TestOpenPack_InvalidInput(t *testing.T) {
	f := NewCardFactory(newFakeProvider(), constRNG{}, models.DefaultTables(), nil)

	if _, err := f.OpenPack(context.Background(), "bogus", 1); !errors.Is(err, ErrInvalidPackType) {
		t.Errorf("expected ErrInvalidPackType, got %v", err)
	}
	if _, err := f.OpenPack(context.Background(), models.PackStandard, 0); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("expected ErrInvalidQuantity, got %v", err)
	}
}

func TestOpenPack_SeededIsReproducible(t *testing.T) {
	open := func() []models.Card {
		f := NewCardFactory(newFakeProvider(), NewSeededRNG(7), models.DefaultTables(), nil)
		cards, err := f.OpenPack(context.Background(), models.PackStandard, 10)
		if err != nil {
			t.Fatal(err)
		}
		return cards
	}

	a, b := open(), open()
	for i := range a {
		if a[i].SpeciesID != b[i].SpeciesID || a[i].Rarity != b[i].Rarity || a[i].ResaleValue != b[i].ResaleValue {
			t.Fatalf("card %d differs between seeded runs: %+v vs %+v", i, a[i], b[i])
		}
	}
}
