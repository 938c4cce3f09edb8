package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/codyseavey/pokemarket/internal/models"
)

// constRNG always returns the same draws
type constRNG struct {
	f float64
	i int
}

func (r constRNG) Float64() float64 { return r.f }
func (r constRNG) IntN(n int) int   { return min(r.i, n-1) }

// scriptedRNG replays the given draws in order, then falls back to the defaults
type scriptedRNG struct {
	mu     sync.Mutex
	floats []float64
	ints   []int
	f      float64
	i      int
}

func (r *scriptedRNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.floats) == 0 {
		return r.f
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

func (r *scriptedRNG) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	v := r.i
	if len(r.ints) > 0 {
		v = r.ints[0]
		r.ints = r.ints[1:]
	}
	return min(v, n-1)
}

// fakeProvider serves species-<id> for every id except the failing ones
type fakeProvider struct {
	mu         sync.Mutex
	failing    map[int]bool
	types      map[int][]string
	evolutions map[int]*models.Species
	evoErr     error
	calls      int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		failing:    map[int]bool{},
		types:      map[int][]string{},
		evolutions: map[int]*models.Species{},
	}
}

func (p *fakeProvider) GetSpecies(ctx context.Context, id int) (*models.Species, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.failing[id] {
		return nil, errors.New("provider unavailable")
	}
	types := p.types[id]
	if types == nil {
		types = []string{"normal"}
	}
	return &models.Species{ID: id, Name: fmt.Sprintf("species-%d", id), Types: types, ImageURL: "img"}, nil
}

func (p *fakeProvider) GetNextEvolution(ctx context.Context, speciesID int) (*models.Species, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.evoErr != nil {
		return nil, p.evoErr
	}
	return p.evolutions[speciesID], nil
}

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type storeFixture struct {
	store    *GameStore
	repo     *MemorySaveRepository
	provider *fakeProvider
	clock    *FakeClock
}

// newTestStore builds a store over an optional pre-seeded state
func newTestStore(t *testing.T, rng RandomSource, seed *models.GameState) storeFixture {
	t.Helper()
	provider := newFakeProvider()
	f := newTestStoreWithProvider(t, rng, seed, provider)
	f.provider = provider
	return f
}

// newTestStoreWithProvider is newTestStore over any species provider
func newTestStoreWithProvider(t *testing.T, rng RandomSource, seed *models.GameState, provider SpeciesProvider) storeFixture {
	t.Helper()

	repo := NewMemorySaveRepository()
	if seed != nil {
		if err := repo.Save(context.Background(), seed); err != nil {
			t.Fatal(err)
		}
	}
	clock := NewFakeClock(testNow)

	store, err := NewGameStore(context.Background(), GameStoreConfig{
		Repo:     repo,
		Provider: provider,
		RNG:      rng,
		Clock:    clock,
	})
	if err != nil {
		t.Fatalf("NewGameStore() error = %v", err)
	}
	return storeFixture{store: store, repo: repo, clock: clock}
}

func testCard(id string, speciesID int, rarity models.Rarity, value int) models.Card {
	return models.Card{
		InstanceID:  id,
		SpeciesID:   speciesID,
		Name:        fmt.Sprintf("species-%d", speciesID),
		Types:       []string{"normal"},
		Rarity:      rarity,
		IsShiny:     rarity.IsShiny(),
		ResaleValue: value,
		AcquiredAt:  testNow,
	}
}

func seededState(tokens int, cards ...models.Card) *models.GameState {
	st := models.NewGameState(tokens, testNow)
	st.Collection = append(st.Collection, cards...)
	st.Normalize(testNow)
	return st
}

func hasNotification(n *Notifier, message string) bool {
	for _, item := range n.Active() {
		if item.Message == message {
			return true
		}
	}
	return false
}

// gatedProvider holds every lookup until release is closed, signalling each arrival first
type gatedProvider struct {
	*fakeProvider
	arrived chan struct{}
	release chan struct{}
}

func newGatedProvider() *gatedProvider {
	return &gatedProvider{
		fakeProvider: newFakeProvider(),
		arrived:      make(chan struct{}, 16),
		release:      make(chan struct{}),
	}
}

func (p *gatedProvider) GetSpecies(ctx context.Context, id int) (*models.Species, error) {
	p.arrived <- struct{}{}
	<-p.release
	return p.fakeProvider.GetSpecies(ctx, id)
}

func (p *gatedProvider) GetNextEvolution(ctx context.Context, speciesID int) (*models.Species, error) {
	p.arrived <- struct{}{}
	<-p.release
	return p.fakeProvider.GetNextEvolution(ctx, speciesID)
}

// waitArrivals blocks until n lookups are parked in the provider
func (p *gatedProvider) waitArrivals(t *testing.T, n int) {
	t.Helper()
	for range n {
		select {
		case <-p.arrived:
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for provider lookups")
		}
	}
}
