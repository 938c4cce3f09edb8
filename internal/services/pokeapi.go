package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"

	"github.com/codyseavey/pokemarket/internal/metrics"
	"github.com/codyseavey/pokemarket/internal/models"
)

const (
	pokeAPIBaseURL        = "https://pokeapi.co/api/v2"
	pokeAPIDefaultTimeout = 10 * time.Second
	defaultPokeAPICache   = 512
)

// SpeciesProvider is the creature metadata lookup used by the factory and evolution.
// Both calls return (nil, nil) when the provider has no data.
type SpeciesProvider interface {
	GetSpecies(ctx context.Context, id int) (*models.Species, error)
	GetNextEvolution(ctx context.Context, speciesID int) (*models.Species, error)
}

// PokeAPIService fetches species and evolution data from pokeapi.co
type PokeAPIService struct {
	client  *http.Client
	baseURL string
	limiter *rate.Limiter

	speciesCache   *lru.Cache[string, models.Species] // id or name -> species
	evolutionCache *lru.Cache[int, string]            // species id -> next species name ("" = final form)
}

type pokeAPIPokemon struct {
	ID      int                  `json:"id"`
	Name    string               `json:"name"`
	Types   []pokeAPITypeSlot    `json:"types"`
	Sprites pokeAPISpriteSummary `json:"sprites"`
}

type pokeAPITypeSlot struct {
	Slot int             `json:"slot"`
	Type pokeAPINamedRef `json:"type"`
}

type pokeAPINamedRef struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type pokeAPISpriteSummary struct {
	FrontDefault string `json:"front_default"`
	Other        struct {
		OfficialArtwork struct {
			FrontDefault string `json:"front_default"`
		} `json:"official-artwork"`
	} `json:"other"`
}

type pokeAPISpecies struct {
	ID             int             `json:"id"`
	Name           string          `json:"name"`
	EvolutionChain pokeAPINamedRef `json:"evolution_chain"`
}

type pokeAPIChainLink struct {
	Species   pokeAPINamedRef    `json:"species"`
	EvolvesTo []pokeAPIChainLink `json:"evolves_to"`
}

type pokeAPIEvolutionChain struct {
	ID    int              `json:"id"`
	Chain pokeAPIChainLink `json:"chain"`
}

// NewPokeAPIService creates a rate-limited, caching PokeAPI client.
// requestsPerSecond <= 0 disables the limiter.
func NewPokeAPIService(baseURL string, requestsPerSecond float64, cacheSize int) *PokeAPIService {
	if baseURL == "" {
		baseURL = pokeAPIBaseURL
	}
	if cacheSize <= 0 {
		cacheSize = defaultPokeAPICache
	}

	limit := rate.Inf
	burst := 1
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
		burst = max(1, int(requestsPerSecond))
	}

	speciesCache, err := lru.New[string, models.Species](cacheSize)
	if err != nil {
		log.Printf("PokeAPI: failed to create species cache: %v", err)
	}
	evolutionCache, err := lru.New[int, string](cacheSize)
	if err != nil {
		log.Printf("PokeAPI: failed to create evolution cache: %v", err)
	}

	return &PokeAPIService{
		client: &http.Client{
			Timeout: pokeAPIDefaultTimeout,
		},
		baseURL:        strings.TrimRight(baseURL, "/"),
		limiter:        rate.NewLimiter(limit, burst),
		speciesCache:   speciesCache,
		evolutionCache: evolutionCache,
	}
}

// GetSpecies fetches a creature by id. Returns nil, nil on 404.
func (s *PokeAPIService) GetSpecies(ctx context.Context, id int) (*models.Species, error) {
	if id <= 0 {
		return nil, nil
	}
	return s.getPokemon(ctx, strconv.Itoa(id))
}

// GetSpeciesByName fetches a creature by its lowercase name. Returns nil, nil on 404.
func (s *PokeAPIService) GetSpeciesByName(ctx context.Context, name string) (*models.Species, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil, nil
	}
	return s.getPokemon(ctx, name)
}

// GetNextEvolution walks the species' evolution chain and returns the first form it evolves to.
// Returns nil, nil when the species is a final form or unknown.
func (s *PokeAPIService) GetNextEvolution(ctx context.Context, speciesID int) (*models.Species, error) {
	if s.evolutionCache != nil {
		if next, ok := s.evolutionCache.Get(speciesID); ok {
			metrics.PokeAPICacheHits.WithLabelValues("evolution").Inc()
			if next == "" {
				return nil, nil
			}
			return s.GetSpeciesByName(ctx, next)
		}
	}

	var species pokeAPISpecies
	found, err := s.getJSON(ctx, "species", fmt.Sprintf("%s/pokemon-species/%d/", s.baseURL, speciesID), &species)
	if err != nil || !found {
		return nil, err
	}
	if species.EvolutionChain.URL == "" {
		s.rememberEvolution(speciesID, "")
		return nil, nil
	}

	var chain pokeAPIEvolutionChain
	found, err = s.getJSON(ctx, "evolution_chain", species.EvolutionChain.URL, &chain)
	if err != nil || !found {
		return nil, err
	}

	next := findNextEvolution(chain.Chain, species.Name)
	s.rememberEvolution(speciesID, next)
	if next == "" {
		return nil, nil
	}
	return s.GetSpeciesByName(ctx, next)
}

func (s *PokeAPIService) rememberEvolution(speciesID int, next string) {
	if s.evolutionCache != nil {
		s.evolutionCache.Add(speciesID, next)
	}
}

// findNextEvolution returns the first branch the named species evolves into, or "".
func findNextEvolution(node pokeAPIChainLink, name string) string {
	if node.Species.Name == name {
		if len(node.EvolvesTo) > 0 {
			return node.EvolvesTo[0].Species.Name
		}
		return ""
	}
	for _, child := range node.EvolvesTo {
		if next := findNextEvolution(child, name); next != "" {
			return next
		}
	}
	return ""
}

func (s *PokeAPIService) getPokemon(ctx context.Context, key string) (*models.Species, error) {
	if s.speciesCache != nil {
		if cached, ok := s.speciesCache.Get(key); ok {
			metrics.PokeAPICacheHits.WithLabelValues("pokemon").Inc()
			return &cached, nil
		}
	}

	var p pokeAPIPokemon
	found, err := s.getJSON(ctx, "pokemon", fmt.Sprintf("%s/pokemon/%s", s.baseURL, key), &p)
	if err != nil || !found {
		return nil, err
	}

	species := convertToSpecies(p)
	if s.speciesCache != nil {
		s.speciesCache.Add(strconv.Itoa(species.ID), species)
		s.speciesCache.Add(species.Name, species)
	}
	return &species, nil
}

// getJSON performs a rate-limited GET and decodes the body into out.
// found is false on 404.
func (s *PokeAPIService) getJSON(ctx context.Context, endpoint, reqURL string, out any) (found bool, err error) {
	start := time.Now()
	defer func() {
		result := "success"
		switch {
		case err != nil:
			result = "error"
		case !found:
			result = "not_found"
		}
		metrics.PokeAPIRequestsTotal.WithLabelValues(endpoint, result).Inc()
		metrics.PokeAPILatency.Observe(time.Since(start).Seconds())
	}()

	if err := s.limiter.Wait(ctx); err != nil {
		return false, fmt.Errorf("pokeapi rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("failed to query pokeapi %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("pokeapi %s returned status %d", endpoint, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return false, fmt.Errorf("failed to decode pokeapi %s response: %w", endpoint, err)
	}
	return true, nil
}

func convertToSpecies(p pokeAPIPokemon) models.Species {
	types := make([]string, 0, len(p.Types))
	for _, t := range p.Types {
		types = append(types, t.Type.Name)
	}

	imageURL := p.Sprites.Other.OfficialArtwork.FrontDefault
	if imageURL == "" {
		imageURL = p.Sprites.FrontDefault
	}

	return models.Species{
		ID:       p.ID,
		Name:     p.Name,
		Types:    types,
		ImageURL: imageURL,
	}
}
