package services

import (
	"sort"
	"strings"

	"github.com/codyseavey/pokemarket/internal/models"
)

// CollectionSort orders a collection listing
type CollectionSort string

const (
	SortNewest CollectionSort = "newest"
	SortValue  CollectionSort = "value"
	SortRarity CollectionSort = "rarity"
)

// CollectionFilter narrows a collection listing. Zero values match everything.
type CollectionFilter struct {
	Rarity        models.Rarity
	Type          string
	Search        string
	FavoritesOnly bool
	Sort          CollectionSort
	Ascending     bool
}

// QueryCollection filters and sorts a copy of the collection.
func QueryCollection(collection []models.Card, f CollectionFilter) []models.Card {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	typ := strings.ToLower(strings.TrimSpace(f.Type))

	out := make([]models.Card, 0, len(collection))
	for _, c := range collection {
		if f.Rarity != "" && c.Rarity != f.Rarity {
			continue
		}
		if typ != "" && !c.HasType(typ) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(c.Name), search) {
			continue
		}
		if f.FavoritesOnly && !c.IsFavorite {
			continue
		}
		out = append(out, c)
	}

	var less func(a, b models.Card) bool
	switch f.Sort {
	case SortValue:
		less = func(a, b models.Card) bool { return a.ResaleValue < b.ResaleValue }
	case SortRarity:
		less = func(a, b models.Card) bool { return a.Rarity.Rank() < b.Rarity.Rank() }
	default:
		less = func(a, b models.Card) bool { return a.AcquiredAt.Before(b.AcquiredAt) }
	}

	// Descending unless asked otherwise, so the default listing is newest first
	sort.SliceStable(out, func(i, j int) bool {
		if f.Ascending {
			return less(out[i], out[j])
		}
		return less(out[j], out[i])
	})
	return out
}

// CollectionStats is the dashboard summary
type CollectionStats struct {
	TotalCards     int                   `json:"total_cards"`
	UniqueSpecies  int                   `json:"unique_species"`
	PokedexSize    int                   `json:"pokedex_size"`
	TotalValue     int                   `json:"total_value"`
	ShinyCards     int                   `json:"shiny_cards"`
	FavoriteCards  int                   `json:"favorite_cards"`
	ByRarity       map[models.Rarity]int `json:"by_rarity"`
	Tokens         int                   `json:"tokens"`
	TotalSpent     int                   `json:"total_spent"`
	TotalEarned    int                   `json:"total_earned"`
	BattlesWon     int                   `json:"battles_won"`
	SquadSize      int                   `json:"squad_size"`
	SquadPower     int                   `json:"squad_power"`
	ActiveAuctions int                   `json:"active_auctions"`
}

// ComputeStats summarises a snapshot. Squad power uses the battle multipliers.
func ComputeStats(st *models.GameState, battles *BattleSimulator) CollectionStats {
	stats := CollectionStats{
		TotalCards:     len(st.Collection),
		PokedexSize:    len(st.Pokedex),
		TotalValue:     st.CollectionValue(),
		ByRarity:       make(map[models.Rarity]int, len(models.AllRarities())),
		Tokens:         st.Tokens,
		TotalSpent:     st.TotalSpent,
		TotalEarned:    st.TotalEarned,
		BattlesWon:     st.BattlesWon,
		SquadSize:      len(st.Deck),
		ActiveAuctions: len(st.ActiveAuctions),
	}
	for _, r := range models.AllRarities() {
		stats.ByRarity[r] = 0
	}

	species := make(map[int]struct{})
	for _, c := range st.Collection {
		species[c.SpeciesID] = struct{}{}
		stats.ByRarity[c.Rarity]++
		if c.IsShiny {
			stats.ShinyCards++
		}
		if c.IsFavorite {
			stats.FavoriteCards++
		}
	}
	stats.UniqueSpecies = len(species)
	if battles != nil {
		stats.SquadPower = battles.SquadPower(st.DeckCards())
	}
	return stats
}
