package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/codyseavey/pokemarket/internal/models"
)

// legacyState is the blob the browser client kept under the pokemarket_state key
type legacyState struct {
	Tokens               int                 `json:"tokens"`
	Collection           []legacyCard        `json:"collection"`
	BalanceHistory       []legacyBalance     `json:"balanceHistory"`
	TransactionHistory   []legacyTransaction `json:"transactionHistory"`
	Deck                 []string            `json:"deck"`
	TotalSpent           int                 `json:"totalSpent"`
	TotalEarned          int                 `json:"totalEarned"`
	UnlockedAchievements []string            `json:"unlockedAchievements"`
	Theme                string              `json:"theme"`
	Pokedex              []int               `json:"pokedex"`
	ActiveAuctions       []legacyAuction     `json:"activeAuctions"`
	DailyMissions        []legacyMission     `json:"dailyMissions"`
	LastMissionReset     int64               `json:"lastMissionReset"`
}

type legacyCard struct {
	InstanceID  string   `json:"instanceId"`
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Types       []string `json:"types"`
	ImageURL    string   `json:"imageUrl"`
	Rarity      string   `json:"rarity"`
	IsShiny     bool     `json:"isShiny"`
	ResaleValue int      `json:"resaleValue"`
	Timestamp   int64    `json:"timestamp"`
	IsFavorite  bool     `json:"isFavorite"`
}

type legacyAuction struct {
	ID            string     `json:"id"`
	Pokemon       legacyCard `json:"pokemon"`
	CurrentBid    int        `json:"currentBid"`
	HighestBidder string     `json:"highestBidder"`
	EndTime       int64      `json:"endTime"`
	IsFinished    bool       `json:"isFinished"`
}

type legacyMission struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Progress    int    `json:"progress"`
	IsCompleted bool   `json:"isCompleted"`
}

type legacyBalance struct {
	Timestamp int64 `json:"timestamp"`
	Amount    int   `json:"amount"`
}

type legacyTransaction struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	PokemonName string `json:"pokemonName"`
	Amount      int    `json:"amount"`
	Timestamp   int64  `json:"timestamp"`
}

// legacyRarities maps the client's display labels onto rarity tiers
var legacyRarities = map[string]models.Rarity{
	"commun":     models.RarityCommon,
	"common":     models.RarityCommon,
	"rare":       models.RarityRare,
	"épique":     models.RarityEpic,
	"epique":     models.RarityEpic,
	"epic":       models.RarityEpic,
	"légendaire": models.RarityLegendary,
	"legendaire": models.RarityLegendary,
	"legendary":  models.RarityLegendary,
	"collector":  models.RarityCollector,
}

func parseLegacyRarity(label string) (models.Rarity, error) {
	r, ok := legacyRarities[strings.ToLower(strings.TrimSpace(label))]
	if !ok {
		return "", fmt.Errorf("unknown rarity %q", label)
	}
	return r, nil
}

func fromMillis(ms int64) time.Time {
	if ms <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

func convertLegacyCard(c legacyCard) (models.Card, error) {
	rarity, err := parseLegacyRarity(c.Rarity)
	if err != nil {
		return models.Card{}, err
	}
	return models.Card{
		InstanceID:  c.InstanceID,
		SpeciesID:   c.ID,
		Name:        c.Name,
		Types:       c.Types,
		ImageURL:    c.ImageURL,
		Rarity:      rarity,
		IsShiny:     c.IsShiny,
		ResaleValue: max(1, c.ResaleValue),
		AcquiredAt:  fromMillis(c.Timestamp),
		IsFavorite:  c.IsFavorite,
	}, nil
}

// convertLegacy decodes a client blob into a normalized GameState. Cards with an unknown
// rarity are skipped and reported. Listed auctions keep their card, settled ones are dropped,
// and mission progress carries over onto the current mission set.
func convertLegacy(data []byte, now time.Time) (*models.GameState, []string, error) {
	var legacy legacyState
	if err := json.Unmarshal(data, &legacy); err != nil {
		return nil, nil, fmt.Errorf("failed to decode legacy save: %w", err)
	}

	var warnings []string
	st := &models.GameState{
		SchemaVersion:        1,
		Tokens:               legacy.Tokens,
		Deck:                 legacy.Deck,
		TotalSpent:           legacy.TotalSpent,
		TotalEarned:          legacy.TotalEarned,
		UnlockedAchievements: legacy.UnlockedAchievements,
		Theme:                models.Theme(legacy.Theme),
	}

	for _, c := range legacy.Collection {
		card, err := convertLegacyCard(c)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("skipped %s (%s): %v", c.Name, c.InstanceID, err))
			continue
		}
		st.Collection = append(st.Collection, card)
	}

	for _, id := range legacy.Pokedex {
		st.AddToPokedex(id)
	}

	for _, a := range legacy.ActiveAuctions {
		if a.IsFinished {
			warnings = append(warnings, fmt.Sprintf("dropped settled auction %s (%s)", a.ID, a.Pokemon.Name))
			continue
		}
		card, err := convertLegacyCard(a.Pokemon)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("skipped auction %s (%s): %v", a.ID, a.Pokemon.Name, err))
			continue
		}
		st.ActiveAuctions = append(st.ActiveAuctions, models.Auction{
			ID:            a.ID,
			Card:          card,
			StartingBid:   card.ResaleValue,
			CurrentBid:    max(card.ResaleValue, a.CurrentBid),
			HighestBidder: a.HighestBidder,
			EndTime:       fromMillis(a.EndTime),
		})
		st.AddToPokedex(card.SpeciesID)
	}

	if len(legacy.DailyMissions) > 0 {
		st.DailyMissions = convertLegacyMissions(legacy.DailyMissions)
		st.MissionDay = models.MissionDayKey(now)
		if legacy.LastMissionReset > 0 {
			st.MissionDay = models.MissionDayKey(time.UnixMilli(legacy.LastMissionReset).In(now.Location()))
		}
	}

	for _, b := range legacy.BalanceHistory {
		st.BalanceHistory = append(st.BalanceHistory, models.BalanceEntry{
			Timestamp: fromMillis(b.Timestamp),
			Tokens:    b.Amount,
		})
	}
	if over := len(st.BalanceHistory) - models.MaxBalanceHistory; over > 0 {
		st.BalanceHistory = st.BalanceHistory[over:]
	}

	for _, tx := range legacy.TransactionHistory {
		st.TransactionHistory = append(st.TransactionHistory, models.Transaction{
			ID:        tx.ID,
			Type:      models.TransactionType(tx.Type),
			CardName:  tx.PokemonName,
			Amount:    tx.Amount,
			Timestamp: fromMillis(tx.Timestamp),
		})
	}
	if len(st.TransactionHistory) > models.MaxTransactionHistory {
		st.TransactionHistory = st.TransactionHistory[:models.MaxTransactionHistory]
	}

	st.Normalize(now)
	return st, warnings, nil
}

// convertLegacyMissions lays saved progress over the current mission set, matched by type.
// Missions the client no longer tracks are ignored.
func convertLegacyMissions(saved []legacyMission) []models.DailyMission {
	missions := models.DefaultDailyMissions()
	for _, lm := range saved {
		for i := range missions {
			if string(missions[i].Type) != lm.Type {
				continue
			}
			missions[i].Progress = min(max(0, lm.Progress), missions[i].Goal)
			missions[i].IsCompleted = lm.IsCompleted || missions[i].Progress >= missions[i].Goal
		}
	}
	return missions
}
