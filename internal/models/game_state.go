package models

import (
	"slices"
	"time"
)

const (
	// MaxBalanceHistory is the number of balance points kept for the chart
	MaxBalanceHistory = 20
	// MaxTransactionHistory is the number of transactions kept, newest first
	MaxTransactionHistory = 50
	// CurrentSchemaVersion is stamped on every saved snapshot
	CurrentSchemaVersion = 2
)

// Theme is the display preference. It has no effect on game logic.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// TransactionType tags an entry of the transaction log
type TransactionType string

const (
	TransactionBuy           TransactionType = "buy"
	TransactionSell          TransactionType = "sell"
	TransactionEvolve        TransactionType = "evolve"
	TransactionAuctionWin    TransactionType = "auction_win"
	TransactionBattleWin     TransactionType = "battle_win"
	TransactionMissionReward TransactionType = "mission_reward"
)

// BalanceEntry is one point of the token balance history
type BalanceEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Tokens    int       `json:"tokens"`
}

// Transaction records a token movement
type Transaction struct {
	ID        string          `json:"id"`
	Type      TransactionType `json:"type"`
	CardName  string          `json:"card_name"`
	Amount    int             `json:"amount"`
	Timestamp time.Time       `json:"timestamp"`
}

// Auction is a time-boxed listing. The card is out of the collection while listed.
type Auction struct {
	ID            string    `json:"id"`
	Card          Card      `json:"card"`
	StartingBid   int       `json:"starting_bid"`
	CurrentBid    int       `json:"current_bid"`
	HighestBidder string    `json:"highest_bidder"`
	EndTime       time.Time `json:"end_time"`
	IsFinished    bool      `json:"is_finished"`
}

// GameState is the whole player snapshot. It is persisted as one JSON blob.
type GameState struct {
	SchemaVersion        int            `json:"schema_version"`
	Tokens               int            `json:"tokens"`
	Collection           []Card         `json:"collection"`
	Deck                 []string       `json:"deck"`
	BalanceHistory       []BalanceEntry `json:"balance_history"`
	TransactionHistory   []Transaction  `json:"transaction_history"`
	Pokedex              []int          `json:"pokedex"`
	ActiveAuctions       []Auction      `json:"active_auctions"`
	DailyMissions        []DailyMission `json:"daily_missions"`
	MissionDay           string         `json:"mission_day"`
	UnlockedAchievements []string       `json:"unlocked_achievements"`
	TotalSpent           int            `json:"total_spent"`
	TotalEarned          int            `json:"total_earned"`
	BattlesWon           int            `json:"battles_won"`
	Theme                Theme          `json:"theme"`
}

// NewGameState returns a fresh save
func NewGameState(initialTokens int, now time.Time) *GameState {
	st := &GameState{
		SchemaVersion:  CurrentSchemaVersion,
		Tokens:         initialTokens,
		BalanceHistory: []BalanceEntry{{Timestamp: now, Tokens: initialTokens}},
		Theme:          ThemeDark,
	}
	st.Normalize(now)
	return st
}

// Normalize upgrades a snapshot loaded from an older save: missing collections become empty,
// missions are seeded, dangling deck entries are dropped and the pokedex is backfilled.
func (s *GameState) Normalize(now time.Time) {
	if s.Collection == nil {
		s.Collection = []Card{}
	}
	if s.Deck == nil {
		s.Deck = []string{}
	}
	if s.BalanceHistory == nil {
		s.BalanceHistory = []BalanceEntry{}
	}
	if s.TransactionHistory == nil {
		s.TransactionHistory = []Transaction{}
	}
	if s.Pokedex == nil {
		s.Pokedex = []int{}
	}
	if s.ActiveAuctions == nil {
		s.ActiveAuctions = []Auction{}
	}
	if s.UnlockedAchievements == nil {
		s.UnlockedAchievements = []string{}
	}
	if s.Theme != ThemeLight {
		s.Theme = ThemeDark
	}
	if s.Tokens < 0 {
		s.Tokens = 0
	}
	if len(s.DailyMissions) == 0 {
		s.DailyMissions = DefaultDailyMissions()
		s.MissionDay = MissionDayKey(now)
	}
	for _, c := range s.Collection {
		s.AddToPokedex(c.SpeciesID)
	}
	s.PruneDeck()
	s.SchemaVersion = CurrentSchemaVersion
}

// Clone returns a deep copy so a transition can be computed without touching the live snapshot.
func (s *GameState) Clone() *GameState {
	out := *s
	out.Collection = make([]Card, len(s.Collection))
	for i, c := range s.Collection {
		c.Types = slices.Clone(c.Types)
		out.Collection[i] = c
	}
	out.Deck = slices.Clone(s.Deck)
	out.BalanceHistory = slices.Clone(s.BalanceHistory)
	out.TransactionHistory = slices.Clone(s.TransactionHistory)
	out.Pokedex = slices.Clone(s.Pokedex)
	out.ActiveAuctions = make([]Auction, len(s.ActiveAuctions))
	for i, a := range s.ActiveAuctions {
		a.Card.Types = slices.Clone(a.Card.Types)
		out.ActiveAuctions[i] = a
	}
	out.DailyMissions = slices.Clone(s.DailyMissions)
	out.UnlockedAchievements = slices.Clone(s.UnlockedAchievements)
	return &out
}

// FindCard returns the index of the card with instanceID in the collection
func (s *GameState) FindCard(instanceID string) (int, bool) {
	for i, c := range s.Collection {
		if c.InstanceID == instanceID {
			return i, true
		}
	}
	return -1, false
}

// RemoveCard drops the card from the collection and the deck and returns it.
func (s *GameState) RemoveCard(instanceID string) (Card, bool) {
	idx, ok := s.FindCard(instanceID)
	if !ok {
		return Card{}, false
	}
	card := s.Collection[idx]
	s.Collection = slices.Delete(s.Collection, idx, idx+1)
	s.Deck = slices.DeleteFunc(s.Deck, func(id string) bool { return id == instanceID })
	return card, true
}

// InDeck reports whether the card is part of the squad
func (s *GameState) InDeck(instanceID string) bool {
	return slices.Contains(s.Deck, instanceID)
}

// PruneDeck drops deck references whose card is no longer owned and enforces the size cap.
func (s *GameState) PruneDeck() {
	seen := make(map[string]bool, len(s.Deck))
	kept := s.Deck[:0]
	for _, id := range s.Deck {
		if seen[id] {
			continue
		}
		if _, ok := s.FindCard(id); !ok {
			continue
		}
		seen[id] = true
		kept = append(kept, id)
	}
	if len(kept) > MaxDeckSize {
		kept = kept[:MaxDeckSize]
	}
	s.Deck = kept
}

// DeckCards resolves the deck references to cards, skipping dangling ones
func (s *GameState) DeckCards() []Card {
	cards := make([]Card, 0, len(s.Deck))
	for _, id := range s.Deck {
		if idx, ok := s.FindCard(id); ok {
			cards = append(cards, s.Collection[idx])
		}
	}
	return cards
}

// AddToPokedex records a species as seen. The pokedex is kept sorted and never shrinks.
func (s *GameState) AddToPokedex(speciesID int) {
	if speciesID <= 0 {
		return
	}
	idx, found := slices.BinarySearch(s.Pokedex, speciesID)
	if found {
		return
	}
	s.Pokedex = slices.Insert(s.Pokedex, idx, speciesID)
}

// RecordBalance appends the current balance, keeping the newest MaxBalanceHistory points.
func (s *GameState) RecordBalance(now time.Time) {
	s.BalanceHistory = append(s.BalanceHistory, BalanceEntry{Timestamp: now, Tokens: s.Tokens})
	if over := len(s.BalanceHistory) - MaxBalanceHistory; over > 0 {
		s.BalanceHistory = slices.Delete(s.BalanceHistory, 0, over)
	}
}

// RecordTransaction prepends tx, keeping the newest MaxTransactionHistory entries.
func (s *GameState) RecordTransaction(tx Transaction) {
	s.TransactionHistory = slices.Insert(s.TransactionHistory, 0, tx)
	if len(s.TransactionHistory) > MaxTransactionHistory {
		s.TransactionHistory = s.TransactionHistory[:MaxTransactionHistory]
	}
}

// HasAchievement reports whether id is unlocked
func (s *GameState) HasAchievement(id string) bool {
	return slices.Contains(s.UnlockedAchievements, id)
}

// CollectionValue sums the resale value of owned cards
func (s *GameState) CollectionValue() int {
	total := 0
	for _, c := range s.Collection {
		total += c.ResaleValue
	}
	return total
}

// FindAuction returns the index of the auction with id
func (s *GameState) FindAuction(id string) (int, bool) {
	for i, a := range s.ActiveAuctions {
		if a.ID == id {
			return i, true
		}
	}
	return -1, false
}
