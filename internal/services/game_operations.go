package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/codyseavey/pokemarket/internal/models"
)

const (
	// noBidderLabel is shown on a fresh auction until a simulated bidder arrives
	noBidderLabel   = "No bids yet"
	maxAuctionSecs  = 3600
	defaultAuctionS = 60
)

// PurchasePack charges for and opens quantity packs. The balance is checked before the provider is
// queried and again when the cards come back, against whatever the snapshot holds at that point.
// When some units fail to resolve the full cost is still charged; when every unit fails nothing is
// charged and ErrPackFailed is returned.
func (s *GameStore) PurchasePack(ctx context.Context, packType models.PackType, quantity int) ([]models.Card, error) {
	cost, err := s.tables.PackCost(packType, quantity)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPackType, packType)
	}
	if quantity < 1 || quantity > models.MaxPackQuantity {
		return nil, fmt.Errorf("%w: %d", ErrInvalidQuantity, quantity)
	}

	var tokens int
	s.snapshot(func(st *models.GameState) { tokens = st.Tokens })
	if tokens < cost {
		return nil, ErrInsufficientFunds
	}

	// An opened pack is applied even if the caller stops waiting for it
	ctx = context.WithoutCancel(ctx)
	cards, err := s.factory.OpenPack(ctx, packType, quantity)
	if err != nil {
		return nil, err
	}
	if len(cards) == 0 {
		s.notifier.Notify("The pack could not be opened, try again.", NotificationError)
		return nil, ErrPackFailed
	}
	if len(cards) < quantity {
		log.Printf("Game store: %s pack realised %d of %d cards, charging full cost %d", packType, len(cards), quantity, cost)
	}

	err = s.commit(ctx, "purchase_pack", func(st *models.GameState, now time.Time) ([]notice, error) {
		if st.Tokens < cost {
			return nil, ErrInsufficientFunds
		}
		st.Tokens -= cost
		st.TotalSpent += cost
		st.Collection = append(append(make([]models.Card, 0, len(cards)+len(st.Collection)), cards...), st.Collection...)
		for _, c := range cards {
			st.AddToPokedex(c.SpeciesID)
		}
		st.RecordTransaction(models.Transaction{
			ID:        uuid.New().String(),
			Type:      models.TransactionBuy,
			CardName:  fmt.Sprintf("%d cards", len(cards)),
			Amount:    cost,
			Timestamp: now,
		})
		completed := AdvanceMissions(st, models.MissionBuy, len(cards), now)
		st.RecordBalance(now)

		notices := []notice{{fmt.Sprintf("%d card(s) opened!", len(cards)), NotificationSuccess}}
		return append(notices, missionNotices(completed)...), nil
	})
	if err != nil {
		return nil, err
	}
	return cards, nil
}

// Sell credits the card's resale value and removes it from the collection and the squad.
func (s *GameStore) Sell(ctx context.Context, instanceID string) (models.Card, error) {
	var sold models.Card
	err := s.commit(ctx, "sell", func(st *models.GameState, now time.Time) ([]notice, error) {
		card, ok := st.RemoveCard(instanceID)
		if !ok {
			return nil, ErrCardNotFound
		}
		sold = card
		st.Tokens += card.ResaleValue
		st.TotalEarned += card.ResaleValue
		st.RecordTransaction(models.Transaction{
			ID:        uuid.New().String(),
			Type:      models.TransactionSell,
			CardName:  card.Name,
			Amount:    card.ResaleValue,
			Timestamp: now,
		})
		completed := AdvanceMissions(st, models.MissionSell, 1, now)
		st.RecordBalance(now)

		notices := []notice{{fmt.Sprintf("Sold %s for %d tokens.", card.Name, card.ResaleValue), NotificationInfo}}
		return append(notices, missionNotices(completed)...), nil
	})
	return sold, err
}

// ToggleFavorite flips the favourite flag and returns the new value
func (s *GameStore) ToggleFavorite(ctx context.Context, instanceID string) (bool, error) {
	var favorite bool
	err := s.commit(ctx, "toggle_favorite", func(st *models.GameState, _ time.Time) ([]notice, error) {
		idx, ok := st.FindCard(instanceID)
		if !ok {
			return nil, ErrCardNotFound
		}
		st.Collection[idx].IsFavorite = !st.Collection[idx].IsFavorite
		favorite = st.Collection[idx].IsFavorite
		return nil, nil
	})
	return favorite, err
}

// ToggleDeck adds the card to the squad or removes it. Adding to a full squad is rejected.
// Returns whether the card is in the squad afterwards.
func (s *GameStore) ToggleDeck(ctx context.Context, instanceID string) (bool, error) {
	var inDeck bool
	err := s.commit(ctx, "toggle_deck", func(st *models.GameState, _ time.Time) ([]notice, error) {
		st.PruneDeck()
		if _, ok := st.FindCard(instanceID); !ok {
			return nil, ErrCardNotFound
		}
		if st.InDeck(instanceID) {
			kept := st.Deck[:0]
			for _, id := range st.Deck {
				if id != instanceID {
					kept = append(kept, id)
				}
			}
			st.Deck = kept
			inDeck = false
			return []notice{{"Removed from squad", NotificationInfo}}, nil
		}
		if len(st.Deck) >= models.MaxDeckSize {
			return nil, ErrDeckFull
		}
		st.Deck = append(st.Deck, instanceID)
		inDeck = true
		return []notice{{"Added to squad", NotificationInfo}}, nil
	})
	if errors.Is(err, ErrDeckFull) {
		s.notifier.Notify(fmt.Sprintf("Squad is full (max %d)!", models.MaxDeckSize), NotificationError)
	}
	return inDeck, err
}

// Evolve replaces the card with its next evolution one rarity tier up, for a flat rarity-indexed
// cost. Terminal rarity, missing funds and a species without a further form are each reported
// with their own error and notification, and leave the snapshot untouched. Once the lookup has
// started the evolution completes even if the caller stops waiting.
func (s *GameStore) Evolve(ctx context.Context, instanceID string) (models.Card, error) {
	var (
		card  models.Card
		found bool
		funds int
	)
	s.snapshot(func(st *models.GameState) {
		var idx int
		idx, found = st.FindCard(instanceID)
		if found {
			card = st.Collection[idx]
		}
		funds = st.Tokens
	})
	if !found {
		s.notifier.Notify("Evolution failed: card not found.", NotificationError)
		return models.Card{}, ErrCardNotFound
	}

	nextRarity, ok := card.Rarity.NextEvolution()
	cost, hasCost := s.tables.EvolutionCost(card.Rarity)
	if !ok || !hasCost {
		s.notifier.Notify("Maximum evolution stage reached!", NotificationError)
		return models.Card{}, ErrTerminalRarity
	}
	if funds < cost {
		s.notifier.Notify("Not enough tokens to evolve!", NotificationError)
		return models.Card{}, ErrInsufficientFunds
	}

	ctx = context.WithoutCancel(ctx)
	next, err := s.provider.GetNextEvolution(ctx, card.SpeciesID)
	if err != nil {
		log.Printf("Game store: evolution lookup for species %d failed: %v", card.SpeciesID, err)
	}
	if err != nil || next == nil {
		s.notifier.Notify(fmt.Sprintf("No known evolution for %s!", card.Name), NotificationError)
		return models.Card{}, ErrNoEvolution
	}
	newValue := s.factory.DrawResaleValue(nextRarity)

	var evolved models.Card
	err = s.commit(ctx, "evolve", func(st *models.GameState, now time.Time) ([]notice, error) {
		idx, ok := st.FindCard(instanceID)
		if !ok {
			return nil, ErrCardNotFound
		}
		current := st.Collection[idx]
		if current.SpeciesID != card.SpeciesID || current.Rarity != card.Rarity {
			return nil, fmt.Errorf("%w: card changed during evolution", ErrCardNotFound)
		}
		if st.Tokens < cost {
			return nil, ErrInsufficientFunds
		}

		evolved = current.WithSpecies(*next)
		evolved.Rarity = nextRarity
		evolved.ResaleValue = newValue
		evolved.AcquiredAt = now
		st.Collection[idx] = evolved

		st.Tokens -= cost
		st.TotalSpent += cost
		st.AddToPokedex(evolved.SpeciesID)
		st.RecordTransaction(models.Transaction{
			ID:        uuid.New().String(),
			Type:      models.TransactionEvolve,
			CardName:  evolved.Name,
			Amount:    cost,
			Timestamp: now,
		})
		completed := AdvanceMissions(st, models.MissionEvolve, 1, now)
		st.RecordBalance(now)

		notices := []notice{{fmt.Sprintf("%s evolved into %s!", current.Name, evolved.Name), NotificationSuccess}}
		return append(notices, missionNotices(completed)...), nil
	})
	switch {
	case errors.Is(err, ErrInsufficientFunds):
		s.notifier.Notify("Not enough tokens to evolve!", NotificationError)
	case errors.Is(err, ErrCardNotFound):
		s.notifier.Notify("Evolution failed: card not found.", NotificationError)
	}
	return evolved, err
}

// StartAuction takes the card out of circulation and lists it, seeded at its resale value.
func (s *GameStore) StartAuction(ctx context.Context, instanceID string, durationSec int) (models.Auction, error) {
	if durationSec == 0 {
		durationSec = defaultAuctionS
	}
	if durationSec < 1 || durationSec > maxAuctionSecs {
		return models.Auction{}, fmt.Errorf("%w: %ds", ErrInvalidDuration, durationSec)
	}

	var auction models.Auction
	err := s.commit(ctx, "start_auction", func(st *models.GameState, now time.Time) ([]notice, error) {
		idx, ok := st.FindCard(instanceID)
		if !ok {
			return nil, ErrCardNotFound
		}
		if st.Collection[idx].ResaleValue < models.MinAuctionValue {
			return nil, ErrNotAuctionable
		}
		card, _ := st.RemoveCard(instanceID)
		auction = models.Auction{
			ID:            uuid.New().String(),
			Card:          card,
			StartingBid:   card.ResaleValue,
			CurrentBid:    card.ResaleValue,
			HighestBidder: noBidderLabel,
			EndTime:       now.Add(time.Duration(durationSec) * time.Second),
		}
		st.ActiveAuctions = append(st.ActiveAuctions, auction)
		return []notice{{fmt.Sprintf("%s listed for %ds at %d tokens.", card.Name, durationSec, card.ResaleValue), NotificationInfo}}, nil
	})
	return auction, err
}

// ClaimFreeTokens credits the free gift. It always succeeds.
func (s *GameStore) ClaimFreeTokens(ctx context.Context) (int, error) {
	var tokens int
	err := s.commit(ctx, "claim_free_tokens", func(st *models.GameState, now time.Time) ([]notice, error) {
		st.Tokens += models.FreeTokensAmount
		st.RecordBalance(now)
		tokens = st.Tokens
		return []notice{{fmt.Sprintf("+%d free tokens!", models.FreeTokensAmount), NotificationSuccess}}, nil
	})
	return tokens, err
}

// RecordBattleWin credits a battle reward, counts the win and advances the battle mission.
func (s *GameStore) RecordBattleWin(ctx context.Context, reward int) (int, error) {
	if reward <= 0 {
		return 0, ErrInvalidReward
	}

	var tokens int
	err := s.commit(ctx, "battle_win", func(st *models.GameState, now time.Time) ([]notice, error) {
		st.Tokens += reward
		st.TotalEarned += reward
		st.BattlesWon++
		st.RecordTransaction(models.Transaction{
			ID:        uuid.New().String(),
			Type:      models.TransactionBattleWin,
			CardName:  "Battle",
			Amount:    reward,
			Timestamp: now,
		})
		completed := AdvanceMissions(st, models.MissionBattle, 1, now)
		st.RecordBalance(now)
		tokens = st.Tokens

		notices := []notice{{fmt.Sprintf("Victory! +%d tokens", reward), NotificationSuccess}}
		return append(notices, missionNotices(completed)...), nil
	})
	return tokens, err
}

// Battle fights a simulated opponent with the current squad and credits the reward on a win.
func (s *GameStore) Battle(ctx context.Context) (BattleResult, error) {
	var squad []models.Card
	s.snapshot(func(st *models.GameState) { squad = st.DeckCards() })

	result, err := s.battles.Fight(squad)
	if err != nil {
		return result, err
	}
	if !result.Won {
		s.notifier.Notify("Defeat! Strengthen your squad and try again.", NotificationWarning)
		return result, nil
	}
	if _, err := s.RecordBattleWin(ctx, result.Reward); err != nil {
		return result, err
	}
	return result, nil
}

// ToggleTheme switches between the dark and light display themes
func (s *GameStore) ToggleTheme(ctx context.Context) (models.Theme, error) {
	var theme models.Theme
	err := s.commit(ctx, "toggle_theme", func(st *models.GameState, _ time.Time) ([]notice, error) {
		if st.Theme == models.ThemeDark {
			st.Theme = models.ThemeLight
		} else {
			st.Theme = models.ThemeDark
		}
		theme = st.Theme
		return nil, nil
	})
	return theme, err
}
