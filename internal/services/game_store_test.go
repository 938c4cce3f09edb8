package services

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/codyseavey/pokemarket/internal/models"
)

func TestNewGameStore_FreshState(t *testing.T) {
	f := newTestStore(t, constRNG{f: 0.99}, nil)

	st := f.store.State()
	if st.Tokens != models.InitialTokens {
		t.Errorf("expected %d tokens, got %d", models.InitialTokens, st.Tokens)
	}
	if len(st.BalanceHistory) != 1 {
		t.Errorf("expected 1 balance entry, got %d", len(st.BalanceHistory))
	}
	if len(st.DailyMissions) != 4 {
		t.Errorf("expected 4 daily missions, got %d", len(st.DailyMissions))
	}
	if f.repo.Saves() != 0 {
		t.Errorf("expected no save before the first operation, got %d", f.repo.Saves())
	}
}

func TestNewGameStore_RequiresDependencies(t *testing.T) {
	if _, err := NewGameStore(context.Background(), GameStoreConfig{Provider: newFakeProvider()}); err == nil {
		t.Error("expected error without a repository")
	}
	if _, err := NewGameStore(context.Background(), GameStoreConfig{Repo: NewMemorySaveRepository()}); err == nil {
		t.Error("expected error without a provider")
	}
}

func TestPurchasePack_SingleCommon(t *testing.T) {
	f := newTestStore(t, constRNG{f: 0.9, i: 0}, nil)

	cards, err := f.store.PurchasePack(context.Background(), models.PackStandard, 1)
	if err != nil {
		t.Fatalf("PurchasePack() error = %v", err)
	}
	if len(cards) != 1 || cards[0].Rarity != models.RarityCommon || cards[0].ResaleValue != 1 {
		t.Fatalf("unexpected cards: %+v", cards)
	}

	st := f.store.State()
	if st.Tokens != 95 {
		t.Errorf("expected 95 tokens, got %d", st.Tokens)
	}
	if len(st.Collection) != 1 {
		t.Errorf("expected 1 card, got %d", len(st.Collection))
	}
	if len(st.BalanceHistory) != 2 {
		t.Errorf("expected 2 balance entries, got %d", len(st.BalanceHistory))
	}
	if len(st.TransactionHistory) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(st.TransactionHistory))
	}
	tx := st.TransactionHistory[0]
	if tx.Type != models.TransactionBuy || tx.Amount != 5 {
		t.Errorf("expected buy of 5, got %s of %d", tx.Type, tx.Amount)
	}
	if !st.HasAchievement(models.AchievementFirstCard) {
		t.Error("expected first_card to be unlocked")
	}
	if !slices.Equal(st.Pokedex, []int{1}) {
		t.Errorf("expected pokedex [1], got %v", st.Pokedex)
	}
	if st.TotalSpent != 5 {
		t.Errorf("expected total spent 5, got %d", st.TotalSpent)
	}
	if f.repo.Saves() != 1 {
		t.Errorf("expected 1 save, got %d", f.repo.Saves())
	}
	if !hasNotification(f.store.Notifier(), "1 card(s) opened!") {
		t.Error("expected an opened notification")
	}
}

func TestPurchasePack_InsufficientFunds(t *testing.T) {
	f := newTestStore(t, constRNG{f: 0.9}, seededState(5))

	_, err := f.store.PurchasePack(context.Background(), models.PackStandard, 2)
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	st := f.store.State()
	if st.Tokens != 5 {
		t.Errorf("expected tokens unchanged at 5, got %d", st.Tokens)
	}
	if len(st.TransactionHistory) != 0 {
		t.Errorf("expected no transactions, got %d", len(st.TransactionHistory))
	}
	if f.provider.calls != 0 {
		t.Errorf("expected no provider calls, got %d", f.provider.calls)
	}
}

func TestPurchasePack_Validation(t *testing.T) {
	f := newTestStore(t, constRNG{f: 0.9}, nil)

	tests := []struct {
		name     string
		packType models.PackType
		quantity int
		want     error
	}{
		{"unknown pack", "mystery", 1, ErrInvalidPackType},
		{"zero quantity", models.PackStandard, 0, ErrInvalidQuantity},
		{"too many", models.PackStandard, 11, ErrInvalidQuantity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.store.PurchasePack(context.Background(), tt.packType, tt.quantity)
			if !errors.Is(err, tt.want) {
				t.Errorf("PurchasePack(%s, %d) = %v, want %v", tt.packType, tt.quantity, err, tt.want)
			}
		})
	}
	if got := f.store.State().Tokens; got != 100 {
		t.Errorf("expected tokens unchanged, got %d", got)
	}
}

func TestPurchasePack_PartialFailureChargesFullCost(t *testing.T) {
	// rarity, species, value per unit: species 1 and 2
	rng := &scriptedRNG{ints: []int{0, 0, 1, 0}, f: 0.9}
	f := newTestStore(t, rng, nil)
	f.provider.failing[2] = true

	cards, err := f.store.PurchasePack(context.Background(), models.PackStandard, 2)
	if err != nil {
		t.Fatalf("PurchasePack() error = %v", err)
	}
	if len(cards) != 1 {
		t.Fatalf("expected 1 realised card, got %d", len(cards))
	}

	st := f.store.State()
	if st.Tokens != 90 {
		t.Errorf("expected full cost charged (90 tokens), got %d", st.Tokens)
	}
	if st.TransactionHistory[0].Amount != 10 {
		t.Errorf("expected transaction of 10, got %d", st.TransactionHistory[0].Amount)
	}
}

func TestPurchasePack_TotalFailureChargesNothing(t *testing.T) {
	f := newTestStore(t, constRNG{f: 0.9, i: 0}, nil)
	f.provider.failing[1] = true

	_, err := f.store.PurchasePack(context.Background(), models.PackStandard, 3)
	if !errors.Is(err, ErrPackFailed) {
		t.Fatalf("expected ErrPackFailed, got %v", err)
	}
	st := f.store.State()
	if st.Tokens != 100 || len(st.Collection) != 0 {
		t.Errorf("expected untouched state, got %d tokens and %d cards", st.Tokens, len(st.Collection))
	}
}

func TestPurchasePack_CompletesBuyMission(t *testing.T) {
	f := newTestStore(t, constRNG{f: 0.9, i: 0}, nil)

	if _, err := f.store.PurchasePack(context.Background(), models.PackStandard, 5); err != nil {
		t.Fatalf("PurchasePack() error = %v", err)
	}

	st := f.store.State()
	// 100 - 25 + 15 mission reward, in the same transition
	if st.Tokens != 90 {
		t.Errorf("expected 90 tokens, got %d", st.Tokens)
	}
	if st.TotalEarned != 15 {
		t.Errorf("expected total earned 15, got %d", st.TotalEarned)
	}
	if len(st.BalanceHistory) != 2 {
		t.Errorf("expected a single balance entry for the transition, got %d", len(st.BalanceHistory)-1)
	}
	var buy models.DailyMission
	for _, m := range st.DailyMissions {
		if m.Type == models.MissionBuy {
			buy = m
		}
	}
	if !buy.IsCompleted || buy.Progress != buy.Goal {
		t.Errorf("expected completed buy mission, got %+v", buy)
	}
	if f.repo.Saves() != 1 {
		t.Errorf("expected one save for the transition, got %d", f.repo.Saves())
	}
}

func TestSell(t *testing.T) {
	seed := seededState(10, testCard("a", 4, models.RarityRare, 10), testCard("b", 7, models.RarityCommon, 1))
	seed.Deck = []string{"a", "b"}
	f := newTestStore(t, constRNG{}, seed)

	sold, err := f.store.Sell(context.Background(), "a")
	if err != nil {
		t.Fatalf("Sell() error = %v", err)
	}
	if sold.ResaleValue != 10 {
		t.Errorf("expected sold value 10, got %d", sold.ResaleValue)
	}

	st := f.store.State()
	if st.Tokens != 20 {
		t.Errorf("expected 20 tokens, got %d", st.Tokens)
	}
	if len(st.Collection) != 1 || st.Collection[0].InstanceID != "b" {
		t.Errorf("expected only b left, got %+v", st.Collection)
	}
	if !slices.Equal(st.Deck, []string{"b"}) {
		t.Errorf("expected deck [b], got %v", st.Deck)
	}
	if st.TransactionHistory[0].Type != models.TransactionSell {
		t.Errorf("expected sell transaction, got %s", st.TransactionHistory[0].Type)
	}
	if st.TotalEarned != 10 {
		t.Errorf("expected total earned 10, got %d", st.TotalEarned)
	}

	if _, err := f.store.Sell(context.Background(), "a"); !errors.Is(err, ErrCardNotFound) {
		t.Errorf("expected ErrCardNotFound on second sale, got %v", err)
	}
	if got := f.store.State().Tokens; got != 20 {
		t.Errorf("expected tokens unchanged after failed sale, got %d", got)
	}
}

func TestToggleFavorite(t *testing.T) {
	f := newTestStore(t, constRNG{}, seededState(10, testCard("a", 4, models.RarityRare, 10)))

	fav, err := f.store.ToggleFavorite(context.Background(), "a")
	if err != nil || !fav {
		t.Fatalf("ToggleFavorite() = %v, %v; want true, nil", fav, err)
	}
	fav, _ = f.store.ToggleFavorite(context.Background(), "a")
	if fav {
		t.Error("expected second toggle to clear favorite")
	}
	if _, err := f.store.ToggleFavorite(context.Background(), "missing"); !errors.Is(err, ErrCardNotFound) {
		t.Errorf("expected ErrCardNotFound, got %v", err)
	}
}

func TestToggleDeck_FullSquad(t *testing.T) {
	var cards []models.Card
	for i := range 7 {
		cards = append(cards, testCard(string(rune('a'+i)), i+1, models.RarityCommon, 1))
	}
	seed := seededState(10, cards...)
	seed.Deck = []string{"a", "b", "c", "d", "e", "f"}
	f := newTestStore(t, constRNG{}, seed)

	_, err := f.store.ToggleDeck(context.Background(), "g")
	if !errors.Is(err, ErrDeckFull) {
		t.Fatalf("expected ErrDeckFull, got %v", err)
	}
	st := f.store.State()
	if len(st.Deck) != 6 || st.InDeck("g") {
		t.Errorf("expected deck unchanged, got %v", st.Deck)
	}
	if !hasNotification(f.store.Notifier(), "Squad is full (max 6)!") {
		t.Error("expected a squad full notification")
	}

	// Removal always succeeds and frees a slot
	inDeck, err := f.store.ToggleDeck(context.Background(), "a")
	if err != nil || inDeck {
		t.Fatalf("ToggleDeck(a) = %v, %v; want false, nil", inDeck, err)
	}
	inDeck, err = f.store.ToggleDeck(context.Background(), "g")
	if err != nil || !inDeck {
		t.Fatalf("ToggleDeck(g) = %v, %v; want true, nil", inDeck, err)
	}
	if got := f.store.State().Deck; !slices.Equal(got, []string{"b", "c", "d", "e", "f", "g"}) {
		t.Errorf("unexpected deck order %v", got)
	}
}

func TestEvolve_CommonToRare(t *testing.T) {
	f := newTestStore(t, constRNG{i: 1}, seededState(15, testCard("a", 1, models.RarityCommon, 1)))
	f.provider.evolutions[1] = &models.Species{ID: 2, Name: "ivysaur", Types: []string{"grass", "poison"}}

	evolved, err := f.store.Evolve(context.Background(), "a")
	if err != nil {
		t.Fatalf("Evolve() error = %v", err)
	}

	st := f.store.State()
	if st.Tokens != 5 {
		t.Errorf("expected 5 tokens, got %d", st.Tokens)
	}
	card := st.Collection[0]
	if card.InstanceID != "a" || card.Rarity != models.RarityRare || card.Name != "ivysaur" {
		t.Errorf("unexpected evolved card %+v", card)
	}
	if card.ResaleValue != 5 && card.ResaleValue != 10 {
		t.Errorf("expected resale value in {5,10}, got %d", card.ResaleValue)
	}
	if evolved.SpeciesID != 2 {
		t.Errorf("expected species 2, got %d", evolved.SpeciesID)
	}
	tx := st.TransactionHistory[0]
	if tx.Type != models.TransactionEvolve || tx.Amount != 10 {
		t.Errorf("expected evolve of 10, got %s of %d", tx.Type, tx.Amount)
	}
	if !slices.Equal(st.Pokedex, []int{1, 2}) {
		t.Errorf("expected pokedex [1 2], got %v", st.Pokedex)
	}
}

func TestEvolve_Failures(t *testing.T) {
	tests := []struct {
		name    string
		tokens  int
		card    models.Card
		evolves bool
		want    error
		notice  string
	}{
		{"terminal legendary", 100, testCard("a", 1, models.RarityLegendary, 40), true, ErrTerminalRarity, "Maximum evolution stage reached!"},
		{"terminal collector", 100, testCard("a", 1, models.RarityCollector, 50), true, ErrTerminalRarity, "Maximum evolution stage reached!"},
		{"insufficient funds", 19, testCard("a", 1, models.RarityRare, 5), true, ErrInsufficientFunds, "Not enough tokens to evolve!"},
		{"no evolution", 100, testCard("a", 1, models.RarityCommon, 1), false, ErrNoEvolution, "No known evolution for species-1!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestStore(t, constRNG{}, seededState(tt.tokens, tt.card))
			if tt.evolves {
				f.provider.evolutions[1] = &models.Species{ID: 2, Name: "next"}
			}

			_, err := f.store.Evolve(context.Background(), "a")
			if !errors.Is(err, tt.want) {
				t.Fatalf("Evolve() = %v, want %v", err, tt.want)
			}
			st := f.store.State()
			if st.Tokens != tt.tokens {
				t.Errorf("expected tokens unchanged at %d, got %d", tt.tokens, st.Tokens)
			}
			if st.Collection[0].Rarity != tt.card.Rarity {
				t.Errorf("expected rarity unchanged, got %s", st.Collection[0].Rarity)
			}
			if !hasNotification(f.store.Notifier(), tt.notice) {
				t.Errorf("expected notification %q, got %+v", tt.notice, f.store.Notifier().Active())
			}
		})
	}
}

func TestEvolve_RepeatedReachesLegendary(t *testing.T) {
	f := newTestStore(t, constRNG{}, seededState(1000, testCard("a", 1, models.RarityCommon, 1)))
	f.provider.evolutions[1] = &models.Species{ID: 2, Name: "two"}
	f.provider.evolutions[2] = &models.Species{ID: 3, Name: "three"}
	f.provider.evolutions[3] = &models.Species{ID: 4, Name: "four"}

	prev := models.RarityCommon
	steps := 0
	for {
		card, err := f.store.Evolve(context.Background(), "a")
		if errors.Is(err, ErrTerminalRarity) {
			break
		}
		if err != nil {
			t.Fatalf("Evolve() error = %v", err)
		}
		if card.Rarity.Rank() <= prev.Rank() {
			t.Fatalf("rarity went from %s to %s", prev, card.Rarity)
		}
		prev = card.Rarity
		steps++
		if steps > 3 {
			t.Fatal("evolution did not terminate within 3 steps")
		}
	}
	if prev != models.RarityLegendary || steps != 3 {
		t.Errorf("expected Legendary after 3 steps, got %s after %d", prev, steps)
	}
	if got := f.store.State().Tokens; got != 1000-10-20-30+20 {
		// two evolutions complete the evolve mission (+20)
		t.Errorf("expected %d tokens, got %d", 1000-10-20-30+20, got)
	}
}

func TestStartAuction(t *testing.T) {
	seed := seededState(10, testCard("a", 1, models.RarityRare, 10), testCard("b", 2, models.RarityCommon, 1))
	seed.Deck = []string{"a"}
	f := newTestStore(t, constRNG{}, seed)

	auction, err := f.store.StartAuction(context.Background(), "a", 30)
	if err != nil {
		t.Fatalf("StartAuction() error = %v", err)
	}
	if auction.CurrentBid != 10 || auction.StartingBid != 10 {
		t.Errorf("expected auction seeded at 10, got %+v", auction)
	}
	if !auction.EndTime.Equal(testNow.Add(30 * time.Second)) {
		t.Errorf("expected end time %v, got %v", testNow.Add(30*time.Second), auction.EndTime)
	}
	if auction.HighestBidder != noBidderLabel {
		t.Errorf("expected placeholder bidder, got %q", auction.HighestBidder)
	}

	st := f.store.State()
	if _, ok := st.FindCard("a"); ok {
		t.Error("expected listed card to leave the collection")
	}
	if len(st.Deck) != 0 {
		t.Errorf("expected deck pruned, got %v", st.Deck)
	}
	if len(st.ActiveAuctions) != 1 {
		t.Errorf("expected 1 auction, got %d", len(st.ActiveAuctions))
	}

	if _, err := f.store.StartAuction(context.Background(), "b", 30); !errors.Is(err, ErrNotAuctionable) {
		t.Errorf("expected ErrNotAuctionable for a 1-token card, got %v", err)
	}
	if _, err := f.store.StartAuction(context.Background(), "b", 4000); !errors.Is(err, ErrInvalidDuration) {
		t.Errorf("expected ErrInvalidDuration, got %v", err)
	}
	if _, err := f.store.StartAuction(context.Background(), "zzz", 30); !errors.Is(err, ErrCardNotFound) {
		t.Errorf("expected ErrCardNotFound, got %v", err)
	}
}

func TestClaimFreeTokens(t *testing.T) {
	f := newTestStore(t, constRNG{}, nil)

	tokens, err := f.store.ClaimFreeTokens(context.Background())
	if err != nil || tokens != 110 {
		t.Fatalf("ClaimFreeTokens() = %d, %v; want 110, nil", tokens, err)
	}
	st := f.store.State()
	if st.TotalEarned != 0 {
		t.Errorf("expected free tokens not to count as earnings, got %d", st.TotalEarned)
	}
	if len(st.BalanceHistory) != 2 {
		t.Errorf("expected 2 balance entries, got %d", len(st.BalanceHistory))
	}
}

func TestRecordBattleWin(t *testing.T) {
	f := newTestStore(t, constRNG{}, nil)

	tokens, err := f.store.RecordBattleWin(context.Background(), 25)
	if err != nil || tokens != 125 {
		t.Fatalf("RecordBattleWin() = %d, %v; want 125, nil", tokens, err)
	}
	st := f.store.State()
	if !st.HasAchievement(models.AchievementBattleMaster) {
		t.Error("expected battle_master unlocked")
	}
	if st.BattlesWon != 1 {
		t.Errorf("expected 1 battle won, got %d", st.BattlesWon)
	}

	f.store.RecordBattleWin(context.Background(), 5)
	st = f.store.State()
	count := 0
	for _, id := range st.UnlockedAchievements {
		if id == models.AchievementBattleMaster {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected battle_master once, got %d", count)
	}

	if _, err := f.store.RecordBattleWin(context.Background(), 0); !errors.Is(err, ErrInvalidReward) {
		t.Errorf("expected ErrInvalidReward, got %v", err)
	}
}

func TestBattle(t *testing.T) {
	var cards []models.Card
	for i := range 5 {
		cards = append(cards, testCard(string(rune('a'+i)), i+1, models.RarityCollector, 50))
	}
	seed := seededState(0, cards...)
	seed.Deck = []string{"a", "b", "c", "d", "e"}
	f := newTestStore(t, constRNG{f: 0.75, i: 0}, seed)

	result, err := f.store.Battle(context.Background())
	if err != nil {
		t.Fatalf("Battle() error = %v", err)
	}
	if !result.Won || result.Reward != 35 {
		t.Fatalf("expected a win paying 35, got %+v", result)
	}
	if got := f.store.State().Tokens; got != 35 {
		t.Errorf("expected 35 tokens, got %d", got)
	}

	empty := newTestStore(t, constRNG{}, nil)
	if _, err := empty.store.Battle(context.Background()); !errors.Is(err, ErrEmptySquad) {
		t.Errorf("expected ErrEmptySquad, got %v", err)
	}
}

func TestToggleTheme(t *testing.T) {
	f := newTestStore(t, constRNG{}, nil)

	theme, _ := f.store.ToggleTheme(context.Background())
	if theme != models.ThemeLight {
		t.Errorf("expected light, got %s", theme)
	}
	theme, _ = f.store.ToggleTheme(context.Background())
	if theme != models.ThemeDark {
		t.Errorf("expected dark, got %s", theme)
	}
}

func TestMissionsResetOnNewDay(t *testing.T) {
	f := newTestStore(t, constRNG{}, seededState(10, testCard("a", 1, models.RarityRare, 10)))

	if _, err := f.store.Sell(context.Background(), "a"); err != nil {
		t.Fatal(err)
	}
	f.clock.Advance(24 * time.Hour)
	if _, err := f.store.ClaimFreeTokens(context.Background()); err != nil {
		t.Fatal(err)
	}

	st := f.store.State()
	if st.MissionDay != models.MissionDayKey(testNow.Add(24*time.Hour)) {
		t.Errorf("expected mission day to roll over, got %s", st.MissionDay)
	}
	for _, m := range st.DailyMissions {
		if m.Progress != 0 || m.IsCompleted {
			t.Errorf("expected reset mission, got %+v", m)
		}
	}
}

func TestStatePersistsAcrossRestart(t *testing.T) {
	f := newTestStore(t, constRNG{f: 0.9}, nil)
	if _, err := f.store.PurchasePack(context.Background(), models.PackStandard, 2); err != nil {
		t.Fatal(err)
	}

	reloaded, err := NewGameStore(context.Background(), GameStoreConfig{
		Repo:     f.repo,
		Provider: f.provider,
		Clock:    f.clock,
	})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := reloaded.State().Tokens, f.store.State().Tokens; got != want {
		t.Errorf("expected %d tokens after reload, got %d", want, got)
	}
	if got := len(reloaded.State().Collection); got != 2 {
		t.Errorf("expected 2 cards after reload, got %d", got)
	}
}

// TestInvariantsUnderRandomPlay drives a seeded random sequence of operations and checks the
// state invariants after every step.
func TestInvariantsUnderRandomPlay(t *testing.T) {
	rng := NewSeededRNG(42)
	f := newTestStore(t, rng, nil)
	for id := 1; id <= models.SpeciesCatalogSize; id++ {
		if id%3 != 0 {
			f.provider.evolutions[id] = &models.Species{ID: id + 1, Name: "evolved"}
		}
		if id%17 == 0 {
			f.provider.failing[id] = true
		}
	}
	ctx := context.Background()
	packs := models.AllPackTypes()

	var prevPokedex []int
	var prevAchievements []string
	pick := func(st *models.GameState) string {
		if len(st.Collection) == 0 {
			return "missing"
		}
		return st.Collection[rng.IntN(len(st.Collection))].InstanceID
	}

	for step := range 400 {
		st := f.store.State()
		switch rng.IntN(9) {
		case 0:
			f.store.PurchasePack(ctx, packs[rng.IntN(len(packs))], 1+rng.IntN(3))
		case 1:
			f.store.Sell(ctx, pick(st))
		case 2:
			f.store.ToggleDeck(ctx, pick(st))
		case 3:
			f.store.Evolve(ctx, pick(st))
		case 4:
			f.store.StartAuction(ctx, pick(st), 1+rng.IntN(10))
		case 5:
			f.store.ClaimFreeTokens(ctx)
		case 6:
			f.store.Battle(ctx)
		case 7:
			f.store.RepriceMarket(ctx)
		case 8:
			f.clock.Advance(time.Duration(rng.IntN(5)) * time.Second)
			f.store.AdvanceAuctions(ctx)
		}

		st = f.store.State()
		if st.Tokens < 0 {
			t.Fatalf("step %d: tokens went negative: %d", step, st.Tokens)
		}
		if len(st.Deck) > models.MaxDeckSize {
			t.Fatalf("step %d: deck has %d members", step, len(st.Deck))
		}
		for _, id := range st.Deck {
			if _, ok := st.FindCard(id); !ok {
				t.Fatalf("step %d: deck references missing card %s", step, id)
			}
		}
		for _, c := range st.Collection {
			if c.ResaleValue < 1 {
				t.Fatalf("step %d: card %s has value %d", step, c.InstanceID, c.ResaleValue)
			}
		}
		for _, id := range prevPokedex {
			if !slices.Contains(st.Pokedex, id) {
				t.Fatalf("step %d: pokedex lost species %d", step, id)
			}
		}
		for _, id := range prevAchievements {
			if !st.HasAchievement(id) {
				t.Fatalf("step %d: achievement %s revoked", step, id)
			}
		}
		prevPokedex = st.Pokedex
		prevAchievements = st.UnlockedAchievements
	}
}
