package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/codyseavey/pokemarket/internal/models"
)

const (
	defaultMarketInterval  = 60 * time.Second
	defaultAuctionInterval = 3 * time.Second
)

// MarketWorker drives the two periodic market processes: collection repricing and auction
// advancement. Both feed their mutations through the game store.
type MarketWorker struct {
	store           *GameStore
	marketInterval  time.Duration
	auctionInterval time.Duration
	mu              sync.RWMutex

	// Stats (reset at midnight)
	repricingsToday   int
	settledToday      int
	lastRepriceTime   time.Time
	lastAuctionTime   time.Time
	lastStatsDay      time.Time
	lastAuctionResult AuctionTick
}

type MarketStatus struct {
	LastRepriceTime time.Time   `json:"last_reprice_time"`
	NextRepriceTime time.Time   `json:"next_reprice_time"`
	LastAuctionTime time.Time   `json:"last_auction_time"`
	MarketInterval  string      `json:"market_interval"`
	AuctionInterval string      `json:"auction_interval"`
	RepricingsToday int         `json:"repricings_today"`
	SettledToday    int         `json:"auctions_settled_today"`
	ActiveAuctions  int         `json:"active_auctions"`
	LastAuctionTick AuctionTick `json:"last_auction_tick"`
}

// NewMarketWorker creates the worker. Non-positive intervals fall back to 60s and 3s.
func NewMarketWorker(store *GameStore, marketInterval, auctionInterval time.Duration) *MarketWorker {
	if marketInterval <= 0 {
		marketInterval = defaultMarketInterval
	}
	if auctionInterval <= 0 {
		auctionInterval = defaultAuctionInterval
	}
	return &MarketWorker{
		store:           store,
		marketInterval:  marketInterval,
		auctionInterval: auctionInterval,
	}
}

// resetDailyStatsIfNeeded resets the daily counters at midnight
func (w *MarketWorker) resetDailyStatsIfNeeded(now time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if w.lastStatsDay.Before(today) {
		if !w.lastStatsDay.IsZero() {
			log.Printf("Market worker: daily stats reset (previous day: %d repricings, %d auctions settled)",
				w.repricingsToday, w.settledToday)
		}
		w.repricingsToday = 0
		w.settledToday = 0
		w.lastStatsDay = today
	}
}

// Start runs both tickers until ctx is cancelled
func (w *MarketWorker) Start(ctx context.Context) {
	log.Printf("Market worker started: repricing every %v, auctions every %v", w.marketInterval, w.auctionInterval)

	marketTicker := time.NewTicker(w.marketInterval)
	defer marketTicker.Stop()
	auctionTicker := time.NewTicker(w.auctionInterval)
	defer auctionTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Market worker stopping...")
			return
		case <-marketTicker.C:
			if err := w.Reprice(ctx); err != nil {
				log.Printf("Market worker: repricing failed: %v", err)
			}
		case <-auctionTicker.C:
			if _, err := w.AdvanceAuctions(ctx); err != nil {
				log.Printf("Market worker: auction tick failed: %v", err)
			}
		}
	}
}

// Reprice runs one repricing tick
func (w *MarketWorker) Reprice(ctx context.Context) error {
	now := w.store.clock.Now()
	w.resetDailyStatsIfNeeded(now)

	if err := w.store.RepriceMarket(ctx); err != nil {
		return err
	}

	w.mu.Lock()
	w.repricingsToday++
	w.lastRepriceTime = now
	w.mu.Unlock()
	return nil
}

// AdvanceAuctions runs one auction tick
func (w *MarketWorker) AdvanceAuctions(ctx context.Context) (AuctionTick, error) {
	now := w.store.clock.Now()
	w.resetDailyStatsIfNeeded(now)

	tick, err := w.store.AdvanceAuctions(ctx)
	if err != nil {
		return tick, err
	}
	if tick.Settled > 0 {
		log.Printf("Market worker: settled %d auctions for %d tokens", tick.Settled, tick.Payout)
	}

	w.mu.Lock()
	w.settledToday += tick.Settled
	w.lastAuctionTime = now
	w.lastAuctionResult = tick
	w.mu.Unlock()
	return tick, nil
}

// GetStatus returns the current status
func (w *MarketWorker) GetStatus() MarketStatus {
	var active int
	w.store.snapshot(func(st *models.GameState) { active = len(st.ActiveAuctions) })

	w.mu.RLock()
	defer w.mu.RUnlock()

	next := w.lastRepriceTime.Add(w.marketInterval)
	if w.lastRepriceTime.IsZero() {
		next = time.Time{}
	}
	return MarketStatus{
		LastRepriceTime: w.lastRepriceTime,
		NextRepriceTime: next,
		LastAuctionTime: w.lastAuctionTime,
		MarketInterval:  w.marketInterval.String(),
		AuctionInterval: w.auctionInterval.String(),
		RepricingsToday: w.repricingsToday,
		SettledToday:    w.settledToday,
		ActiveAuctions:  active,
		LastAuctionTick: w.lastAuctionResult,
	}
}
