package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/codyseavey/pokemarket/internal/metrics"
	"github.com/codyseavey/pokemarket/internal/models"
)

const (
	repriceMinFactor = 0.9
	repriceSpread    = 0.2
	bidChance        = 0.3
	bidStepPercent   = 0.1
)

// auctionBidders is the roster of simulated bidder labels
var auctionBidders = []string{
	"Ash_K",
	"Misty99",
	"BrockRocks",
	"TeamRocket",
	"ProfOak",
	"GaryMotion",
}

// AuctionTick summarises one auction advancement pass
type AuctionTick struct {
	Bids    int `json:"bids"`
	Settled int `json:"settled"`
	Payout  int `json:"payout"`
}

// RepriceMarket multiplies every owned card's resale value by an independent factor in
// [0.9, 1.1], rounded and floored at 1. The whole collection moves in one transition.
func (s *GameStore) RepriceMarket(ctx context.Context) error {
	return s.commit(ctx, "reprice_market", func(st *models.GameState, _ time.Time) ([]notice, error) {
		for i := range st.Collection {
			factor := repriceMinFactor + repriceSpread*s.rng.Float64()
			st.Collection[i].ResaleValue = repriceValue(st.Collection[i].ResaleValue, factor)
		}
		metrics.MarketRepricingsTotal.Inc()
		return []notice{{"The market moved! Check your prices.", NotificationWarning}}, nil
	})
}

func repriceValue(value int, factor float64) int {
	return max(1, int(math.Round(float64(value)*factor)))
}

// AdvanceAuctions settles expired auctions and lets simulated bidders raise the open ones.
// An auction is marked finished before it is paid and removed, so it is never paid twice.
// With nothing listed the tick is a no-op and nothing is saved.
func (s *GameStore) AdvanceAuctions(ctx context.Context) (AuctionTick, error) {
	var open int
	s.snapshot(func(st *models.GameState) { open = len(st.ActiveAuctions) })
	if open == 0 {
		return AuctionTick{}, nil
	}

	var tick AuctionTick
	err := s.commit(ctx, "advance_auctions", func(st *models.GameState, now time.Time) ([]notice, error) {
		tick = AuctionTick{}
		var notices []notice
		open := st.ActiveAuctions[:0:0]

		for _, a := range st.ActiveAuctions {
			if a.IsFinished {
				continue
			}
			if !now.Before(a.EndTime) {
				a.IsFinished = true
				st.Tokens += a.CurrentBid
				st.TotalEarned += a.CurrentBid
				st.RecordTransaction(models.Transaction{
					ID:        uuid.New().String(),
					Type:      models.TransactionAuctionWin,
					CardName:  a.Card.Name,
					Amount:    a.CurrentBid,
					Timestamp: now,
				})
				st.RecordBalance(now)
				tick.Settled++
				tick.Payout += a.CurrentBid
				notices = append(notices, notice{
					fmt.Sprintf("Auction ended: %s sold for %d tokens!", a.Card.Name, a.CurrentBid),
					NotificationSuccess,
				})
				continue
			}

			if s.rng.Float64() < bidChance {
				a.CurrentBid += bidIncrement(a.StartingBid)
				a.HighestBidder = auctionBidders[s.rng.IntN(len(auctionBidders))]
				tick.Bids++
			}
			open = append(open, a)
		}

		st.ActiveAuctions = open
		return notices, nil
	})
	if err != nil {
		return AuctionTick{}, err
	}

	metrics.AuctionBidsTotal.Add(float64(tick.Bids))
	metrics.AuctionsSettledTotal.Add(float64(tick.Settled))
	return tick, nil
}

// bidIncrement is ceil(10% of the starting bid), at least 1
func bidIncrement(startingBid int) int {
	return max(1, int(math.Ceil(float64(startingBid)*bidStepPercent)))
}
