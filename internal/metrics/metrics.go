// Package metrics provides Prometheus metrics for the PokeMarket game server.
// Scrape these at /metrics for Grafana dashboards and alerting.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/codyseavey/pokemarket/internal/models"
)

var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pokemarket_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pokemarket_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Game operation metrics
	OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pokemarket_operations_total",
			Help: "Game operations by name and outcome",
		},
		[]string{"operation", "result"}, // result: "ok" or the rejection reason
	)

	CardsOpenedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pokemarket_cards_opened_total",
			Help: "Cards realised from opened packs by rarity",
		},
		[]string{"rarity"},
	)

	PackUnitsDroppedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pokemarket_pack_units_dropped_total",
			Help: "Pack units dropped because species metadata was unavailable",
		},
	)

	// Market and auction metrics
	MarketRepricingsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pokemarket_market_repricings_total",
			Help: "Number of market repricing ticks applied",
		},
	)

	AuctionBidsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pokemarket_auction_bids_total",
			Help: "Simulated auction bids placed",
		},
	)

	AuctionsSettledTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pokemarket_auctions_settled_total",
			Help: "Auctions settled and paid out",
		},
	)

	ActiveAuctions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pokemarket_active_auctions",
			Help: "Number of auctions currently listed",
		},
	)

	// Player state metrics
	TokenBalance = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pokemarket_token_balance",
			Help: "Current token balance",
		},
	)

	CollectionCardsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pokemarket_collection_cards_total",
			Help: "Total number of cards in collection",
		},
	)

	CollectionValue = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pokemarket_collection_value_tokens",
			Help: "Total resale value of the collection in tokens",
		},
	)

	CollectionCardsByRarity = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pokemarket_collection_cards_by_rarity",
			Help: "Number of cards in collection by rarity",
		},
		[]string{"rarity"},
	)

	PokedexSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pokemarket_pokedex_size",
			Help: "Distinct species ever owned",
		},
	)

	AchievementsUnlocked = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pokemarket_achievements_unlocked",
			Help: "Number of unlocked achievements",
		},
	)

	SaveFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pokemarket_save_failures_total",
			Help: "Snapshot persistence failures",
		},
	)

	// PokeAPI Metrics
	PokeAPIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pokemarket_pokeapi_requests_total",
			Help: "Total PokeAPI requests by endpoint and result",
		},
		[]string{"endpoint", "result"}, // result: "success", "not_found", "error"
	)

	PokeAPILatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pokemarket_pokeapi_latency_seconds",
			Help:    "PokeAPI call latency",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
	)

	PokeAPICacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pokemarket_pokeapi_cache_hits_total",
			Help: "PokeAPI lookups served from the LRU cache",
		},
		[]string{"kind"}, // "pokemon", "evolution"
	)
)

// UpdateStateMetrics refreshes the player gauges from a snapshot
func UpdateStateMetrics(st *models.GameState) {
	TokenBalance.Set(float64(st.Tokens))
	CollectionCardsTotal.Set(float64(len(st.Collection)))
	CollectionValue.Set(float64(st.CollectionValue()))
	PokedexSize.Set(float64(len(st.Pokedex)))
	AchievementsUnlocked.Set(float64(len(st.UnlockedAchievements)))
	ActiveAuctions.Set(float64(len(st.ActiveAuctions)))

	counts := make(map[models.Rarity]int)
	for _, c := range st.Collection {
		counts[c.Rarity]++
	}
	for _, r := range models.AllRarities() {
		CollectionCardsByRarity.WithLabelValues(string(r)).Set(float64(counts[r]))
	}
}
