// Package config loads the server configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every runtime setting of the server
type Config struct {
	Port               string        `env:"PORT"                 envDefault:"8080"`
	DBPath             string        `env:"DB_PATH"              envDefault:"./pokemarket.db"`
	SaveKey            string        `env:"SAVE_KEY"             envDefault:"pokemarket_state"`
	PokeAPIBaseURL     string        `env:"POKEAPI_BASE_URL"     envDefault:"https://pokeapi.co/api/v2"`
	PokeAPIRateLimit   float64       `env:"POKEAPI_RATE_LIMIT"   envDefault:"10"`
	PokeAPICacheSize   int           `env:"POKEAPI_CACHE_SIZE"   envDefault:"512"`
	MarketInterval     time.Duration `env:"MARKET_INTERVAL"      envDefault:"60s"`
	AuctionInterval    time.Duration `env:"AUCTION_INTERVAL"     envDefault:"3s"`
	SnapshotInterval   time.Duration `env:"SNAPSHOT_INTERVAL"    envDefault:"15m"`
	NotificationTTL    time.Duration `env:"NOTIFICATION_TTL"     envDefault:"4s"`
	InitialTokens      int           `env:"INITIAL_TOKENS"       envDefault:"100"`
	RarityTablePath    string        `env:"RARITY_TABLE_PATH"`
	CORSAllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173,http://localhost:8080"`
	FrontendDistPath   string        `env:"FRONTEND_DIST_PATH"`
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot run with
func (c Config) Validate() error {
	if c.SaveKey == "" {
		return fmt.Errorf("SAVE_KEY must not be empty")
	}
	if c.PokeAPIRateLimit <= 0 {
		return fmt.Errorf("POKEAPI_RATE_LIMIT must be positive, got %v", c.PokeAPIRateLimit)
	}
	if c.PokeAPICacheSize <= 0 {
		return fmt.Errorf("POKEAPI_CACHE_SIZE must be positive, got %d", c.PokeAPICacheSize)
	}
	for name, d := range map[string]time.Duration{
		"MARKET_INTERVAL":   c.MarketInterval,
		"AUCTION_INTERVAL":  c.AuctionInterval,
		"SNAPSHOT_INTERVAL": c.SnapshotInterval,
		"NOTIFICATION_TTL":  c.NotificationTTL,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %v", name, d)
		}
	}
	if c.InitialTokens < 0 {
		return fmt.Errorf("INITIAL_TOKENS must not be negative, got %d", c.InitialTokens)
	}
	return nil
}
