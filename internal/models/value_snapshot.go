package models

import (
	"time"
)

// PortfolioSnapshot stores the daily player balance and collection value for historical tracking
type PortfolioSnapshot struct {
	ID              uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	SnapshotDate    time.Time `json:"snapshot_date" gorm:"uniqueIndex;not null"`
	Tokens          int       `json:"tokens"`
	CollectionValue int       `json:"collection_value"`
	TotalCards      int       `json:"total_cards"`
	UniqueSpecies   int       `json:"unique_species"`
	PokedexSize     int       `json:"pokedex_size"`
	CreatedAt       time.Time `json:"created_at"`
}

// ValueHistoryResponse is the API response for value history
type ValueHistoryResponse struct {
	Snapshots []PortfolioSnapshot `json:"snapshots"`
	Period    string              `json:"period"` // "week", "month", "3month", "year", "all"
}
