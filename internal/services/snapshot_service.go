package services

import (
	"context"
	"log"
	"sync"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/codyseavey/pokemarket/internal/models"
)

// SnapshotService records one portfolio snapshot per day
type SnapshotService struct {
	db            *gorm.DB
	store         *GameStore
	clock         Clock
	mu            sync.RWMutex
	lastSnapshot  time.Time
	checkInterval time.Duration
}

// NewSnapshotService creates a new snapshot service
func NewSnapshotService(db *gorm.DB, store *GameStore, checkInterval time.Duration) *SnapshotService {
	if checkInterval <= 0 {
		checkInterval = 15 * time.Minute
	}
	return &SnapshotService{
		db:            db,
		store:         store,
		clock:         store.clock,
		checkInterval: checkInterval,
	}
}

// Start begins the background snapshot worker
func (s *SnapshotService) Start(ctx context.Context) {
	log.Println("Snapshot service started: will record daily portfolio value")

	// Check if we need to take a snapshot for today on startup
	s.checkAndSnapshot(ctx)

	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Snapshot service stopping...")
			return
		case <-ticker.C:
			s.checkAndSnapshot(ctx)
		}
	}
}

// checkAndSnapshot takes today's snapshot if it is missing
func (s *SnapshotService) checkAndSnapshot(ctx context.Context) {
	if s.hasSnapshotForDate(ctx, startOfDay(s.clock.Now())) {
		return
	}
	if err := s.TakeSnapshot(ctx); err != nil {
		log.Printf("Snapshot service: failed to take snapshot: %v", err)
	}
}

func (s *SnapshotService) hasSnapshotForDate(ctx context.Context, day time.Time) bool {
	var count int64
	s.db.WithContext(ctx).Model(&models.PortfolioSnapshot{}).
		Where("snapshot_date >= ? AND snapshot_date < ?", day, day.AddDate(0, 0, 1)).
		Count(&count)
	return count > 0
}

// TakeSnapshot records the current portfolio, replacing today's row if one exists
func (s *SnapshotService) TakeSnapshot(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	snapshot := BuildPortfolioSnapshot(s.store.State(), now)

	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "snapshot_date"}},
		DoUpdates: clause.AssignmentColumns([]string{"tokens", "collection_value", "total_cards", "unique_species", "pokedex_size"}),
	}).Create(&snapshot)
	if result.Error != nil {
		return result.Error
	}

	s.lastSnapshot = now
	log.Printf("Snapshot service: recorded portfolio snapshot for %s (tokens: %d, value: %d, cards: %d)",
		snapshot.SnapshotDate.Format("2006-01-02"), snapshot.Tokens, snapshot.CollectionValue, snapshot.TotalCards)
	return nil
}

// BuildPortfolioSnapshot summarises st into the row for now's calendar day
func BuildPortfolioSnapshot(st *models.GameState, now time.Time) models.PortfolioSnapshot {
	species := make(map[int]struct{}, len(st.Collection))
	for _, c := range st.Collection {
		species[c.SpeciesID] = struct{}{}
	}
	return models.PortfolioSnapshot{
		SnapshotDate:    startOfDay(now),
		Tokens:          st.Tokens,
		CollectionValue: st.CollectionValue(),
		TotalCards:      len(st.Collection),
		UniqueSpecies:   len(species),
		PokedexSize:     len(st.Pokedex),
		CreatedAt:       now,
	}
}

// GetHistory retrieves snapshots for a given period, oldest first
func (s *SnapshotService) GetHistory(ctx context.Context, period string) ([]models.PortfolioSnapshot, error) {
	var snapshots []models.PortfolioSnapshot

	query := s.db.WithContext(ctx).Order("snapshot_date ASC")
	if start := PeriodStart(period, s.clock.Now()); !start.IsZero() {
		query = query.Where("snapshot_date >= ?", start)
	}
	if err := query.Find(&snapshots).Error; err != nil {
		return nil, err
	}
	return snapshots, nil
}

// GetLastSnapshot returns the most recent snapshot
func (s *SnapshotService) GetLastSnapshot(ctx context.Context) *models.PortfolioSnapshot {
	var snapshot models.PortfolioSnapshot
	if err := s.db.WithContext(ctx).Order("snapshot_date DESC").First(&snapshot).Error; err != nil {
		return nil
	}
	return &snapshot
}

// PeriodStart maps a history period to its lower bound. "all" has none; unknown periods mean a month.
func PeriodStart(period string, now time.Time) time.Time {
	switch period {
	case "week":
		return now.AddDate(0, 0, -7)
	case "month":
		return now.AddDate(0, -1, 0)
	case "3month":
		return now.AddDate(0, -3, 0)
	case "year":
		return now.AddDate(-1, 0, 0)
	case "all":
		return time.Time{}
	default:
		return now.AddDate(0, -1, 0)
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
