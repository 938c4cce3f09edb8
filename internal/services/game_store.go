package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/codyseavey/pokemarket/internal/metrics"
	"github.com/codyseavey/pokemarket/internal/models"
)

// SaveRepository is the opaque load/save target for the whole snapshot.
// Load returns nil, nil when nothing has been saved yet.
type SaveRepository interface {
	Load(ctx context.Context) (*models.GameState, error)
	Save(ctx context.Context, st *models.GameState) error
}

// GameStoreConfig wires a GameStore. Only Repo and Provider are required.
type GameStoreConfig struct {
	Repo          SaveRepository
	Provider      SpeciesProvider
	Factory       *CardFactory
	Notifier      *Notifier
	Tables        *models.Tables
	RNG           RandomSource
	Clock         Clock
	InitialTokens int
}

// GameStore owns the authoritative snapshot. Every operation computes the next snapshot from a
// copy of the current one under the lock and swaps it in whole, so tickers and user intents
// never see or persist a half-applied transition.
type GameStore struct {
	mu    sync.Mutex
	state *models.GameState

	repo     SaveRepository
	provider SpeciesProvider
	factory  *CardFactory
	notifier *Notifier
	battles  *BattleSimulator
	tables   models.Tables
	rng      RandomSource
	clock    Clock
}

// notice is a message emitted once the transition that produced it has been committed
type notice struct {
	message string
	typ     NotificationType
}

// NewGameStore loads the saved snapshot, or starts a fresh one when none exists.
func NewGameStore(ctx context.Context, cfg GameStoreConfig) (*GameStore, error) {
	if cfg.Repo == nil {
		return nil, fmt.Errorf("game store requires a save repository")
	}
	if cfg.Provider == nil {
		return nil, fmt.Errorf("game store requires a species provider")
	}

	tables := models.DefaultTables()
	if cfg.Tables != nil {
		tables = *cfg.Tables
	}
	rng := cfg.RNG
	if rng == nil {
		rng = DefaultRNG()
	}
	clock := cfg.Clock
	if clock == nil {
		clock = RealClock{}
	}
	notifier := cfg.Notifier
	if notifier == nil {
		notifier = NewNotifier(0, clock)
	}
	factory := cfg.Factory
	if factory == nil {
		factory = NewCardFactory(cfg.Provider, rng, tables, clock)
	}
	initialTokens := cfg.InitialTokens
	if initialTokens <= 0 {
		initialTokens = models.InitialTokens
	}

	now := clock.Now()
	st, err := cfg.Repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load game state: %w", err)
	}
	if st == nil {
		log.Printf("Game store: no saved state, starting with %d tokens", initialTokens)
		st = models.NewGameState(initialTokens, now)
	} else {
		st.Normalize(now)
		log.Printf("Game store: loaded state (%d tokens, %d cards, %d auctions)",
			st.Tokens, len(st.Collection), len(st.ActiveAuctions))
	}
	metrics.UpdateStateMetrics(st)

	return &GameStore{
		state:    st,
		repo:     cfg.Repo,
		provider: cfg.Provider,
		factory:  factory,
		notifier: notifier,
		battles:  NewBattleSimulator(rng, tables),
		tables:   tables,
		rng:      rng,
		clock:    clock,
	}, nil
}

// State returns a copy of the current snapshot
func (s *GameStore) State() *models.GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Notifier returns the notification queue fed by the store
func (s *GameStore) Notifier() *Notifier {
	return s.notifier
}

// Tables returns the pricing tables in use
func (s *GameStore) Tables() models.Tables {
	return s.tables
}

// BattleSimulator returns the simulator used by Battle
func (s *GameStore) BattleSimulator() *BattleSimulator {
	return s.battles
}

// snapshot runs fn against the live state for read-only precondition checks
func (s *GameStore) snapshot(fn func(st *models.GameState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.state)
}

// commit applies one atomic transition. fn mutates a private copy of the snapshot; when it returns
// an error the copy is discarded and nothing changes. On success, the daily mission reset and the
// achievement check are folded into the same transition before the copy replaces the live state,
// the snapshot is persisted and the notices are emitted.
func (s *GameStore) commit(ctx context.Context, op string, fn func(st *models.GameState, now time.Time) ([]notice, error)) error {
	s.mu.Lock()

	now := s.clock.Now()
	next := s.state.Clone()
	ResetMissionsIfNewDay(next, now)

	notices, err := fn(next, now)
	if err != nil {
		s.mu.Unlock()
		metrics.OperationsTotal.WithLabelValues(op, rejectionLabel(err)).Inc()
		return err
	}

	for _, a := range EvaluateAchievements(next) {
		notices = append(notices, notice{fmt.Sprintf("Achievement unlocked: %s!", a.Title), NotificationSuccess})
	}

	s.state = next
	s.persistLocked(ctx)
	metrics.UpdateStateMetrics(next)
	s.mu.Unlock()

	metrics.OperationsTotal.WithLabelValues(op, "ok").Inc()
	for _, n := range notices {
		s.notifier.Notify(n.message, n.typ)
	}
	return nil
}

// persistLocked writes the full snapshot. Failures are logged and never undo the transition.
// The write outlives the caller's cancellation so memory and disk never disagree.
func (s *GameStore) persistLocked(ctx context.Context) {
	if err := s.repo.Save(context.WithoutCancel(ctx), s.state); err != nil {
		metrics.SaveFailuresTotal.Inc()
		log.Printf("Game store: failed to save state: %v", err)
	}
}

// missionNotices turns completed missions into notices
func missionNotices(completed []models.DailyMission) []notice {
	out := make([]notice, 0, len(completed))
	for _, m := range completed {
		out = append(out, notice{fmt.Sprintf("Mission complete: %s (+%d tokens)", m.Title, m.Reward), NotificationSuccess})
	}
	return out
}

func rejectionLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, ErrCardNotFound):
		return "not_found"
	case errors.Is(err, ErrDeckFull):
		return "deck_full"
	case errors.Is(err, ErrTerminalRarity):
		return "terminal_rarity"
	case errors.Is(err, ErrNoEvolution):
		return "no_evolution"
	default:
		return "rejected"
	}
}
