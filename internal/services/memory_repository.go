package services

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/codyseavey/pokemarket/internal/models"
)

// MemorySaveRepository keeps the encoded snapshot in memory. It round-trips through JSON and
// honours cancellation so a load or save behaves exactly as a persistent store would.
type MemorySaveRepository struct {
	mu    sync.Mutex
	data  []byte
	saves int
}

func NewMemorySaveRepository() *MemorySaveRepository {
	return &MemorySaveRepository{}
}

func (r *MemorySaveRepository) Load(ctx context.Context) (*models.GameState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.data == nil {
		return nil, nil
	}
	var st models.GameState
	if err := json.Unmarshal(r.data, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

func (r *MemorySaveRepository) Save(ctx context.Context, st *models.GameState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(st)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.data = data
	r.saves++
	return nil
}

// Saves returns how many snapshots have been written
func (r *MemorySaveRepository) Saves() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves
}
