package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/codyseavey/pokemarket/internal/models"
)

// SaveRepository keeps the whole game state as one JSON blob under a single key.
type SaveRepository struct {
	db  *gorm.DB
	key string
}

func NewSaveRepository(db *gorm.DB, key string) *SaveRepository {
	return &SaveRepository{db: db, key: key}
}

// Load returns nil, nil when the key has never been written.
func (r *SaveRepository) Load(ctx context.Context) (*models.GameState, error) {
	var slot models.SaveSlot
	err := r.db.WithContext(ctx).Where("key = ?", r.key).First(&slot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read save slot %q: %w", r.key, err)
	}

	var st models.GameState
	if err := json.Unmarshal([]byte(slot.Data), &st); err != nil {
		return nil, fmt.Errorf("failed to decode save slot %q: %w", r.key, err)
	}
	if st.SchemaVersion == 0 {
		st.SchemaVersion = slot.SchemaVersion
	}
	return &st, nil
}

// Save overwrites the slot with the full snapshot
func (r *SaveRepository) Save(ctx context.Context, st *models.GameState) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to encode game state: %w", err)
	}

	slot := models.SaveSlot{
		Key:           r.key,
		Data:          string(data),
		SchemaVersion: st.SchemaVersion,
	}
	err = r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "schema_version", "updated_at"}),
	}).Create(&slot).Error
	if err != nil {
		return fmt.Errorf("failed to write save slot %q: %w", r.key, err)
	}
	return nil
}
