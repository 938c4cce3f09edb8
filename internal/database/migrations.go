package database

import (
	"log"

	"gorm.io/gorm"

	"github.com/codyseavey/pokemarket/internal/models"
)

// cleanupEmptySaveSlots removes save rows without a payload before the not-null constraint applies.
// This runs BEFORE AutoMigrate to prevent constraint violations
func cleanupEmptySaveSlots(db *gorm.DB) error {
	if !db.Migrator().HasTable("save_slots") {
		return nil
	}

	result := db.Exec(`DELETE FROM save_slots WHERE data IS NULL OR data = ''`)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		log.Printf("Removed %d empty save slots", result.RowsAffected)
	}
	return nil
}

// RunMigrations runs any custom data migrations after schema changes
func RunMigrations(db *gorm.DB) error {
	return migrateSchemaVersion(db)
}

// migrateSchemaVersion stamps rows written before the version column existed. The payload itself
// is upgraded lazily by GameState.Normalize when it is loaded.
func migrateSchemaVersion(db *gorm.DB) error {
	result := db.Exec(`UPDATE save_slots SET schema_version = 1 WHERE schema_version IS NULL OR schema_version = 0`)
	if result.Error != nil {
		log.Printf("Warning: failed to stamp save slot schema versions: %v", result.Error)
		return nil
	}
	if result.RowsAffected > 0 {
		log.Printf("Stamped %d save slots with schema version 1", result.RowsAffected)
	}

	var outdated int64
	db.Model(&models.SaveSlot{}).Where("schema_version < ?", models.CurrentSchemaVersion).Count(&outdated)
	if outdated > 0 {
		log.Printf("%d save slots predate schema version %d and will be upgraded on load", outdated, models.CurrentSchemaVersion)
	}
	return nil
}
