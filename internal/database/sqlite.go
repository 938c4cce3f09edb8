package database

import (
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/codyseavey/pokemarket/internal/models"
)

var DB *gorm.DB

// Initialize opens the sqlite database at dbPath and migrates the schema.
func Initialize(dbPath string) error {
	db, err := Open(dbPath, logger.Warn)
	if err != nil {
		return err
	}
	DB = db
	return nil
}

// Open connects to dbPath with the given gorm log level, cleans up legacy save rows and
// migrates the schema. Tools pass logger.Silent.
func Open(dbPath string, level logger.LogLevel) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, err
	}

	log.Println("Database connected successfully")

	if err := cleanupEmptySaveSlots(db); err != nil {
		log.Printf("Warning: failed to clean up empty save slots: %v", err)
	}

	err = db.AutoMigrate(&models.SaveSlot{}, &models.PortfolioSnapshot{})
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	log.Println("Database migration completed")
	return db, nil
}

func GetDB() *gorm.DB {
	return DB
}
