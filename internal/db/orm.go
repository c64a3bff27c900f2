package db

import (
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	gormmodels "charterops/flightdeck/internal/models/gorm"
)

// InitSQLiteORM opens (or creates) the local reference database holding
// the airport lookup table and the aircraft cost profiles.
func InitSQLiteORM(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})

	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if err := db.AutoMigrate(&gormmodels.Airport{}, &gormmodels.AircraftCostProfile{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	log.Println("Connected to SQLite via GORM")
	return db, nil
}
