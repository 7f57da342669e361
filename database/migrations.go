package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/skyline-proger/stock-data-pipeline/models"
)

func allModels() []interface{} {
	return []interface{}{&models.PriceBar{}}
}

// Migrate applies the schema and the secondary indexes. Safe to run on every
// start.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(allModels()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return ensureIndexes(db)
}

func ensureIndexes(db *gorm.DB) error {
	// Secondary index on ticker for per-ticker range scans; the composite
	// primary key already covers (ticker, date) lookups.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_stocks_data_ticker
		ON stocks_data (ticker)
	`).Error; err != nil {
		return fmt.Errorf("failed to create ticker index: %w", err)
	}
	return nil
}
