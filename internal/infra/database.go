package infra

import (
	"fmt"

	"sproutplan/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx and runs
// AutoMigrate for all engine tables. Forecast and adjustment tables are
// append-heavy; the composite indexes declared on the models cover the
// aggregation and fold queries.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, fmt.Errorf("migrations: %w", err)
	}

	return db, nil
}

// RunMigrations applies the schema. Also used by integration test setups.
func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.Customer{},
		&model.SalesOrder{},
		&model.Subscription{},
		&model.Forecast{},
		&model.ManualAdjustment{},
		&model.ProductionSuggestion{},
		&model.SeedBatch{},
		&model.ProductionLot{},
		&model.CapacityResource{},
		&model.ForecastAccuracy{},
	)
}
