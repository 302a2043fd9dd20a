package database

import (
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// DB is the global database instance
var DB *gorm.DB

// Connect establishes a connection to the PostgreSQL database
func Connect(dsn string, logLevel logger.LogLevel) error {
	var err error

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Println("Database connection established")
	return nil
}

// AutoMigrate runs database migrations
func AutoMigrate() error {
	log.Println("Running database migrations...")

	err := DB.AutoMigrate(
		// Mention pipeline
		&Source{},
		&Topic{},
		&Mention{},
		&MentionTopic{},
		// Competitor pipeline
		&Competitor{},
		&CompetitorUpdate{},
		// Query pipeline
		&QueryTag{},
		&Query{},
		&QueryTagLink{},
		&QueryAssignment{},
		&QueryHistory{},
		// Alerts
		&Alert{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// InitializeDefaults creates default records if they don't exist
func InitializeDefaults() error {
	log.Println("Initializing default database records...")

	if err := SeedQueryTags(DB); err != nil {
		return fmt.Errorf("failed to seed query tags: %w", err)
	}

	return nil
}

// SeedQueryTags ensures the canonical tag vocabulary exists, one row per tag
// type with its fixed label. Safe to call repeatedly.
func SeedQueryTags(db *gorm.DB) error {
	for tagType, label := range QueryTagLabels {
		tag := QueryTag{Label: label, Type: tagType}
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "type"}},
			DoNothing: true,
		}).Create(&tag).Error
		if err != nil {
			return fmt.Errorf("failed to seed tag %s: %w", tagType, err)
		}
	}
	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}

// Close closes the database connection
func Close() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
