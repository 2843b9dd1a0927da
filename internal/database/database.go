package database

import (
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database is the single shared handle onto the user-data store. One
// instance is constructed per store file and injected into every
// repository; callers must not open a second handle onto the same file.
type Database struct {
	DB *gorm.DB
}

// NewDatabase opens (creating if needed) the user-data store and brings
// its schema up to the current version. A migration failure is fatal
// for the store: no partial-store recovery is attempted and the caller
// must treat the install's user data as unavailable.
func NewDatabase(dbPath string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Printf("User-data store ready at %s (schema version %d)", dbPath, CurrentVersion)

	return &Database{DB: db}, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Maintain runs the periodic housekeeping pass: flush the WAL and let
// sqlite refresh its query-planner statistics.
func (d *Database) Maintain() error {
	if err := d.DB.Exec("PRAGMA wal_checkpoint(TRUNCATE)").Error; err != nil {
		return fmt.Errorf("wal checkpoint: %w", err)
	}
	if err := d.DB.Exec("PRAGMA optimize").Error; err != nil {
		return fmt.Errorf("optimize: %w", err)
	}
	return nil
}
