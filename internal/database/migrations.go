package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/lectern/readerdata/internal/config"
)

// CurrentVersion is the schema version this build writes.
const CurrentVersion = 2

// A migration moves the store from version-1 to version. Steps are
// applied strictly in order inside their own transaction; the stored
// version advances only after a step commits, so an interrupted upgrade
// resumes at the failed step.
type migration struct {
	version int
	name    string
	apply   func(tx *gorm.DB) error
}

var migrations = []migration{
	{version: 1, name: "base annotation tables", apply: applyBaseTables},
	{version: 2, name: "book collections", apply: applyCollections},
}

// Migrate brings the store from whatever version it is at (0 for a
// fresh file) up to CurrentVersion.
func Migrate(db *gorm.DB) error {
	current, err := schemaVersion(db)
	if err != nil {
		return err
	}
	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := m.apply(tx); err != nil {
				return err
			}
			// PRAGMA does not take bind parameters.
			return tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", m.version)).Error
		})
		if err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
		}
	}
	return nil
}

func schemaVersion(db *gorm.DB) (int, error) {
	var version int
	if err := db.Raw("PRAGMA user_version").Scan(&version).Error; err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return version, nil
}

func applyBaseTables(tx *gorm.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS bookmarks (
			book_id INTEGER NOT NULL,
			page_id INTEGER NOT NULL,
			timestamp TEXT NOT NULL DEFAULT (datetime('now', 'localtime'))
		)`,
		`CREATE INDEX IF NOT EXISTS bookmarks_book_id_index ON bookmarks (book_id)`,
		`CREATE TABLE IF NOT EXISTS serialized_highlights (
			book_id INTEGER NOT NULL,
			page_id INTEGER NOT NULL,
			blob TEXT NOT NULL,
			PRIMARY KEY (book_id, page_id)
		)`,
		`CREATE TABLE IF NOT EXISTS highlights (
			row_id INTEGER PRIMARY KEY AUTOINCREMENT,
			book_id INTEGER NOT NULL,
			page_id INTEGER NOT NULL,
			highlight_id INTEGER NOT NULL,
			class_name TEXT,
			container_element_id INTEGER,
			text TEXT,
			timestamp TEXT NOT NULL DEFAULT (datetime('now', 'localtime')),
			note_text TEXT,
			UNIQUE (book_id, page_id, highlight_id)
		)`,
		`CREATE TABLE IF NOT EXISTS display_preferences (
			book_id INTEGER NOT NULL,
			key TEXT NOT NULL,
			value TEXT,
			PRIMARY KEY (book_id, key)
		)`,
		`CREATE TABLE IF NOT EXISTS access_information (
			book_id INTEGER PRIMARY KEY,
			access_count INTEGER NOT NULL DEFAULT 0,
			last_opened_page_id INTEGER,
			last_opened_part_number INTEGER,
			last_opened_page_number INTEGER,
			last_opened_timestamp TEXT
		)`,
	}
	for _, stmt := range statements {
		if err := tx.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

func applyCollections(tx *gorm.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS books_collections (
			collection_id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			display_order INTEGER NOT NULL DEFAULT 0,
			visible INTEGER NOT NULL DEFAULT 1,
			automatic_id INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS books_collection_members (
			collection_id INTEGER NOT NULL,
			book_id INTEGER NOT NULL,
			PRIMARY KEY (collection_id, book_id)
		)`,
		`CREATE INDEX IF NOT EXISTS books_collection_members_collection_id_index
			ON books_collection_members (collection_id)`,
		`CREATE INDEX IF NOT EXISTS books_collection_members_book_id_index
			ON books_collection_members (book_id)`,
	}
	for _, stmt := range statements {
		if err := tx.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return seedCollections(tx)
}

func seedCollections(tx *gorm.DB) error {
	for order, seed := range config.DefaultCollections {
		var automaticID any
		if seed.AutomaticID > 0 {
			automaticID = seed.AutomaticID
		}
		err := tx.Exec(
			`INSERT INTO books_collections (name, display_order, automatic_id) VALUES (?, ?, ?)`,
			seed.Name, order, automaticID,
		).Error
		if err != nil {
			return fmt.Errorf("seed collection %q: %w", seed.Name, err)
		}
	}
	return nil
}
