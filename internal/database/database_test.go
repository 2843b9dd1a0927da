package database

import (
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDBPath(t *testing.T) string {
	t.Helper()
	return "./test_database_" + t.Name() + ".db"
}

func TestNewDatabase_FreshInstall(t *testing.T) {
	dbPath := testDBPath(t)
	defer os.Remove(dbPath)

	db, err := NewDatabase(dbPath)
	require.NoError(t, err)
	defer db.Close()

	var version int
	require.NoError(t, db.DB.Raw("PRAGMA user_version").Scan(&version).Error)
	assert.Equal(t, CurrentVersion, version)

	expectedTables := []string{
		"bookmarks", "serialized_highlights", "highlights",
		"display_preferences", "access_information",
		"books_collections", "books_collection_members",
	}
	for _, table := range expectedTables {
		var count int64
		err := db.DB.Raw(
			"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", table,
		).Scan(&count).Error
		require.NoError(t, err)
		assert.Equal(t, int64(1), count, "table %s should exist", table)
	}

	// Three automatic collections plus the favourites placeholder.
	var total, automatic int64
	require.NoError(t, db.DB.Raw("SELECT COUNT(*) FROM books_collections").Scan(&total).Error)
	require.NoError(t, db.DB.Raw("SELECT COUNT(*) FROM books_collections WHERE automatic_id IS NOT NULL").Scan(&automatic).Error)
	assert.Equal(t, int64(4), total)
	assert.Equal(t, int64(3), automatic)
}

func TestNewDatabase_ReopenDoesNotReseed(t *testing.T) {
	dbPath := testDBPath(t)
	defer os.Remove(dbPath)

	db, err := NewDatabase(dbPath)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = NewDatabase(dbPath)
	require.NoError(t, err)
	defer db.Close()

	var total int64
	require.NoError(t, db.DB.Raw("SELECT COUNT(*) FROM books_collections").Scan(&total).Error)
	assert.Equal(t, int64(4), total, "reopening must not duplicate seeded collections")
}

func TestMigrate_FromVersionOne(t *testing.T) {
	dbPath := testDBPath(t)
	defer os.Remove(dbPath)

	// Build a version-1 store by hand: base tables only, no collections.
	raw, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, raw.Transaction(applyBaseTables))
	require.NoError(t, raw.Exec("PRAGMA user_version = 1").Error)
	require.NoError(t, raw.Exec(
		"INSERT INTO bookmarks (book_id, page_id, timestamp) VALUES (7, 3, '2024-01-01 00:00:00')",
	).Error)
	sqlDB, err := raw.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	db, err := NewDatabase(dbPath)
	require.NoError(t, err)
	defer db.Close()

	var version int
	require.NoError(t, db.DB.Raw("PRAGMA user_version").Scan(&version).Error)
	assert.Equal(t, 2, version)

	// The version-2 delta arrived with its seeds.
	var total int64
	require.NoError(t, db.DB.Raw("SELECT COUNT(*) FROM books_collections").Scan(&total).Error)
	assert.Equal(t, int64(4), total)

	// Version-1 data survived untouched.
	var marks int64
	require.NoError(t, db.DB.Raw("SELECT COUNT(*) FROM bookmarks WHERE book_id = 7").Scan(&marks).Error)
	assert.Equal(t, int64(1), marks)
}

func TestMigrate_SeededAutomaticIDs(t *testing.T) {
	dbPath := testDBPath(t)
	defer os.Remove(dbPath)

	db, err := NewDatabase(dbPath)
	require.NoError(t, err)
	defer db.Close()

	for _, automaticID := range []int{1, 2, 3} {
		var count int64
		err := db.DB.Raw(
			"SELECT COUNT(*) FROM books_collections WHERE automatic_id = ?", automaticID,
		).Scan(&count).Error
		require.NoError(t, err)
		assert.Equal(t, int64(1), count, fmt.Sprintf("automatic id %d should be seeded once", automaticID))
	}
}

func TestMaintain(t *testing.T) {
	dbPath := testDBPath(t)
	defer os.Remove(dbPath)

	db, err := NewDatabase(dbPath)
	require.NoError(t, err)
	defer db.Close()

	assert.NoError(t, db.Maintain())
}
