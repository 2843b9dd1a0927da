// Package preferences provides database operations for per-book
// display preferences (font size, theme, spacing ...).
package preferences

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lectern/readerdata/internal/entities"
)

// Repository handles all display-preference database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new display-preference repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Get returns the stored value for (book, key). When the key has never
// been set, the supplied default is persisted and returned, so the
// first read fixes the preference: a later Get with a different default
// still returns the first one. Callers must tolerate the write.
func (r *Repository) Get(bookID int, key, defaultValue string) (string, error) {
	var pref entities.DisplayPreference
	err := r.db.
		Where("book_id = ? AND key = ?", bookID, key).
		First(&pref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := r.Set(bookID, key, defaultValue); err != nil {
			return "", err
		}
		return defaultValue, nil
	}
	if err != nil {
		return "", err
	}
	return pref.Value, nil
}

// Set stores the value for (book, key), replacing any previous value.
func (r *Repository) Set(bookID int, key, value string) error {
	pref := entities.DisplayPreference{BookID: bookID, Key: key, Value: value}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "book_id"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&pref).Error
}

// ListForBook returns every stored preference of one book, ordered by
// key for stable output.
func (r *Repository) ListForBook(bookID int) ([]entities.DisplayPreference, error) {
	var prefs []entities.DisplayPreference
	err := r.db.
		Where("book_id = ?", bookID).
		Order("key ASC").
		Find(&prefs).Error
	return prefs, err
}
