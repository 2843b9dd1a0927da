// Package collections provides database operations for book
// collections. Explicit collections are stored join-table memberships;
// automatic collections (recently opened, most opened, recent
// downloads) are computed from telemetry or the download source at
// resolution time and never have membership rows.
package collections

import (
	"errors"
	"fmt"

	sqlite3 "github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lectern/readerdata/internal/catalog"
	"github.com/lectern/readerdata/internal/entities"
)

var (
	// ErrDuplicateName is returned when a collection name is taken.
	ErrDuplicateName = errors.New("collection name already exists")
	// ErrAutomaticCollection is returned for mutations that only make
	// sense on user-defined collections.
	ErrAutomaticCollection = errors.New("automatic collections cannot be modified")
)

// Repository handles collection storage and membership resolution.
type Repository struct {
	db        *gorm.DB
	books     catalog.BookLister
	downloads catalog.DownloadSource
}

// NewRepository creates a new collections repository.
func NewRepository(db *gorm.DB, books catalog.BookLister, downloads catalog.DownloadSource) *Repository {
	return &Repository{db: db, books: books, downloads: downloads}
}

// List returns stored collections ordered by (display order, id),
// optionally restricted to visible ones.
func (r *Repository) List(visibleOnly bool) ([]entities.Collection, error) {
	query := r.db.Order("display_order ASC, collection_id ASC")
	if visibleOnly {
		query = query.Where("visible = ?", true)
	}
	var cols []entities.Collection
	err := query.Find(&cols).Error
	return cols, err
}

// GetByID returns one collection, or gorm.ErrRecordNotFound.
func (r *Repository) GetByID(id int) (*entities.Collection, error) {
	var col entities.Collection
	if err := r.db.First(&col, "collection_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &col, nil
}

// Create adds a user-defined collection, placed after the existing ones.
func (r *Repository) Create(name string) (*entities.Collection, error) {
	var maxOrder int
	err := r.db.Model(&entities.Collection{}).
		Select("COALESCE(MAX(display_order), 0)").
		Scan(&maxOrder).Error
	if err != nil {
		return nil, err
	}

	col := entities.Collection{Name: name, DisplayOrder: maxOrder + 1, Visible: true}
	if err := r.db.Create(&col).Error; err != nil {
		return nil, translateConstraint(err)
	}
	return &col, nil
}

// Rename changes a user-defined collection's name. Automatic
// collections keep their seeded names.
func (r *Repository) Rename(id int, name string) error {
	col, err := r.GetByID(id)
	if err != nil {
		return err
	}
	if col.IsAutomatic() {
		return ErrAutomaticCollection
	}
	err = r.db.Model(&entities.Collection{}).
		Where("collection_id = ?", id).
		Update("name", name).Error
	return translateConstraint(err)
}

// SetVisibility hides or shows a collection. Allowed for automatic
// collections too: hiding is how a user removes, say, "Most Opened"
// from the shelf without deleting its seeded row.
func (r *Repository) SetVisibility(id int, visible bool) error {
	result := r.db.Model(&entities.Collection{}).
		Where("collection_id = ?", id).
		Update("visible", visible)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes a user-defined collection together with its
// memberships. Automatic collections cannot be deleted.
func (r *Repository) Delete(id int) error {
	col, err := r.GetByID(id)
	if err != nil {
		return err
	}
	if col.IsAutomatic() {
		return ErrAutomaticCollection
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("collection_id = ?", id).Delete(&entities.CollectionMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entities.Collection{}, "collection_id = ?", id).Error
	})
}

// AddBook puts a book into an explicit collection. Duplicate adds are
// ignored. Automatic collections never take membership rows.
func (r *Repository) AddBook(collectionID, bookID int) error {
	col, err := r.GetByID(collectionID)
	if err != nil {
		return err
	}
	if col.IsAutomatic() {
		return ErrAutomaticCollection
	}
	member := entities.CollectionMember{CollectionID: collectionID, BookID: bookID}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&member).Error
}

// RemoveBook takes a book out of an explicit collection.
func (r *Repository) RemoveBook(collectionID, bookID int) error {
	return r.db.
		Where("collection_id = ? AND book_id = ?", collectionID, bookID).
		Delete(&entities.CollectionMember{}).Error
}

// ResolveMembers computes the collection's book list. Explicit
// collections join their membership rows against the catalog; automatic
// ones are telemetry or download-source queries. An automatic id this
// build does not know resolves to an empty list so future schema
// versions can seed new kinds without breaking old readers.
func (r *Repository) ResolveMembers(col entities.Collection) ([]entities.BookListing, error) {
	schema := catalog.UserDataSchema
	switch col.Kind() {
	case entities.KindExplicit:
		return r.books.FilteredBooks(
			"books_collection_members", "book_id",
			[]any{col.ID},
			fmt.Sprintf("%s.books_collection_members.collection_id = ?", schema),
			"",
		)
	case entities.KindMostRecent:
		return r.books.FilteredBooks(
			"access_information", "book_id",
			nil,
			fmt.Sprintf("%s.access_information.last_opened_timestamp IS NOT NULL", schema),
			fmt.Sprintf("%s.access_information.last_opened_timestamp DESC", schema),
		)
	case entities.KindMostOpened:
		return r.books.FilteredBooks(
			"access_information", "book_id",
			nil,
			fmt.Sprintf("%s.access_information.access_count IS NOT NULL", schema),
			fmt.Sprintf("%s.access_information.access_count DESC", schema),
		)
	case entities.KindRecentDownloads:
		return r.downloads.RecentDownloads(0)
	default:
		return []entities.BookListing{}, nil
	}
}

// translateConstraint maps sqlite unique-constraint violations on the
// collection name onto ErrDuplicateName.
func translateConstraint(err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return ErrDuplicateName
	}
	return err
}
