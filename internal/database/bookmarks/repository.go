// Package bookmarks provides database operations for page bookmarks.
//
// # Usage
//
//	repo := bookmarks.NewRepository(db, pages)
//	marks, err := repo.ListAll(bookID, bookmarks.OrderByPageID)
package bookmarks

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/lectern/readerdata/internal/catalog"
	"github.com/lectern/readerdata/internal/entities"
)

// Valid ordering keys for ListAll. Anything else is rejected before the
// store is touched.
const (
	OrderByPageID    = "page_id"
	OrderByTimestamp = "timestamp"
)

// ErrInvalidOrder is returned for an unrecognized ListAll ordering key.
var ErrInvalidOrder = errors.New(`bookmark order must be "page_id" or "timestamp"`)

const timeLayout = "2006-01-02 15:04:05"

// Repository handles all bookmark database operations.
type Repository struct {
	db    *gorm.DB
	pages catalog.PageResolver
}

// NewRepository creates a new bookmark repository.
func NewRepository(db *gorm.DB, pages catalog.PageResolver) *Repository {
	return &Repository{db: db, pages: pages}
}

// Add records a bookmark on a page. Inserts unconditionally: a page
// bookmarked twice simply has two rows, which is harmless.
func (r *Repository) Add(bookID, pageID int) error {
	bookmark := entities.Bookmark{
		BookID:    bookID,
		PageID:    pageID,
		Timestamp: time.Now().Format(timeLayout),
	}
	return r.db.Create(&bookmark).Error
}

// Remove deletes every bookmark row for the page.
func (r *Repository) Remove(bookID, pageID int) error {
	return r.db.
		Where("book_id = ? AND page_id = ?", bookID, pageID).
		Delete(&entities.Bookmark{}).Error
}

// IsBookmarked reports whether the page has at least one bookmark.
func (r *Repository) IsBookmarked(bookID, pageID int) (bool, error) {
	var count int64
	err := r.db.Model(&entities.Bookmark{}).
		Where("book_id = ? AND page_id = ?", bookID, pageID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListAll returns the book's bookmarks ordered by the given key, each
// enriched with page numbering and section title from the catalog.
func (r *Repository) ListAll(bookID int, order string) ([]entities.Bookmark, error) {
	if order != OrderByPageID && order != OrderByTimestamp {
		return nil, ErrInvalidOrder
	}

	var marks []entities.Bookmark
	err := r.db.
		Where("book_id = ?", bookID).
		Order(order + " ASC").
		Find(&marks).Error
	if err != nil {
		return nil, err
	}

	for i := range marks {
		info, err := r.pages.PageInfoByID(bookID, marks[i].PageID)
		if err != nil {
			return nil, err
		}
		title, err := r.pages.SectionTitle(bookID, marks[i].PageID)
		if err != nil {
			return nil, err
		}
		marks[i].PageNumber = info.PageNumber
		marks[i].PartNumber = info.PartNumber
		marks[i].SectionTitle = title
	}
	return marks, nil
}
