// Package access provides database operations for the per-book reading
// telemetry: open counters and the last reading position. Automatic
// collections ("recently opened", "most opened") are computed from
// these rows at query time.
package access

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lectern/readerdata/internal/catalog"
	"github.com/lectern/readerdata/internal/entities"
)

const timeLayout = "2006-01-02 15:04:05"

// Repository handles all access-information database operations.
type Repository struct {
	db    *gorm.DB
	pages catalog.PageResolver
}

// NewRepository creates a new access-information repository.
func NewRepository(db *gorm.DB, pages catalog.PageResolver) *Repository {
	return &Repository{db: db, pages: pages}
}

// ensureRow lazily creates the book's telemetry row. Insert-ignore: an
// existing row is left untouched.
func (r *Repository) ensureRow(bookID int) error {
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&entities.AccessInfo{BookID: bookID}).Error
}

// LogBookOpened bumps the book's open counter, creating the telemetry
// row on first open.
func (r *Repository) LogBookOpened(bookID int) error {
	if err := r.ensureRow(bookID); err != nil {
		return err
	}
	return r.db.Exec(
		`UPDATE access_information SET access_count = access_count + 1 WHERE book_id = ?`,
		bookID,
	).Error
}

// LogPageOpened bumps the open counter and overwrites the last-opened
// position with the given page and a fresh timestamp.
func (r *Repository) LogPageOpened(bookID int, page entities.PageInfo) error {
	if err := r.LogBookOpened(bookID); err != nil {
		return err
	}
	return r.db.Exec(
		`UPDATE access_information
		 SET last_opened_page_id = ?, last_opened_part_number = ?, last_opened_page_number = ?, last_opened_timestamp = ?
		 WHERE book_id = ?`,
		page.PageID, page.PartNumber, page.PageNumber, time.Now().Format(timeLayout), bookID,
	).Error
}

// GetLastPosition returns the page the reader last opened. A book with
// no telemetry row, or one whose stored page id is null, falls back to
// the catalog's first page, so "never opened" reads the same as
// "first-time open".
func (r *Repository) GetLastPosition(bookID int) (entities.PageInfo, error) {
	var info entities.AccessInfo
	err := r.db.First(&info, "book_id = ?", bookID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && info.LastOpenedPageID == nil) {
		return r.pages.FirstPage(bookID)
	}
	if err != nil {
		return entities.PageInfo{}, err
	}
	return entities.PageInfo{
		PageID:     *info.LastOpenedPageID,
		PartNumber: derefOrZero(info.LastOpenedPartNumber),
		PageNumber: derefOrZero(info.LastOpenedPageNumber),
	}, nil
}

// Get returns the raw telemetry row, or gorm.ErrRecordNotFound for a
// book that was never opened.
func (r *Repository) Get(bookID int) (*entities.AccessInfo, error) {
	var info entities.AccessInfo
	if err := r.db.First(&info, "book_id = ?", bookID).Error; err != nil {
		return nil, err
	}
	return &info, nil
}

func derefOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
