// Package highlights implements the highlight store and its
// reconciliation engine. The client periodically sends a full snapshot
// of one page's highlights; SaveSnapshot stores the blob verbatim and
// rebuilds the normalized rows to match it without losing notes that
// were attached store-side in the meantime.
package highlights

import (
	"fmt"
	"log"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lectern/readerdata/internal/catalog"
	"github.com/lectern/readerdata/internal/entities"
	"github.com/lectern/readerdata/internal/snapshot"
)

// Repository handles all highlight database operations.
type Repository struct {
	db    *gorm.DB
	pages catalog.PageResolver
}

// NewRepository creates a new highlight repository.
func NewRepository(db *gorm.DB, pages catalog.PageResolver) *Repository {
	return &Repository{db: db, pages: pages}
}

// SaveSnapshot is the single write entry point for a page's highlight
// set.
//
// The blob is first stored verbatim, replacing the previous snapshot
// for the page. That write commits on its own: the raw snapshot is the
// record of what the client last sent and must survive even when the
// normalization below fails. The decoded candidates are then reconciled
// against the stored rows in one transaction: rows whose highlight id is
// absent from the snapshot are deleted (the user removed them), and
// every candidate is inserted with insert-ignore so rows that already
// exist keep their attached note text, which the snapshot never carries.
//
// A failed transaction is rolled back, logged and reported once; the
// already-committed blob means the normalized rows self-heal on the
// next successful save of the same page.
func (r *Repository) SaveSnapshot(bookID, pageID int, blob string) error {
	snap := entities.HighlightSnapshot{BookID: bookID, PageID: pageID, Blob: blob}
	err := r.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&snap).Error
	if err != nil {
		return fmt.Errorf("store snapshot blob: %w", err)
	}

	entries, err := snapshot.Decode(blob)
	if err != nil {
		return err
	}

	ids := make([]int, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.HighlightID)
	}

	err = r.db.Transaction(func(tx *gorm.DB) error {
		stale := tx.Where("book_id = ? AND page_id = ?", bookID, pageID)
		if len(ids) > 0 {
			stale = stale.Where("highlight_id NOT IN ?", ids)
		}
		if err := stale.Delete(&entities.Highlight{}).Error; err != nil {
			return err
		}

		for _, entry := range entries {
			row := entities.Highlight{
				BookID:             bookID,
				PageID:             pageID,
				HighlightID:        entry.HighlightID,
				ClassName:          entry.ClassName,
				ContainerElementID: entry.ContainerElementID,
				Text:               entry.Text,
				Timestamp:          entry.Timestamp,
			}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("Reconcile highlights failed (book=%d page=%d): %v", bookID, pageID, err)
		return fmt.Errorf("reconcile highlights: %w", err)
	}
	return nil
}

// GetSnapshot returns the raw blob last saved for the page, or the
// empty string when the page was never saved.
func (r *Repository) GetSnapshot(bookID, pageID int) (string, error) {
	var snap entities.HighlightSnapshot
	err := r.db.
		Where("book_id = ? AND page_id = ?", bookID, pageID).
		First(&snap).Error
	if err == gorm.ErrRecordNotFound {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return snap.Blob, nil
}

// AddNote attaches the highlight's note text to the stored row, keyed
// by (book, page, highlight id). Only the note column is touched. A
// highlight carrying no note is a no-op.
func (r *Repository) AddNote(highlight entities.Highlight) error {
	if !highlight.HasNote() {
		return nil
	}
	return r.db.Model(&entities.Highlight{}).
		Where("book_id = ? AND page_id = ? AND highlight_id = ?",
			highlight.BookID, highlight.PageID, highlight.HighlightID).
		Update("note_text", highlight.NoteText).Error
}

// GetByID returns one enriched highlight, or gorm.ErrRecordNotFound.
func (r *Repository) GetByID(bookID, pageID, highlightID int) (*entities.Highlight, error) {
	var row entities.Highlight
	err := r.db.
		Where("book_id = ? AND page_id = ? AND highlight_id = ?", bookID, pageID, highlightID).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	if err := r.enrich(&row); err != nil {
		return nil, err
	}
	return &row, nil
}

// ListAll returns every highlight of the book ordered by page id, each
// enriched with page numbering and section title from the catalog.
func (r *Repository) ListAll(bookID int) ([]entities.Highlight, error) {
	var rows []entities.Highlight
	err := r.db.
		Where("book_id = ?", bookID).
		Order("page_id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if err := r.enrich(&rows[i]); err != nil {
			return nil, err
		}
	}
	return rows, nil
}

func (r *Repository) enrich(row *entities.Highlight) error {
	info, err := r.pages.PageInfoByID(row.BookID, row.PageID)
	if err != nil {
		return err
	}
	title, err := r.pages.SectionTitle(row.BookID, row.PageID)
	if err != nil {
		return err
	}
	row.PageNumber = info.PageNumber
	row.PartNumber = info.PartNumber
	row.SectionTitle = title
	return nil
}
