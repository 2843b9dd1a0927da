// Package catalog is the boundary to the external book-content store:
// page numbering, section titles and book listings live there, not in
// the user-data store. Repositories depend on the small interfaces
// below; the sqlite implementation in this package is the only code
// that combines the two stores' schemas.
package catalog

import (
	"github.com/lectern/readerdata/internal/entities"
)

// PageResolver answers per-page lookups used to enrich bookmarks and
// highlights. A missing page is an error: the annotation store and the
// catalog are kept referentially consistent by external contract, so a
// failed lookup is a defect to surface, not a case to paper over.
type PageResolver interface {
	PageInfoByID(bookID, pageID int) (entities.PageInfo, error)
	SectionTitle(bookID, pageID int) (string, error)
	FirstPage(bookID int) (entities.PageInfo, error)
}

// BookLister runs a filtered, sorted book query that joins catalog rows
// against a table of the attached user-data schema. All column
// references in where/orderBy must be fully qualified.
type BookLister interface {
	FilteredBooks(joinTable, joinColumn string, args []any, where, orderBy string) ([]entities.BookListing, error)
}

// DownloadSource lists recently downloaded books, newest first,
// starting at offset.
type DownloadSource interface {
	RecentDownloads(offset int) ([]entities.BookListing, error)
}
