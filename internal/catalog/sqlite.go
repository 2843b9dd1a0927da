package catalog

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/lectern/readerdata/internal/entities"
)

// UserDataSchema is the schema name the user-data store is attached
// under. Filtered queries qualify annotation columns with it.
const UserDataSchema = "userdata"

// Database is the sqlite-backed book-content catalog. In production the
// reader ships this file prebuilt; the schema bootstrap below exists so
// demo and test catalogs can be grown from nothing.
type Database struct {
	db *gorm.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to catalog: %w", err)
	}

	statements := []string{
		`CREATE TABLE IF NOT EXISTS books (
			book_id INTEGER PRIMARY KEY,
			title TEXT NOT NULL,
			author TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS pages (
			book_id INTEGER NOT NULL,
			page_id INTEGER NOT NULL,
			page_number INTEGER NOT NULL,
			part_number INTEGER NOT NULL,
			section_title TEXT,
			PRIMARY KEY (book_id, page_id)
		)`,
		`CREATE TABLE IF NOT EXISTS downloads (
			book_id INTEGER PRIMARY KEY,
			downloaded_at TEXT NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return nil, fmt.Errorf("failed to create catalog schema: %w", err)
		}
	}

	return &Database{db: db}, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// AttachUserData attaches the user-data store file to this connection
// so one query can join catalog rows against annotation tables. Must be
// called once before any FilteredBooks query.
func (d *Database) AttachUserData(userDataPath string) error {
	err := d.db.Exec(
		fmt.Sprintf("ATTACH DATABASE ? AS %s", UserDataSchema), userDataPath,
	).Error
	if err != nil {
		return fmt.Errorf("attach user-data store: %w", err)
	}
	return nil
}

// FilteredBooks joins the books table against one attached user-data
// table and returns the matching catalog rows. joinTable and joinColumn
// are compile-time constants at every call site, never user input;
// where and orderBy reference fully qualified columns and args bind the
// where placeholders.
func (d *Database) FilteredBooks(joinTable, joinColumn string, args []any, where, orderBy string) ([]entities.BookListing, error) {
	query := fmt.Sprintf(
		"SELECT DISTINCT books.book_id, books.title, books.author FROM books JOIN %[1]s.%[2]s ON books.book_id = %[1]s.%[2]s.%[3]s",
		UserDataSchema, joinTable, joinColumn,
	)
	if where != "" {
		query += " WHERE " + where
	}
	if orderBy != "" {
		query += " ORDER BY " + orderBy
	}

	var books []entities.BookListing
	if err := d.db.Raw(query, args...).Scan(&books).Error; err != nil {
		return nil, fmt.Errorf("filtered books query: %w", err)
	}
	return books, nil
}

func (d *Database) PageInfoByID(bookID, pageID int) (entities.PageInfo, error) {
	var info entities.PageInfo
	result := d.db.Raw(
		`SELECT page_id, part_number, page_number FROM pages WHERE book_id = ? AND page_id = ?`,
		bookID, pageID,
	).Scan(&info)
	if result.Error != nil {
		return entities.PageInfo{}, fmt.Errorf("page info lookup: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return entities.PageInfo{}, fmt.Errorf("page info lookup book=%d page=%d: %w", bookID, pageID, gorm.ErrRecordNotFound)
	}
	return info, nil
}

func (d *Database) SectionTitle(bookID, pageID int) (string, error) {
	var title string
	result := d.db.Raw(
		`SELECT COALESCE(section_title, '') FROM pages WHERE book_id = ? AND page_id = ?`,
		bookID, pageID,
	).Scan(&title)
	if result.Error != nil {
		return "", fmt.Errorf("section title lookup: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return "", fmt.Errorf("section title lookup book=%d page=%d: %w", bookID, pageID, gorm.ErrRecordNotFound)
	}
	return title, nil
}

// FirstPage returns the opening page of a book, used as the reading
// position for books with no history.
func (d *Database) FirstPage(bookID int) (entities.PageInfo, error) {
	var info entities.PageInfo
	result := d.db.Raw(
		`SELECT page_id, part_number, page_number FROM pages WHERE book_id = ? ORDER BY page_id ASC LIMIT 1`,
		bookID,
	).Scan(&info)
	if result.Error != nil {
		return entities.PageInfo{}, fmt.Errorf("first page lookup: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return entities.PageInfo{}, fmt.Errorf("first page lookup book=%d: %w", bookID, gorm.ErrRecordNotFound)
	}
	return info, nil
}

func (d *Database) RecentDownloads(offset int) ([]entities.BookListing, error) {
	var books []entities.BookListing
	err := d.db.Raw(
		`SELECT books.book_id, books.title, books.author
		 FROM books JOIN downloads ON books.book_id = downloads.book_id
		 ORDER BY downloads.downloaded_at DESC LIMIT -1 OFFSET ?`,
		offset,
	).Scan(&books).Error
	if err != nil {
		return nil, fmt.Errorf("recent downloads query: %w", err)
	}
	return books, nil
}

// AddBook, AddPage and RecordDownload grow a catalog file. Production
// catalogs are shipped prebuilt; these exist for the demo generator and
// tests.

func (d *Database) AddBook(book entities.BookListing) error {
	return d.db.Exec(
		`INSERT OR REPLACE INTO books (book_id, title, author) VALUES (?, ?, ?)`,
		book.BookID, book.Title, book.Author,
	).Error
}

func (d *Database) AddPage(bookID int, page entities.PageInfo, sectionTitle string) error {
	return d.db.Exec(
		`INSERT OR REPLACE INTO pages (book_id, page_id, page_number, part_number, section_title)
		 VALUES (?, ?, ?, ?, ?)`,
		bookID, page.PageID, page.PageNumber, page.PartNumber, sectionTitle,
	).Error
}

func (d *Database) RecordDownload(bookID int, downloadedAt string) error {
	return d.db.Exec(
		`INSERT OR REPLACE INTO downloads (book_id, downloaded_at) VALUES (?, ?)`,
		bookID, downloadedAt,
	).Error
}
