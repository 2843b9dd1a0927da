// Command generate_demo creates a demo catalog and user-data pair with
// sample data from public domain books.
// Usage: go run cmd/generate_demo/main.go [-db path] [-catalog path]
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/lectern/readerdata/internal/catalog"
	"github.com/lectern/readerdata/internal/database"
	"github.com/lectern/readerdata/internal/database/access"
	"github.com/lectern/readerdata/internal/database/bookmarks"
	"github.com/lectern/readerdata/internal/database/highlights"
	"github.com/lectern/readerdata/internal/database/preferences"
	"github.com/lectern/readerdata/internal/entities"
	"github.com/lectern/readerdata/internal/snapshot"
)

const (
	defaultDemoDatabasePath = "./demo/user_data.db"
	defaultDemoCatalogPath  = "./demo/books_catalog.db"
)

type demoBook struct {
	book       entities.BookListing
	pages      int
	downloaded string
}

var demoBooks = []demoBook{
	{book: entities.BookListing{BookID: 1, Title: "Moby-Dick", Author: "Herman Melville"}, pages: 24, downloaded: "2024-01-02 10:00:00"},
	{book: entities.BookListing{BookID: 2, Title: "Pride and Prejudice", Author: "Jane Austen"}, pages: 18, downloaded: "2024-01-09 18:30:00"},
	{book: entities.BookListing{BookID: 3, Title: "The Time Machine", Author: "H. G. Wells"}, pages: 12, downloaded: "2024-01-05 08:15:00"},
}

func main() {
	dbPath := flag.String("db", defaultDemoDatabasePath, "path to the demo user-data file")
	catalogPath := flag.String("catalog", defaultDemoCatalogPath, "path to the demo catalog file")
	flag.Parse()

	log.Printf("Generating demo databases at %s / %s...", *dbPath, *catalogPath)

	for _, path := range []string{*dbPath, *catalogPath} {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			log.Fatalf("Failed to create demo directory for %s: %v", path, err)
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Fatalf("Failed to remove existing demo file %s: %v", path, err)
		}
	}

	books, err := catalog.NewDatabase(*catalogPath)
	if err != nil {
		log.Fatalf("Failed to create demo catalog: %v", err)
	}
	defer books.Close()

	db, err := database.NewDatabase(*dbPath)
	if err != nil {
		log.Fatalf("Failed to create demo user-data store: %v", err)
	}
	defer db.Close()

	if err := books.AttachUserData(*dbPath); err != nil {
		log.Fatalf("Failed to attach user-data store: %v", err)
	}

	seedCatalog(books)
	seedUserData(db, books)

	log.Printf("Demo databases generated")
}

func seedCatalog(books *catalog.Database) {
	for _, demo := range demoBooks {
		if err := books.AddBook(demo.book); err != nil {
			log.Fatalf("Failed to add book %q: %v", demo.book.Title, err)
		}
		for p := 1; p <= demo.pages; p++ {
			page := entities.PageInfo{PageID: p, PageNumber: p, PartNumber: 1 + p/10}
			title := fmt.Sprintf("Chapter %d", 1+(p-1)/4)
			if err := books.AddPage(demo.book.BookID, page, title); err != nil {
				log.Fatalf("Failed to add page %d of %q: %v", p, demo.book.Title, err)
			}
		}
		if err := books.RecordDownload(demo.book.BookID, demo.downloaded); err != nil {
			log.Fatalf("Failed to record download of %q: %v", demo.book.Title, err)
		}
		log.Printf("Cataloged: %s by %s (%d pages)", demo.book.Title, demo.book.Author, demo.pages)
	}
}

func seedUserData(db *database.Database, books *catalog.Database) {
	marks := bookmarks.NewRepository(db.DB, books)
	prefs := preferences.NewRepository(db.DB)
	telemetry := access.NewRepository(db.DB, books)
	annotations := highlights.NewRepository(db.DB, books)

	for _, demo := range demoBooks {
		if err := marks.Add(demo.book.BookID, 3); err != nil {
			log.Fatalf("Failed to bookmark: %v", err)
		}
		if err := prefs.Set(demo.book.BookID, "font_size", "14"); err != nil {
			log.Fatalf("Failed to set preference: %v", err)
		}
		for i := 0; i <= demo.book.BookID; i++ {
			page := entities.PageInfo{PageID: 2 + i, PageNumber: 2 + i, PartNumber: 1}
			if err := telemetry.LogPageOpened(demo.book.BookID, page); err != nil {
				log.Fatalf("Failed to log page open: %v", err)
			}
			time.Sleep(25 * time.Millisecond)
		}
	}

	blob, err := snapshot.Encode([]snapshot.Entry{
		{HighlightID: 1, ClassName: "yellow", ContainerElementID: 4, Text: "Call me Ishmael.", Timestamp: "2024-01-03 21:12:00"},
		{HighlightID: 2, ClassName: "blue", ContainerElementID: 9, Text: "the watery part of the world", Timestamp: "2024-01-03 21:14:00"},
	})
	if err != nil {
		log.Fatalf("Failed to encode demo snapshot: %v", err)
	}
	if err := annotations.SaveSnapshot(1, 2, blob); err != nil {
		log.Fatalf("Failed to save demo highlights: %v", err)
	}
	note := "Famous opening line."
	err = annotations.AddNote(entities.Highlight{BookID: 1, PageID: 2, HighlightID: 1, NoteText: &note})
	if err != nil {
		log.Fatalf("Failed to attach demo note: %v", err)
	}
}
