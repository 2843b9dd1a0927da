package entities

// Bookmark marks a single page in a book. Duplicates per (book, page)
// are allowed and harmless; bookmarks are only ever created and deleted.
type Bookmark struct {
	BookID    int    `gorm:"column:book_id;index" json:"book_id"`
	PageID    int    `gorm:"column:page_id" json:"page_id"`
	Timestamp string `gorm:"column:timestamp" json:"timestamp"`

	// Resolved from the book-content catalog, never stored here.
	PageNumber   int    `gorm:"-" json:"page_number"`
	PartNumber   int    `gorm:"-" json:"part_number"`
	SectionTitle string `gorm:"-" json:"section_title"`
}

func (Bookmark) TableName() string { return "bookmarks" }
