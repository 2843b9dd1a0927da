package entities

// Highlight is one normalized highlight row rebuilt from a page
// snapshot. HighlightID is assigned by the client and only unique
// within (book, page); RowID is the store's surrogate key.
type Highlight struct {
	RowID              int64   `gorm:"column:row_id;primaryKey;autoIncrement" json:"row_id"`
	BookID             int     `gorm:"column:book_id" json:"book_id"`
	PageID             int     `gorm:"column:page_id" json:"page_id"`
	HighlightID        int     `gorm:"column:highlight_id" json:"highlight_id"`
	ClassName          string  `gorm:"column:class_name" json:"class_name"`
	ContainerElementID int     `gorm:"column:container_element_id" json:"container_element_id"`
	Text               string  `gorm:"column:text" json:"text"`
	Timestamp          string  `gorm:"column:timestamp" json:"timestamp"`
	NoteText           *string `gorm:"column:note_text" json:"note_text,omitempty"`

	// Resolved from the book-content catalog, never stored here.
	PageNumber   int    `gorm:"-" json:"page_number"`
	PartNumber   int    `gorm:"-" json:"part_number"`
	SectionTitle string `gorm:"-" json:"section_title"`
}

func (Highlight) TableName() string { return "highlights" }

// HasNote reports whether a note is attached. A cleared note (empty
// string) still counts as a note; only a nil pointer means "none".
func (h Highlight) HasNote() bool { return h.NoteText != nil }

// HighlightSnapshot keeps the raw blob the client last sent for a page,
// verbatim. One row per (book, page), overwritten wholesale on save;
// it stays readable even if the normalized rows lag behind.
type HighlightSnapshot struct {
	BookID int    `gorm:"column:book_id;primaryKey" json:"book_id"`
	PageID int    `gorm:"column:page_id;primaryKey" json:"page_id"`
	Blob   string `gorm:"column:blob" json:"blob"`
}

func (HighlightSnapshot) TableName() string { return "serialized_highlights" }
