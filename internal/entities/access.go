package entities

// AccessInfo is the per-book reading telemetry row: how often the book
// was opened and where the reader last was. At most one row per book,
// created lazily on first open and never deleted.
type AccessInfo struct {
	BookID               int     `gorm:"column:book_id;primaryKey" json:"book_id"`
	AccessCount          int     `gorm:"column:access_count" json:"access_count"`
	LastOpenedPageID     *int    `gorm:"column:last_opened_page_id" json:"last_opened_page_id,omitempty"`
	LastOpenedPartNumber *int    `gorm:"column:last_opened_part_number" json:"last_opened_part_number,omitempty"`
	LastOpenedPageNumber *int    `gorm:"column:last_opened_page_number" json:"last_opened_page_number,omitempty"`
	LastOpenedTimestamp  *string `gorm:"column:last_opened_timestamp" json:"last_opened_timestamp,omitempty"`
}

func (AccessInfo) TableName() string { return "access_information" }
