package entities

// PageInfo identifies a physical page inside a book together with its
// display numbering. Page ids are assigned by the book-content catalog;
// part/page numbers are what the reader shows to the user.
type PageInfo struct {
	PageID     int `json:"page_id"`
	PartNumber int `json:"part_number"`
	PageNumber int `json:"page_number"`
}
