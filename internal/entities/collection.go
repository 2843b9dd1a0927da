package entities

// CollectionKind says how a collection's book list is obtained.
type CollectionKind string

const (
	// KindExplicit collections are stored join-table memberships.
	KindExplicit CollectionKind = "explicit"
	// KindMostRecent lists books by last-opened time, newest first.
	KindMostRecent CollectionKind = "most_recent"
	// KindMostOpened lists books by open count, highest first.
	KindMostOpened CollectionKind = "most_opened"
	// KindRecentDownloads delegates to the download-tracking source.
	KindRecentDownloads CollectionKind = "recent_downloads"
	// KindUnknown covers automatic ids this build does not know.
	// Resolvers must treat it as an empty collection, not an error.
	KindUnknown CollectionKind = "unknown"
)

// Stored automatic ids. New ids added by future schema versions resolve
// to KindUnknown until a kind is assigned here.
const (
	AutomaticMostRecent      = 1
	AutomaticMostOpened      = 2
	AutomaticRecentDownloads = 3
)

// Collection is a named grouping of books. AutomaticID is nil for
// user-defined collections; automatic collections never have membership
// rows, their book list is computed at read time.
type Collection struct {
	ID           int    `gorm:"column:collection_id;primaryKey;autoIncrement" json:"id"`
	Name         string `gorm:"column:name" json:"name"`
	DisplayOrder int    `gorm:"column:display_order" json:"display_order"`
	Visible      bool   `gorm:"column:visible" json:"visible"`
	AutomaticID  *int   `gorm:"column:automatic_id" json:"automatic_id,omitempty"`
}

func (Collection) TableName() string { return "books_collections" }

func (c Collection) IsAutomatic() bool { return c.AutomaticID != nil }

// Kind maps the stored automatic id onto the resolution variant.
func (c Collection) Kind() CollectionKind {
	if c.AutomaticID == nil {
		return KindExplicit
	}
	switch *c.AutomaticID {
	case AutomaticMostRecent:
		return KindMostRecent
	case AutomaticMostOpened:
		return KindMostOpened
	case AutomaticRecentDownloads:
		return KindRecentDownloads
	default:
		return KindUnknown
	}
}

// CollectionMember links one book into one explicit collection.
type CollectionMember struct {
	CollectionID int `gorm:"column:collection_id;primaryKey" json:"collection_id"`
	BookID       int `gorm:"column:book_id;primaryKey" json:"book_id"`
}

func (CollectionMember) TableName() string { return "books_collection_members" }

// BookListing is a catalog row returned by collection resolution and
// filtered book queries. Title and author live in the book-content
// catalog, not in this store.
type BookListing struct {
	BookID int    `gorm:"column:book_id" json:"book_id"`
	Title  string `gorm:"column:title" json:"title"`
	Author string `gorm:"column:author" json:"author,omitempty"`
}
