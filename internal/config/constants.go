package config

const (
	DefaultDatabasePath = "./user_data.db"
	DefaultCatalogPath  = "./books_catalog.db"
)

// SeedCollection describes one collection inserted when the collection
// tables first appear (schema version 2). AutomaticID 0 means a plain
// user collection.
type SeedCollection struct {
	Name        string
	AutomaticID int
}

// DefaultCollections are seeded exactly once at the version-2 migration:
// the three automatic collections plus an empty "Favourites".
var DefaultCollections = []SeedCollection{
	{Name: "Recently Opened", AutomaticID: 1},
	{Name: "Most Opened", AutomaticID: 2},
	{Name: "Recent Downloads", AutomaticID: 3},
	{Name: "Favourites"},
}
