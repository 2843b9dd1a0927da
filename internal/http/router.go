package http

import (
	"github.com/gin-gonic/gin"
)

// RouterConfig carries every controller dependency so the router can be
// assembled in one place and exercised directly from tests.
type RouterConfig struct {
	Bookmarks   BookmarkStore
	Highlights  HighlightStore
	Preferences PreferenceStore
	Access      AccessStore
	Collections CollectionStore
	Health      *HealthController
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	if cfg.Health != nil {
		router.GET("/health", cfg.Health.Status)
	}

	api := router.Group("/api")

	bookmarksController := NewBookmarksController(cfg.Bookmarks)
	api.POST("/books/:bookID/bookmarks", bookmarksController.AddBookmark)
	api.GET("/books/:bookID/bookmarks", bookmarksController.ListBookmarks)
	api.GET("/books/:bookID/bookmarks/:pageID", bookmarksController.IsBookmarked)
	api.DELETE("/books/:bookID/bookmarks/:pageID", bookmarksController.RemoveBookmark)

	highlightsController := NewHighlightsController(cfg.Highlights)
	api.PUT("/books/:bookID/pages/:pageID/highlights", highlightsController.SaveSnapshot)
	api.GET("/books/:bookID/pages/:pageID/highlights/raw", highlightsController.GetSnapshot)
	api.GET("/books/:bookID/pages/:pageID/highlights/:highlightID", highlightsController.GetHighlight)
	api.POST("/books/:bookID/pages/:pageID/highlights/:highlightID/note", highlightsController.AddNote)
	api.GET("/books/:bookID/highlights", highlightsController.ListHighlights)

	preferencesController := NewPreferencesController(cfg.Preferences)
	api.GET("/books/:bookID/preferences", preferencesController.ListPreferences)
	api.GET("/books/:bookID/preferences/:key", preferencesController.GetPreference)
	api.PUT("/books/:bookID/preferences/:key", preferencesController.SetPreference)

	readingController := NewReadingController(cfg.Access)
	api.POST("/books/:bookID/opened", readingController.BookOpened)
	api.POST("/books/:bookID/pages/:pageID/opened", readingController.PageOpened)
	api.GET("/books/:bookID/position", readingController.LastPosition)

	collectionsController := NewCollectionsController(cfg.Collections)
	api.GET("/collections", collectionsController.ListCollections)
	api.POST("/collections", collectionsController.CreateCollection)
	api.PATCH("/collections/:id", collectionsController.UpdateCollection)
	api.DELETE("/collections/:id", collectionsController.DeleteCollection)
	api.GET("/collections/:id/books", collectionsController.ListMembers)
	api.PUT("/collections/:id/books/:bookID", collectionsController.AddMember)
	api.DELETE("/collections/:id/books/:bookID", collectionsController.RemoveMember)

	return router
}
