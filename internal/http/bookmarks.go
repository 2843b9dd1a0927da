package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lectern/readerdata/internal/database/bookmarks"
	"github.com/lectern/readerdata/internal/entities"
)

// BookmarkStore defines database operations for bookmark management.
type BookmarkStore interface {
	Add(bookID, pageID int) error
	Remove(bookID, pageID int) error
	IsBookmarked(bookID, pageID int) (bool, error)
	ListAll(bookID int, order string) ([]entities.Bookmark, error)
}

type BookmarksController struct {
	store BookmarkStore
}

func NewBookmarksController(store BookmarkStore) *BookmarksController {
	return &BookmarksController{store: store}
}

// AddBookmark bookmarks a page
// POST /api/books/:bookID/bookmarks
func (bc *BookmarksController) AddBookmark(c *gin.Context) {
	bookID, ok := parseIntParam(c, "bookID")
	if !ok {
		return
	}
	var req struct {
		PageID int `json:"page_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "page_id is required")
		return
	}

	if err := bc.store.Add(bookID, req.PageID); err != nil {
		respondInternalError(c, err, "add bookmark")
		return
	}
	respondCreated(c, gin.H{"book_id": bookID, "page_id": req.PageID})
}

// RemoveBookmark deletes all bookmarks on a page
// DELETE /api/books/:bookID/bookmarks/:pageID
func (bc *BookmarksController) RemoveBookmark(c *gin.Context) {
	bookID, ok := parseIntParam(c, "bookID")
	if !ok {
		return
	}
	pageID, ok := parseIntParam(c, "pageID")
	if !ok {
		return
	}

	if err := bc.store.Remove(bookID, pageID); err != nil {
		respondInternalError(c, err, "remove bookmark")
		return
	}
	respondSuccess(c, "bookmark removed")
}

// IsBookmarked probes a single page
// GET /api/books/:bookID/bookmarks/:pageID
func (bc *BookmarksController) IsBookmarked(c *gin.Context) {
	bookID, ok := parseIntParam(c, "bookID")
	if !ok {
		return
	}
	pageID, ok := parseIntParam(c, "pageID")
	if !ok {
		return
	}

	marked, err := bc.store.IsBookmarked(bookID, pageID)
	if err != nil {
		respondInternalError(c, err, "bookmark lookup")
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookmarked": marked})
}

// ListBookmarks lists a book's bookmarks, enriched with page numbers
// and section titles
// GET /api/books/:bookID/bookmarks?order=page_id|timestamp
func (bc *BookmarksController) ListBookmarks(c *gin.Context) {
	bookID, ok := parseIntParam(c, "bookID")
	if !ok {
		return
	}
	order := c.DefaultQuery("order", bookmarks.OrderByPageID)

	marks, err := bc.store.ListAll(bookID, order)
	if errors.Is(err, bookmarks.ErrInvalidOrder) {
		respondBadRequest(c, err.Error())
		return
	}
	if err != nil {
		respondInternalError(c, err, "list bookmarks")
		return
	}
	c.JSON(http.StatusOK, marks)
}
