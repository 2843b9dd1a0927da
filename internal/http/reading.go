package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lectern/readerdata/internal/entities"
)

// AccessStore defines database operations for reading telemetry.
type AccessStore interface {
	LogBookOpened(bookID int) error
	LogPageOpened(bookID int, page entities.PageInfo) error
	GetLastPosition(bookID int) (entities.PageInfo, error)
}

// ReadingController exposes open-telemetry logging and the last
// reading position.
type ReadingController struct {
	store AccessStore
}

func NewReadingController(store AccessStore) *ReadingController {
	return &ReadingController{store: store}
}

// BookOpened logs a book open
// POST /api/books/:bookID/opened
func (rc *ReadingController) BookOpened(c *gin.Context) {
	bookID, ok := parseIntParam(c, "bookID")
	if !ok {
		return
	}

	if err := rc.store.LogBookOpened(bookID); err != nil {
		respondInternalError(c, err, "log book opened")
		return
	}
	respondSuccess(c, "book open logged")
}

// PageOpened logs a page open with its display numbering
// POST /api/books/:bookID/pages/:pageID/opened
func (rc *ReadingController) PageOpened(c *gin.Context) {
	bookID, ok := parseIntParam(c, "bookID")
	if !ok {
		return
	}
	pageID, ok := parseIntParam(c, "pageID")
	if !ok {
		return
	}
	var req struct {
		PartNumber int `json:"part_number"`
		PageNumber int `json:"page_number"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid page payload")
		return
	}

	page := entities.PageInfo{
		PageID:     pageID,
		PartNumber: req.PartNumber,
		PageNumber: req.PageNumber,
	}
	if err := rc.store.LogPageOpened(bookID, page); err != nil {
		respondInternalError(c, err, "log page opened")
		return
	}
	respondSuccess(c, "page open logged")
}

// LastPosition returns where the reader left off; a book never opened
// resolves to its first page.
// GET /api/books/:bookID/position
func (rc *ReadingController) LastPosition(c *gin.Context) {
	bookID, ok := parseIntParam(c, "bookID")
	if !ok {
		return
	}

	position, err := rc.store.GetLastPosition(bookID)
	if err != nil {
		respondInternalError(c, err, "last reading position")
		return
	}
	c.JSON(http.StatusOK, position)
}
