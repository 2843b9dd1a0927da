package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/lectern/readerdata/internal/entities"
)

// HighlightStore defines database operations for highlight management.
type HighlightStore interface {
	SaveSnapshot(bookID, pageID int, blob string) error
	GetSnapshot(bookID, pageID int) (string, error)
	AddNote(highlight entities.Highlight) error
	GetByID(bookID, pageID, highlightID int) (*entities.Highlight, error)
	ListAll(bookID int) ([]entities.Highlight, error)
}

type HighlightsController struct {
	store HighlightStore
}

func NewHighlightsController(store HighlightStore) *HighlightsController {
	return &HighlightsController{store: store}
}

// SaveSnapshot replaces a page's highlight set from a snapshot blob
// PUT /api/books/:bookID/pages/:pageID/highlights
func (hc *HighlightsController) SaveSnapshot(c *gin.Context) {
	bookID, ok := parseIntParam(c, "bookID")
	if !ok {
		return
	}
	pageID, ok := parseIntParam(c, "pageID")
	if !ok {
		return
	}
	var req struct {
		Blob string `json:"blob" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "blob is required")
		return
	}

	if err := hc.store.SaveSnapshot(bookID, pageID, req.Blob); err != nil {
		respondInternalError(c, err, "save highlight snapshot")
		return
	}
	respondSuccess(c, "highlights saved")
}

// GetSnapshot returns the raw blob last saved for a page
// GET /api/books/:bookID/pages/:pageID/highlights/raw
func (hc *HighlightsController) GetSnapshot(c *gin.Context) {
	bookID, ok := parseIntParam(c, "bookID")
	if !ok {
		return
	}
	pageID, ok := parseIntParam(c, "pageID")
	if !ok {
		return
	}

	blob, err := hc.store.GetSnapshot(bookID, pageID)
	if err != nil {
		respondInternalError(c, err, "get highlight snapshot")
		return
	}
	c.JSON(http.StatusOK, gin.H{"blob": blob})
}

// AddNote attaches a note to a highlight
// POST /api/books/:bookID/pages/:pageID/highlights/:highlightID/note
func (hc *HighlightsController) AddNote(c *gin.Context) {
	bookID, ok := parseIntParam(c, "bookID")
	if !ok {
		return
	}
	pageID, ok := parseIntParam(c, "pageID")
	if !ok {
		return
	}
	highlightID, ok := parseIntParam(c, "highlightID")
	if !ok {
		return
	}
	var req struct {
		NoteText string `json:"note_text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid note payload")
		return
	}

	highlight := entities.Highlight{
		BookID:      bookID,
		PageID:      pageID,
		HighlightID: highlightID,
		NoteText:    &req.NoteText,
	}
	if err := hc.store.AddNote(highlight); err != nil {
		respondInternalError(c, err, "add note to highlight")
		return
	}
	respondSuccess(c, "note saved")
}

// GetHighlight returns one enriched highlight
// GET /api/books/:bookID/pages/:pageID/highlights/:highlightID
func (hc *HighlightsController) GetHighlight(c *gin.Context) {
	bookID, ok := parseIntParam(c, "bookID")
	if !ok {
		return
	}
	pageID, ok := parseIntParam(c, "pageID")
	if !ok {
		return
	}
	highlightID, ok := parseIntParam(c, "highlightID")
	if !ok {
		return
	}

	highlight, err := hc.store.GetByID(bookID, pageID, highlightID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondNotFound(c, "highlight")
		return
	}
	if err != nil {
		respondInternalError(c, err, "get highlight")
		return
	}
	c.JSON(http.StatusOK, highlight)
}

// ListHighlights lists all enriched highlights of a book
// GET /api/books/:bookID/highlights
func (hc *HighlightsController) ListHighlights(c *gin.Context) {
	bookID, ok := parseIntParam(c, "bookID")
	if !ok {
		return
	}

	rows, err := hc.store.ListAll(bookID)
	if err != nil {
		respondInternalError(c, err, "list highlights")
		return
	}
	c.JSON(http.StatusOK, rows)
}
