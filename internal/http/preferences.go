package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lectern/readerdata/internal/entities"
)

// PreferenceStore defines database operations for display preferences.
type PreferenceStore interface {
	Get(bookID int, key, defaultValue string) (string, error)
	Set(bookID int, key, value string) error
	ListForBook(bookID int) ([]entities.DisplayPreference, error)
}

type PreferencesController struct {
	store PreferenceStore
}

func NewPreferencesController(store PreferenceStore) *PreferencesController {
	return &PreferencesController{store: store}
}

// GetPreference reads one preference. A missing key is seeded with the
// supplied default and returned, so reads can write.
// GET /api/books/:bookID/preferences/:key?default=...
func (pc *PreferencesController) GetPreference(c *gin.Context) {
	bookID, ok := parseIntParam(c, "bookID")
	if !ok {
		return
	}
	key := c.Param("key")

	value, err := pc.store.Get(bookID, key, c.Query("default"))
	if err != nil {
		respondInternalError(c, err, "get preference")
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key, "value": value})
}

// SetPreference upserts one preference
// PUT /api/books/:bookID/preferences/:key
func (pc *PreferencesController) SetPreference(c *gin.Context) {
	bookID, ok := parseIntParam(c, "bookID")
	if !ok {
		return
	}
	key := c.Param("key")
	var req struct {
		Value string `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid preference payload")
		return
	}

	if err := pc.store.Set(bookID, key, req.Value); err != nil {
		respondInternalError(c, err, "set preference")
		return
	}
	respondSuccess(c, "preference saved")
}

// ListPreferences lists a book's stored preferences
// GET /api/books/:bookID/preferences
func (pc *PreferencesController) ListPreferences(c *gin.Context) {
	bookID, ok := parseIntParam(c, "bookID")
	if !ok {
		return
	}

	prefs, err := pc.store.ListForBook(bookID)
	if err != nil {
		respondInternalError(c, err, "list preferences")
		return
	}
	c.JSON(http.StatusOK, prefs)
}
