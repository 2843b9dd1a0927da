package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lectern/readerdata/internal/catalog"
	"github.com/lectern/readerdata/internal/database"
	"github.com/lectern/readerdata/internal/database/access"
	"github.com/lectern/readerdata/internal/database/bookmarks"
	"github.com/lectern/readerdata/internal/database/collections"
	"github.com/lectern/readerdata/internal/database/highlights"
	"github.com/lectern/readerdata/internal/database/preferences"
	"github.com/lectern/readerdata/internal/entities"
	"github.com/lectern/readerdata/internal/snapshot"
)

// setupAPITest wires the full stack the way entrypoint.Run does: a real
// user-data store, a real catalog with the store attached, and the
// router on top.
func setupAPITest(t *testing.T) (*gin.Engine, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	name := strings.ReplaceAll(t.Name(), "/", "_")
	userPath := "./test_api_" + name + ".db"
	catalogPath := "./test_api_catalog_" + name + ".db"

	db, err := database.NewDatabase(userPath)
	require.NoError(t, err)

	cat, err := catalog.NewDatabase(catalogPath)
	require.NoError(t, err)
	require.NoError(t, cat.AttachUserData(userPath))

	require.NoError(t, cat.AddBook(entities.BookListing{BookID: 1, Title: "Moby-Dick", Author: "Melville"}))
	require.NoError(t, cat.AddPage(1, entities.PageInfo{PageID: 10, PartNumber: 1, PageNumber: 1}, "Loomings"))
	require.NoError(t, cat.AddPage(1, entities.PageInfo{PageID: 11, PartNumber: 1, PageNumber: 2}, "Loomings"))

	router := NewRouter(RouterConfig{
		Bookmarks:   bookmarks.NewRepository(db.DB, cat),
		Highlights:  highlights.NewRepository(db.DB, cat),
		Preferences: preferences.NewRepository(db.DB),
		Access:      access.NewRepository(db.DB, cat),
		Collections: collections.NewRepository(db.DB, cat, cat),
		Health:      NewHealthController(db, "test"),
	})

	cleanup := func() {
		cat.Close()
		db.Close()
		os.Remove(userPath)
		os.Remove(catalogPath)
	}
	return router, cleanup
}

func itoa(v int) string { return strconv.Itoa(v) }

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body == "" {
		req, _ = http.NewRequest(method, path, nil)
	} else {
		req, _ = http.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	router.ServeHTTP(w, req)
	return w
}

func TestBookmarkEndpoints(t *testing.T) {
	router, cleanup := setupAPITest(t)
	defer cleanup()

	w := doJSON(router, "POST", "/api/books/1/bookmarks", `{"page_id": 10}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(router, "GET", "/api/books/1/bookmarks/10", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"bookmarked": true}`, w.Body.String())

	w = doJSON(router, "GET", "/api/books/1/bookmarks", "")
	assert.Equal(t, http.StatusOK, w.Code)
	var marks []entities.Bookmark
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &marks))
	require.Len(t, marks, 1)
	assert.Equal(t, 10, marks[0].PageID)
	assert.Equal(t, "Loomings", marks[0].SectionTitle)

	w = doJSON(router, "DELETE", "/api/books/1/bookmarks/10", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, "GET", "/api/books/1/bookmarks/10", "")
	assert.JSONEq(t, `{"bookmarked": false}`, w.Body.String())
}

func TestBookmarkEndpoints_Validation(t *testing.T) {
	router, cleanup := setupAPITest(t)
	defer cleanup()

	w := doJSON(router, "POST", "/api/books/not-a-number/bookmarks", `{"page_id": 10}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, "POST", "/api/books/1/bookmarks", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, "GET", "/api/books/1/bookmarks?order=text", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHighlightEndpoints(t *testing.T) {
	router, cleanup := setupAPITest(t)
	defer cleanup()

	blob, err := snapshot.Encode([]snapshot.Entry{
		{HighlightID: 3, ClassName: "yellow", Text: "Call me Ishmael.", Timestamp: "2024-01-01 10:00:00"},
	})
	require.NoError(t, err)
	payload, err := json.Marshal(gin.H{"blob": blob})
	require.NoError(t, err)

	w := doJSON(router, "PUT", "/api/books/1/pages/10/highlights", string(payload))
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, "GET", "/api/books/1/pages/10/highlights/raw", "")
	assert.Equal(t, http.StatusOK, w.Code)
	var raw struct {
		Blob string `json:"blob"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	assert.Equal(t, blob, raw.Blob)

	w = doJSON(router, "POST", "/api/books/1/pages/10/highlights/3/note", `{"note_text": "opening line"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, "GET", "/api/books/1/pages/10/highlights/3", "")
	assert.Equal(t, http.StatusOK, w.Code)
	var row entities.Highlight
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &row))
	assert.Equal(t, "Call me Ishmael.", row.Text)
	require.NotNil(t, row.NoteText)
	assert.Equal(t, "opening line", *row.NoteText)
	assert.Equal(t, "Loomings", row.SectionTitle)

	w = doJSON(router, "GET", "/api/books/1/highlights", "")
	assert.Equal(t, http.StatusOK, w.Code)
	var rows []entities.Highlight
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
	assert.Len(t, rows, 1)

	w = doJSON(router, "GET", "/api/books/1/pages/10/highlights/99", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPreferenceEndpoints(t *testing.T) {
	router, cleanup := setupAPITest(t)
	defer cleanup()

	// A read with a default seeds the key.
	w := doJSON(router, "GET", "/api/books/1/preferences/font_size?default=12", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"key": "font_size", "value": "12"}`, w.Body.String())

	w = doJSON(router, "PUT", "/api/books/1/preferences/font_size", `{"value": "16"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, "GET", "/api/books/1/preferences/font_size", "")
	assert.JSONEq(t, `{"key": "font_size", "value": "16"}`, w.Body.String())

	w = doJSON(router, "GET", "/api/books/1/preferences", "")
	assert.Equal(t, http.StatusOK, w.Code)
	var prefs []entities.DisplayPreference
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &prefs))
	assert.Len(t, prefs, 1)
}

func TestReadingEndpoints(t *testing.T) {
	router, cleanup := setupAPITest(t)
	defer cleanup()

	// Never opened: position falls back to the first catalog page.
	w := doJSON(router, "GET", "/api/books/1/position", "")
	assert.Equal(t, http.StatusOK, w.Code)
	var pos entities.PageInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pos))
	assert.Equal(t, 10, pos.PageID)

	w = doJSON(router, "POST", "/api/books/1/opened", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, "POST", "/api/books/1/pages/11/opened", `{"part_number": 1, "page_number": 2}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, "GET", "/api/books/1/position", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pos))
	assert.Equal(t, 11, pos.PageID)
	assert.Equal(t, 2, pos.PageNumber)
}

func TestCollectionEndpoints(t *testing.T) {
	router, cleanup := setupAPITest(t)
	defer cleanup()

	w := doJSON(router, "GET", "/api/collections", "")
	assert.Equal(t, http.StatusOK, w.Code)
	var cols []entities.Collection
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cols))
	require.Len(t, cols, 4)

	w = doJSON(router, "POST", "/api/collections", `{"name": "Sea Stories"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	var created entities.Collection
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(router, "POST", "/api/collections", `{"name": "Sea Stories"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(router, "PUT", "/api/collections/"+itoa(created.ID)+"/books/1", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, "GET", "/api/collections/"+itoa(created.ID)+"/books", "")
	assert.Equal(t, http.StatusOK, w.Code)
	var books []entities.BookListing
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &books))
	require.Len(t, books, 1)
	assert.Equal(t, "Moby-Dick", books[0].Title)

	w = doJSON(router, "DELETE", "/api/collections/"+itoa(created.ID)+"/books/1", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, "PATCH", "/api/collections/"+itoa(created.ID), `{"name": "Whaling", "visible": false}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, "GET", "/api/collections?visible=true", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cols))
	assert.Len(t, cols, 4)

	w = doJSON(router, "DELETE", "/api/collections/"+itoa(created.ID), "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, "GET", "/api/collections/"+itoa(created.ID)+"/books", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCollectionEndpoints_AutomaticGuards(t *testing.T) {
	router, cleanup := setupAPITest(t)
	defer cleanup()

	w := doJSON(router, "GET", "/api/collections", "")
	var cols []entities.Collection
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cols))
	require.NotEmpty(t, cols)
	automatic := cols[0]
	require.True(t, automatic.IsAutomatic())

	w = doJSON(router, "DELETE", "/api/collections/"+itoa(automatic.ID), "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, "PATCH", "/api/collections/"+itoa(automatic.ID), `{"name": "Mine"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Hiding an automatic collection is the one allowed mutation.
	w = doJSON(router, "PATCH", "/api/collections/"+itoa(automatic.ID), `{"visible": false}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, "PUT", "/api/collections/"+itoa(automatic.ID)+"/books/1", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
