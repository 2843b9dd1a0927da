package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/lectern/readerdata/internal/database/collections"
	"github.com/lectern/readerdata/internal/entities"
)

// CollectionStore defines database operations for book collections.
type CollectionStore interface {
	List(visibleOnly bool) ([]entities.Collection, error)
	GetByID(id int) (*entities.Collection, error)
	Create(name string) (*entities.Collection, error)
	Rename(id int, name string) error
	SetVisibility(id int, visible bool) error
	Delete(id int) error
	AddBook(collectionID, bookID int) error
	RemoveBook(collectionID, bookID int) error
	ResolveMembers(col entities.Collection) ([]entities.BookListing, error)
}

type CollectionsController struct {
	store CollectionStore
}

func NewCollectionsController(store CollectionStore) *CollectionsController {
	return &CollectionsController{store: store}
}

// ListCollections lists stored collections
// GET /api/collections?visible=true
func (cc *CollectionsController) ListCollections(c *gin.Context) {
	visibleOnly, _ := strconv.ParseBool(c.DefaultQuery("visible", "false"))

	cols, err := cc.store.List(visibleOnly)
	if err != nil {
		respondInternalError(c, err, "list collections")
		return
	}
	c.JSON(http.StatusOK, cols)
}

// CreateCollection adds a user-defined collection
// POST /api/collections
func (cc *CollectionsController) CreateCollection(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "name is required")
		return
	}

	col, err := cc.store.Create(req.Name)
	if errors.Is(err, collections.ErrDuplicateName) {
		respondConflict(c, err.Error())
		return
	}
	if err != nil {
		respondInternalError(c, err, "create collection")
		return
	}
	respondCreated(c, col)
}

// UpdateCollection renames and/or toggles visibility
// PATCH /api/collections/:id
func (cc *CollectionsController) UpdateCollection(c *gin.Context) {
	id, ok := parseIntParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Name    *string `json:"name"`
		Visible *bool   `json:"visible"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid collection payload")
		return
	}

	if req.Name != nil {
		err := cc.store.Rename(id, *req.Name)
		if err != nil {
			cc.respondMutationError(c, err, "rename collection")
			return
		}
	}
	if req.Visible != nil {
		err := cc.store.SetVisibility(id, *req.Visible)
		if err != nil {
			cc.respondMutationError(c, err, "set collection visibility")
			return
		}
	}
	respondSuccess(c, "collection updated")
}

// DeleteCollection removes a user-defined collection
// DELETE /api/collections/:id
func (cc *CollectionsController) DeleteCollection(c *gin.Context) {
	id, ok := parseIntParam(c, "id")
	if !ok {
		return
	}

	if err := cc.store.Delete(id); err != nil {
		cc.respondMutationError(c, err, "delete collection")
		return
	}
	respondSuccess(c, "collection deleted")
}

// ListMembers resolves the collection's book list
// GET /api/collections/:id/books
func (cc *CollectionsController) ListMembers(c *gin.Context) {
	id, ok := parseIntParam(c, "id")
	if !ok {
		return
	}

	col, err := cc.store.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondNotFound(c, "collection")
		return
	}
	if err != nil {
		respondInternalError(c, err, "get collection")
		return
	}

	books, err := cc.store.ResolveMembers(*col)
	if err != nil {
		respondInternalError(c, err, "resolve collection members")
		return
	}
	c.JSON(http.StatusOK, books)
}

// AddMember puts a book into an explicit collection
// PUT /api/collections/:id/books/:bookID
func (cc *CollectionsController) AddMember(c *gin.Context) {
	id, ok := parseIntParam(c, "id")
	if !ok {
		return
	}
	bookID, ok := parseIntParam(c, "bookID")
	if !ok {
		return
	}

	if err := cc.store.AddBook(id, bookID); err != nil {
		cc.respondMutationError(c, err, "add collection member")
		return
	}
	respondSuccess(c, "book added to collection")
}

// RemoveMember takes a book out of an explicit collection
// DELETE /api/collections/:id/books/:bookID
func (cc *CollectionsController) RemoveMember(c *gin.Context) {
	id, ok := parseIntParam(c, "id")
	if !ok {
		return
	}
	bookID, ok := parseIntParam(c, "bookID")
	if !ok {
		return
	}

	if err := cc.store.RemoveBook(id, bookID); err != nil {
		respondInternalError(c, err, "remove collection member")
		return
	}
	respondSuccess(c, "book removed from collection")
}

func (cc *CollectionsController) respondMutationError(c *gin.Context, err error, context string) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		respondNotFound(c, "collection")
	case errors.Is(err, collections.ErrAutomaticCollection):
		respondBadRequest(c, err.Error())
	case errors.Is(err, collections.ErrDuplicateName):
		respondConflict(c, err.Error())
	default:
		respondInternalError(c, err, context)
	}
}
