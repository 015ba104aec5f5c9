package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"bookshelf/internal/apperr"
	"bookshelf/internal/auth"
	"bookshelf/internal/catalog"
	"bookshelf/internal/model"
	"bookshelf/internal/service"
)

const defaultSearchLimit = 10

// BookHandler handles saved-book mutations and catalog search.
type BookHandler struct {
	collection service.CollectionService
	catalog    *catalog.Client
}

// NewBookHandler creates a new book handler.
func NewBookHandler(collection service.CollectionService, catalog *catalog.Client) *BookHandler {
	return &BookHandler{collection: collection, catalog: catalog}
}

// SaveBookRequest represents a request to save a catalog book.
type SaveBookRequest struct {
	BookID      string   `json:"bookId" validate:"required"`
	Authors     []string `json:"authors" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Title       string   `json:"title" validate:"required"`
	Image       string   `json:"image" validate:"omitempty,url"`
	Link        string   `json:"link" validate:"omitempty,url"`
}

// SaveBook godoc
// @Summary Save a book to the user's collection
// @Tags books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SaveBookRequest true "Book to save"
// @Success 200 {object} model.User
// @Failure 400 {object} apperr.ErrorResponse
// @Failure 401 {object} apperr.ErrorResponse
// @Failure 404 {object} apperr.ErrorResponse
// @Router /books [put]
func (h *BookHandler) SaveBook(c echo.Context) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return httpError(apperr.New(apperr.KindUnauthenticated, "not authenticated"))
	}

	var req SaveBookRequest
	if err := c.Bind(&req); err != nil {
		return validationError("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return validationError(err.Error())
	}

	book := model.SavedBook{
		BookID:      req.BookID,
		Authors:     req.Authors,
		Description: req.Description,
		Title:       req.Title,
		Image:       req.Image,
		Link:        req.Link,
	}

	user, err := h.collection.SaveBook(c.Request().Context(), claims.UserID, book)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, user)
}

// RemoveBook godoc
// @Summary Remove a book from the user's collection
// @Tags books
// @Produce json
// @Security BearerAuth
// @Param bookId path string true "External book identifier"
// @Success 200 {object} model.User
// @Failure 401 {object} apperr.ErrorResponse
// @Failure 404 {object} apperr.ErrorResponse
// @Router /books/{bookId} [delete]
func (h *BookHandler) RemoveBook(c echo.Context) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return httpError(apperr.New(apperr.KindUnauthenticated, "not authenticated"))
	}

	bookID := c.Param("bookId")
	if bookID == "" {
		return validationError("bookId is required")
	}

	user, err := h.collection.RemoveBook(c.Request().Context(), claims.UserID, bookID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, user)
}

// Search godoc
// @Summary Search the external book catalog
// @Tags books
// @Produce json
// @Param q query string true "Search query"
// @Param limit query int false "Maximum results"
// @Success 200 {array} catalog.Book
// @Failure 400 {object} apperr.ErrorResponse
// @Failure 503 {object} apperr.ErrorResponse
// @Router /books/search [get]
func (h *BookHandler) Search(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return validationError("q is required")
	}

	limit := defaultSearchLimit
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return validationError("limit must be a positive integer")
		}
		limit = parsed
	}

	books, err := h.catalog.Search(c.Request().Context(), query, limit)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, books)
}
