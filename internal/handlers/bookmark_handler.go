package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/nahid-dev/devconnect/backend/internal/models"
	"github.com/nahid-dev/devconnect/backend/internal/repositories"
	"github.com/nahid-dev/devconnect/backend/pkg/apperrors"
	"github.com/labstack/echo/v4"
)

// BookmarkHandler handles HTTP requests related to bookmarks
type BookmarkHandler struct {
	bookmarkRepository repositories.BookmarkRepository
}

// NewBookmarkHandler creates a new BookmarkHandler
func NewBookmarkHandler(bookmarkRepo repositories.BookmarkRepository) *BookmarkHandler {
	return &BookmarkHandler{bookmarkRepository: bookmarkRepo}
}

// RegisterBookmarkRoutes registers bookmark-related routes
func (h *BookmarkHandler) RegisterBookmarkRoutes(g *echo.Group) {
	g.POST("/bookmarks", h.CreateBookmark)
	g.GET("/bookmarks", h.GetBookmarks)
	g.GET("/bookmarks/collections", h.GetCollections)
	g.GET("/bookmarks/check", h.CheckBookmark)
	g.PUT("/bookmarks/:id", h.UpdateBookmark)
	g.DELETE("/bookmarks/:id", h.DeleteBookmark)
}

// CreateBookmark saves an item for the caller
func (h *BookmarkHandler) CreateBookmark(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateBookmarkRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	collection := req.Collection
	if collection == "" {
		collection = "general"
	}
	bookmark := &models.Bookmark{
		UserID:     currentUserID,
		ItemType:   req.ItemType,
		ItemID:     req.ItemID,
		Collection: collection,
		Notes:      req.Notes,
	}
	if err := h.bookmarkRepository.CreateBookmark(bookmark); err != nil {
		return echo.NewHTTPError(apperrors.HTTPStatusFromError(err), err.Error())
	}
	return c.JSON(http.StatusCreated, bookmark)
}

// GetBookmarks lists the caller's bookmarks, optionally filtered by
// collection and item type
func (h *BookmarkHandler) GetBookmarks(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	bookmarks, err := h.bookmarkRepository.GetBookmarksByUser(currentUserID, c.QueryParam("collection"), c.QueryParam("type"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, bookmarks)
}

// GetCollections lists the caller's collection names with counts
func (h *BookmarkHandler) GetCollections(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	collections, err := h.bookmarkRepository.GetCollections(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, collections)
}

// CheckBookmark reports whether the caller already saved the given item
func (h *BookmarkHandler) CheckBookmark(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	itemType := c.QueryParam("type")
	itemID := c.QueryParam("id")
	if itemType == "" || itemID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "type and id query parameters are required")
	}

	bookmark, err := h.bookmarkRepository.FindBookmark(currentUserID, itemType, itemID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return c.JSON(http.StatusOK, echo.Map{"is_bookmarked": false})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"is_bookmarked": true, "bookmark": bookmark})
}

// UpdateBookmark moves a bookmark to another collection or edits its notes
func (h *BookmarkHandler) UpdateBookmark(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid bookmark ID")
	}

	var req models.UpdateBookmarkRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	bookmark, err := h.bookmarkRepository.GetBookmark(uint(id), currentUserID)
	if err != nil {
		return echo.NewHTTPError(apperrors.HTTPStatusFromError(err), err.Error())
	}

	if req.Collection != "" {
		bookmark.Collection = req.Collection
	}
	if req.Notes != nil {
		bookmark.Notes = *req.Notes
	}
	if err := h.bookmarkRepository.UpdateBookmark(bookmark); err != nil {
		return echo.NewHTTPError(apperrors.HTTPStatusFromError(err), err.Error())
	}
	return c.JSON(http.StatusOK, bookmark)
}

// DeleteBookmark removes a bookmark the caller owns
func (h *BookmarkHandler) DeleteBookmark(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid bookmark ID")
	}

	if err := h.bookmarkRepository.DeleteBookmark(uint(id), currentUserID); err != nil {
		return echo.NewHTTPError(apperrors.HTTPStatusFromError(err), err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Bookmark removed successfully"})
}
