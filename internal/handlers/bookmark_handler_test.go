package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/nahid-dev/devconnect/backend/internal/models"
	"github.com/nahid-dev/devconnect/backend/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBookmarkRepo is an in-memory BookmarkRepository; the composite
// (user, item_type, item_id) unique index surfaces duplicates as conflicts.
type fakeBookmarkRepo struct {
	bookmarks []*models.Bookmark
	nextID    uint
}

func (r *fakeBookmarkRepo) CreateBookmark(bookmark *models.Bookmark) error {
	for _, b := range r.bookmarks {
		if b.UserID == bookmark.UserID && b.ItemType == bookmark.ItemType && b.ItemID == bookmark.ItemID {
			return apperrors.Conflictf("item already bookmarked")
		}
	}
	r.nextID++
	bookmark.ID = r.nextID
	r.bookmarks = append(r.bookmarks, bookmark)
	return nil
}

func (r *fakeBookmarkRepo) GetBookmarksByUser(userID uint, collection, itemType string) ([]models.Bookmark, error) {
	var out []models.Bookmark
	for _, b := range r.bookmarks {
		if b.UserID != userID {
			continue
		}
		if collection != "" && b.Collection != collection {
			continue
		}
		if itemType != "" && b.ItemType != itemType {
			continue
		}
		out = append(out, *b)
	}
	return out, nil
}

func (r *fakeBookmarkRepo) GetCollections(userID uint) ([]models.BookmarkCollection, error) {
	counts := make(map[string]int64)
	for _, b := range r.bookmarks {
		if b.UserID == userID {
			counts[b.Collection]++
		}
	}
	var out []models.BookmarkCollection
	for name, count := range counts {
		out = append(out, models.BookmarkCollection{Name: name, Count: count})
	}
	return out, nil
}

func (r *fakeBookmarkRepo) GetBookmark(id, userID uint) (*models.Bookmark, error) {
	for _, b := range r.bookmarks {
		if b.ID == id && b.UserID == userID {
			return b, nil
		}
	}
	return nil, apperrors.NotFoundf("bookmark %d", id)
}

func (r *fakeBookmarkRepo) FindBookmark(userID uint, itemType, itemID string) (*models.Bookmark, error) {
	for _, b := range r.bookmarks {
		if b.UserID == userID && b.ItemType == itemType && b.ItemID == itemID {
			return b, nil
		}
	}
	return nil, apperrors.NotFoundf("bookmark not found")
}

func (r *fakeBookmarkRepo) UpdateBookmark(bookmark *models.Bookmark) error {
	for i, b := range r.bookmarks {
		if b.ID == bookmark.ID {
			r.bookmarks[i] = bookmark
			return nil
		}
	}
	return apperrors.NotFoundf("bookmark %d", bookmark.ID)
}

func (r *fakeBookmarkRepo) DeleteBookmark(id, userID uint) error {
	for i, b := range r.bookmarks {
		if b.ID == id && b.UserID == userID {
			r.bookmarks = append(r.bookmarks[:i], r.bookmarks[i+1:]...)
			return nil
		}
	}
	return apperrors.NotFoundf("bookmark %d", id)
}

func TestCreateBookmarkDuplicateConflicts(t *testing.T) {
	h := NewBookmarkHandler(&fakeBookmarkRepo{})
	body := models.CreateBookmarkRequest{ItemType: "post", ItemID: "abc123"}

	c, rec := newRequestContext(t, http.MethodPost, "/api/v1/bookmarks", body, 1)
	require.NoError(t, h.CreateBookmark(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	c, _ = newRequestContext(t, http.MethodPost, "/api/v1/bookmarks", body, 1)
	assert.Equal(t, http.StatusConflict, httpStatus(t, h.CreateBookmark(c)))
}

func TestCreateBookmarkDefaultsCollection(t *testing.T) {
	repo := &fakeBookmarkRepo{}
	h := NewBookmarkHandler(repo)
	body := models.CreateBookmarkRequest{ItemType: "project", ItemID: "p1"}

	c, rec := newRequestContext(t, http.MethodPost, "/api/v1/bookmarks", body, 1)
	require.NoError(t, h.CreateBookmark(c))
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, repo.bookmarks, 1)
	assert.Equal(t, "general", repo.bookmarks[0].Collection)
}

func TestCheckBookmarkReportsMissingItem(t *testing.T) {
	h := NewBookmarkHandler(&fakeBookmarkRepo{})

	c, rec := newRequestContext(t, http.MethodGet, "/api/v1/bookmarks/check?type=post&id=missing", nil, 1)
	require.NoError(t, h.CheckBookmark(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["is_bookmarked"])
}
