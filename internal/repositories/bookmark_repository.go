package repositories

import (
	"errors"

	"github.com/nahid-dev/devconnect/backend/internal/models"
	"github.com/nahid-dev/devconnect/backend/pkg/apperrors"
	"gorm.io/gorm"
)

// BookmarkRepository defines the interface for bookmark operations
type BookmarkRepository interface {
	CreateBookmark(bookmark *models.Bookmark) error
	GetBookmarksByUser(userID uint, collection, itemType string) ([]models.Bookmark, error)
	GetCollections(userID uint) ([]models.BookmarkCollection, error)
	GetBookmark(id, userID uint) (*models.Bookmark, error)
	FindBookmark(userID uint, itemType, itemID string) (*models.Bookmark, error)
	UpdateBookmark(bookmark *models.Bookmark) error
	DeleteBookmark(id, userID uint) error
}

type postgresBookmarkRepository struct {
	db *gorm.DB
}

func NewPostgresBookmarkRepository(db *gorm.DB) BookmarkRepository {
	return &postgresBookmarkRepository{db: db}
}

// CreateBookmark inserts a bookmark; a duplicate (user, itemType, itemID)
// surfaces as a conflict via the composite unique index.
func (r *postgresBookmarkRepository) CreateBookmark(bookmark *models.Bookmark) error {
	if err := r.db.Create(bookmark).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.Conflictf("item already bookmarked")
		}
		return err
	}
	return nil
}

func (r *postgresBookmarkRepository) GetBookmarksByUser(userID uint, collection, itemType string) ([]models.Bookmark, error) {
	q := r.db.Where("user_id = ?", userID)
	if collection != "" {
		q = q.Where("collection = ?", collection)
	}
	if itemType != "" {
		q = q.Where("item_type = ?", itemType)
	}
	var bookmarks []models.Bookmark
	err := q.Order("created_at DESC").Find(&bookmarks).Error
	return bookmarks, err
}

func (r *postgresBookmarkRepository) GetCollections(userID uint) ([]models.BookmarkCollection, error) {
	var collections []models.BookmarkCollection
	err := r.db.Model(&models.Bookmark{}).
		Select("collection AS name, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("collection").
		Scan(&collections).Error
	return collections, err
}

func (r *postgresBookmarkRepository) GetBookmark(id, userID uint) (*models.Bookmark, error) {
	var bookmark models.Bookmark
	if err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&bookmark).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("bookmark not found")
		}
		return nil, err
	}
	return &bookmark, nil
}

func (r *postgresBookmarkRepository) FindBookmark(userID uint, itemType, itemID string) (*models.Bookmark, error) {
	var bookmark models.Bookmark
	err := r.db.Where("user_id = ? AND item_type = ? AND item_id = ?", userID, itemType, itemID).First(&bookmark).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("bookmark not found")
		}
		return nil, err
	}
	return &bookmark, nil
}

func (r *postgresBookmarkRepository) UpdateBookmark(bookmark *models.Bookmark) error {
	return r.db.Save(bookmark).Error
}

func (r *postgresBookmarkRepository) DeleteBookmark(id, userID uint) error {
	res := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Bookmark{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFoundf("bookmark not found")
	}
	return nil
}
