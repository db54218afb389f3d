package models

import "time"

// Bookmark represents a saved item (project, post or user). The composite
// unique index makes a duplicate save a constraint violation rather than a
// second record.
type Bookmark struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     uint      `json:"user_id" gorm:"index;uniqueIndex:idx_user_item"`
	ItemType   string    `json:"item_type" gorm:"size:20;uniqueIndex:idx_user_item"` // project, post, user
	ItemID     string    `json:"item_id" gorm:"uniqueIndex:idx_user_item"`
	Collection string    `json:"collection" gorm:"size:60;index;default:general"`
	Notes      string    `json:"notes" gorm:"size:500"`
	CreatedAt  time.Time `json:"created_at"`
}

// CreateBookmarkRequest defines the request body for adding a bookmark
type CreateBookmarkRequest struct {
	ItemType   string `json:"item_type" validate:"required,oneof=project post user"`
	ItemID     string `json:"item_id" validate:"required"`
	Collection string `json:"collection,omitempty" validate:"omitempty,min=1,max=60"`
	Notes      string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// UpdateBookmarkRequest defines the request body for updating a bookmark
type UpdateBookmarkRequest struct {
	Collection string  `json:"collection,omitempty" validate:"omitempty,min=1,max=60"`
	Notes      *string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// BookmarkCollection is a collection name with its bookmark count.
type BookmarkCollection struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}
