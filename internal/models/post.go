package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PostComment is a comment embedded in its post document.
type PostComment struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID    string             `json:"user_id" bson:"user_id"`
	Content   string             `json:"content" bson:"content"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// PostImage references an externally hosted image.
type PostImage struct {
	URL      string `json:"url" bson:"url"`
	PublicID string `json:"public_id,omitempty" bson:"public_id,omitempty"`
}

// Post represents a feed post stored in MongoDB. Likes and shares are stored
// as user-ID sets so the toggle endpoints stay a single document update.
type Post struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	AuthorID    string             `json:"author_id" bson:"author_id"`
	Content     string             `json:"content" bson:"content"`
	Title       string             `json:"title,omitempty" bson:"title,omitempty"`
	Type        string             `json:"type" bson:"type"` // post, article, announcement
	Images      []PostImage        `json:"images,omitempty" bson:"images,omitempty"`
	Tags        []string           `json:"tags,omitempty" bson:"tags,omitempty"`
	Likes       []string           `json:"likes" bson:"likes"`
	Comments    []PostComment      `json:"comments" bson:"comments"`
	Shares      []string           `json:"shares" bson:"shares"`
	Views       int64              `json:"views" bson:"views"`
	IsPublished bool               `json:"is_published" bson:"is_published"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

// HasLike reports whether userID already likes the post.
func (p *Post) HasLike(userID string) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Content string      `json:"content" validate:"required,min=1,max=5000"`
	Title   string      `json:"title,omitempty" validate:"omitempty,max=200"`
	Type    string      `json:"type,omitempty" validate:"omitempty,oneof=post article announcement"`
	Images  []PostImage `json:"images,omitempty" validate:"omitempty,max=5"`
	Tags    []string    `json:"tags,omitempty" validate:"omitempty,max=10,dive,min=1,max=40"`
}

// UpdatePostRequest defines the request body for updating an existing post
type UpdatePostRequest struct {
	Content     string   `json:"content,omitempty" validate:"omitempty,min=1,max=5000"`
	Title       string   `json:"title,omitempty" validate:"omitempty,max=200"`
	Tags        []string `json:"tags,omitempty" validate:"omitempty,max=10,dive,min=1,max=40"`
	IsPublished *bool    `json:"is_published,omitempty"`
}

// AddCommentRequest defines the request body for commenting on a post or project
type AddCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=1000"`
}
