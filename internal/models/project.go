package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Project represents a portfolio project stored in MongoDB.
type Project struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID      string             `json:"user_id" bson:"user_id"`
	Title       string             `json:"title" bson:"title"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	TechStack   []string           `json:"tech_stack,omitempty" bson:"tech_stack,omitempty"`
	LiveURL     string             `json:"live_url,omitempty" bson:"live_url,omitempty"`
	GithubURL   string             `json:"github_url,omitempty" bson:"github_url,omitempty"`
	Image       string             `json:"image,omitempty" bson:"image,omitempty"`
	Likes       []string           `json:"likes" bson:"likes"`
	Comments    []PostComment      `json:"comments" bson:"comments"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

// HasLike reports whether userID already likes the project.
func (p *Project) HasLike(userID string) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// CreateProjectRequest defines the request body for creating a project
type CreateProjectRequest struct {
	Title       string   `json:"title" validate:"required,min=1,max=120"`
	Description string   `json:"description,omitempty" validate:"omitempty,max=2000"`
	TechStack   []string `json:"tech_stack,omitempty" validate:"omitempty,max=20,dive,min=1,max=40"`
	LiveURL     string   `json:"live_url,omitempty" validate:"omitempty,url"`
	GithubURL   string   `json:"github_url,omitempty" validate:"omitempty,url"`
	Image       string   `json:"image,omitempty" validate:"omitempty,url"`
}

// UpdateProjectRequest defines the request body for updating a project
type UpdateProjectRequest struct {
	Title       string   `json:"title,omitempty" validate:"omitempty,min=1,max=120"`
	Description string   `json:"description,omitempty" validate:"omitempty,max=2000"`
	TechStack   []string `json:"tech_stack,omitempty" validate:"omitempty,max=20,dive,min=1,max=40"`
	LiveURL     string   `json:"live_url,omitempty" validate:"omitempty,url"`
	GithubURL   string   `json:"github_url,omitempty" validate:"omitempty,url"`
	Image       string   `json:"image,omitempty" validate:"omitempty,url"`
}
