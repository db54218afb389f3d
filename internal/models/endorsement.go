package models

import "time"

// Endorsement represents a skill endorsement from one user to another.
// The composite unique index prevents endorsing the same skill twice.
type Endorsement struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	FromID    uint      `json:"from_id" gorm:"index;uniqueIndex:idx_from_to_skill"`
	ToID      uint      `json:"to_id" gorm:"index;uniqueIndex:idx_from_to_skill"`
	Skill     string    `json:"skill" gorm:"size:40;uniqueIndex:idx_from_to_skill"`
	Message   string    `json:"message" gorm:"size:500"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateEndorsementRequest defines the request body for endorsing a skill
type CreateEndorsementRequest struct {
	UserID  uint   `json:"user_id" validate:"required"`
	Skill   string `json:"skill" validate:"required,min=1,max=40"`
	Message string `json:"message,omitempty" validate:"omitempty,max=500"`
}
