package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxMessageContentLength bounds the content of a single message.
const MaxMessageContentLength = 2000

// Attachment is a file or image attached to a message. The URL points at an
// externally stored object; upload itself is not handled here.
type Attachment struct {
	Type string `json:"type" bson:"type" validate:"required,oneof=image file"`
	URL  string `json:"url" bson:"url" validate:"required,url"`
	Name string `json:"name,omitempty" bson:"name,omitempty"`
	Size int64  `json:"size,omitempty" bson:"size,omitempty"`
}

// Message represents a single message within a conversation (MongoDB).
// Content is immutable after creation; only the read state changes.
type Message struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Conversation primitive.ObjectID `json:"conversation" bson:"conversation"`
	Sender       string             `json:"sender" bson:"sender"`
	Recipient    string             `json:"recipient" bson:"recipient"`
	Content      string             `json:"content" bson:"content"`
	IsRead       bool               `json:"is_read" bson:"is_read"`
	ReadAt       *time.Time         `json:"read_at,omitempty" bson:"read_at,omitempty"`
	Attachments  []Attachment       `json:"attachments,omitempty" bson:"attachments,omitempty"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
}

// SendMessageRequest defines the request body for sending a message
type SendMessageRequest struct {
	Content     string       `json:"content" validate:"required,min=1,max=2000"`
	Attachments []Attachment `json:"attachments,omitempty" validate:"omitempty,max=10,dive"`
}
