package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types. The set is closed; anything else is rejected at creation.
const (
	NotificationLike           = "like"
	NotificationComment        = "comment"
	NotificationFollow         = "follow"
	NotificationFollowRequest  = "follow_request"
	NotificationFollowAccepted = "follow_accepted"
	NotificationMessage        = "message"
	NotificationEndorsement    = "endorsement"
	NotificationMention        = "mention"
	NotificationPost           = "post"
	NotificationShare          = "share"
)

// ValidNotificationType reports whether t belongs to the closed type set.
func ValidNotificationType(t string) bool {
	switch t {
	case NotificationLike, NotificationComment, NotificationFollow,
		NotificationFollowRequest, NotificationFollowAccepted,
		NotificationMessage, NotificationEndorsement, NotificationMention,
		NotificationPost, NotificationShare:
		return true
	}
	return false
}

// NotificationRef is the tagged back-reference a notification may carry.
// Kind names the referenced entity so a follow notification can never point
// at a post.
type NotificationRef struct {
	Kind string `json:"kind" bson:"kind"` // project, post, user, message, endorsement
	ID   string `json:"id" bson:"id"`
}

// Notification represents a fan-out record for an asynchronous event (MongoDB).
// Creation is always best-effort from the triggering action's point of view.
type Notification struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Recipient string             `json:"recipient" bson:"recipient"`
	Sender    string             `json:"sender" bson:"sender"`
	Type      string             `json:"type" bson:"type"`
	Ref       *NotificationRef   `json:"ref,omitempty" bson:"ref,omitempty"`
	Message   string             `json:"message" bson:"message"`
	IsRead    bool               `json:"is_read" bson:"is_read"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}
