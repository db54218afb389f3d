package models

import (
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Conversation represents a two-party messaging thread stored in MongoDB.
// UnreadCount is keyed by participant user ID; it is only ever mutated through
// atomic $inc/$set updates on the keyed path, never read-modify-write.
type Conversation struct {
	ID             primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	Participants   []string            `json:"participants" bson:"participants"` // exactly 2 user IDs
	ParticipantKey string              `json:"-" bson:"participant_key"`         // sorted "a:b", unique index
	LastMessage    *primitive.ObjectID `json:"last_message,omitempty" bson:"last_message,omitempty"`
	LastMessageAt  time.Time           `json:"last_message_at" bson:"last_message_at"`
	UnreadCount    map[string]int64    `json:"unread_count" bson:"unread_count"`
	CreatedAt      time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at" bson:"updated_at"`
}

// ParticipantKey normalizes an unordered participant pair into the unique
// lookup key, so (A,B) and (B,A) map to the same conversation.
func ParticipantKey(a, b string) string {
	pair := []string{a, b}
	sort.Strings(pair)
	return strings.Join(pair, ":")
}

// HasParticipant reports whether userID is one of the two participants.
func (c *Conversation) HasParticipant(userID string) bool {
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// OtherParticipant returns the participant that is not userID.
func (c *Conversation) OtherParticipant(userID string) string {
	for _, p := range c.Participants {
		if p != userID {
			return p
		}
	}
	return ""
}

// StartConversationRequest defines the request body for get-or-create conversation
type StartConversationRequest struct {
	RecipientID uint `json:"recipient_id" validate:"required"`
}
