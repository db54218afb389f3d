package realtime

// Socket event names. Inbound events are sent by clients, outbound events are
// pushed by the server; typing events travel both ways.
const (
	EventMessageReceive  = "message:receive"
	EventMessageRead     = "message:read"
	EventNotificationNew = "notification:new"
	EventUserOnline      = "user:online"
	EventUserOffline     = "user:offline"
	EventTypingStart     = "typing:start"
	EventTypingStop      = "typing:stop"
)

// Event is the JSON envelope for everything exchanged over a socket.
type Event struct {
	Name    string `json:"event"`
	Payload any    `json:"payload,omitempty"`
}

// TypingPayload is the inbound payload for typing:start / typing:stop.
type TypingPayload struct {
	RecipientID    string `json:"recipient_id"`
	ConversationID string `json:"conversation_id"`
	UserID         string `json:"user_id,omitempty"` // set by the server when relaying
}

// PresencePayload is the outbound payload for user:online / user:offline.
type PresencePayload struct {
	UserID string `json:"user_id"`
}
