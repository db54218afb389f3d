package realtime

import (
	"log"
	"sync"
)

// Hub is the process-local connection registry: a mapping from user ID to at
// most one live connection. A second connection from the same user replaces
// the first; the replaced connection is closed so the old client observes the
// eviction. Nothing here survives a process restart, and nothing is shared
// across instances.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

// NewHub creates an empty Hub
func NewHub() *Hub {
	return &Hub{clients: make(map[string]*Client)}
}

// Register stores the client's connection handle and announces the user's
// presence to everyone else.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	prev := h.clients[c.userID]
	h.clients[c.userID] = c
	h.mu.Unlock()

	if prev != nil {
		prev.close()
	}

	log.Printf("user connected: %s", c.userID)
	h.broadcast(c.userID, EventUserOnline, PresencePayload{UserID: c.userID})
}

// Unregister removes the client's registry entry if it is still the current
// one, and announces the user going offline. A stale handle (already replaced
// by a reconnect) is ignored.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	current, ok := h.clients[c.userID]
	if !ok || current != c {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c.userID)
	h.mu.Unlock()

	log.Printf("user disconnected: %s", c.userID)
	h.broadcast(c.userID, EventUserOffline, PresencePayload{UserID: c.userID})
}

// SendToUser pushes an event to the user's live connection if there is one.
// The returned boolean only says whether a connection was found; delivery
// beyond the send buffer is not guaranteed and callers must not treat false
// as an error.
func (h *Hub) SendToUser(userID, event string, payload any) bool {
	h.mu.RLock()
	c, ok := h.clients[userID]
	h.mu.RUnlock()
	if !ok {
		return false
	}
	c.enqueue(Event{Name: event, Payload: payload})
	return true
}

// IsOnline reports whether the user currently has a live connection
func (h *Hub) IsOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[userID]
	return ok
}

// OnlineUsers returns the IDs of all currently connected users
func (h *Hub) OnlineUsers() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	users := make([]string, 0, len(h.clients))
	for id := range h.clients {
		users = append(users, id)
	}
	return users
}

// broadcast sends an event to every connected user except one.
func (h *Hub) broadcast(exceptUserID, event string, payload any) {
	h.mu.RLock()
	targets := make([]*Client, 0, len(h.clients))
	for id, c := range h.clients {
		if id != exceptUserID {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range targets {
		c.enqueue(Event{Name: event, Payload: payload})
	}
}
