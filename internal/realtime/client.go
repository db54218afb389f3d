package realtime

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 64
)

// Client wraps a single authenticated websocket connection. Outbound events
// are funneled through a buffered channel so the hub never blocks on a slow
// consumer; a client that cannot keep up is disconnected.
type Client struct {
	userID string
	hub    *Hub
	conn   *websocket.Conn

	mu     sync.Mutex
	send   chan Event
	closed bool
}

// NewClient creates a client for an authenticated connection. The connection
// is not serviced until Run is called.
func NewClient(hub *Hub, conn *websocket.Conn, userID string) *Client {
	return &Client{
		userID: userID,
		hub:    hub,
		conn:   conn,
		send:   make(chan Event, sendBuffer),
	}
}

// UserID returns the authenticated user this connection belongs to
func (c *Client) UserID() string { return c.userID }

// Run registers the client and services the connection until it drops.
// It blocks until the read side terminates.
func (c *Client) Run() {
	c.hub.Register(c)
	go c.writePump()
	c.readPump()
}

// enqueue hands an event to the write pump without blocking. If the buffer is
// full the connection is torn down rather than stalling the caller.
func (c *Client) enqueue(ev Event) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	select {
	case c.send <- ev:
		c.mu.Unlock()
	default:
		c.mu.Unlock()
		log.Printf("send buffer full, dropping connection for user %s", c.userID)
		c.close()
	}
}

func (c *Client) close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	c.mu.Unlock()

	if c.conn != nil {
		c.conn.Close()
	}
}

// readPump consumes inbound events. The only client-to-server events are the
// typing indicators, which are relayed to the recipient with no persistence.
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		c.close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("socket read error for user %s: %v", c.userID, err)
			}
			return
		}

		var ev Event
		if err := json.Unmarshal(raw, &ev); err != nil {
			continue
		}

		switch ev.Name {
		case EventTypingStart, EventTypingStop:
			payload, err := decodeTypingPayload(ev.Payload)
			if err != nil {
				continue
			}
			payload.UserID = c.userID
			c.hub.SendToUser(payload.RecipientID, ev.Name, payload)
		}
	}
}

// writePump drains the send channel onto the connection and keeps it alive
// with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if c.conn != nil {
			c.conn.Close()
		}
	}()

	for {
		select {
		case ev, ok := <-c.send:
			if !ok {
				c.conn.WriteControl(websocket.CloseMessage, []byte{}, time.Now().Add(writeWait))
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func decodeTypingPayload(raw any) (TypingPayload, error) {
	var payload TypingPayload
	data, err := json.Marshal(raw)
	if err != nil {
		return payload, err
	}
	err = json.Unmarshal(data, &payload)
	return payload, err
}
