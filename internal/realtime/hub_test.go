package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(hub *Hub, userID string) *Client {
	return NewClient(hub, nil, userID)
}

func drain(c *Client) []Event {
	events := make([]Event, 0)
	for {
		select {
		case ev, ok := <-c.send:
			if !ok {
				return events
			}
			events = append(events, ev)
		default:
			return events
		}
	}
}

func TestHubRegisterAndSend(t *testing.T) {
	hub := NewHub()
	alice := newTestClient(hub, "1")
	hub.Register(alice)

	assert.True(t, hub.IsOnline("1"))
	assert.False(t, hub.IsOnline("2"))

	ok := hub.SendToUser("1", EventNotificationNew, map[string]string{"type": "like"})
	require.True(t, ok)

	events := drain(alice)
	require.Len(t, events, 1)
	assert.Equal(t, EventNotificationNew, events[0].Name)
}

func TestHubSendToOfflineUser(t *testing.T) {
	hub := NewHub()
	ok := hub.SendToUser("42", EventMessageReceive, nil)
	assert.False(t, ok, "sending to a user with no connection should report false")
}

func TestHubSecondConnectionReplacesFirst(t *testing.T) {
	hub := NewHub()
	first := newTestClient(hub, "1")
	hub.Register(first)

	second := newTestClient(hub, "1")
	hub.Register(second)

	// The old handle is closed so the first client notices the eviction.
	_, open := <-first.send
	assert.False(t, open, "replaced connection should have its send channel closed")

	require.True(t, hub.SendToUser("1", EventMessageReceive, nil))
	events := drain(second)
	require.Len(t, events, 1)
	assert.Equal(t, EventMessageReceive, events[0].Name)
}

func TestHubUnregisterIgnoresStaleHandle(t *testing.T) {
	hub := NewHub()
	first := newTestClient(hub, "1")
	hub.Register(first)
	second := newTestClient(hub, "1")
	hub.Register(second)

	// Unregistering the evicted handle must not remove the active one.
	hub.Unregister(first)
	assert.True(t, hub.IsOnline("1"))

	hub.Unregister(second)
	assert.False(t, hub.IsOnline("1"))
}

func TestHubPresenceBroadcast(t *testing.T) {
	hub := NewHub()
	alice := newTestClient(hub, "1")
	hub.Register(alice)

	bob := newTestClient(hub, "2")
	hub.Register(bob)

	// Alice hears about Bob coming online; Bob does not hear about himself.
	aliceEvents := drain(alice)
	require.Len(t, aliceEvents, 1)
	assert.Equal(t, EventUserOnline, aliceEvents[0].Name)
	assert.Equal(t, PresencePayload{UserID: "2"}, aliceEvents[0].Payload)
	assert.Empty(t, drain(bob))

	hub.Unregister(bob)
	aliceEvents = drain(alice)
	require.Len(t, aliceEvents, 1)
	assert.Equal(t, EventUserOffline, aliceEvents[0].Name)
}

func TestHubOnlineUsers(t *testing.T) {
	hub := NewHub()
	hub.Register(newTestClient(hub, "1"))
	hub.Register(newTestClient(hub, "2"))

	users := hub.OnlineUsers()
	assert.ElementsMatch(t, []string{"1", "2"}, users)
}
