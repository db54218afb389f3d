package services

import (
	"context"
	"testing"

	"github.com/nahid-dev/devconnect/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifyPersistsAndPushes(t *testing.T) {
	repo := &fakeNotificationRepo{}
	pusher := newFakePusher("2")
	notifier := NewNotifier(repo, pusher)

	notifier.Notify(context.Background(), &models.Notification{
		Recipient: "2",
		Sender:    "1",
		Type:      models.NotificationLike,
		Message:   "liked your post",
	})

	require.Len(t, repo.created, 1)
	assert.Equal(t, models.NotificationLike, repo.created[0].Type)

	events := pusher.eventsFor("2")
	require.Len(t, events, 1)
	assert.Equal(t, "notification:new", events[0].Event)
	assert.Equal(t, NotificationPush{Type: models.NotificationLike, Message: "liked your post"}, events[0].Payload)
}

func TestNotifySkipsSelfNotification(t *testing.T) {
	repo := &fakeNotificationRepo{}
	pusher := newFakePusher("1")
	notifier := NewNotifier(repo, pusher)

	notifier.Notify(context.Background(), &models.Notification{
		Recipient: "1",
		Sender:    "1",
		Type:      models.NotificationLike,
	})

	assert.Empty(t, repo.created)
	assert.Empty(t, pusher.pushed)
}

func TestNotifySwallowsPersistFailure(t *testing.T) {
	repo := &fakeNotificationRepo{failing: true}
	pusher := newFakePusher("2")
	notifier := NewNotifier(repo, pusher)

	// Must not panic or surface the error; the live push is still attempted.
	notifier.Notify(context.Background(), &models.Notification{
		Recipient: "2",
		Sender:    "1",
		Type:      models.NotificationComment,
		Message:   "commented on your post",
	})

	events := pusher.eventsFor("2")
	require.Len(t, events, 1)
	assert.Equal(t, "notification:new", events[0].Event)
}
