package services

import (
	"context"
	"log"

	"github.com/nahid-dev/devconnect/backend/internal/models"
	"github.com/nahid-dev/devconnect/backend/internal/realtime"
	"github.com/nahid-dev/devconnect/backend/internal/repositories"
)

// LivePusher is the live-delivery side of the connection registry. The
// returned boolean means "a connection was found", never "delivered".
type LivePusher interface {
	SendToUser(userID, event string, payload any) bool
}

// Notifier centralizes the fire-and-forget notification policy: persisting a
// notification and pushing it live are side effects of some primary action
// (a like, a follow, a message) and must never fail that action. Every error
// here is logged and swallowed.
type Notifier struct {
	notifications repositories.NotificationRepository
	pusher        LivePusher
}

// NewNotifier creates a new Notifier
func NewNotifier(notificationRepo repositories.NotificationRepository, pusher LivePusher) *Notifier {
	return &Notifier{
		notifications: notificationRepo,
		pusher:        pusher,
	}
}

// NotificationPush is the payload of a notification:new event.
type NotificationPush struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Notify persists the notification and attempts a live push. The live push is
// attempted even if persistence failed, matching the badge-over-durability
// trade-off of the notification channel.
func (n *Notifier) Notify(ctx context.Context, notification *models.Notification) {
	if notification.Recipient == notification.Sender {
		return
	}

	if err := n.notifications.CreateNotification(ctx, notification); err != nil {
		log.Printf("failed to create %s notification for user %s: %v", notification.Type, notification.Recipient, err)
	}

	n.pusher.SendToUser(notification.Recipient, realtime.EventNotificationNew, NotificationPush{
		Type:    notification.Type,
		Message: notification.Message,
	})
}
