package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/nahid-dev/devconnect/backend/internal/models"
	"github.com/nahid-dev/devconnect/backend/pkg/apperrors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	CreateNotification(ctx context.Context, notification *models.Notification) error
	GetByRecipient(ctx context.Context, recipientID string, limit int64) ([]models.Notification, error)
	GetUnreadCount(ctx context.Context, recipientID string) (int64, error)
	MarkAsRead(ctx context.Context, id string, recipientID string) error
	MarkAllAsRead(ctx context.Context, recipientID string) error
	DeleteNotification(ctx context.Context, id string, requesterID string) error
}

// MongoNotificationRepository implements NotificationRepository for MongoDB
type MongoNotificationRepository struct {
	collection *mongo.Collection
}

// NewMongoNotificationRepository creates a new MongoNotificationRepository
func NewMongoNotificationRepository(db *mongo.Database) *MongoNotificationRepository {
	return &MongoNotificationRepository{collection: db.Collection("notifications")}
}

// EnsureIndexes creates the recipient list and unread-filter indexes.
func (r *MongoNotificationRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "recipient", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "recipient", Value: 1}, {Key: "is_read", Value: 1}}},
	})
	return err
}

// CreateNotification persists a new notification
func (r *MongoNotificationRepository) CreateNotification(ctx context.Context, notification *models.Notification) error {
	if !models.ValidNotificationType(notification.Type) {
		return apperrors.Validationf("unknown notification type %q", notification.Type)
	}
	notification.ID = primitive.NewObjectID()
	notification.CreatedAt = time.Now()
	notification.IsRead = false
	_, err := r.collection.InsertOne(ctx, notification)
	return err
}

// GetByRecipient returns the recipient's notifications, newest first, bounded
func (r *MongoNotificationRepository) GetByRecipient(ctx context.Context, recipientID string, limit int64) ([]models.Notification, error) {
	findOptions := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)
	cursor, err := r.collection.Find(ctx, bson.M{"recipient": recipientID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var notifications []models.Notification
	if err = cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// GetUnreadCount returns how many notifications the recipient has not read
func (r *MongoNotificationRepository) GetUnreadCount(ctx context.Context, recipientID string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"recipient": recipientID, "is_read": false})
}

// MarkAsRead marks a single notification as read; scoped to the recipient
// so a user cannot touch someone else's notifications.
func (r *MongoNotificationRepository) MarkAsRead(ctx context.Context, id string, recipientID string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperrors.Validationf("invalid notification ID format")
	}
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objID, "recipient": recipientID},
		bson.M{"$set": bson.M{"is_read": true}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperrors.NotFoundf("notification not found")
	}
	return nil
}

// MarkAllAsRead marks every unread notification for the recipient as read
func (r *MongoNotificationRepository) MarkAllAsRead(ctx context.Context, recipientID string) error {
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"recipient": recipientID, "is_read": false},
		bson.M{"$set": bson.M{"is_read": true}})
	return err
}

// DeleteNotification removes a notification; only its recipient may delete it.
func (r *MongoNotificationRepository) DeleteNotification(ctx context.Context, id string, requesterID string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperrors.Validationf("invalid notification ID format")
	}

	var notification models.Notification
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&notification)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return apperrors.NotFoundf("notification not found")
		}
		return err
	}
	if notification.Recipient != requesterID {
		return apperrors.Authorizationf("only the recipient can delete a notification")
	}

	_, err = r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	return err
}
