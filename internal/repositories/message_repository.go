package repositories

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/nahid-dev/devconnect/backend/internal/models"
	"github.com/nahid-dev/devconnect/backend/pkg/apperrors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MessageRepository defines the interface for message data operations
type MessageRepository interface {
	CreateMessage(ctx context.Context, message *models.Message) error
	GetMessageByID(ctx context.Context, id string) (*models.Message, error)
	ListMessages(ctx context.Context, conversationID primitive.ObjectID, before *time.Time, limit int64) ([]models.Message, error)
	MarkAllRead(ctx context.Context, conversationID primitive.ObjectID, readerID string) error
	DeleteMessage(ctx context.Context, id string, requesterID string) error
}

// MongoMessageRepository implements MessageRepository for MongoDB
type MongoMessageRepository struct {
	collection *mongo.Collection
}

// NewMongoMessageRepository creates a new MongoMessageRepository
func NewMongoMessageRepository(db *mongo.Database) *MongoMessageRepository {
	return &MongoMessageRepository{collection: db.Collection("messages")}
}

// EnsureIndexes creates the pagination index over (conversation, created_at).
func (r *MongoMessageRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "conversation", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "conversation", Value: 1}, {Key: "recipient", Value: 1}, {Key: "is_read", Value: 1}}},
	})
	return err
}

// CreateMessage persists a new message
func (r *MongoMessageRepository) CreateMessage(ctx context.Context, message *models.Message) error {
	message.ID = primitive.NewObjectID()
	message.CreatedAt = time.Now()
	message.IsRead = false
	_, err := r.collection.InsertOne(ctx, message)
	return err
}

// GetMessageByID retrieves a message by its hex ID
func (r *MongoMessageRepository) GetMessageByID(ctx context.Context, id string) (*models.Message, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.Validationf("invalid message ID format")
	}

	var message models.Message
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&message)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFoundf("message not found")
		}
		return nil, err
	}
	return &message, nil
}

// ListMessages returns the most recent `limit` messages older than `before`
// (all, if nil), re-ordered to chronological order. Passing the oldest
// returned timestamp as the next `before` continues backward.
func (r *MongoMessageRepository) ListMessages(ctx context.Context, conversationID primitive.ObjectID, before *time.Time, limit int64) ([]models.Message, error) {
	filter := bson.M{"conversation": conversationID}
	if before != nil {
		filter["created_at"] = bson.M{"$lt": *before}
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var messages []models.Message
	if err = cursor.All(ctx, &messages); err != nil {
		return nil, err
	}

	sort.Slice(messages, func(i, j int) bool {
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})
	return messages, nil
}

// MarkAllRead marks every unread message addressed to readerID in the
// conversation as read. Re-invoking with nothing unread is a no-op.
func (r *MongoMessageRepository) MarkAllRead(ctx context.Context, conversationID primitive.ObjectID, readerID string) error {
	filter := bson.M{
		"conversation": conversationID,
		"recipient":    readerID,
		"is_read":      false,
	}
	update := bson.M{
		"$set": bson.M{
			"is_read": true,
			"read_at": time.Now(),
		},
	}
	_, err := r.collection.UpdateMany(ctx, filter, update)
	return err
}

// DeleteMessage removes a message; only its sender may delete it.
func (r *MongoMessageRepository) DeleteMessage(ctx context.Context, id string, requesterID string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperrors.Validationf("invalid message ID format")
	}

	var message models.Message
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&message)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return apperrors.NotFoundf("message not found")
		}
		return err
	}
	if message.Sender != requesterID {
		return apperrors.Authorizationf("only the sender can delete a message")
	}

	_, err = r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	return err
}
