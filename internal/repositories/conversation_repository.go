package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nahid-dev/devconnect/backend/internal/models"
	"github.com/nahid-dev/devconnect/backend/pkg/apperrors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConversationRepository defines the interface for conversation data operations.
// Unread counters are only ever touched through atomic field updates so two
// in-flight sends cannot lose an increment.
type ConversationRepository interface {
	GetOrCreate(ctx context.Context, participantA, participantB string) (*models.Conversation, error)
	GetByID(ctx context.Context, id string) (*models.Conversation, error)
	ListForUser(ctx context.Context, userID string) ([]models.Conversation, error)
	RecordNewMessage(ctx context.Context, conversationID primitive.ObjectID, messageID primitive.ObjectID, recipientID string, at time.Time) error
	MarkRead(ctx context.Context, conversationID primitive.ObjectID, readerID string) error
}

// MongoConversationRepository implements ConversationRepository for MongoDB
type MongoConversationRepository struct {
	collection *mongo.Collection
}

// NewMongoConversationRepository creates a new MongoConversationRepository
func NewMongoConversationRepository(db *mongo.Database) *MongoConversationRepository {
	return &MongoConversationRepository{collection: db.Collection("conversations")}
}

// EnsureIndexes creates the unique participant-pair index and the list-order
// index. The unique index is what makes GetOrCreate race-free: two concurrent
// first-contact requests resolve to a single document.
func (r *MongoConversationRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "participant_key", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "participants", Value: 1}, {Key: "last_message_at", Value: -1}},
		},
	})
	return err
}

// GetOrCreate returns the conversation between the two participants, creating
// it atomically if it does not exist. Order of the arguments does not matter.
func (r *MongoConversationRepository) GetOrCreate(ctx context.Context, participantA, participantB string) (*models.Conversation, error) {
	if participantA == participantB {
		return nil, apperrors.Validationf("cannot message yourself")
	}

	now := time.Now()
	key := models.ParticipantKey(participantA, participantB)
	update := bson.M{
		"$setOnInsert": bson.M{
			"participants":    []string{participantA, participantB},
			"last_message_at": now,
			"unread_count":    bson.M{participantA: 0, participantB: 0},
			"created_at":      now,
			"updated_at":      now,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var conversation models.Conversation
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"participant_key": key}, update, opts).Decode(&conversation)
	if err != nil {
		return nil, err
	}
	return &conversation, nil
}

// GetByID retrieves a conversation by its hex ID
func (r *MongoConversationRepository) GetByID(ctx context.Context, id string) (*models.Conversation, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.Validationf("invalid conversation ID format")
	}

	var conversation models.Conversation
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&conversation)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFoundf("conversation not found")
		}
		return nil, err
	}
	return &conversation, nil
}

// ListForUser retrieves the user's conversations, most recently active first
func (r *MongoConversationRepository) ListForUser(ctx context.Context, userID string) ([]models.Conversation, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "last_message_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"participants": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var conversations []models.Conversation
	if err = cursor.All(ctx, &conversations); err != nil {
		return nil, err
	}
	return conversations, nil
}

// RecordNewMessage advances lastMessage/lastMessageAt and increments the
// recipient's unread counter in a single atomic update.
func (r *MongoConversationRepository) RecordNewMessage(ctx context.Context, conversationID primitive.ObjectID, messageID primitive.ObjectID, recipientID string, at time.Time) error {
	update := bson.M{
		"$set": bson.M{
			"last_message":    messageID,
			"last_message_at": at,
			"updated_at":      at,
		},
		"$inc": bson.M{
			fmt.Sprintf("unread_count.%s", recipientID): 1,
		},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": conversationID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperrors.NotFoundf("conversation not found")
	}
	return nil
}

// MarkRead resets the reader's unread counter; the other participant's
// counter is untouched.
func (r *MongoConversationRepository) MarkRead(ctx context.Context, conversationID primitive.ObjectID, readerID string) error {
	update := bson.M{
		"$set": bson.M{
			fmt.Sprintf("unread_count.%s", readerID): 0,
			"updated_at":                             time.Now(),
		},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": conversationID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperrors.NotFoundf("conversation not found")
	}
	return nil
}
