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

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	GetPosts(ctx context.Context, authorID, tag string, skip, limit int64) ([]models.Post, int64, error)
	GetFeed(ctx context.Context, authorIDs []string, skip, limit int64) ([]models.Post, int64, error)
	SearchPosts(ctx context.Context, query string, limit int64) ([]models.Post, error)
	UpdatePost(ctx context.Context, id string, authorID string, update bson.M) error
	DeletePost(ctx context.Context, id string, authorID string) error
	AddLike(ctx context.Context, id string, userID string) error
	RemoveLike(ctx context.Context, id string, userID string) error
	AddComment(ctx context.Context, id string, comment models.PostComment) error
	AddShare(ctx context.Context, id string, userID string) error
	IncrementViews(ctx context.Context, id string) error
}

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("posts")}
}

// EnsureIndexes creates the feed and tag lookup indexes.
func (r *MongoPostRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "author_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "tags", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	})
	return err
}

// CreatePost creates a new post in MongoDB
func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	if post.Type == "" {
		post.Type = "post"
	}
	if post.Likes == nil {
		post.Likes = []string{}
	}
	if post.Comments == nil {
		post.Comments = []models.PostComment{}
	}
	if post.Shares == nil {
		post.Shares = []string{}
	}
	_, err := r.collection.InsertOne(ctx, post)
	return err
}

// GetPostByID retrieves a post by ID from MongoDB
func (r *MongoPostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.Validationf("invalid post ID format")
	}

	var post models.Post
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFoundf("post not found")
		}
		return nil, err
	}
	return &post, nil
}

// GetPosts retrieves published posts with optional author/tag filters
func (r *MongoPostRepository) GetPosts(ctx context.Context, authorID, tag string, skip, limit int64) ([]models.Post, int64, error) {
	filter := bson.M{"is_published": true}
	if authorID != "" {
		filter["author_id"] = authorID
	}
	if tag != "" {
		filter["tags"] = tag
	}
	return r.findPosts(ctx, filter, skip, limit)
}

// SearchPosts finds published posts whose content, title or tags match the
// query (case-insensitive)
func (r *MongoPostRepository) SearchPosts(ctx context.Context, query string, limit int64) ([]models.Post, error) {
	filter := bson.M{
		"is_published": true,
		"$or": bson.A{
			bson.M{"content": bson.M{"$regex": query, "$options": "i"}},
			bson.M{"title": bson.M{"$regex": query, "$options": "i"}},
			bson.M{"tags": bson.M{"$regex": query, "$options": "i"}},
		},
	}
	findOptions := options.Find().
		SetLimit(limit).
		SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// GetFeed retrieves published posts from the given authors
func (r *MongoPostRepository) GetFeed(ctx context.Context, authorIDs []string, skip, limit int64) ([]models.Post, int64, error) {
	filter := bson.M{
		"author_id":    bson.M{"$in": authorIDs},
		"is_published": true,
	}
	return r.findPosts(ctx, filter, skip, limit)
}

func (r *MongoPostRepository) findPosts(ctx context.Context, filter bson.M, skip, limit int64) ([]models.Post, int64, error) {
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	findOptions := options.Find().
		SetSkip(skip).
		SetLimit(limit).
		SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// UpdatePost updates a post's mutable fields; only the author may update.
func (r *MongoPostRepository) UpdatePost(ctx context.Context, id string, authorID string, update bson.M) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperrors.Validationf("invalid post ID format")
	}

	update["updated_at"] = time.Now()
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objID, "author_id": authorID},
		bson.M{"$set": update})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperrors.NotFoundf("post not found or not yours")
	}
	return nil
}

// DeletePost deletes a post; only the author may delete.
func (r *MongoPostRepository) DeletePost(ctx context.Context, id string, authorID string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperrors.Validationf("invalid post ID format")
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID, "author_id": authorID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperrors.NotFoundf("post not found or not yours")
	}
	return nil
}

// AddLike adds the user to the post's like set ($addToSet keeps it idempotent)
func (r *MongoPostRepository) AddLike(ctx context.Context, id string, userID string) error {
	return r.updateByID(ctx, id, bson.M{"$addToSet": bson.M{"likes": userID}})
}

// RemoveLike removes the user from the post's like set
func (r *MongoPostRepository) RemoveLike(ctx context.Context, id string, userID string) error {
	return r.updateByID(ctx, id, bson.M{"$pull": bson.M{"likes": userID}})
}

// AddComment appends a comment to the post
func (r *MongoPostRepository) AddComment(ctx context.Context, id string, comment models.PostComment) error {
	return r.updateByID(ctx, id, bson.M{"$push": bson.M{"comments": comment}})
}

// AddShare adds the user to the post's share set
func (r *MongoPostRepository) AddShare(ctx context.Context, id string, userID string) error {
	return r.updateByID(ctx, id, bson.M{"$addToSet": bson.M{"shares": userID}})
}

// IncrementViews increments the post's view counter
func (r *MongoPostRepository) IncrementViews(ctx context.Context, id string) error {
	return r.updateByID(ctx, id, bson.M{"$inc": bson.M{"views": 1}})
}

func (r *MongoPostRepository) updateByID(ctx context.Context, id string, update bson.M) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperrors.Validationf("invalid post ID format")
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperrors.NotFoundf("post not found")
	}
	return nil
}
