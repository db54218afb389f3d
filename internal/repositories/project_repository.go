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

// ProjectRepository defines the interface for project data operations
type ProjectRepository interface {
	CreateProject(ctx context.Context, project *models.Project) error
	GetProjectByID(ctx context.Context, id string) (*models.Project, error)
	GetProjectsByUser(ctx context.Context, userID string) ([]models.Project, error)
	GetAllProjects(ctx context.Context, skip, limit int64) ([]models.Project, error)
	SearchProjects(ctx context.Context, query string, limit int64) ([]models.Project, error)
	UpdateProject(ctx context.Context, id string, userID string, update bson.M) error
	DeleteProject(ctx context.Context, id string, userID string) error
	AddLike(ctx context.Context, id string, userID string) error
	RemoveLike(ctx context.Context, id string, userID string) error
	AddComment(ctx context.Context, id string, comment models.PostComment) error
	DeleteComment(ctx context.Context, commentID string, userID string) error
}

// MongoProjectRepository implements ProjectRepository for MongoDB
type MongoProjectRepository struct {
	collection *mongo.Collection
}

// NewMongoProjectRepository creates a new MongoProjectRepository
func NewMongoProjectRepository(db *mongo.Database) *MongoProjectRepository {
	return &MongoProjectRepository{collection: db.Collection("projects")}
}

// EnsureIndexes creates the per-user listing index.
func (r *MongoProjectRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
	})
	return err
}

// CreateProject creates a new project in MongoDB
func (r *MongoProjectRepository) CreateProject(ctx context.Context, project *models.Project) error {
	project.ID = primitive.NewObjectID()
	project.CreatedAt = time.Now()
	project.UpdatedAt = project.CreatedAt
	if project.Likes == nil {
		project.Likes = []string{}
	}
	if project.Comments == nil {
		project.Comments = []models.PostComment{}
	}
	_, err := r.collection.InsertOne(ctx, project)
	return err
}

// GetProjectByID retrieves a project by ID from MongoDB
func (r *MongoProjectRepository) GetProjectByID(ctx context.Context, id string) (*models.Project, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.Validationf("invalid project ID format")
	}

	var project models.Project
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&project)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFoundf("project not found")
		}
		return nil, err
	}
	return &project, nil
}

// GetProjectsByUser retrieves a user's projects, newest first
func (r *MongoProjectRepository) GetProjectsByUser(ctx context.Context, userID string) ([]models.Project, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var projects []models.Project
	if err = cursor.All(ctx, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// GetAllProjects retrieves all projects with pagination
func (r *MongoProjectRepository) GetAllProjects(ctx context.Context, skip, limit int64) ([]models.Project, error) {
	findOptions := options.Find().
		SetSkip(skip).
		SetLimit(limit).
		SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.D{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var projects []models.Project
	if err = cursor.All(ctx, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// SearchProjects matches title, description or tech stack (case-insensitive)
func (r *MongoProjectRepository) SearchProjects(ctx context.Context, query string, limit int64) ([]models.Project, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"title": bson.M{"$regex": query, "$options": "i"}},
		bson.M{"description": bson.M{"$regex": query, "$options": "i"}},
		bson.M{"tech_stack": bson.M{"$regex": query, "$options": "i"}},
	}}
	findOptions := options.Find().
		SetLimit(limit).
		SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var projects []models.Project
	if err = cursor.All(ctx, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// UpdateProject updates a project's mutable fields; only the owner may update.
func (r *MongoProjectRepository) UpdateProject(ctx context.Context, id string, userID string, update bson.M) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperrors.Validationf("invalid project ID format")
	}

	update["updated_at"] = time.Now()
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objID, "user_id": userID},
		bson.M{"$set": update})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperrors.NotFoundf("project not found or not yours")
	}
	return nil
}

// DeleteProject deletes a project; only the owner may delete.
func (r *MongoProjectRepository) DeleteProject(ctx context.Context, id string, userID string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperrors.Validationf("invalid project ID format")
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID, "user_id": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperrors.NotFoundf("project not found or not yours")
	}
	return nil
}

// AddLike adds the user to the project's like set
func (r *MongoProjectRepository) AddLike(ctx context.Context, id string, userID string) error {
	return r.updateByID(ctx, id, bson.M{"$addToSet": bson.M{"likes": userID}})
}

// RemoveLike removes the user from the project's like set
func (r *MongoProjectRepository) RemoveLike(ctx context.Context, id string, userID string) error {
	return r.updateByID(ctx, id, bson.M{"$pull": bson.M{"likes": userID}})
}

// AddComment appends a comment to the project
func (r *MongoProjectRepository) AddComment(ctx context.Context, id string, comment models.PostComment) error {
	return r.updateByID(ctx, id, bson.M{"$push": bson.M{"comments": comment}})
}

// DeleteComment removes a comment by ID; only the comment's author may delete.
func (r *MongoProjectRepository) DeleteComment(ctx context.Context, commentID string, userID string) error {
	objID, err := primitive.ObjectIDFromHex(commentID)
	if err != nil {
		return apperrors.Validationf("invalid comment ID format")
	}
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"comments._id": objID, "comments.user_id": userID},
		bson.M{"$pull": bson.M{"comments": bson.M{"_id": objID, "user_id": userID}}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperrors.NotFoundf("comment not found or not yours")
	}
	return nil
}

func (r *MongoProjectRepository) updateByID(ctx context.Context, id string, update bson.M) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperrors.Validationf("invalid project ID format")
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperrors.NotFoundf("project not found")
	}
	return nil
}
