package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/baker339/DOGR/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	GetAllPosts(ctx context.Context) ([]models.Post, error)
	GetPostsByUserID(ctx context.Context, userID string) ([]models.Post, error)
	FindByAuthors(ctx context.Context, authorIDs []string, skip, limit int64) ([]models.Post, error)
	SampleExcludingAuthors(ctx context.Context, authorIDs, excludePostIDs []string, size int) ([]models.Post, error)
	ToggleLike(ctx context.Context, postID, userID string) (*models.Post, error)
	AppendComment(ctx context.Context, postID string, comment models.Comment) (*models.Post, error)
	DeleteOwnedPost(ctx context.Context, postID, ownerID string) (*models.Post, error)
}

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("posts")}
}

// EnsureIndexes creates the author/recency index used by the followed slice.
func (r *MongoPostRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	return err
}

// CreatePost assigns the identifier and creation time, then inserts the post
func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	if post.Likes == nil {
		post.Likes = []string{}
	}
	if post.Comments == nil {
		post.Comments = []models.Comment{}
	}
	_, err := r.collection.InsertOne(ctx, post)
	return err
}

// GetPostByID retrieves a post by ID from MongoDB
func (r *MongoPostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	objID, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var post models.Post
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// GetAllPosts returns every post, newest first
func (r *MongoPostRepository) GetAllPosts(ctx context.Context) ([]models.Post, error) {
	return r.find(ctx, bson.M{}, options.Find().SetSort(byRecency))
}

// GetPostsByUserID returns one author's posts, newest first
func (r *MongoPostRepository) GetPostsByUserID(ctx context.Context, userID string) ([]models.Post, error) {
	return r.find(ctx, bson.M{"userId": userID}, options.Find().SetSort(byRecency))
}

// FindByAuthors returns one recency-ordered page of posts written by authorIDs
func (r *MongoPostRepository) FindByAuthors(ctx context.Context, authorIDs []string, skip, limit int64) ([]models.Post, error) {
	if len(authorIDs) == 0 {
		return []models.Post{}, nil
	}
	findOptions := options.Find().SetSort(byRecency).SetSkip(skip).SetLimit(limit)
	return r.find(ctx, bson.M{"userId": bson.M{"$in": authorIDs}}, findOptions)
}

// SampleExcludingAuthors draws a uniform random sample of posts whose author is
// not in authorIDs and whose id is not in excludePostIDs
func (r *MongoPostRepository) SampleExcludingAuthors(ctx context.Context, authorIDs, excludePostIDs []string, size int) ([]models.Post, error) {
	if authorIDs == nil {
		authorIDs = []string{}
	}
	match := bson.M{"userId": bson.M{"$nin": authorIDs}}
	if len(excludePostIDs) > 0 {
		oids := make([]primitive.ObjectID, 0, len(excludePostIDs))
		for _, id := range excludePostIDs {
			if oid, err := primitive.ObjectIDFromHex(id); err == nil {
				oids = append(oids, oid)
			}
		}
		match["_id"] = bson.M{"$nin": oids}
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sample", Value: bson.M{"size": size}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// ToggleLike flips userID's membership in the like set in a single atomic
// pipeline update and returns the updated post
func (r *MongoPostRepository) ToggleLike(ctx context.Context, postID, userID string) (*models.Post, error) {
	objID, err := objectID(postID)
	if err != nil {
		return nil, err
	}

	likes := bson.M{"$ifNull": bson.A{"$likes", bson.A{}}}
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"likes": bson.M{"$cond": bson.A{
				bson.M{"$in": bson.A{userID, likes}},
				bson.M{"$setDifference": bson.A{likes, bson.A{userID}}},
				bson.M{"$concatArrays": bson.A{likes, bson.A{userID}}},
			}},
		}}},
	}
	return r.findOneAndUpdate(ctx, objID, update)
}

// AppendComment pushes comment onto the post's comment list and returns the updated post
func (r *MongoPostRepository) AppendComment(ctx context.Context, postID string, comment models.Comment) (*models.Post, error) {
	objID, err := objectID(postID)
	if err != nil {
		return nil, err
	}
	return r.findOneAndUpdate(ctx, objID, bson.M{"$push": bson.M{"comments": comment}})
}

// DeleteOwnedPost deletes the post only when ownerID authored it, returning the
// deleted document. A miss is resolved into ErrForbidden or ErrPostNotFound.
func (r *MongoPostRepository) DeleteOwnedPost(ctx context.Context, postID, ownerID string) (*models.Post, error) {
	objID, err := objectID(postID)
	if err != nil {
		return nil, err
	}

	var post models.Post
	err = r.collection.FindOneAndDelete(ctx, bson.M{"_id": objID, "userId": ownerID}).Decode(&post)
	if err == nil {
		return &post, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	n, err := r.collection.CountDocuments(ctx, bson.M{"_id": objID})
	if err != nil {
		return nil, fmt.Errorf("probe post existence: %w", err)
	}
	if n > 0 {
		return nil, ErrForbidden
	}
	return nil, ErrPostNotFound
}

var byRecency = bson.D{{Key: "createdAt", Value: -1}}

func (r *MongoPostRepository) find(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]models.Post, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *MongoPostRepository) findOneAndUpdate(ctx context.Context, id primitive.ObjectID, update interface{}) (*models.Post, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var post models.Post
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}
