package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/baker339/DOGR/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	EnsureUser(ctx context.Context, userID, name string) (*models.User, error)
	GetUserByUserID(ctx context.Context, userID string) (*models.User, error)
	GetUsers(ctx context.Context) ([]models.User, error)
	AddFollowing(ctx context.Context, userID, targetID string) error
	RemoveFollowing(ctx context.Context, userID, targetID string) error
	AddFollower(ctx context.Context, userID, followerID string) error
	RemoveFollower(ctx context.Context, userID, followerID string) error
	SetFollowers(ctx context.Context, userID string, followers []string) error
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// MongoUserRepository implements UserRepository for MongoDB
type MongoUserRepository struct {
	collection   *mongo.Collection
	transactions bool
}

// NewMongoUserRepository creates a new MongoUserRepository. With transactions set,
// WithTransaction runs its callback in a multi-document transaction, which needs a
// replica set or sharded cluster.
func NewMongoUserRepository(db *mongo.Database, transactions bool) *MongoUserRepository {
	return &MongoUserRepository{collection: db.Collection("users"), transactions: transactions}
}

// EnsureIndexes makes userId unique.
func (r *MongoUserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// EnsureUser returns the user for userID, creating it when absent. A non-empty
// name overwrites the stored display name.
func (r *MongoUserRepository) EnsureUser(ctx context.Context, userID, name string) (*models.User, error) {
	onInsert := bson.M{
		"userId":    userID,
		"following": bson.A{},
		"followers": bson.A{},
		"createdAt": time.Now().UTC().Truncate(time.Millisecond),
	}
	update := bson.M{"$setOnInsert": onInsert}
	if name != "" {
		update["$set"] = bson.M{"name": name}
	} else {
		onInsert["name"] = ""
	}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var user models.User
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"userId": userID}, update, opts).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByUserID retrieves a user by identity-provider UID
func (r *MongoUserRepository) GetUserByUserID(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"userId": userID}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetUsers retrieves all users
func (r *MongoUserRepository) GetUsers(ctx context.Context) ([]models.User, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *MongoUserRepository) AddFollowing(ctx context.Context, userID, targetID string) error {
	return r.update(ctx, userID, bson.M{"$addToSet": bson.M{"following": targetID}})
}

func (r *MongoUserRepository) RemoveFollowing(ctx context.Context, userID, targetID string) error {
	return r.update(ctx, userID, bson.M{"$pull": bson.M{"following": targetID}})
}

func (r *MongoUserRepository) AddFollower(ctx context.Context, userID, followerID string) error {
	return r.update(ctx, userID, bson.M{"$addToSet": bson.M{"followers": followerID}})
}

func (r *MongoUserRepository) RemoveFollower(ctx context.Context, userID, followerID string) error {
	return r.update(ctx, userID, bson.M{"$pull": bson.M{"followers": followerID}})
}

// SetFollowers overwrites the follower set; used by the reconciliation pass.
func (r *MongoUserRepository) SetFollowers(ctx context.Context, userID string, followers []string) error {
	if followers == nil {
		followers = []string{}
	}
	return r.update(ctx, userID, bson.M{"$set": bson.M{"followers": followers}})
}

// WithTransaction runs fn inside a session transaction when enabled, or directly otherwise.
func (r *MongoUserRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if !r.transactions {
		return fn(ctx)
	}

	sess, err := r.collection.Database().Client().StartSession()
	if err != nil {
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

func (r *MongoUserRepository) update(ctx context.Context, userID string, update bson.M) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"userId": userID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}
