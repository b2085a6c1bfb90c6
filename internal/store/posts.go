package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/devlinkhq/devlink-backend/internal/models"
)

// ErrPostNotFound covers both malformed ids and ids with no document; the
// API treats them the same.
var ErrPostNotFound = errors.New("post not found")

// PostStore handles post document CRUD in MongoDB.
type PostStore struct {
	col *mongo.Collection
}

func NewPostStore(db *mongo.Database) *PostStore {
	return &PostStore{col: db.Collection("posts")}
}

func (s *PostStore) Insert(ctx context.Context, post *models.Post) (*models.Post, error) {
	post.Date = time.Now()
	if post.Likes == nil {
		post.Likes = []models.Like{}
	}
	if post.Comments == nil {
		post.Comments = []models.Comment{}
	}
	res, err := s.col.InsertOne(ctx, post)
	if err != nil {
		return nil, err
	}
	post.ID = res.InsertedID.(primitive.ObjectID)
	return post, nil
}

// List returns all posts, most recent first.
func (s *PostStore) List(ctx context.Context) ([]models.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cur, err := s.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var posts []models.Post
	if err := cur.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *PostStore) GetByID(ctx context.Context, id string) (*models.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrPostNotFound
	}
	var post models.Post
	err = s.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// Replace writes back a post read earlier in the same request. Last write
// wins; there is no optimistic concurrency control.
func (s *PostStore) Replace(ctx context.Context, post *models.Post) error {
	_, err := s.col.ReplaceOne(ctx, bson.M{"_id": post.ID}, post)
	return err
}

func (s *PostStore) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrPostNotFound
	}
	_, err = s.col.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}

// DeleteByUserID removes every post owned by the user (account deletion).
func (s *PostStore) DeleteByUserID(ctx context.Context, userID string) error {
	_, err := s.col.DeleteMany(ctx, bson.M{"user": userID})
	return err
}
