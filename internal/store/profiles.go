package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/devlinkhq/devlink-backend/internal/models"
)

// ErrProfileNotFound is returned when a user has no profile document yet.
var ErrProfileNotFound = errors.New("profile not found")

// ProfileStore handles profile document CRUD in MongoDB.
type ProfileStore struct {
	col *mongo.Collection
}

func NewProfileStore(db *mongo.Database) *ProfileStore {
	return &ProfileStore{col: db.Collection("profiles")}
}

// EnsureIndexes enforces at most one profile per user id.
func (s *ProfileStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// BuildUpdate assembles the $set document for an upsert. Only fields present
// in the request make it into the document, so omitted optional fields stay
// untouched on an existing profile.
func BuildUpdate(in *models.ProfileInput, skills []string) bson.M {
	set := bson.M{
		"status":     in.Status,
		"skills":     skills,
		"updated_at": time.Now(),
	}
	str := func(key string, v *string) {
		if v != nil {
			set[key] = *v
		}
	}
	str("company", in.Company)
	str("website", in.Website)
	str("location", in.Location)
	str("bio", in.Bio)
	str("githubusername", in.GithubUsername)
	str("social.youtube", in.Youtube)
	str("social.twitter", in.Twitter)
	str("social.facebook", in.Facebook)
	str("social.linkedin", in.Linkedin)
	str("social.instagram", in.Instagram)
	return set
}

// Upsert merges the $set document into the user's profile, creating the
// document if none exists, and returns the resulting profile.
func (s *ProfileStore) Upsert(ctx context.Context, userID string, set bson.M) (*models.Profile, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var p models.Profile
	err := s.col.FindOneAndUpdate(ctx,
		bson.M{"user_id": userID},
		bson.M{
			"$set":         set,
			"$setOnInsert": bson.M{"experience": []models.Experience{}, "education": []models.Education{}},
		},
		opts,
	).Decode(&p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ProfileStore) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	var p models.Profile
	err := s.col.FindOne(ctx, bson.M{"user_id": userID}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ProfileStore) List(ctx context.Context) ([]models.Profile, error) {
	cur, err := s.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var profiles []models.Profile
	if err := cur.All(ctx, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

// Replace writes back a profile read earlier in the same request. Last write
// wins; there is no optimistic concurrency control.
func (s *ProfileStore) Replace(ctx context.Context, p *models.Profile) error {
	_, err := s.col.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	return err
}

func (s *ProfileStore) DeleteByUserID(ctx context.Context, userID string) error {
	_, err := s.col.DeleteOne(ctx, bson.M{"user_id": userID})
	return err
}
