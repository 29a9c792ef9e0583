package userstore

import (
	"context"
	"time"

	"github.com/dalemusser/bookclub/internal/app/system/normalize"
	"github.com/dalemusser/bookclub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByGoogleID loads a user by their Google account ID.
// Returns mongo.ErrNoDocuments if the account has never signed in.
func (s *Store) GetByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"google_id": googleID}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GoogleProfile is the slice of the OAuth userinfo response we store.
type GoogleProfile struct {
	GoogleID    string
	Email       string
	DisplayName string
	AvatarURL   string
}

// UpsertFromGoogle creates the user on first sign-in and refreshes the
// profile snapshot on every later one. CreatedAt is only written on insert,
// so it records the member's first sign-in.
func (s *Store) UpsertFromGoogle(ctx context.Context, p GoogleProfile) (models.User, error) {
	name := normalize.Name(p.DisplayName)
	if name == "" {
		name = normalize.Email(p.Email)
	}
	now := time.Now().UTC()

	filter := bson.M{"google_id": p.GoogleID}
	update := bson.M{
		"$set": bson.M{
			"email":           normalize.Email(p.Email),
			"display_name":    name,
			"display_name_ci": text.Fold(name),
			"avatar_url":      p.AvatarURL,
			"updated_at":      now,
		},
		"$setOnInsert": bson.M{
			"google_id":  p.GoogleID,
			"created_at": now,
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var u models.User
	if err := s.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&u); err != nil {
		return models.User{}, err
	}
	return u, nil
}
