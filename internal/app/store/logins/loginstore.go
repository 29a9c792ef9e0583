// internal/app/store/logins/loginstore.go
package loginstore

import (
	"context"
	"time"

	"github.com/dalemusser/bookclub/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store keeps an append-only record of successful sign-ins.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("login_records")}
}

// Record writes one sign-in event. The record ID is a UUID so events can be
// referenced without exposing the user's ObjectID.
func (s *Store) Record(ctx context.Context, userID primitive.ObjectID, ip, userAgent string) (models.LoginRecord, error) {
	rec := models.LoginRecord{
		ID:        uuid.NewString(),
		UserID:    userID,
		IP:        ip,
		UserAgent: userAgent,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, rec); err != nil {
		return models.LoginRecord{}, err
	}
	return rec, nil
}

// RecentByUser returns the user's most recent sign-ins, newest first.
func (s *Store) RecentByUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.LoginRecord, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)
	cur, err := s.c.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var recs []models.LoginRecord
	for cur.Next(ctx) {
		var r models.LoginRecord
		if err := cur.Decode(&r); err != nil {
			return nil, err
		}
		recs = append(recs, r)
	}
	return recs, cur.Err()
}

// CountByUser returns the total number of sign-ins recorded for a user.
func (s *Store) CountByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"user_id": userID})
}
