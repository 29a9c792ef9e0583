// internal/app/store/meetings/meetingstore.go
package meetingstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/bookclub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when no meeting exists with the given ID.
var ErrNotFound = errors.New("meeting not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("meetings")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Meeting, error) {
	var m models.Meeting
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Meeting{}, ErrNotFound
	}
	if err != nil {
		return models.Meeting{}, err
	}
	return m, nil
}

// Create schedules a meeting. The RSVP map starts empty; the creator joins
// by toggling like everyone else.
func (s *Store) Create(ctx context.Context, m models.Meeting) (models.Meeting, error) {
	now := time.Now().UTC()
	m.ID = primitive.NewObjectID()
	m.RSVPs = map[string]models.RSVPInfo{}
	m.CreatedAt = now
	m.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, m); err != nil {
		return models.Meeting{}, err
	}
	return m, nil
}

// Update holds the editable meeting fields.
type Update struct {
	BookTitle    string
	ScheduledAt  time.Time
	LocationName string
	LocationLink string
}

// UpdateInfo rewrites the meeting's details. RSVPs are untouched, even when
// the meeting is moved to a different time.
func (s *Store) UpdateInfo(ctx context.Context, id primitive.ObjectID, upd Update) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"book_title":    upd.BookTitle,
		"scheduled_at":  upd.ScheduledAt,
		"location_name": upd.LocationName,
		"location_link": upd.LocationLink,
		"updated_at":    time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a meeting. Returns ErrNotFound if it does not exist.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ToggleRSVP flips one member's attendance on a meeting and reports whether
// they are attending afterward.
//
// The flip touches only the member's own key ($unset if present, $set if
// absent), so two members toggling concurrently can never clobber each
// other's RSVPs.
func (s *Store) ToggleRSVP(ctx context.Context, meetingID, userID primitive.ObjectID, info models.RSVPInfo) (attending bool, err error) {
	key := "rsvps." + userID.Hex()
	now := time.Now().UTC()

	// Try to remove an existing RSVP first.
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": meetingID, key: bson.M{"$exists": true}},
		bson.M{
			"$unset": bson.M{key: ""},
			"$set":   bson.M{"updated_at": now},
		})
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 1 {
		return false, nil
	}

	// No existing RSVP: add one.
	res, err = s.c.UpdateOne(ctx,
		bson.M{"_id": meetingID},
		bson.M{"$set": bson.M{
			key:          info,
			"updated_at": now,
		}})
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 0 {
		return false, ErrNotFound
	}
	return true, nil
}

// List returns all meetings split into upcoming (soonest first) and past
// (most recent first), relative to the supplied clock reading.
func (s *Store) List(ctx context.Context, now time.Time) (upcoming, past []models.Meeting, err error) {
	opts := options.Find().SetSort(bson.D{{Key: "scheduled_at", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, nil, err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var m models.Meeting
		if err := cur.Decode(&m); err != nil {
			return nil, nil, err
		}
		if m.IsUpcoming(now) {
			upcoming = append(upcoming, m)
		} else {
			past = append(past, m)
		}
	}
	if err := cur.Err(); err != nil {
		return nil, nil, err
	}

	// past came out oldest-first; reverse to most recent first.
	for i, j := 0, len(past)-1; i < j; i, j = i+1, j-1 {
		past[i], past[j] = past[j], past[i]
	}
	return upcoming, past, nil
}

// Next returns the soonest upcoming meeting relative to now.
// Returns ErrNotFound when nothing is scheduled.
func (s *Store) Next(ctx context.Context, now time.Time) (models.Meeting, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "scheduled_at", Value: 1}})
	var m models.Meeting
	err := s.c.FindOne(ctx, bson.M{"scheduled_at": bson.M{"$gte": now}}, opts).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Meeting{}, ErrNotFound
	}
	if err != nil {
		return models.Meeting{}, err
	}
	return m, nil
}
