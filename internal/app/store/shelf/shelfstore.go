// internal/app/store/shelf/shelfstore.go
package shelfstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/bookclub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrAlreadyShelved is returned when a member adds a book that is
	// already on their shelf.
	ErrAlreadyShelved = errors.New("book is already on your shelf")

	// ErrInvalidStatus is returned for a status outside the three shelf
	// statuses.
	ErrInvalidStatus = errors.New(`status must be "want-to-read"|"reading"|"finished"`)

	// ErrInvalidProgress is returned for a negative page number or one past
	// the end of the book.
	ErrInvalidProgress = errors.New("progress must be between 0 and the page count")

	// ErrNotFound is returned when the entry does not exist or belongs to a
	// different member.
	ErrNotFound = errors.New("shelf entry not found")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("shelf_entries")}
}

// Add puts a book on the member's shelf with the given status
// ("want-to-read" when empty). The catalog snapshot fields are denormalized
// into the entry so shelf reads never join.
func (s *Store) Add(ctx context.Context, userID primitive.ObjectID, book models.CatalogBook, status string) (models.ShelfEntry, error) {
	if status == "" {
		status = models.StatusWantToRead
	}
	if !models.ValidShelfStatus(status) {
		return models.ShelfEntry{}, ErrInvalidStatus
	}

	now := time.Now().UTC()
	e := models.ShelfEntry{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		GoogleID:  book.GoogleID,
		Title:     book.Title,
		Authors:   book.Authors,
		CoverURL:  book.CoverURL,
		PageCount: book.PageCount,
		Status:    status,
		Progress:  0,
		AddedAt:   now,
		UpdatedAt: now,
	}

	if _, err := s.c.InsertOne(ctx, e); err != nil {
		if wafflemongo.IsDup(err) {
			return models.ShelfEntry{}, ErrAlreadyShelved
		}
		return models.ShelfEntry{}, err
	}
	return e, nil
}

// GetByID loads one entry, scoped to the owning member.
func (s *Store) GetByID(ctx context.Context, userID, entryID primitive.ObjectID) (models.ShelfEntry, error) {
	var e models.ShelfEntry
	err := s.c.FindOne(ctx, bson.M{"_id": entryID, "user_id": userID}).Decode(&e)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.ShelfEntry{}, ErrNotFound
	}
	if err != nil {
		return models.ShelfEntry{}, err
	}
	return e, nil
}

// SetStatus moves an entry to a new status. Moving into "reading" resets
// progress to zero (the member is starting the book); any other move leaves
// progress untouched.
func (s *Store) SetStatus(ctx context.Context, userID, entryID primitive.ObjectID, status string) error {
	if !models.ValidShelfStatus(status) {
		return ErrInvalidStatus
	}

	set := bson.M{
		"status":     status,
		"updated_at": time.Now().UTC(),
	}
	if status == models.StatusReading {
		set["progress"] = 0
	}

	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": entryID, "user_id": userID},
		bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetProgress records the member's current page. Progress must be
// non-negative, and no greater than the page count when the page count is
// known.
func (s *Store) SetProgress(ctx context.Context, userID, entryID primitive.ObjectID, progress int) error {
	if progress < 0 {
		return ErrInvalidProgress
	}

	e, err := s.GetByID(ctx, userID, entryID)
	if err != nil {
		return err
	}
	if e.PageCount > 0 && progress > e.PageCount {
		return ErrInvalidProgress
	}

	_, err = s.c.UpdateOne(ctx,
		bson.M{"_id": entryID, "user_id": userID},
		bson.M{"$set": bson.M{
			"progress":   progress,
			"updated_at": time.Now().UTC(),
		}})
	return err
}

// Remove deletes an entry from the member's shelf. The catalog snapshot in
// catalog_books is left alone.
func (s *Store) Remove(ctx context.Context, userID, entryID primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": entryID, "user_id": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Buckets groups a member's shelf by status, each bucket newest-first.
type Buckets struct {
	Reading    []models.ShelfEntry
	WantToRead []models.ShelfEntry
	Finished   []models.ShelfEntry
}

// Total returns the number of entries across all buckets.
func (b Buckets) Total() int {
	return len(b.Reading) + len(b.WantToRead) + len(b.Finished)
}

// ListByStatus loads the member's whole shelf grouped into status buckets.
func (s *Store) ListByStatus(ctx context.Context, userID primitive.ObjectID) (Buckets, error) {
	opts := options.Find().SetSort(bson.D{{Key: "added_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return Buckets{}, err
	}
	defer cur.Close(ctx)

	var b Buckets
	for cur.Next(ctx) {
		var e models.ShelfEntry
		if err := cur.Decode(&e); err != nil {
			return Buckets{}, err
		}
		switch e.Status {
		case models.StatusReading:
			b.Reading = append(b.Reading, e)
		case models.StatusFinished:
			b.Finished = append(b.Finished, e)
		default:
			b.WantToRead = append(b.WantToRead, e)
		}
	}
	return b, cur.Err()
}

// ShelvedIDs returns the set of external volume IDs on the member's shelf,
// used to mark search results that are already shelved.
func (s *Store) ShelvedIDs(ctx context.Context, userID primitive.ObjectID) (map[string]bool, error) {
	opts := options.Find().SetProjection(bson.M{"google_id": 1})
	cur, err := s.c.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	ids := make(map[string]bool)
	for cur.Next(ctx) {
		var e struct {
			GoogleID string `bson:"google_id"`
		}
		if err := cur.Decode(&e); err != nil {
			return nil, err
		}
		ids[e.GoogleID] = true
	}
	return ids, cur.Err()
}

// CountByUser returns the number of entries on the member's shelf.
func (s *Store) CountByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"user_id": userID})
}
