// internal/app/store/catalog/catalogstore.go
package catalogstore

import (
	"context"
	"time"

	"github.com/dalemusser/bookclub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("catalog_books")}
}

// Get loads a catalog book by its external volume ID.
// Returns mongo.ErrNoDocuments if the book was never cached.
func (s *Store) Get(ctx context.Context, googleID string) (models.CatalogBook, error) {
	var b models.CatalogBook
	if err := s.c.FindOne(ctx, bson.M{"_id": googleID}).Decode(&b); err != nil {
		return models.CatalogBook{}, err
	}
	return b, nil
}

// Upsert writes the catalog snapshot for a book, keyed by external volume
// ID. Repeated upserts of the same volume refresh the metadata in place;
// CreatedAt is preserved from the first write.
func (s *Store) Upsert(ctx context.Context, b models.CatalogBook) error {
	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"title":          b.Title,
			"authors":        b.Authors,
			"description":    b.Description,
			"cover_url":      b.CoverURL,
			"page_count":     b.PageCount,
			"published_date": b.PublishedDate,
			"publisher":      b.Publisher,
			"isbn":           b.ISBN,
			"updated_at":     now,
		},
		"$setOnInsert": bson.M{
			"created_at": now,
		},
	}
	_, err := s.c.UpdateByID(ctx, b.GoogleID, update, options.Update().SetUpsert(true))
	return err
}

// Count returns the number of cached catalog books.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}
