// internal/domain/models/book.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Shelf statuses. A shelf entry is in exactly one of these at a time.
const (
	StatusWantToRead = "want-to-read"
	StatusReading    = "reading"
	StatusFinished   = "finished"
)

// ValidShelfStatus reports whether s is one of the three shelf statuses.
func ValidShelfStatus(s string) bool {
	switch s {
	case StatusWantToRead, StatusReading, StatusFinished:
		return true
	}
	return false
}

// CatalogBook is the canonical copy of a book's external catalog metadata,
// shared by every member who shelves it. The document ID is the external
// volume ID, so inserts are naturally idempotent upserts.
//
// Catalog entries are reference data: they are never deleted, even after the
// last shelf entry pointing at them is removed.
type CatalogBook struct {
	GoogleID      string   `bson:"_id" json:"google_id"`
	Title         string   `bson:"title" json:"title"`
	Authors       []string `bson:"authors" json:"authors"`
	Description   string   `bson:"description,omitempty" json:"description,omitempty"`
	CoverURL      string   `bson:"cover_url,omitempty" json:"cover_url,omitempty"`
	PageCount     int      `bson:"page_count" json:"page_count"` // 0 = unknown
	PublishedDate string   `bson:"published_date,omitempty" json:"published_date,omitempty"`
	Publisher     string   `bson:"publisher,omitempty" json:"publisher,omitempty"`
	ISBN          string   `bson:"isbn,omitempty" json:"isbn,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// ShelfEntry is one user's relationship to one book: the status/progress
// pair plus a denormalized display snapshot of the catalog metadata, so
// shelf reads never join against catalog_books (and a missing catalog row
// is harmless).
//
// Invariants:
//   - (UserID, GoogleID) is unique (enforced by index).
//   - Progress is in [0, PageCount] whenever PageCount > 0.
type ShelfEntry struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID   primitive.ObjectID `bson:"user_id" json:"user_id"`
	GoogleID string             `bson:"google_id" json:"google_id"`

	Title     string   `bson:"title" json:"title"`
	Authors   []string `bson:"authors" json:"authors"`
	CoverURL  string   `bson:"cover_url,omitempty" json:"cover_url,omitempty"`
	PageCount int      `bson:"page_count" json:"page_count"`

	Status   string `bson:"status" json:"status"`
	Progress int    `bson:"progress" json:"progress"` // current page

	AddedAt   time.Time `bson:"added_at" json:"added_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// ProgressPercent returns reading progress as a whole percentage, 0 when
// the page count is unknown.
func (e ShelfEntry) ProgressPercent() int {
	if e.PageCount <= 0 {
		return 0
	}
	return int(float64(e.Progress) / float64(e.PageCount) * 100)
}
