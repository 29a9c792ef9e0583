package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/bookclub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a test user as if they had signed in with Google.
func (f *Fixtures) CreateUser(ctx context.Context, displayName, email string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:            primitive.NewObjectID(),
		GoogleID:      "google-" + primitive.NewObjectID().Hex(),
		Email:         email,
		DisplayName:   displayName,
		DisplayNameCI: text.Fold(displayName),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateCatalogBook inserts a catalog book with the given volume ID and title.
func (f *Fixtures) CreateCatalogBook(ctx context.Context, googleID, title string, pageCount int) models.CatalogBook {
	f.t.Helper()

	now := time.Now().UTC()
	book := models.CatalogBook{
		GoogleID:  googleID,
		Title:     title,
		Authors:   []string{"Test Author"},
		PageCount: pageCount,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("catalog_books").InsertOne(ctx, book); err != nil {
		f.t.Fatalf("failed to create test catalog book: %v", err)
	}
	return book
}

// CreateShelfEntry puts a book on a user's shelf with the given status.
func (f *Fixtures) CreateShelfEntry(ctx context.Context, userID primitive.ObjectID, googleID, title, status string, pageCount int) models.ShelfEntry {
	f.t.Helper()

	now := time.Now().UTC()
	entry := models.ShelfEntry{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		GoogleID:  googleID,
		Title:     title,
		Authors:   []string{"Test Author"},
		PageCount: pageCount,
		Status:    status,
		AddedAt:   now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("shelf_entries").InsertOne(ctx, entry); err != nil {
		f.t.Fatalf("failed to create test shelf entry: %v", err)
	}
	return entry
}

// CreateMeeting schedules a test meeting at the given time.
func (f *Fixtures) CreateMeeting(ctx context.Context, bookTitle string, scheduledAt time.Time, createdBy primitive.ObjectID) models.Meeting {
	f.t.Helper()

	now := time.Now().UTC()
	meeting := models.Meeting{
		ID:           primitive.NewObjectID(),
		BookTitle:    bookTitle,
		ScheduledAt:  scheduledAt,
		LocationName: "Test Library",
		RSVPs:        map[string]models.RSVPInfo{},
		CreatedBy:    createdBy,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := f.db.Collection("meetings").InsertOne(ctx, meeting); err != nil {
		f.t.Fatalf("failed to create test meeting: %v", err)
	}
	return meeting
}
