package catalogstore_test

import (
	"errors"
	"testing"

	catalogstore "github.com/dalemusser/bookclub/internal/app/store/catalog"
	"github.com/dalemusser/bookclub/internal/domain/models"
	"github.com/dalemusser/bookclub/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestUpsertIsIdempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := catalogstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	book := models.CatalogBook{
		GoogleID:  "vol-1",
		Title:     "Piranesi",
		Authors:   []string{"Susanna Clarke"},
		PageCount: 272,
	}

	if err := store.Upsert(ctx, book); err != nil {
		t.Fatalf("first Upsert failed: %v", err)
	}

	first, err := store.Get(ctx, "vol-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	// Second upsert refreshes metadata but keeps created_at.
	book.Title = "Piranesi (Updated)"
	if err := store.Upsert(ctx, book); err != nil {
		t.Fatalf("second Upsert failed: %v", err)
	}

	second, err := store.Get(ctx, "vol-1")
	if err != nil {
		t.Fatalf("Get after second Upsert failed: %v", err)
	}
	if second.Title != "Piranesi (Updated)" {
		t.Errorf("Title not refreshed: %q", second.Title)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("created_at changed on repeat upsert")
	}

	n, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 catalog book, got %d", n)
	}
}

func TestGetMissing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := catalogstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.Get(ctx, "never-cached")
	if !errors.Is(err, mongo.ErrNoDocuments) {
		t.Fatalf("expected mongo.ErrNoDocuments, got %v", err)
	}
}
