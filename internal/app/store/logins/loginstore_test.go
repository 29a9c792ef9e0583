package loginstore_test

import (
	"testing"

	loginstore "github.com/dalemusser/bookclub/internal/app/store/logins"
	"github.com/dalemusser/bookclub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestRecordAndRecentByUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := loginstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()

	rec, err := store.Record(ctx, userID, "203.0.113.9", "Mozilla/5.0")
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if rec.ID == "" {
		t.Error("expected a generated record ID")
	}
	if _, err := store.Record(ctx, userID, "203.0.113.9", "Mozilla/5.0"); err != nil {
		t.Fatalf("second Record failed: %v", err)
	}
	if _, err := store.Record(ctx, primitive.NewObjectID(), "198.51.100.2", "curl/8"); err != nil {
		t.Fatalf("other user Record failed: %v", err)
	}

	recs, err := store.RecentByUser(ctx, userID, 10)
	if err != nil {
		t.Fatalf("RecentByUser failed: %v", err)
	}
	if len(recs) != 2 {
		t.Errorf("expected 2 records, got %d", len(recs))
	}

	n, err := store.CountByUser(ctx, userID)
	if err != nil {
		t.Fatalf("CountByUser failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected count 2, got %d", n)
	}
}
