package shelfstore_test

import (
	"testing"

	shelfstore "github.com/dalemusser/bookclub/internal/app/store/shelf"
	"github.com/dalemusser/bookclub/internal/domain/models"
	"github.com/dalemusser/bookclub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testBook(id string, pages int) models.CatalogBook {
	return models.CatalogBook{
		GoogleID:  id,
		Title:     "Test Book " + id,
		Authors:   []string{"Author One"},
		CoverURL:  "https://example.com/" + id + ".jpg",
		PageCount: pages,
	}
}

func TestAdd(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := shelfstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()

	e, err := store.Add(ctx, userID, testBook("vol-1", 300), "")
	require.NoError(t, err)
	assert.Equal(t, models.StatusWantToRead, e.Status, "default status")
	assert.Equal(t, 0, e.Progress)
	assert.Equal(t, "vol-1", e.GoogleID)
	assert.Equal(t, 300, e.PageCount)
	assert.False(t, e.ID.IsZero())
}

func TestAddDuplicate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := shelfstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()

	_, err := store.Add(ctx, userID, testBook("vol-1", 300), "")
	require.NoError(t, err)

	_, err = store.Add(ctx, userID, testBook("vol-1", 300), "reading")
	assert.ErrorIs(t, err, shelfstore.ErrAlreadyShelved)

	// A different member can shelve the same book.
	_, err = store.Add(ctx, primitive.NewObjectID(), testBook("vol-1", 300), "")
	assert.NoError(t, err)
}

func TestAddInvalidStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := shelfstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.Add(ctx, primitive.NewObjectID(), testBook("vol-1", 300), "abandoned")
	assert.ErrorIs(t, err, shelfstore.ErrInvalidStatus)
}

func TestSetStatusResetsProgressWhenStartingToRead(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := shelfstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	e, err := store.Add(ctx, userID, testBook("vol-1", 300), models.StatusReading)
	require.NoError(t, err)

	require.NoError(t, store.SetProgress(ctx, userID, e.ID, 150))

	// Finishing the book keeps the page the member stopped on.
	require.NoError(t, store.SetStatus(ctx, userID, e.ID, models.StatusFinished))
	got, err := store.GetByID(ctx, userID, e.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFinished, got.Status)
	assert.Equal(t, 150, got.Progress, "progress preserved when finishing")

	// Re-reading starts over.
	require.NoError(t, store.SetStatus(ctx, userID, e.ID, models.StatusReading))
	got, err = store.GetByID(ctx, userID, e.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Progress, "progress reset when moving into reading")
}

func TestSetStatusErrors(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := shelfstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	e, err := store.Add(ctx, userID, testBook("vol-1", 300), "")
	require.NoError(t, err)

	err = store.SetStatus(ctx, userID, e.ID, "not-a-status")
	assert.ErrorIs(t, err, shelfstore.ErrInvalidStatus)

	err = store.SetStatus(ctx, userID, primitive.NewObjectID(), models.StatusReading)
	assert.ErrorIs(t, err, shelfstore.ErrNotFound)

	// Another member cannot touch this entry.
	err = store.SetStatus(ctx, primitive.NewObjectID(), e.ID, models.StatusReading)
	assert.ErrorIs(t, err, shelfstore.ErrNotFound)
}

func TestSetProgress(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := shelfstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	e, err := store.Add(ctx, userID, testBook("vol-1", 300), models.StatusReading)
	require.NoError(t, err)

	require.NoError(t, store.SetProgress(ctx, userID, e.ID, 120))

	// Setting the same value again succeeds and changes nothing.
	require.NoError(t, store.SetProgress(ctx, userID, e.ID, 120))
	got, err := store.GetByID(ctx, userID, e.ID)
	require.NoError(t, err)
	assert.Equal(t, 120, got.Progress)

	// A rejected update must leave the stored progress untouched.
	assert.ErrorIs(t, store.SetProgress(ctx, userID, e.ID, -1), shelfstore.ErrInvalidProgress)
	got, err = store.GetByID(ctx, userID, e.ID)
	require.NoError(t, err)
	assert.Equal(t, 120, got.Progress)

	assert.ErrorIs(t, store.SetProgress(ctx, userID, e.ID, 301), shelfstore.ErrInvalidProgress)
	got, err = store.GetByID(ctx, userID, e.ID)
	require.NoError(t, err)
	assert.Equal(t, 120, got.Progress)

	assert.ErrorIs(t, store.SetProgress(ctx, userID, primitive.NewObjectID(), 10), shelfstore.ErrNotFound)

	require.NoError(t, store.SetProgress(ctx, userID, e.ID, 300))
	got, err = store.GetByID(ctx, userID, e.ID)
	require.NoError(t, err)
	assert.Equal(t, 300, got.Progress)
}

func TestSetProgressUnknownPageCount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := shelfstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	e, err := store.Add(ctx, userID, testBook("vol-1", 0), models.StatusReading)
	require.NoError(t, err)

	// Any non-negative page is fine when the count is unknown.
	assert.NoError(t, store.SetProgress(ctx, userID, e.ID, 9999))
}

func TestRemove(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := shelfstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	e, err := store.Add(ctx, userID, testBook("vol-1", 300), "")
	require.NoError(t, err)

	require.NoError(t, store.Remove(ctx, userID, e.ID))
	assert.ErrorIs(t, store.Remove(ctx, userID, e.ID), shelfstore.ErrNotFound)

	// Removing and re-adding works; the unique index no longer blocks it.
	_, err = store.Add(ctx, userID, testBook("vol-1", 300), "")
	assert.NoError(t, err)
}

func TestListByStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := shelfstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	otherID := primitive.NewObjectID()

	_, err := store.Add(ctx, userID, testBook("vol-1", 100), models.StatusReading)
	require.NoError(t, err)
	_, err = store.Add(ctx, userID, testBook("vol-2", 100), models.StatusWantToRead)
	require.NoError(t, err)
	_, err = store.Add(ctx, userID, testBook("vol-3", 100), models.StatusFinished)
	require.NoError(t, err)
	_, err = store.Add(ctx, otherID, testBook("vol-4", 100), models.StatusReading)
	require.NoError(t, err)

	b, err := store.ListByStatus(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, b.Reading, 1)
	assert.Len(t, b.WantToRead, 1)
	assert.Len(t, b.Finished, 1)
	assert.Equal(t, 3, b.Total())
	assert.Equal(t, "vol-1", b.Reading[0].GoogleID)

	n, err := store.CountByUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestShelvedIDs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := shelfstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	_, err := store.Add(ctx, userID, testBook("vol-1", 100), "")
	require.NoError(t, err)
	_, err = store.Add(ctx, userID, testBook("vol-2", 100), "")
	require.NoError(t, err)

	ids, err := store.ShelvedIDs(ctx, userID)
	require.NoError(t, err)
	assert.True(t, ids["vol-1"])
	assert.True(t, ids["vol-2"])
	assert.False(t, ids["vol-3"])
}
