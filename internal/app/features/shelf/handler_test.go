package shelf_test

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	uierrors "github.com/dalemusser/bookclub/internal/app/features/errors"
	"github.com/dalemusser/bookclub/internal/app/features/shelf"
	shelfstore "github.com/dalemusser/bookclub/internal/app/store/shelf"
	"github.com/dalemusser/bookclub/internal/domain/models"
	"github.com/dalemusser/bookclub/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*shelf.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	h := shelf.NewHandler(db, uierrors.NewErrorLogger(logger), logger)
	return h, testutil.NewFixtures(t, db)
}

func postForm(target string, form url.Values, user testutil.TestUser) *http.Request {
	req := testutil.NewRequest("POST", target)
	req.Body = nil
	req = testutil.WithUser(req, user)
	req.PostForm = form
	req.Form = form
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestHandleAdd_FromCatalog(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := fx.CreateUser(ctx, "Ada", "ada@example.com")
	fx.CreateCatalogBook(ctx, "vol-1", "Piranesi", 272)

	form := url.Values{"google_id": {"vol-1"}, "status": {"want-to-read"}}
	req := postForm("/shelf", form, testutil.UserFor(user.ID, user.DisplayName))
	rec := testutil.NewRecorder()

	h.HandleAdd(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusSeeOther)
	rec.AssertRedirect(t, "/shelf?flash=added")

	store := shelfstore.New(fx.DB())
	buckets, err := store.ListByStatus(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListByStatus: %v", err)
	}
	if len(buckets.WantToRead) != 1 || buckets.WantToRead[0].GoogleID != "vol-1" {
		t.Fatalf("expected vol-1 in want-to-read, got %+v", buckets)
	}
}

func TestHandleAdd_AlreadyShelved(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := fx.CreateUser(ctx, "Ada", "ada@example.com")
	fx.CreateCatalogBook(ctx, "vol-1", "Piranesi", 272)
	fx.CreateShelfEntry(ctx, user.ID, "vol-1", "Piranesi", models.StatusWantToRead, 272)

	form := url.Values{"google_id": {"vol-1"}}
	req := postForm("/shelf", form, testutil.UserFor(user.ID, user.DisplayName))
	rec := testutil.NewRecorder()

	h.HandleAdd(rec.ResponseRecorder, req)

	rec.AssertRedirect(t, "/shelf?flash=already_shelved")
}

func TestHandleAdd_UnknownBook(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := fx.CreateUser(ctx, "Ada", "ada@example.com")

	form := url.Values{"google_id": {"never-cached"}}
	req := postForm("/shelf", form, testutil.UserFor(user.ID, user.DisplayName))
	rec := testutil.NewRecorder()

	// Error page rendering may panic without initialized templates.
	func() {
		defer func() { recover() }()
		h.HandleAdd(rec.ResponseRecorder, req)
	}()

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestHandleStatus(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := fx.CreateUser(ctx, "Ada", "ada@example.com")
	entry := fx.CreateShelfEntry(ctx, user.ID, "vol-1", "Piranesi", models.StatusWantToRead, 272)

	form := url.Values{"status": {models.StatusReading}}
	req := postForm("/shelf/"+entry.ID.Hex()+"/status", form, testutil.UserFor(user.ID, user.DisplayName))
	req = testutil.WithChiURLParam(req, "id", entry.ID.Hex())
	rec := testutil.NewRecorder()

	h.HandleStatus(rec.ResponseRecorder, req)

	rec.AssertRedirect(t, "/shelf")

	got, err := shelfstore.New(fx.DB()).GetByID(ctx, user.ID, entry.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != models.StatusReading {
		t.Errorf("status = %q, want reading", got.Status)
	}
}

func TestHandleStatus_NormalizesInput(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := fx.CreateUser(ctx, "Ada", "ada@example.com")
	entry := fx.CreateShelfEntry(ctx, user.ID, "vol-1", "Piranesi", models.StatusWantToRead, 272)

	// Status values arrive canonicalized regardless of spelling.
	form := url.Values{"status": {"  Finished "}}
	req := postForm("/shelf/"+entry.ID.Hex()+"/status", form, testutil.UserFor(user.ID, user.DisplayName))
	req = testutil.WithChiURLParam(req, "id", entry.ID.Hex())
	rec := testutil.NewRecorder()

	h.HandleStatus(rec.ResponseRecorder, req)

	rec.AssertRedirect(t, "/shelf")

	got, err := shelfstore.New(fx.DB()).GetByID(ctx, user.ID, entry.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != models.StatusFinished {
		t.Errorf("status = %q, want finished", got.Status)
	}
}

func TestHandleProgress(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := fx.CreateUser(ctx, "Ada", "ada@example.com")
	entry := fx.CreateShelfEntry(ctx, user.ID, "vol-1", "Piranesi", models.StatusReading, 272)

	form := url.Values{"progress": {"120"}}
	req := postForm("/shelf/"+entry.ID.Hex()+"/progress", form, testutil.UserFor(user.ID, user.DisplayName))
	req = testutil.WithChiURLParam(req, "id", entry.ID.Hex())
	rec := testutil.NewRecorder()

	h.HandleProgress(rec.ResponseRecorder, req)

	rec.AssertRedirect(t, "/shelf")

	got, err := shelfstore.New(fx.DB()).GetByID(ctx, user.ID, entry.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Progress != 120 {
		t.Errorf("progress = %d, want 120", got.Progress)
	}
}

func TestHandleProgress_NotANumber(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := fx.CreateUser(ctx, "Ada", "ada@example.com")
	entry := fx.CreateShelfEntry(ctx, user.ID, "vol-1", "Piranesi", models.StatusReading, 272)

	form := url.Values{"progress": {"halfway"}}
	req := postForm("/shelf/"+entry.ID.Hex()+"/progress", form, testutil.UserFor(user.ID, user.DisplayName))
	req = testutil.WithChiURLParam(req, "id", entry.ID.Hex())
	rec := testutil.NewRecorder()

	func() {
		defer func() { recover() }()
		h.HandleProgress(rec.ResponseRecorder, req)
	}()

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleRemove(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := fx.CreateUser(ctx, "Ada", "ada@example.com")
	entry := fx.CreateShelfEntry(ctx, user.ID, "vol-1", "Piranesi", models.StatusFinished, 272)

	req := testutil.NewAuthenticatedRequest("POST", "/shelf/"+entry.ID.Hex()+"/remove", testutil.UserFor(user.ID, user.DisplayName))
	req = testutil.WithChiURLParam(req, "id", entry.ID.Hex())
	rec := testutil.NewRecorder()

	h.HandleRemove(rec.ResponseRecorder, req)

	rec.AssertRedirect(t, "/shelf?flash=removed")

	if _, err := shelfstore.New(fx.DB()).GetByID(ctx, user.ID, entry.ID); err != shelfstore.ErrNotFound {
		t.Errorf("expected entry gone, got err=%v", err)
	}
}

func TestServeShelf_RequiresAuth(t *testing.T) {
	h, _ := newTestHandler(t)

	req := testutil.NewRequest("GET", "/shelf")
	rec := testutil.NewRecorder()

	h.ServeShelf(rec.ResponseRecorder, req)

	if rec.Code != http.StatusSeeOther || !strings.HasPrefix(rec.Header().Get("Location"), "/login") {
		t.Errorf("expected redirect to /login, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
}
