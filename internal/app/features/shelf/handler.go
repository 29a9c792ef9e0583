// internal/app/features/shelf/handler.go
package shelf

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	uierrors "github.com/dalemusser/bookclub/internal/app/features/errors"
	catalogstore "github.com/dalemusser/bookclub/internal/app/store/catalog"
	shelfstore "github.com/dalemusser/bookclub/internal/app/store/shelf"
	"github.com/dalemusser/bookclub/internal/app/system/authz"
	"github.com/dalemusser/bookclub/internal/app/system/normalize"
	"github.com/dalemusser/bookclub/internal/app/system/timeouts"
	"github.com/dalemusser/bookclub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the member's book shelf.
type Handler struct {
	DB      *mongo.Database
	Shelf   *shelfstore.Store
	Catalog *catalogstore.Store
	ErrLog  *uierrors.ErrorLogger
	Log     *zap.Logger
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:      db,
		Shelf:   shelfstore.New(db),
		Catalog: catalogstore.New(db),
		ErrLog:  errLog,
		Log:     logger,
	}
}

type shelfData struct {
	viewdata.BaseVM
	Buckets shelfstore.Buckets
	Flash   string
}

// flashMessages maps ?flash= codes to text shown at the top of the shelf.
var flashMessages = map[string]string{
	"added":           "Added to your shelf.",
	"removed":         "Removed from your shelf.",
	"already_shelved": "That book is already on your shelf.",
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /shelf – the member's shelf, grouped by status                          |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeShelf(w http.ResponseWriter, r *http.Request) {
	_, userID, ok := authz.UserCtx(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	buckets, err := h.Shelf.ListByStatus(ctx, userID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load shelf failed", err, "We couldn't load your shelf.", "/")
		return
	}

	data := shelfData{
		BaseVM:  viewdata.NewBaseVM(r, "My Shelf", "/"),
		Buckets: buckets,
		Flash:   flashMessages[r.URL.Query().Get("flash")],
	}
	templates.Render(w, r, "shelf", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /shelf – add a book from the catalog                                   |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	_, userID, ok := authz.UserCtx(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/search")
		return
	}

	googleID := r.FormValue("google_id")
	status := normalize.Status(r.FormValue("status"))
	if googleID == "" {
		h.ErrLog.LogBadRequest(w, r, "add to shelf without google_id", nil, "No book selected.", "/search")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	// Search caches every result it shows, so the catalog copy is there by
	// the time a member clicks "add".
	book, err := h.Catalog.Get(ctx, googleID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		h.ErrLog.LogNotFound(w, r, "add to shelf: book not in catalog", err, "We don't know that book. Try searching again.", "/search")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load catalog book failed", err, "A database error occurred.", "/search")
		return
	}

	_, err = h.Shelf.Add(ctx, userID, book, status)
	switch {
	case errors.Is(err, shelfstore.ErrAlreadyShelved):
		http.Redirect(w, r, "/shelf?flash=already_shelved", http.StatusSeeOther)
		return
	case errors.Is(err, shelfstore.ErrInvalidStatus):
		h.ErrLog.LogBadRequest(w, r, "add to shelf with bad status", err, "That's not a valid shelf status.", "/search")
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "add to shelf failed", err, "A database error occurred.", "/search")
		return
	}

	h.Log.Info("book shelved",
		zap.String("user_id", userID.Hex()),
		zap.String("google_id", googleID))

	http.Redirect(w, r, "/shelf?flash=added", http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /shelf/{id}/status – move an entry between statuses                    |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	_, userID, ok := authz.UserCtx(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	entryID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad shelf entry id", err, "Invalid shelf entry.", "/shelf")
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/shelf")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	err = h.Shelf.SetStatus(ctx, userID, entryID, normalize.Status(r.FormValue("status")))
	switch {
	case errors.Is(err, shelfstore.ErrInvalidStatus):
		h.ErrLog.LogBadRequest(w, r, "set status with bad value", err, "That's not a valid shelf status.", "/shelf")
		return
	case errors.Is(err, shelfstore.ErrNotFound):
		h.ErrLog.LogNotFound(w, r, "set status: entry not found", err, "That book isn't on your shelf.", "/shelf")
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "set status failed", err, "A database error occurred.", "/shelf")
		return
	}

	http.Redirect(w, r, "/shelf", http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /shelf/{id}/progress – record the current page                         |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleProgress(w http.ResponseWriter, r *http.Request) {
	_, userID, ok := authz.UserCtx(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	entryID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad shelf entry id", err, "Invalid shelf entry.", "/shelf")
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/shelf")
		return
	}

	progress, err := strconv.Atoi(r.FormValue("progress"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "progress is not a number", err, "Progress must be a page number.", "/shelf")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	err = h.Shelf.SetProgress(ctx, userID, entryID, progress)
	switch {
	case errors.Is(err, shelfstore.ErrInvalidProgress):
		h.ErrLog.LogBadRequest(w, r, "progress out of range", err, "That page number is past the end of the book.", "/shelf")
		return
	case errors.Is(err, shelfstore.ErrNotFound):
		h.ErrLog.LogNotFound(w, r, "set progress: entry not found", err, "That book isn't on your shelf.", "/shelf")
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "set progress failed", err, "A database error occurred.", "/shelf")
		return
	}

	http.Redirect(w, r, "/shelf", http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /shelf/{id}/remove – take a book off the shelf                         |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	_, userID, ok := authz.UserCtx(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	entryID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad shelf entry id", err, "Invalid shelf entry.", "/shelf")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	err = h.Shelf.Remove(ctx, userID, entryID)
	switch {
	case errors.Is(err, shelfstore.ErrNotFound):
		h.ErrLog.LogNotFound(w, r, "remove: entry not found", err, "That book isn't on your shelf.", "/shelf")
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "remove from shelf failed", err, "A database error occurred.", "/shelf")
		return
	}

	http.Redirect(w, r, "/shelf?flash=removed", http.StatusSeeOther)
}
