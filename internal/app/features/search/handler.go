// internal/app/features/search/handler.go
package search

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/bookclub/internal/app/features/errors"
	catalogstore "github.com/dalemusser/bookclub/internal/app/store/catalog"
	shelfstore "github.com/dalemusser/bookclub/internal/app/store/shelf"
	"github.com/dalemusser/bookclub/internal/app/system/authz"
	"github.com/dalemusser/bookclub/internal/app/system/googlebooks"
	"github.com/dalemusser/bookclub/internal/app/system/timeouts"
	"github.com/dalemusser/bookclub/internal/app/system/viewdata"
	"github.com/dalemusser/bookclub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves catalog search. Every result shown is cached into
// catalog_books, so add-to-shelf can work from the local copy.
type Handler struct {
	DB      *mongo.Database
	Books   *googlebooks.Client
	Catalog *catalogstore.Store
	Shelf   *shelfstore.Store
	ErrLog  *uierrors.ErrorLogger
	Log     *zap.Logger
}

func NewHandler(db *mongo.Database, books *googlebooks.Client, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:      db,
		Books:   books,
		Catalog: catalogstore.New(db),
		Shelf:   shelfstore.New(db),
		ErrLog:  errLog,
		Log:     logger,
	}
}

// resultVM is one search hit plus whether it is already on the member's shelf.
type resultVM struct {
	models.CatalogBook
	Shelved bool
}

type searchData struct {
	viewdata.BaseVM
	Query        string
	Results      []resultVM
	Searched     bool
	SearchFailed bool
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /search?q= – external catalog search                                    |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeSearch(w http.ResponseWriter, r *http.Request) {
	_, userID, ok := authz.UserCtx(r)
	if !ok {
		http.Redirect(w, r, "/login?return=%2Fsearch", http.StatusSeeOther)
		return
	}

	term := query.Get(r, "q")
	data := searchData{
		BaseVM: viewdata.NewBaseVM(r, "Find a book", "/shelf"),
		Query:  term,
	}

	if term != "" {
		data.Searched = true

		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
		defer cancel()

		books, err := h.Books.Search(ctx, term)
		if errors.Is(err, googlebooks.ErrSearchFailed) {
			// The catalog being down isn't fatal; show the page with a notice.
			data.SearchFailed = true
			templates.Render(w, r, "search", data)
			return
		}
		if err != nil {
			h.ErrLog.LogServerError(w, r, "catalog search failed", err, "Search is unavailable right now.", "/shelf")
			return
		}

		shelved, err := h.Shelf.ShelvedIDs(ctx, userID)
		if err != nil {
			h.Log.Warn("load shelved ids failed", zap.Error(err))
			shelved = map[string]bool{}
		}

		for _, b := range books {
			// Cache the catalog copy so HandleAdd can find it later.
			if err := h.Catalog.Upsert(ctx, b); err != nil {
				h.Log.Warn("cache catalog book failed",
					zap.String("google_id", b.GoogleID),
					zap.Error(err))
			}
			data.Results = append(data.Results, resultVM{
				CatalogBook: b,
				Shelved:     shelved[b.GoogleID],
			})
		}
	}

	templates.Render(w, r, "search", data)
}
