// internal/app/features/home/handler.go
package home

import (
	"context"
	"net/http"
	"time"

	meetingstore "github.com/dalemusser/bookclub/internal/app/store/meetings"
	shelfstore "github.com/dalemusser/bookclub/internal/app/store/shelf"
	"github.com/dalemusser/bookclub/internal/app/system/authz"
	"github.com/dalemusser/bookclub/internal/app/system/timeouts"
	"github.com/dalemusser/bookclub/internal/app/system/viewdata"
	"github.com/dalemusser/bookclub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler holds dependencies needed to serve the home page.
type Handler struct {
	DB       *mongo.Database
	Shelf    *shelfstore.Store
	Meetings *meetingstore.Store
	Log      *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Shelf:    shelfstore.New(db),
		Meetings: meetingstore.New(db),
		Log:      logger,
	}
}

type homeData struct {
	viewdata.BaseVM
	Reading     []models.ShelfEntry
	NextMeeting *models.Meeting
	Attending   bool
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET / – landing                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeRoot(w http.ResponseWriter, r *http.Request) {
	data := homeData{
		BaseVM: viewdata.NewBaseVM(r, "Welcome", "/"),
	}

	// Signed-in members get their current reads and the next meeting on the
	// landing page; guests just get the sign-in pitch.
	if _, userID, ok := authz.UserCtx(r); ok {
		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
		defer cancel()

		buckets, err := h.Shelf.ListByStatus(ctx, userID)
		if err != nil {
			h.Log.Warn("home: load shelf failed", zap.Error(err))
		} else {
			data.Reading = buckets.Reading
		}

		next, err := h.Meetings.Next(ctx, time.Now().UTC())
		switch {
		case err == nil:
			data.NextMeeting = &next
			data.Attending = next.HasRSVP(userID.Hex())
		case err != meetingstore.ErrNotFound:
			h.Log.Warn("home: load next meeting failed", zap.Error(err))
		}
	}

	templates.Render(w, r, "home", data)
}
