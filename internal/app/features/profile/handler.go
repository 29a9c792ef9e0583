// internal/app/features/profile/handler.go
package profile

import (
	"context"
	"errors"
	"net/http"
	"time"

	uierrors "github.com/dalemusser/bookclub/internal/app/features/errors"
	loginstore "github.com/dalemusser/bookclub/internal/app/store/logins"
	meetingstore "github.com/dalemusser/bookclub/internal/app/store/meetings"
	shelfstore "github.com/dalemusser/bookclub/internal/app/store/shelf"
	userstore "github.com/dalemusser/bookclub/internal/app/store/users"
	"github.com/dalemusser/bookclub/internal/app/system/authz"
	"github.com/dalemusser/bookclub/internal/app/system/timeouts"
	"github.com/dalemusser/bookclub/internal/app/system/viewdata"
	"github.com/dalemusser/bookclub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const recentLoginLimit = 5

// Handler serves the member's own profile page.
type Handler struct {
	DB       *mongo.Database
	Users    *userstore.Store
	Shelf    *shelfstore.Store
	Meetings *meetingstore.Store
	Logins   *loginstore.Store
	ErrLog   *uierrors.ErrorLogger
	Log      *zap.Logger
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Users:    userstore.New(db),
		Shelf:    shelfstore.New(db),
		Meetings: meetingstore.New(db),
		Logins:   loginstore.New(db),
		ErrLog:   errLog,
		Log:      logger,
	}
}

type profileData struct {
	viewdata.BaseVM
	User models.User

	WantToRead int
	Reading    int
	Finished   int
	ShelfTotal int

	UpcomingRSVPs []models.Meeting

	SignInCount  int64
	RecentLogins []models.LoginRecord
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /profile – account overview                                             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	_, userID, ok := authz.UserCtx(r)
	if !ok {
		http.Redirect(w, r, "/login?return=%2Fprofile", http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	user, err := h.Users.GetByID(ctx, userID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// Session references a deleted account; treat as signed out.
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load profile failed", err, "We couldn't load your profile.", "/")
		return
	}

	buckets, err := h.Shelf.ListByStatus(ctx, userID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load shelf counts failed", err, "We couldn't load your profile.", "/")
		return
	}

	total, err := h.Shelf.CountByUser(ctx, userID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count shelf failed", err, "We couldn't load your profile.", "/")
		return
	}

	data := profileData{
		BaseVM:     viewdata.NewBaseVM(r, "Profile", "/"),
		User:       *user,
		WantToRead: len(buckets.WantToRead),
		Reading:    len(buckets.Reading),
		Finished:   len(buckets.Finished),
		ShelfTotal: int(total),
	}

	if upcoming, _, err := h.Meetings.List(ctx, time.Now().UTC()); err == nil {
		for _, m := range upcoming {
			if m.HasRSVP(userID.Hex()) {
				data.UpcomingRSVPs = append(data.UpcomingRSVPs, m)
			}
		}
	} else {
		h.Log.Warn("load meetings failed", zap.Error(err))
	}

	// Sign-in history is nice-to-have; the page still renders without it.
	if count, err := h.Logins.CountByUser(ctx, userID); err == nil {
		data.SignInCount = count
	} else {
		h.Log.Warn("count sign-ins failed", zap.Error(err))
	}
	if recent, err := h.Logins.RecentByUser(ctx, userID, recentLoginLimit); err == nil {
		data.RecentLogins = recent
	} else {
		h.Log.Warn("load recent sign-ins failed", zap.Error(err))
	}

	templates.Render(w, r, "profile", data)
}
