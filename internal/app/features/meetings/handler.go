// internal/app/features/meetings/handler.go
package meetings

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	uierrors "github.com/dalemusser/bookclub/internal/app/features/errors"
	meetingstore "github.com/dalemusser/bookclub/internal/app/store/meetings"
	"github.com/dalemusser/bookclub/internal/app/system/auth"
	"github.com/dalemusser/bookclub/internal/app/system/authz"
	"github.com/dalemusser/bookclub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/bookclub/internal/app/system/timeouts"
	"github.com/dalemusser/bookclub/internal/app/system/viewdata"
	"github.com/dalemusser/bookclub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// datetimeLocal is the format produced by <input type="datetime-local">.
const datetimeLocal = "2006-01-02T15:04"

// Handler serves meeting scheduling and RSVPs.
type Handler struct {
	DB       *mongo.Database
	Meetings *meetingstore.Store
	ErrLog   *uierrors.ErrorLogger
	Log      *zap.Logger
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Meetings: meetingstore.New(db),
		ErrLog:   errLog,
		Log:      logger,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| View models                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

// meetingVM wraps a meeting with per-viewer fields the templates need.
type meetingVM struct {
	models.Meeting
	Attending bool
	CanEdit   bool
}

func (h *Handler) viewModel(m models.Meeting, viewer primitive.ObjectID) meetingVM {
	return meetingVM{
		Meeting:   m,
		Attending: m.HasRSVP(viewer.Hex()),
		CanEdit:   m.CreatedBy == viewer,
	}
}

type listData struct {
	viewdata.BaseVM
	Upcoming []meetingVM
	Past     []meetingVM
}

type detailData struct {
	viewdata.BaseVM
	Meeting   meetingVM
	Attendees []models.RSVPInfo
}

type formData struct {
	viewdata.BaseVM
	Meeting      models.Meeting
	IsEdit       bool
	ScheduledVal string // pre-filled datetime-local value
	ErrorMessage string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /meetings – upcoming and past                                           |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	_, userID, ok := authz.UserCtx(r)
	if !ok {
		http.Redirect(w, r, "/login?return=%2Fmeetings", http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	upcoming, past, err := h.Meetings.List(ctx, time.Now().UTC())
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list meetings failed", err, "We couldn't load the meetings.", "/")
		return
	}

	data := listData{
		BaseVM: viewdata.NewBaseVM(r, "Meetings", "/"),
	}
	for _, m := range upcoming {
		data.Upcoming = append(data.Upcoming, h.viewModel(m, userID))
	}
	for _, m := range past {
		data.Past = append(data.Past, h.viewModel(m, userID))
	}

	templates.Render(w, r, "meetings_list", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /meetings/new, POST /meetings – schedule                                |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	if !authz.SignedIn(r) {
		http.Redirect(w, r, "/login?return=%2Fmeetings%2Fnew", http.StatusSeeOther)
		return
	}

	templates.Render(w, r, "meetings_form", formData{
		BaseVM: viewdata.NewBaseVM(r, "Schedule a meeting", "/meetings"),
	})
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	_, userID, ok := authz.UserCtx(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	upd, errMsg := h.parseMeetingForm(r)
	if errMsg == "" && upd.ScheduledAt.Before(time.Now().UTC()) {
		errMsg = "Pick a time in the future."
	}
	if errMsg != "" {
		templates.Render(w, r, "meetings_form", formData{
			BaseVM:       viewdata.NewBaseVM(r, "Schedule a meeting", "/meetings"),
			ErrorMessage: errMsg,
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	m, err := h.Meetings.Create(ctx, models.Meeting{
		BookTitle:    upd.BookTitle,
		ScheduledAt:  upd.ScheduledAt,
		LocationName: upd.LocationName,
		LocationLink: upd.LocationLink,
		CreatedBy:    userID,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create meeting failed", err, "A database error occurred.", "/meetings")
		return
	}

	h.Log.Info("meeting scheduled",
		zap.String("meeting_id", m.ID.Hex()),
		zap.String("created_by", userID.Hex()),
		zap.Time("scheduled_at", m.ScheduledAt))

	http.Redirect(w, r, "/meetings/"+m.ID.Hex(), http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /meetings/{id} – detail with attendee list                              |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeDetail(w http.ResponseWriter, r *http.Request) {
	_, userID, ok := authz.UserCtx(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	m, ok2 := h.loadMeeting(w, r)
	if !ok2 {
		return
	}

	data := detailData{
		BaseVM:  viewdata.NewBaseVM(r, m.BookTitle, "/meetings"),
		Meeting: h.viewModel(m, userID),
	}
	for _, info := range m.RSVPs {
		data.Attendees = append(data.Attendees, info)
	}

	templates.Render(w, r, "meetings_detail", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /meetings/{id}/edit, POST /meetings/{id} – reschedule (creator only)    |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	_, userID, ok := authz.UserCtx(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	m, ok2 := h.loadMeeting(w, r)
	if !ok2 {
		return
	}
	if m.CreatedBy != userID {
		h.ErrLog.LogBadRequest(w, r, "edit meeting by non-creator", nil, "Only the member who scheduled this meeting can edit it.", "/meetings/"+m.ID.Hex())
		return
	}

	templates.Render(w, r, "meetings_form", formData{
		BaseVM:       viewdata.NewBaseVM(r, "Edit meeting", "/meetings/"+m.ID.Hex()),
		Meeting:      m,
		IsEdit:       true,
		ScheduledVal: m.ScheduledAt.Format(datetimeLocal),
	})
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	_, userID, ok := authz.UserCtx(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	m, ok2 := h.loadMeeting(w, r)
	if !ok2 {
		return
	}
	if m.CreatedBy != userID {
		h.ErrLog.LogBadRequest(w, r, "update meeting by non-creator", nil, "Only the member who scheduled this meeting can edit it.", "/meetings/"+m.ID.Hex())
		return
	}

	upd, errMsg := h.parseMeetingForm(r)
	if errMsg != "" {
		templates.Render(w, r, "meetings_form", formData{
			BaseVM:       viewdata.NewBaseVM(r, "Edit meeting", "/meetings/"+m.ID.Hex()),
			Meeting:      m,
			IsEdit:       true,
			ScheduledVal: m.ScheduledAt.Format(datetimeLocal),
			ErrorMessage: errMsg,
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Meetings.UpdateInfo(ctx, m.ID, upd); err != nil {
		h.ErrLog.LogServerError(w, r, "update meeting failed", err, "A database error occurred.", "/meetings")
		return
	}

	http.Redirect(w, r, "/meetings/"+m.ID.Hex(), http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /meetings/{id}/rsvp – toggle attendance                                |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleRSVP(w http.ResponseWriter, r *http.Request) {
	user, okUser := auth.CurrentUser(r)
	_, userID, ok := authz.UserCtx(r)
	if !ok || !okUser {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	meetingID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad meeting id", err, "Invalid meeting.", "/meetings")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	attending, err := h.Meetings.ToggleRSVP(ctx, meetingID, userID, models.RSVPInfo{
		DisplayName: user.Name,
		AvatarURL:   user.AvatarURL,
	})
	switch {
	case errors.Is(err, meetingstore.ErrNotFound):
		h.ErrLog.LogNotFound(w, r, "rsvp: meeting not found", err, "That meeting doesn't exist.", "/meetings")
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "toggle rsvp failed", err, "A database error occurred.", "/meetings")
		return
	}

	h.Log.Info("rsvp toggled",
		zap.String("meeting_id", meetingID.Hex()),
		zap.String("user_id", userID.Hex()),
		zap.Bool("attending", attending))

	http.Redirect(w, r, "/meetings/"+meetingID.Hex(), http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /meetings/{id}/delete – cancel (creator only)                          |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	_, userID, ok := authz.UserCtx(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	m, ok2 := h.loadMeeting(w, r)
	if !ok2 {
		return
	}
	if m.CreatedBy != userID {
		h.ErrLog.LogBadRequest(w, r, "delete meeting by non-creator", nil, "Only the member who scheduled this meeting can cancel it.", "/meetings/"+m.ID.Hex())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Meetings.Delete(ctx, m.ID); err != nil && !errors.Is(err, meetingstore.ErrNotFound) {
		h.ErrLog.LogServerError(w, r, "delete meeting failed", err, "A database error occurred.", "/meetings")
		return
	}

	h.Log.Info("meeting cancelled",
		zap.String("meeting_id", m.ID.Hex()),
		zap.String("user_id", userID.Hex()))

	http.Redirect(w, r, "/meetings", http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Helpers                                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

// loadMeeting parses {id} and loads the meeting, rendering an error page and
// returning ok=false when it can't.
func (h *Handler) loadMeeting(w http.ResponseWriter, r *http.Request) (models.Meeting, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad meeting id", err, "Invalid meeting.", "/meetings")
		return models.Meeting{}, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	m, err := h.Meetings.GetByID(ctx, id)
	if errors.Is(err, meetingstore.ErrNotFound) {
		h.ErrLog.LogNotFound(w, r, "meeting not found", err, "That meeting doesn't exist.", "/meetings")
		return models.Meeting{}, false
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load meeting failed", err, "A database error occurred.", "/meetings")
		return models.Meeting{}, false
	}
	return m, true
}

// parseMeetingForm validates the create/edit form. The returned message is
// empty on success and user-facing otherwise.
func (h *Handler) parseMeetingForm(r *http.Request) (meetingstore.Update, string) {
	if err := r.ParseForm(); err != nil {
		return meetingstore.Update{}, "Invalid form data."
	}

	title := htmlsanitize.PlainText(r.FormValue("book_title"))
	if title == "" {
		return meetingstore.Update{}, "The book title is required."
	}

	when, err := time.ParseInLocation(datetimeLocal, r.FormValue("scheduled_at"), time.UTC)
	if err != nil {
		return meetingstore.Update{}, "Pick a date and time for the meeting."
	}

	location := htmlsanitize.PlainText(r.FormValue("location_name"))
	if location == "" {
		return meetingstore.Update{}, "The location is required."
	}

	link := strings.TrimSpace(r.FormValue("location_link"))
	if link != "" {
		u, err := url.Parse(link)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return meetingstore.Update{}, "The map link must be an http(s) URL."
		}
	}

	return meetingstore.Update{
		BookTitle:    title,
		ScheduledAt:  when,
		LocationName: location,
		LocationLink: link,
	}, ""
}
