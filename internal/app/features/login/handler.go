// internal/app/features/login/handler.go
package login

import (
	"net/http"

	"github.com/dalemusser/bookclub/internal/app/system/authz"
	"github.com/dalemusser/bookclub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"go.uber.org/zap"
)

// Handler serves the sign-in page. Google is the only sign-in method, so
// the page is mostly a button plus error reporting from the OAuth flow.
type Handler struct {
	Log           *zap.Logger
	GoogleEnabled bool
}

func NewHandler(googleEnabled bool, logger *zap.Logger) *Handler {
	return &Handler{
		Log:           logger,
		GoogleEnabled: googleEnabled,
	}
}

type loginData struct {
	viewdata.BaseVM
	GoogleEnabled bool
	ErrorMessage  string
	ReturnURL     string
}

// errorMessages maps OAuth error codes (passed back via ?error=) to text
// safe to show the member.
var errorMessages = map[string]string{
	"google_denied":         "Google sign-in was cancelled.",
	"google_not_configured": "Sign-in isn't set up yet. Contact the club organizer.",
	"invalid_state":         "Your sign-in session expired. Please try again.",
	"invalid_code":          "Sign-in failed. Please try again.",
	"token_exchange":        "Sign-in failed. Please try again.",
	"user_info":             "We couldn't read your Google profile. Please try again.",
	"unverified_email":      "Your Google email address isn't verified.",
	"session":               "We couldn't start your session. Please try again.",
	"internal":              "Something went wrong. Please try again.",
}

// ServeLogin handles GET /login.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	// Already signed in: nothing to do here.
	if authz.SignedIn(r) {
		http.Redirect(w, r, urlutil.SafeReturn(query.Get(r, "return"), "", "/shelf"), http.StatusSeeOther)
		return
	}

	data := loginData{
		BaseVM:        viewdata.NewBaseVM(r, "Sign in", "/"),
		GoogleEnabled: h.GoogleEnabled,
		ReturnURL:     query.Get(r, "return"),
	}

	if code := query.Get(r, "error"); code != "" {
		msg, ok := errorMessages[code]
		if !ok {
			msg = errorMessages["internal"]
		}
		data.ErrorMessage = msg
		h.Log.Debug("login page showing error", zap.String("code", code))
	}

	templates.Render(w, r, "login", data)
}
