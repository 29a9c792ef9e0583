// internal/app/features/errors/logger.go
package errors

import (
	"net/http"

	"github.com/dalemusser/bookclub/internal/app/system/authz"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// ErrorLogger pairs structured logging with user-facing error pages so
// handlers can report a failure in one call.
type ErrorLogger struct {
	log *zap.Logger
}

// NewErrorLogger creates an ErrorLogger writing to the given zap logger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: logger}
}

// LogBadRequest logs a warning and shows a 400 error page. logMsg goes to
// the log; userMsg is what the member sees.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg, backURL string) {
	e.log.Warn(logMsg,
		zap.Error(err),
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method))
	e.renderPage(w, r, http.StatusBadRequest, "Something's not right", userMsg, backURL)
}

// LogNotFound logs a warning and shows a 404 error page.
func (e *ErrorLogger) LogNotFound(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg, backURL string) {
	e.log.Warn(logMsg,
		zap.Error(err),
		zap.String("path", r.URL.Path))
	e.renderPage(w, r, http.StatusNotFound, "Not found", userMsg, backURL)
}

// LogServerError logs an error and shows a 500 error page.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg, backURL string) {
	e.log.Error(logMsg,
		zap.Error(err),
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method))
	e.renderPage(w, r, http.StatusInternalServerError, "Something went wrong", userMsg, backURL)
}

func (e *ErrorLogger) renderPage(w http.ResponseWriter, r *http.Request, status int, title, userMsg, backURL string) {
	name, _, signedIn := authz.UserCtx(r)
	if backURL == "" {
		backURL = "/"
	}

	w.WriteHeader(status)
	templates.Render(w, r, "error_page", pageData{
		Title:      title,
		IsLoggedIn: signedIn,
		UserName:   name,
		Message:    userMsg,
		BackURL:    backURL,
	})
}
