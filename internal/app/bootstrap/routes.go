// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	authgooglefeature "github.com/dalemusser/bookclub/internal/app/features/authgoogle"
	errorsfeature "github.com/dalemusser/bookclub/internal/app/features/errors"
	healthfeature "github.com/dalemusser/bookclub/internal/app/features/health"
	homefeature "github.com/dalemusser/bookclub/internal/app/features/home"
	loginfeature "github.com/dalemusser/bookclub/internal/app/features/login"
	logoutfeature "github.com/dalemusser/bookclub/internal/app/features/logout"
	meetingsfeature "github.com/dalemusser/bookclub/internal/app/features/meetings"
	profilefeature "github.com/dalemusser/bookclub/internal/app/features/profile"
	searchfeature "github.com/dalemusser/bookclub/internal/app/features/search"
	shelffeature "github.com/dalemusser/bookclub/internal/app/features/shelf"
	userstore "github.com/dalemusser/bookclub/internal/app/store/users"
	"github.com/dalemusser/bookclub/internal/app/system/auth"
	"github.com/dalemusser/bookclub/internal/app/system/googlebooks"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. It initializes the template engine,
// applies session middleware, and mounts the feature routers: home, login,
// the Google OAuth flow, shelf, search, meetings, and profile.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Create the session manager using app config.
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Set up the UserFetcher so LoadSessionUser fetches fresh user data on
	// each request. Renames and deleted accounts take effect immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(deps.BookClubMongoDatabase))

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	// Create error logger for handlers.
	errLog := errorsfeature.NewErrorLogger(logger)

	// External book catalog client.
	books := googlebooks.New(appCfg.BooksAPIURL, appCfg.BooksLang, appCfg.PlaceholderCoverURL, logger)

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	// This makes the current user available to all handlers via auth.CurrentUser(r).
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.BookClubMongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	// Public pages
	homeHandler := homefeature.NewHandler(deps.BookClubMongoDatabase, logger)
	r.Mount("/", homefeature.Routes(homeHandler))

	// Authentication
	googleHandler := authgooglefeature.NewHandler(
		deps.BookClubMongoDatabase, sessionMgr,
		appCfg.GoogleClientID, appCfg.GoogleClientSecret, appCfg.BaseURL,
		logger)
	r.Mount("/auth/google", authgooglefeature.Routes(googleHandler))

	loginHandler := loginfeature.NewHandler(googleHandler.IsConfigured(), logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler))

	// Error pages
	errorsHandler := errorsfeature.NewHandler()
	r.Get("/forbidden", errorsHandler.Forbidden)
	r.Get("/unauthorized", errorsHandler.Unauthorized)
	r.NotFound(errorsHandler.NotFound)

	// Member-only features
	protected := r.With(sessionMgr.RequireSignedIn)

	shelfHandler := shelffeature.NewHandler(deps.BookClubMongoDatabase, errLog, logger)
	protected.Mount("/shelf", shelffeature.Routes(shelfHandler))

	searchHandler := searchfeature.NewHandler(deps.BookClubMongoDatabase, books, errLog, logger)
	protected.Mount("/search", searchfeature.Routes(searchHandler))

	meetingsHandler := meetingsfeature.NewHandler(deps.BookClubMongoDatabase, errLog, logger)
	protected.Mount("/meetings", meetingsfeature.Routes(meetingsHandler))

	profileHandler := profilefeature.NewHandler(deps.BookClubMongoDatabase, errLog, logger)
	protected.Mount("/profile", profilefeature.Routes(profileHandler))

	return r, nil
}
