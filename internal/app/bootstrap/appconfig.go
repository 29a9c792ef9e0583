// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (ports, TLS,
// logging level, request limits). AppConfig is everything specific to
// the book club itself and is passed to most lifecycle hooks.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: bookclub-session)
	SessionDomain string // Cookie domain (blank means current host)

	// Google OAuth configuration. Sign-in is Google-only; when these are
	// blank the login page explains that sign-in is not configured.
	GoogleClientID     string
	GoogleClientSecret string

	// Base URL used to build the OAuth callback (e.g., http://localhost:3000)
	BaseURL string

	// Book catalog search configuration
	BooksAPIURL         string // Google Books volumes endpoint
	BooksLang           string // Optional langRestrict for searches (blank = all languages)
	PlaceholderCoverURL string // Cover image used when the catalog has none
}
