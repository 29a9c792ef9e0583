// Package timeouts provides centralized timeout values for handler operations.
//
// These timeouts are used with context.WithTimeout for database and
// external-API calls made from HTTP handlers.
//
// Guidelines for choosing a timeout:
//   - Ping: health checks and connectivity verification
//   - Short: single-document reads or writes (load a meeting, toggle an RSVP)
//   - Medium: list queries and multi-step writes (shelf listing, add-to-shelf)
//   - Long: external catalog searches and anything crossing the network twice
package timeouts

import "time"

const (
	DefaultPing   = 2 * time.Second
	DefaultShort  = 5 * time.Second
	DefaultMedium = 10 * time.Second
	DefaultLong   = 30 * time.Second
)

// Ping returns the timeout for health checks.
func Ping() time.Duration { return DefaultPing }

// Short returns the timeout for simple single-document operations.
// Examples: get meeting by ID, RSVP toggle, progress update.
func Short() time.Duration { return DefaultShort }

// Medium returns the timeout for list queries and moderate writes.
// Examples: shelf listing, meeting list, add-to-shelf (catalog + entry).
func Medium() time.Duration { return DefaultMedium }

// Long returns the timeout for operations that call out to external services.
// Examples: book catalog search, OAuth token exchange + userinfo fetch.
func Long() time.Duration { return DefaultLong }
