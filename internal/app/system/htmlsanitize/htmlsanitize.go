// Package htmlsanitize strips dangerous markup from user-entered text
// before it is stored or rendered.
package htmlsanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// ugc keeps the usual user-generated-content tags (p, strong, em,
	// lists, safe links) and drops scripts and event handlers.
	ugc = bluemonday.UGCPolicy()

	// strict strips all markup, leaving plain text.
	strict = bluemonday.StrictPolicy()
)

// Sanitize cleans a fragment of user-supplied HTML with the UGC policy.
func Sanitize(s string) string {
	return ugc.Sanitize(s)
}

// PlainText strips all markup and trims the result. Used for single-line
// fields like meeting titles and location names where markup is never
// legitimate.
func PlainText(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}
