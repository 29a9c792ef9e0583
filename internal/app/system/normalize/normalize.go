// Package normalize holds small canonicalization helpers applied to
// user-supplied values before they are stored or compared.
package normalize

import (
	"strings"
)

// Email lowercases and trims an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name collapses interior runs of whitespace and trims the ends.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Status lowercases and trims a status value so comparisons are stable
// regardless of how the caller spelled it.
func Status(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
