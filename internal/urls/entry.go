// Package urls implements parsing, validation, and in-memory storage of the
// named URL entries a capture run operates on.
package urls

import (
	"fmt"
	"strings"
)

// Entry is one (name, url) pair to be captured. Entries are immutable once
// created; edits replace the value rather than mutating it.
type Entry struct {
	// Name is the display label used for section headings and artifact names.
	// It is never empty; a synthetic URL_<line> name is assigned when absent.
	Name string
	// URL always carries an explicit http/https scheme after normalization.
	URL string
}

// SyntheticName builds the placeholder name assigned to entries parsed from
// lines that carry only a URL.
func SyntheticName(lineNumber int) string {
	return fmt.Sprintf("URL_%d", lineNumber)
}

// IsValidURL reports whether the candidate looks like a URL. This is a
// syntactic heuristic, not an RFC 3986 validation: it requires a dot in the
// host-ish remainder, rejects obviously malformed prefixes, and rejects
// embedded spaces (percent-encoded %20 is allowed).
func IsValidURL(raw string) bool {
	if raw == "" {
		return false
	}

	rest := raw
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		rest = raw[strings.Index(raw, "://")+3:]
	}
	if rest == "" {
		return false
	}
	if !strings.Contains(rest, ".") {
		return false
	}
	if strings.HasPrefix(rest, ".") || strings.HasPrefix(rest, "/") || strings.HasPrefix(rest, "@") {
		return false
	}
	if strings.Contains(strings.ReplaceAll(rest, "%20", ""), " ") {
		return false
	}
	return true
}

// NormalizeURL prefixes https:// when the URL carries no explicit scheme.
// Already scheme-qualified URLs are returned unchanged, so the function is
// idempotent.
func NormalizeURL(raw string) string {
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}
	return "https://" + raw
}
