package urls

import (
	"errors"
	"fmt"
	"strings"
)

// ErrLineSkipped marks lines that are intentionally ignored: blank lines and
// comment lines starting with '#'.
var ErrLineSkipped = errors.New("line skipped")

// ErrInvalidURL marks lines whose URL candidate failed validation. Callers
// log these as warnings and continue; a bad line never aborts a file load.
var ErrInvalidURL = errors.New("invalid url")

// headerSynonyms are the cell values that identify an optional header row in
// tabular input. Matching is case-insensitive and only row 1 is eligible.
var headerSynonyms = map[string]struct{}{
	"name":     {},
	"title":    {},
	"url_name": {},
	"url":      {},
	"link":     {},
	"website":  {},
}

// ParseLine turns one line of text into an Entry.
//
// The line is split on the first '|', else the first ',', else the first tab,
// in that priority order. A line without any separator is treated as a bare
// URL and receives a synthetic URL_<lineNumber> name, as does a split that
// yields fewer than two non-empty parts.
func ParseLine(line string, lineNumber int) (Entry, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return Entry{}, ErrLineSkipped
	}

	name, rawURL := splitLine(line)
	if name == "" {
		name = SyntheticName(lineNumber)
	}

	if !IsValidURL(rawURL) {
		return Entry{}, fmt.Errorf("line %d: %w: %q", lineNumber, ErrInvalidURL, rawURL)
	}
	return Entry{Name: name, URL: NormalizeURL(rawURL)}, nil
}

// splitLine separates a line into (name, url). The name is empty when the
// caller should synthesize one.
func splitLine(line string) (string, string) {
	var sep string
	switch {
	case strings.Contains(line, "|"):
		sep = "|"
	case strings.Contains(line, ","):
		sep = ","
	case strings.Contains(line, "\t"):
		sep = "\t"
	default:
		return "", line
	}

	parts := strings.SplitN(line, sep, 2)
	name := strings.TrimSpace(parts[0])
	rawURL := strings.TrimSpace(parts[1])
	if name == "" || rawURL == "" {
		// Fewer than two non-empty parts: the surviving part is the URL.
		if rawURL == "" {
			rawURL = name
		}
		return "", rawURL
	}
	return name, rawURL
}

// TableIssue records one rejected row of tabular input.
type TableIssue struct {
	Row    int
	Reason string
}

// ParseTable consumes rows of two or more columns and returns the entries
// parsed from the first two columns, regardless of header text.
//
// A header row is auto-detected by content: only the first row is eligible,
// and it is skipped when either of its first two cells case-insensitively
// matches a known header synonym. Rows with a missing name or url are
// skipped. Validation and normalization match ParseLine.
func ParseTable(rows [][]string) ([]Entry, []TableIssue) {
	var (
		entries []Entry
		issues  []TableIssue
	)
	for i, row := range rows {
		rowNum := i + 1
		if len(row) < 2 {
			issues = append(issues, TableIssue{Row: rowNum, Reason: "fewer than 2 columns"})
			continue
		}
		name := strings.TrimSpace(row[0])
		rawURL := strings.TrimSpace(row[1])

		if i == 0 && isHeaderRow(name, rawURL) {
			continue
		}
		if name == "" || rawURL == "" {
			issues = append(issues, TableIssue{Row: rowNum, Reason: "empty name or url"})
			continue
		}
		if !IsValidURL(rawURL) {
			issues = append(issues, TableIssue{Row: rowNum, Reason: fmt.Sprintf("invalid url %q", rawURL)})
			continue
		}
		entries = append(entries, Entry{Name: name, URL: NormalizeURL(rawURL)})
	}
	return entries, issues
}

func isHeaderRow(name, url string) bool {
	_, nameHit := headerSynonyms[strings.ToLower(name)]
	_, urlHit := headerSynonyms[strings.ToLower(url)]
	return nameHit || urlHit
}
