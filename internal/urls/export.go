package urls

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// ExportTXT writes entries as name|url lines with a short comment preamble.
// The output round-trips through LoadTXT.
func ExportTXT(entries []Entry, path string) error {
	var b strings.Builder
	b.WriteString("# Exported URLs\n")
	b.WriteString("# Format: NAME|URL\n\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "%s|%s\n", e.Name, e.URL)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o600); err != nil {
		return fmt.Errorf("write txt export %s: %w", path, err)
	}
	return nil
}

// ExportCSV writes entries as a Name,URL header plus one row per entry.
func ExportCSV(entries []Entry, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv export %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	rows := [][]string{{"Name", "URL"}}
	for _, e := range entries {
		rows = append(rows, []string{e.Name, e.URL})
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv export %s: %w", path, err)
	}
	return nil
}

// sampleEntries seed the generated sample files.
var sampleEntries = []Entry{
	{Name: "Google", URL: "https://www.google.com"},
	{Name: "GitHub", URL: "https://github.com"},
	{Name: "Stack Overflow", URL: "https://stackoverflow.com"},
	{Name: "Go", URL: "https://go.dev"},
	{Name: "Wikipedia", URL: "https://www.wikipedia.org"},
}

// WriteSampleTXT creates an example TXT source file demonstrating every
// accepted line format.
func WriteSampleTXT(path string) error {
	content := `# Sample URL file
# Format: NAME|URL or NAME,URL or just URL
# Lines starting with # are comments

Google|https://www.google.com
GitHub|https://github.com
Stack Overflow,https://stackoverflow.com
https://go.dev
Wikipedia|https://www.wikipedia.org
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return fmt.Errorf("write sample txt %s: %w", path, err)
	}
	return nil
}

// WriteSampleCSV creates an example CSV source file with a header row.
func WriteSampleCSV(path string) error {
	return ExportCSV(sampleEntries, path)
}
