package urls

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
)

// SourceNotFoundError reports a load file that does not exist. It is fatal to
// that one load call and leaves previously loaded entries untouched.
type SourceNotFoundError struct {
	Path string
}

func (e *SourceNotFoundError) Error() string {
	return fmt.Sprintf("file not found: %s", e.Path)
}

// LoadTXT reads entries from a UTF-8 text file, one per line. Blank lines and
// lines starting with '#' are ignored. Invalid lines are logged as warnings
// and skipped; the load still returns every successfully parsed entry.
func LoadTXT(path string, logger *zap.Logger) ([]Entry, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if _, err := os.Stat(path); err != nil {
		return nil, &SourceNotFoundError{Path: path}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open txt file %s: %w", path, err)
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		entry, err := ParseLine(scanner.Text(), lineNum)
		switch {
		case errors.Is(err, ErrLineSkipped):
			continue
		case err != nil:
			logger.Warn("Invalid URL line skipped",
				zap.String("file", path),
				zap.Int("line", lineNum),
				zap.String("raw", scanner.Text()),
			)
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read txt file %s: %w", path, err)
	}
	return entries, nil
}

// LoadCSV reads entries from a delimited tabular file. The first two columns
// are used as name and url regardless of header text; an optional header row
// is auto-detected by content. Rejected rows are logged as warnings.
func LoadCSV(path string, logger *zap.Logger) ([]Entry, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if _, err := os.Stat(path); err != nil {
		return nil, &SourceNotFoundError{Path: path}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv file %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // rows may vary in width; ParseTable decides
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv file %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("csv file %s is empty", path)
	}

	entries, issues := ParseTable(rows)
	for _, issue := range issues {
		logger.Warn("Invalid CSV row skipped",
			zap.String("file", path),
			zap.Int("row", issue.Row),
			zap.String("reason", issue.Reason),
		)
	}
	return entries, nil
}
