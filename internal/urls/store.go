package urls

import (
	"errors"
	"sync"
)

// ErrIndexOutOfRange is returned by RemoveAt for positions outside the store.
var ErrIndexOutOfRange = errors.New("index out of range")

// Store is an ordered, duplicate-permitting sequence of entries held in
// memory for the session. Insertion order is significant: it becomes the
// section order of the generated report. Duplicates are permitted.
//
// Store is safe for concurrent use; in practice the interactive layer is the
// only writer and a pipeline run reads a Snapshot taken at start.
type Store struct {
	mu      sync.Mutex
	entries []Entry
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Append adds one entry at the end of the store.
func (s *Store) Append(entry Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
}

// Extend appends entries preserving their order.
func (s *Store) Extend(entries []Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entries...)
}

// RemoveAt removes and returns the entry at position. It fails with
// ErrIndexOutOfRange when position is invalid.
func (s *Store) RemoveAt(position int) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if position < 0 || position >= len(s.entries) {
		return Entry{}, ErrIndexOutOfRange
	}
	removed := s.entries[position]
	s.entries = append(s.entries[:position], s.entries[position+1:]...)
	return removed, nil
}

// Clear empties the store. It is idempotent.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Snapshot returns a copy of the current entries. Pipeline runs operate on a
// snapshot so that mutating the store mid-run cannot affect the run.
func (s *Store) Snapshot() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}
