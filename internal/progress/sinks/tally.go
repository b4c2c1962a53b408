package sinks

import (
	"context"
	"sync"

	"github.com/halvorsen/snapreport/internal/progress"
)

// TallySink keeps in-memory counters the foreground thread polls to render a
// progress bar while the background worker captures.
type TallySink struct {
	mu        sync.RWMutex
	completed int
	total     int
	succeeded int
	failed    int
	artifacts int
}

// NewTallySink returns a zeroed tally.
func NewTallySink() *TallySink {
	return &TallySink{}
}

// Consume updates the counters from the event.
func (s *TallySink) Consume(_ context.Context, evt progress.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if evt.Total > 0 {
		s.total = evt.Total
	}
	switch evt.Stage {
	case progress.StageEntryDone:
		s.completed = evt.Completed
		s.succeeded++
		s.artifacts += evt.Artifacts
	case progress.StageEntryError:
		s.completed = evt.Completed
		s.failed++
	}
	return nil
}

// Ratio returns completed/total in [0, 1].
func (s *TallySink) Ratio() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.total <= 0 {
		return 0
	}
	return float64(s.completed) / float64(s.total)
}

// Counts returns (succeeded, failed, artifacts).
func (s *TallySink) Counts() (int, int, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.succeeded, s.failed, s.artifacts
}

// Close implements the Sink interface; it performs no action.
func (s *TallySink) Close(context.Context) error {
	return nil
}
