// Package progress defines the event structures emitted by a capture run.
package progress

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Stage denotes the type of milestone represented by an Event.
type Stage string

// Supported progress stages.
const (
	StageRunStart    Stage = "RUN_START"
	StageEntryStart  Stage = "ENTRY_START"
	StageEntryDone   Stage = "ENTRY_DONE"
	StageEntryError  Stage = "ENTRY_ERROR"
	StageRunCanceled Stage = "RUN_CANCELED"
	StageRunDone     Stage = "RUN_DONE"
	StageRunError    Stage = "RUN_ERROR"
)

// Event captures a single milestone of a capture run.
type Event struct {
	// RunID uniquely identifies one pipeline run.
	RunID uuid.UUID
	// TS is the UTC timestamp recorded by the emitter.
	TS time.Time
	// Stage denotes which lifecycle or entry milestone occurred.
	Stage Stage
	// Name is the display name of the entry for entry-scoped stages.
	Name string
	// URL is the entry URL for entry-scoped stages.
	URL string
	// Completed counts entries processed so far (success or failure).
	Completed int
	// Total is the number of entries in the run snapshot.
	Total int
	// Artifacts is the number of image files produced for the entry.
	Artifacts int
	// Dur captures execution latency for entry completions.
	Dur time.Duration
	// Note lets emitters attach low-volume context (e.g. error text).
	Note string
}

// Ratio returns Completed/Total as the fraction reported to progress bars.
func (e Event) Ratio() float64 {
	if e.Total <= 0 {
		return 0
	}
	return float64(e.Completed) / float64(e.Total)
}

// Validate performs coarse validation on Event payloads.
func (e Event) Validate() error {
	if e.RunID == uuid.Nil {
		return errors.New("run id is required")
	}
	if e.TS.IsZero() {
		return errors.New("timestamp is required")
	}
	switch e.Stage {
	case StageRunStart, StageRunCanceled, StageRunDone, StageRunError:
	case StageEntryStart, StageEntryDone, StageEntryError:
		if e.URL == "" {
			return errors.New("entry stage requires url")
		}
	default:
		return fmt.Errorf("unknown stage %q", e.Stage)
	}
	if e.Completed < 0 || e.Total < 0 || e.Completed > e.Total {
		return errors.New("completed must be within [0, total]")
	}
	if e.Dur < 0 {
		return errors.New("duration must be >= 0")
	}
	return nil
}
