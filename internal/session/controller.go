// Package session coordinates the foreground caller and the single background
// capture worker: one URL store, one run at a time, progress observable while
// the run is in flight.
package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/halvorsen/snapreport/internal/capture"
	"github.com/halvorsen/snapreport/internal/pipeline"
	"github.com/halvorsen/snapreport/internal/progress"
	"github.com/halvorsen/snapreport/internal/progress/sinks"
	"github.com/halvorsen/snapreport/internal/urls"
)

// ErrRunActive is returned when Run is called while another run is still in
// progress. Only one capture run may be active per process.
var ErrRunActive = errors.New("a capture run is already active")

// ErrNoEntries is returned when Run is called with an empty URL store.
var ErrNoEntries = errors.New("no URLs loaded")

// Controller owns the URL store and the single-run gate. It is safe for
// concurrent use.
type Controller struct {
	store  *urls.Store
	logger *zap.Logger

	active atomic.Bool

	mu    sync.RWMutex
	tally *sinks.TallySink
}

// NewController returns a Controller over the given store.
func NewController(store *urls.Store, logger *zap.Logger) *Controller {
	if store == nil {
		store = urls.NewStore()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{store: store, logger: logger}
}

// Store exposes the URL store for loading, editing, and export.
func (c *Controller) Store() *urls.Store {
	return c.store
}

// Progress returns completed/total for the active run in [0, 1], plus whether
// a run is active. Intended for foreground polling while Run is in flight on
// another goroutine.
func (c *Controller) Progress() (float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.tally == nil {
		return 0, false
	}
	return c.tally.Ratio(), c.active.Load()
}

// Run snapshots the store and executes the capture pipeline on a background
// worker goroutine, blocking the caller until the worker finishes. Cancel the
// supplied context to stop the run at the next safe point; results captured
// before cancellation are returned.
func (c *Controller) Run(ctx context.Context, driver capture.Driver, opts pipeline.Options) ([]pipeline.Result, error) {
	if !c.active.CompareAndSwap(false, true) {
		return nil, ErrRunActive
	}
	defer c.active.Store(false)

	entries := c.store.Snapshot()
	if len(entries) == 0 {
		return nil, ErrNoEntries
	}

	tally := sinks.NewTallySink()
	c.mu.Lock()
	c.tally = tally
	c.mu.Unlock()

	hub := progress.NewHub(
		progress.Config{Logger: c.logger},
		sinks.NewLogSink(c.logger),
		tally,
	)
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := hub.Close(closeCtx); err != nil {
			c.logger.Warn("Progress hub did not close cleanly", zap.Error(err))
		}
	}()

	type outcome struct {
		results []pipeline.Result
		err     error
	}
	done := make(chan outcome, 1)
	go func() {
		results, err := pipeline.Run(ctx, entries, driver, opts, hub, c.logger)
		done <- outcome{results: results, err: err}
	}()

	out := <-done
	return out.results, out.err
}
