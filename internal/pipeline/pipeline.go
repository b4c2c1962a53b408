// Package pipeline executes the capture run: one browser session, entries in
// order, per-entry failure tolerance, and cooperative cancellation.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/halvorsen/snapreport/internal/capture"
	"github.com/halvorsen/snapreport/internal/progress"
	"github.com/halvorsen/snapreport/internal/urls"
)

// Mode selects which capture variant runs per entry.
type Mode string

// Supported capture modes.
const (
	ModeDesktop  Mode = "desktop"
	ModeFullPage Mode = "fullpage"
	ModeBoth     Mode = "both"
	ModeScroll   Mode = "scroll"
)

// ParseMode validates a mode string from config or flags.
func ParseMode(raw string) (Mode, error) {
	switch Mode(raw) {
	case ModeDesktop, ModeFullPage, ModeBoth, ModeScroll:
		return Mode(raw), nil
	default:
		return "", fmt.Errorf("unknown capture mode %q", raw)
	}
}

// Options governs per-entry retry behavior and the capture mode.
type Options struct {
	Mode       Mode
	MaxRetries int
	RetryDelay time.Duration
}

// LoadOptions constructs Options by reading from Viper.
func LoadOptions(v *viper.Viper) (Options, error) {
	mode, err := ParseMode(v.GetString("pipeline.mode"))
	if err != nil {
		return Options{}, err
	}
	opts := Options{
		Mode:       mode,
		MaxRetries: v.GetInt("pipeline.max_retries"),
		RetryDelay: v.GetDuration("pipeline.retry_delay"),
	}
	return opts, opts.Validate()
}

// Validate checks for obviously bad option combinations.
func (o Options) Validate() error {
	if o.MaxRetries <= 0 {
		return fmt.Errorf("pipeline.max_retries must be > 0")
	}
	if o.RetryDelay < 0 {
		return fmt.Errorf("pipeline.retry_delay must be >= 0")
	}
	return nil
}

// Result is the outcome recorded for one entry. Artifacts is empty when the
// capture failed; Err is nil on success.
type Result struct {
	Entry     urls.Entry
	Artifacts []string
	Err       error
	Elapsed   time.Duration
}

// Run processes entries strictly in input order against one shared browser
// session. The session is opened before the first entry and torn down on
// every exit path. Cancellation is cooperative: the context is checked at
// entry boundaries, and a capture already written to disk is never rolled
// back. Partial results are valid input to the report assembler.
func Run(
	ctx context.Context,
	entries []urls.Entry,
	driver capture.Driver,
	opts Options,
	emitter progress.Emitter,
	logger *zap.Logger,
) ([]Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if emitter == nil {
		emitter = noopEmitter{}
	}

	runID := uuid.New()
	total := len(entries)
	emitter.Emit(progress.Event{
		RunID: runID,
		TS:    time.Now().UTC(),
		Stage: progress.StageRunStart,
		Total: total,
	})

	session, err := driver.Open(ctx)
	if err != nil {
		emitter.Emit(progress.Event{
			RunID: runID,
			TS:    time.Now().UTC(),
			Stage: progress.StageRunError,
			Total: total,
			Note:  err.Error(),
		})
		return nil, fmt.Errorf("open capture session: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if cerr := session.Close(closeCtx); cerr != nil {
			logger.Warn("Failed to close capture session", zap.Error(cerr))
		}
	}()

	results := make([]Result, 0, total)
	for i, entry := range entries {
		if ctx.Err() != nil {
			emitCanceled(emitter, runID, len(results), total)
			logger.Info("Capture run canceled", zap.Int("completed", len(results)), zap.Int("total", total))
			return results, nil
		}

		emitter.Emit(progress.Event{
			RunID:     runID,
			TS:        time.Now().UTC(),
			Stage:     progress.StageEntryStart,
			Name:      entry.Name,
			URL:       entry.URL,
			Completed: i,
			Total:     total,
		})

		start := time.Now()
		artifacts, err := captureWithRetry(ctx, session, entry, opts)
		elapsed := time.Since(start)

		if err != nil && ctx.Err() != nil {
			// The capture was interrupted by cancellation, not by the page;
			// do not record a failure for it.
			emitCanceled(emitter, runID, len(results), total)
			logger.Info("Capture run canceled mid-entry",
				zap.String("name", entry.Name),
				zap.Int("completed", len(results)),
				zap.Int("total", total),
			)
			return results, nil
		}

		if err != nil {
			results = append(results, Result{Entry: entry, Err: err, Elapsed: elapsed})
			emitter.Emit(progress.Event{
				RunID:     runID,
				TS:        time.Now().UTC(),
				Stage:     progress.StageEntryError,
				Name:      entry.Name,
				URL:       entry.URL,
				Completed: i + 1,
				Total:     total,
				Dur:       elapsed,
				Note:      err.Error(),
			})
			logger.Warn("Capture failed; continuing with next entry",
				zap.String("name", entry.Name),
				zap.String("url", entry.URL),
				zap.Error(err),
			)
			continue
		}

		results = append(results, Result{Entry: entry, Artifacts: artifacts, Elapsed: elapsed})
		emitter.Emit(progress.Event{
			RunID:     runID,
			TS:        time.Now().UTC(),
			Stage:     progress.StageEntryDone,
			Name:      entry.Name,
			URL:       entry.URL,
			Completed: i + 1,
			Total:     total,
			Artifacts: len(artifacts),
			Dur:       elapsed,
		})
		logger.Info("Captured entry",
			zap.String("name", entry.Name),
			zap.String("url", entry.URL),
			zap.Int("artifacts", len(artifacts)),
			zap.String("progress", fmt.Sprintf("%d/%d", i+1, total)),
		)
	}

	emitter.Emit(progress.Event{
		RunID:     runID,
		TS:        time.Now().UTC(),
		Stage:     progress.StageRunDone,
		Completed: total,
		Total:     total,
	})
	return results, nil
}

// captureWithRetry applies the fixed-count constant-delay retry policy around
// one entry's capture. Context cancellation is never retried.
func captureWithRetry(ctx context.Context, session capture.Session, entry urls.Entry, opts Options) ([]string, error) {
	var artifacts []string
	op := func() error {
		paths, err := captureOne(ctx, session, entry, opts.Mode)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			return err
		}
		artifacts = paths
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(opts.RetryDelay), uint64(opts.MaxRetries-1)),
		ctx,
	)
	if err := backoff.Retry(op, policy); err != nil {
		return nil, err
	}
	return artifacts, nil
}

func captureOne(ctx context.Context, session capture.Session, entry urls.Entry, mode Mode) ([]string, error) {
	switch mode {
	case ModeFullPage:
		path, err := session.CaptureFullPage(ctx, entry.URL, entry.Name)
		if err != nil {
			return nil, err
		}
		return []string{path}, nil
	case ModeBoth:
		return session.CaptureBoth(ctx, entry.URL, entry.Name)
	case ModeScroll:
		return session.CaptureScrollingSeries(ctx, entry.URL, entry.Name)
	default:
		path, err := session.CaptureDesktop(ctx, entry.URL, entry.Name)
		if err != nil {
			return nil, err
		}
		return []string{path}, nil
	}
}

func emitCanceled(emitter progress.Emitter, runID uuid.UUID, completed, total int) {
	emitter.Emit(progress.Event{
		RunID:     runID,
		TS:        time.Now().UTC(),
		Stage:     progress.StageRunCanceled,
		Completed: completed,
		Total:     total,
	})
}

type noopEmitter struct{}

func (noopEmitter) Emit(progress.Event) {}
