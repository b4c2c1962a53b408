package capture

import (
	"context"
	"fmt"
	"time"
)

// DriverInitError reports that the automation session could not start. It is
// fatal to the entire run; no captures are attempted.
type DriverInitError struct {
	Err error
}

func (e *DriverInitError) Error() string {
	return fmt.Sprintf("initialize browser driver: %v", e.Err)
}

func (e *DriverInitError) Unwrap() error {
	return e.Err
}

// CaptureError wraps any failure raised by the automation layer for one
// entry. The driver never retries internally; retry policy belongs to the
// pipeline.
type CaptureError struct {
	URL string
	Err error
}

func (e *CaptureError) Error() string {
	return fmt.Sprintf("capture %s: %v", e.URL, e.Err)
}

func (e *CaptureError) Unwrap() error {
	return e.Err
}

// Session is one live automation handle reused across all entries in a run.
// It owns one browser-process lifecycle; Close must always be called.
type Session interface {
	// CaptureDesktop navigates and grabs the entire display surface,
	// persisting <name>_<timestamp>.png.
	CaptureDesktop(ctx context.Context, url, name string) (string, error)
	// CaptureFullPage navigates, resizes the canvas to the full scrollable
	// page, and uses the browser's own capture, persisting
	// <name>_<timestamp>_webpage.png.
	CaptureFullPage(ctx context.Context, url, name string) (string, error)
	// CaptureBoth takes the desktop capture followed by the full-page one.
	CaptureBoth(ctx context.Context, url, name string) ([]string, error)
	// CaptureScrollingSeries grabs the display at successive scroll offsets,
	// persisting <name>_<timestamp>_scroll_<n>.png files (0-based).
	CaptureScrollingSeries(ctx context.Context, url, name string) ([]string, error)
	// Close tears down the browser process. Safe to call once per session.
	Close(ctx context.Context) error
}

// Driver opens automation sessions. Exactly one session is opened per
// pipeline run and reused across entries.
type Driver interface {
	Open(ctx context.Context) (Session, error)
}

const timestampLayout = "20060102_150405"

func desktopFilename(name string, ts time.Time) string {
	return fmt.Sprintf("%s_%s.png", name, ts.Format(timestampLayout))
}

func fullPageFilename(name string, ts time.Time) string {
	return fmt.Sprintf("%s_%s_webpage.png", name, ts.Format(timestampLayout))
}

func scrollFilename(name string, ts time.Time, n int) string {
	return fmt.Sprintf("%s_%s_scroll_%d.png", name, ts.Format(timestampLayout), n)
}

// planScrollOffsets returns the scroll positions visited after the initial
// top-of-page capture: one viewport height at a time until the page height is
// reached, capped at maxScrolled as a safety valve against infinite-height or
// mis-measured pages.
func planScrollOffsets(pageHeight, viewportHeight int64, maxScrolled int) []int64 {
	if pageHeight <= 0 || viewportHeight <= 0 || maxScrolled <= 0 {
		return nil
	}
	var offsets []int64
	for pos := int64(0); pos < pageHeight && len(offsets) < maxScrolled; {
		pos += viewportHeight
		offsets = append(offsets, pos)
	}
	return offsets
}
