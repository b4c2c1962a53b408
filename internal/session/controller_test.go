package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/halvorsen/snapreport/internal/capture"
	"github.com/halvorsen/snapreport/internal/pipeline"
	"github.com/halvorsen/snapreport/internal/urls"
)

type blockingSession struct {
	mu      sync.Mutex
	started chan struct{}
	release chan struct{}
	once    sync.Once
	count   int
}

func (s *blockingSession) capture(ctx context.Context, url string) (string, error) {
	s.once.Do(func() { close(s.started) })
	select {
	case <-s.release:
	case <-ctx.Done():
		return "", &capture.CaptureError{URL: url, Err: ctx.Err()}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.count++
	return fmt.Sprintf("shot_%d.png", s.count), nil
}

func (s *blockingSession) CaptureDesktop(ctx context.Context, url, _ string) (string, error) {
	return s.capture(ctx, url)
}

func (s *blockingSession) CaptureFullPage(ctx context.Context, url, _ string) (string, error) {
	return s.capture(ctx, url)
}

func (s *blockingSession) CaptureBoth(ctx context.Context, url, _ string) ([]string, error) {
	p, err := s.capture(ctx, url)
	if err != nil {
		return nil, err
	}
	return []string{p}, nil
}

func (s *blockingSession) CaptureScrollingSeries(ctx context.Context, url, _ string) ([]string, error) {
	p, err := s.capture(ctx, url)
	if err != nil {
		return nil, err
	}
	return []string{p}, nil
}

func (s *blockingSession) Close(context.Context) error { return nil }

type staticDriver struct {
	session capture.Session
}

func (d *staticDriver) Open(context.Context) (capture.Session, error) {
	return d.session, nil
}

func newBlockingDriver() (*staticDriver, *blockingSession) {
	s := &blockingSession{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	return &staticDriver{session: s}, s
}

func seededStore(t *testing.T, n int) *urls.Store {
	t.Helper()
	store := urls.NewStore()
	for i := 0; i < n; i++ {
		store.Append(urls.Entry{
			Name: fmt.Sprintf("Site %d", i+1),
			URL:  fmt.Sprintf("https://site%d.example.com", i+1),
		})
	}
	return store
}

func testOptions() pipeline.Options {
	return pipeline.Options{Mode: pipeline.ModeDesktop, MaxRetries: 1, RetryDelay: 0}
}

func TestRunProducesResults(t *testing.T) {
	t.Parallel()

	driver, session := newBlockingDriver()
	close(session.release)

	c := NewController(seededStore(t, 2), nil)
	results, err := c.Run(context.Background(), driver, testOptions())
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		require.NoError(t, r.Err)
		require.Len(t, r.Artifacts, 1)
	}
}

func TestRunRejectsEmptyStore(t *testing.T) {
	t.Parallel()

	driver, session := newBlockingDriver()
	close(session.release)

	c := NewController(urls.NewStore(), nil)
	_, err := c.Run(context.Background(), driver, testOptions())
	require.ErrorIs(t, err, ErrNoEntries)
}

func TestRunSingleRunGate(t *testing.T) {
	t.Parallel()

	driver, session := newBlockingDriver()
	c := NewController(seededStore(t, 1), nil)

	firstDone := make(chan error, 1)
	go func() {
		_, err := c.Run(context.Background(), driver, testOptions())
		firstDone <- err
	}()

	select {
	case <-session.started:
	case <-time.After(5 * time.Second):
		t.Fatal("first run never reached the capture stage")
	}

	_, err := c.Run(context.Background(), driver, testOptions())
	require.ErrorIs(t, err, ErrRunActive)

	_, active := c.Progress()
	require.True(t, active)

	close(session.release)
	require.NoError(t, <-firstDone)

	// The gate is released once the first run completes.
	results, err := c.Run(context.Background(), driver, testOptions())
	require.NoError(t, err)
	require.Len(t, results, 1)
}

func TestRunCancellation(t *testing.T) {
	t.Parallel()

	driver, session := newBlockingDriver()
	c := NewController(seededStore(t, 3), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	var results []pipeline.Result
	var runErr error
	go func() {
		defer close(done)
		results, runErr = c.Run(ctx, driver, testOptions())
	}()

	select {
	case <-session.started:
	case <-time.After(5 * time.Second):
		t.Fatal("run never reached the capture stage")
	}
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("run did not stop after cancellation")
	}
	require.NoError(t, runErr)
	require.Empty(t, results, "cancellation during the first capture leaves no results")
}

func TestProgressWithoutRun(t *testing.T) {
	t.Parallel()

	c := NewController(urls.NewStore(), nil)
	ratio, active := c.Progress()
	require.Zero(t, ratio)
	require.False(t, active)
}
