package capture

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// ChromedpDriver opens browser sessions backed by Chrome via chromedp. The
// browser runs headful: desktop captures photograph the display the window is
// rendered on.
type ChromedpDriver struct {
	cfg    Config
	logger *zap.Logger
	grab   GrabFunc
	now    func() time.Time
}

// NewChromedpDriver creates a driver using the provided configuration. The
// screenshots directory is created up front so session setup cannot race a
// missing output path.
func NewChromedpDriver(cfg Config, logger *zap.Logger) (*ChromedpDriver, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o750); err != nil {
		return nil, fmt.Errorf("create screenshots dir %s: %w", cfg.OutputDir, err)
	}
	return &ChromedpDriver{
		cfg:    cfg,
		logger: logger,
		grab:   GrabPrimaryDisplay,
		now:    time.Now,
	}, nil
}

// Open launches one browser process and verifies it responds. The returned
// session is reused across all entries in a run.
func (d *ChromedpDriver) Open(ctx context.Context) (Session, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", false),
		chromedp.Flag("start-maximized", true),
		chromedp.Flag("disable-notifications", true),
		chromedp.Flag("disable-popup-blocking", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(int(d.cfg.WindowWidth), int(d.cfg.WindowHeight)),
		chromedp.UserAgent(d.cfg.UserAgent),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, &DriverInitError{Err: fmt.Errorf("chromedp warmup: %w", err)}
	}
	select {
	case <-ctx.Done():
		browserCancel()
		allocCancel()
		return nil, &DriverInitError{Err: ctx.Err()}
	default:
	}

	d.logger.Info("Browser session opened",
		zap.Int64("window_width", d.cfg.WindowWidth),
		zap.Int64("window_height", d.cfg.WindowHeight),
	)
	return &chromedpSession{
		cfg:           d.cfg,
		logger:        d.logger,
		grab:          d.grab,
		now:           d.now,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
		allocCancel:   allocCancel,
	}, nil
}

type chromedpSession struct {
	cfg           Config
	logger        *zap.Logger
	grab          GrabFunc
	now           func() time.Time
	browserCtx    context.Context
	browserCancel context.CancelFunc
	allocCancel   context.CancelFunc
}

// Close tears down the browser and allocator contexts.
func (s *chromedpSession) Close(context.Context) error {
	s.browserCancel()
	s.allocCancel()
	s.logger.Info("Browser session closed")
	return nil
}

// CaptureDesktop navigates, settles, resizes the canvas, and photographs the
// entire display surface.
func (s *chromedpSession) CaptureDesktop(ctx context.Context, url, name string) (string, error) {
	taskCtx, cancel := s.taskContext(ctx)
	defer cancel()

	tasks := chromedp.Tasks{
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(s.cfg.Settle),
		emulation.SetDeviceMetricsOverride(s.cfg.WindowWidth, s.cfg.WindowHeight, 1, false),
		chromedp.Sleep(s.cfg.ResizeSettle),
	}
	if err := chromedp.Run(taskCtx, tasks); err != nil {
		return "", &CaptureError{URL: url, Err: fmt.Errorf("chromedp run: %w", err)}
	}

	img, err := s.grab()
	if err != nil {
		return "", &CaptureError{URL: url, Err: err}
	}
	path := filepath.Join(s.cfg.OutputDir, desktopFilename(name, s.now()))
	if err := writePNG(path, img); err != nil {
		return "", &CaptureError{URL: url, Err: err}
	}
	return path, nil
}

// CaptureFullPage resizes the browser canvas to the full scrollable page and
// requests the browser's own page capture.
func (s *chromedpSession) CaptureFullPage(ctx context.Context, url, name string) (string, error) {
	taskCtx, cancel := s.taskContext(ctx)
	defer cancel()

	var (
		width  int64
		height int64
		buf    []byte
	)
	tasks := chromedp.Tasks{
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(s.cfg.Settle),
		chromedp.Evaluate(`document.body.scrollWidth`, &width),
		chromedp.Evaluate(`document.body.scrollHeight`, &height),
		chromedp.ActionFunc(func(ctx context.Context) error {
			if err := emulation.SetDeviceMetricsOverride(width, height, 1, false).Do(ctx); err != nil {
				return fmt.Errorf("resize canvas to %dx%d: %w", width, height, err)
			}
			shot, err := page.CaptureScreenshot().WithCaptureBeyondViewport(true).Do(ctx)
			if err != nil {
				return fmt.Errorf("page capture: %w", err)
			}
			buf = shot
			return nil
		}),
	}
	if err := chromedp.Run(taskCtx, tasks); err != nil {
		return "", &CaptureError{URL: url, Err: fmt.Errorf("chromedp run: %w", err)}
	}

	path := filepath.Join(s.cfg.OutputDir, fullPageFilename(name, s.now()))
	if err := os.WriteFile(path, buf, 0o600); err != nil {
		return "", &CaptureError{URL: url, Err: fmt.Errorf("write screenshot %s: %w", path, err)}
	}
	return path, nil
}

// CaptureBoth takes the desktop capture followed by the full-page capture.
func (s *chromedpSession) CaptureBoth(ctx context.Context, url, name string) ([]string, error) {
	desktop, err := s.CaptureDesktop(ctx, url, name)
	if err != nil {
		return nil, err
	}
	webpage, err := s.CaptureFullPage(ctx, url, name)
	if err != nil {
		return nil, err
	}
	return []string{desktop, webpage}, nil
}

// CaptureScrollingSeries photographs the display at successive scroll
// offsets. All images in the series share one timestamp.
func (s *chromedpSession) CaptureScrollingSeries(ctx context.Context, url, name string) ([]string, error) {
	taskCtx, cancel := s.taskContext(ctx)
	defer cancel()

	var (
		pageHeight     int64
		viewportHeight int64
	)
	tasks := chromedp.Tasks{
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(s.cfg.Settle),
		chromedp.Evaluate(`document.body.scrollHeight`, &pageHeight),
		chromedp.Evaluate(`window.innerHeight`, &viewportHeight),
	}
	if err := chromedp.Run(taskCtx, tasks); err != nil {
		return nil, &CaptureError{URL: url, Err: fmt.Errorf("chromedp run: %w", err)}
	}

	ts := s.now()
	var paths []string
	save := func(n int) error {
		img, err := s.grab()
		if err != nil {
			return err
		}
		path := filepath.Join(s.cfg.OutputDir, scrollFilename(name, ts, n))
		if err := writePNG(path, img); err != nil {
			return err
		}
		paths = append(paths, path)
		return nil
	}

	if err := save(0); err != nil {
		return nil, &CaptureError{URL: url, Err: err}
	}
	for i, offset := range planScrollOffsets(pageHeight, viewportHeight, s.cfg.MaxScrollCaptures) {
		scroll := chromedp.Tasks{
			chromedp.Evaluate(fmt.Sprintf(`window.scrollTo(0, %d)`, offset), nil),
			chromedp.Sleep(s.cfg.ScrollSettle),
		}
		if err := chromedp.Run(taskCtx, scroll); err != nil {
			return nil, &CaptureError{URL: url, Err: fmt.Errorf("scroll to %d: %w", offset, err)}
		}
		if err := save(i + 1); err != nil {
			return nil, &CaptureError{URL: url, Err: err}
		}
	}
	return paths, nil
}

func (s *chromedpSession) taskContext(ctx context.Context) (context.Context, context.CancelFunc) {
	// Captures run on the long-lived browser context so tabs and state are
	// reused; the caller's ctx only bounds this one capture.
	taskCtx, cancel := context.WithTimeout(s.browserCtx, s.cfg.NavTimeout)
	stop := forwardCancel(ctx, cancel)
	return taskCtx, func() {
		stop()
		cancel()
	}
}

func forwardCancel(parent context.Context, cancel context.CancelFunc) func() {
	if parent == nil {
		return func() {}
	}
	done := make(chan struct{})
	go func() {
		select {
		case <-parent.Done():
			cancel()
		case <-done:
		}
	}()
	return func() { close(done) }
}

func writePNG(path string, img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("write screenshot %s: %w", path, err)
	}
	return nil
}
