package render

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/turtacn/ContractPilot/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ContractPilot/pkg/errors"
)

// BrowserConfig configures the shared headless browser.
type BrowserConfig struct {
	ExecPath       string
	Headful        bool
	NoSandbox      bool
	ViewportWidth  int
	ViewportHeight int
	// LaunchTimeout bounds browser start-up.
	LaunchTimeout time.Duration
	// PageTimeout bounds a single page from open to close.
	PageTimeout time.Duration
}

func (c *BrowserConfig) applyDefaults() {
	if c.ViewportWidth <= 0 {
		c.ViewportWidth = 1240
	}
	if c.ViewportHeight <= 0 {
		c.ViewportHeight = 1754
	}
	if c.LaunchTimeout <= 0 {
		c.LaunchTimeout = 30 * time.Second
	}
	if c.PageTimeout <= 0 {
		c.PageTimeout = 60 * time.Second
	}
}

// BrowserManager owns one browser process shared by all renders. The process
// starts on first use and lives until Shutdown. Every page runs in its own tab
// which is closed when WithPage returns.
type BrowserManager struct {
	cfg    BrowserConfig
	logger logging.Logger

	mu            sync.Mutex
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
	closed        bool

	launches  atomic.Int64
	openPages atomic.Int64
}

func NewBrowserManager(cfg BrowserConfig, logger logging.Logger) *BrowserManager {
	cfg.applyDefaults()
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &BrowserManager{cfg: cfg, logger: logger.Named("browser")}
}

// Init starts the browser if it is not running. Concurrent callers share a
// single launch. A browser that exited unexpectedly is relaunched.
func (m *BrowserManager) Init(ctx context.Context) error {
	_, err := m.acquire(ctx)
	return err
}

func (m *BrowserManager) acquire(ctx context.Context) (context.Context, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, errors.New(errors.ErrCodeRenderFailed, "browser manager is shut down")
	}
	if m.browserCtx != nil && m.browserCtx.Err() == nil {
		return m.browserCtx, nil
	}
	if m.browserCtx != nil {
		m.logger.Warn("browser exited, relaunching")
		m.releaseLocked()
	}

	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts,
		chromedp.Flag("headless", !m.cfg.Headful),
		chromedp.DisableGPU,
		chromedp.WindowSize(m.cfg.ViewportWidth, m.cfg.ViewportHeight),
	)
	if m.cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(m.cfg.ExecPath))
	}
	if m.cfg.NoSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}

	// The browser outlives any single request, so it hangs off Background.
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx,
		chromedp.WithErrorf(func(format string, args ...interface{}) {
			m.logger.Debug("chromedp", logging.String("msg", fmt.Sprintf(format, args...)))
		}),
	)

	// The first Run allocates the process. A deadline on that call would tie
	// the browser lifetime to it, so the bound is applied from outside.
	started := make(chan error, 1)
	go func() { started <- chromedp.Run(browserCtx) }()

	timer := time.NewTimer(m.cfg.LaunchTimeout)
	defer timer.Stop()

	var err error
	select {
	case err = <-started:
	case <-timer.C:
		err = fmt.Errorf("launch timed out after %s", m.cfg.LaunchTimeout)
	case <-ctx.Done():
		err = ctx.Err()
	}
	if err != nil {
		browserCancel()
		allocCancel()
		return nil, errors.Wrap(err, errors.ErrCodeRenderFailed, "failed to launch browser")
	}

	m.allocCancel = allocCancel
	m.browserCtx = browserCtx
	m.browserCancel = browserCancel
	n := m.launches.Add(1)
	m.logger.Info("browser launched", logging.Int64("launches", n), logging.Bool("headful", m.cfg.Headful))
	return browserCtx, nil
}

// WithPage opens a fresh tab, runs fn against it and closes the tab on every
// path, including timeouts, panics and cancellation of ctx.
func (m *BrowserManager) WithPage(ctx context.Context, fn func(pageCtx context.Context) error) (err error) {
	browserCtx, err := m.acquire(ctx)
	if err != nil {
		return err
	}

	tabCtx, closeTab := chromedp.NewContext(browserCtx)
	m.openPages.Add(1)
	defer func() {
		closeTab()
		m.openPages.Add(-1)
	}()

	stop := context.AfterFunc(ctx, closeTab)
	defer stop()

	pageCtx, cancel := context.WithTimeout(tabCtx, m.cfg.PageTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			err = errors.New(errors.ErrCodeRenderFailed, "page callback panicked").
				WithDetail(fmt.Sprint(r))
		}
	}()

	if err := chromedp.Run(pageCtx); err != nil {
		return errors.Wrap(err, errors.ErrCodeRenderFailed, "failed to open page")
	}
	if err := fn(pageCtx); err != nil {
		if ctx.Err() != nil {
			return errors.Wrap(ctx.Err(), errors.ErrCodeRenderFailed, "render cancelled")
		}
		return err
	}
	return nil
}

// Shutdown closes the browser. Later calls to Init or WithPage fail.
func (m *BrowserManager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	if m.browserCtx == nil {
		return nil
	}

	done := make(chan error, 1)
	browserCtx := m.browserCtx
	go func() { done <- chromedp.Cancel(browserCtx) }()

	var err error
	select {
	case err = <-done:
	case <-ctx.Done():
		err = ctx.Err()
	}
	m.releaseLocked()
	m.logger.Info("browser shut down")
	return err
}

func (m *BrowserManager) releaseLocked() {
	if m.browserCancel != nil {
		m.browserCancel()
	}
	if m.allocCancel != nil {
		m.allocCancel()
	}
	m.browserCtx, m.browserCancel, m.allocCancel = nil, nil, nil
}

// Running reports whether a browser process is currently up.
func (m *BrowserManager) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.browserCtx != nil && m.browserCtx.Err() == nil
}

// Launches counts browser process starts since creation.
func (m *BrowserManager) Launches() int64 { return m.launches.Load() }

// OpenPages is the number of tabs currently held by WithPage callers.
func (m *BrowserManager) OpenPages() int64 { return m.openPages.Load() }

func (m *BrowserManager) Viewport() (width, height int) {
	return m.cfg.ViewportWidth, m.cfg.ViewportHeight
}

//Personal.AI order the ending
