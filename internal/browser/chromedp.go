package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/aleister1102/axeaudit/internal/config"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog"
)

// CDPManager drives a single Chrome process through chromedp. Each Open
// creates a new tab in the shared browser context.
type CDPManager struct {
	config        config.BrowserConfig
	logger        zerolog.Logger
	allocCtx      context.Context
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
	mutex         sync.Mutex
	isRunning     bool
}

// NewCDPManager creates a new chromedp browser manager
func NewCDPManager(cfg config.BrowserConfig, logger zerolog.Logger) *CDPManager {
	return &CDPManager{
		config: cfg,
		logger: logger.With().Str("component", "CDPManager").Logger(),
	}
}

func (m *CDPManager) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts,
		chromedp.Flag("headless", m.config.Headless),
		chromedp.NoSandbox,
		chromedp.DisableGPU,
	)

	if m.config.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(m.config.ChromePath))
	}
	if m.config.UserDataDir != "" {
		opts = append(opts, chromedp.UserDataDir(m.config.UserDataDir))
	}
	if m.config.WindowWidth > 0 && m.config.WindowHeight > 0 {
		opts = append(opts, chromedp.WindowSize(m.config.WindowWidth, m.config.WindowHeight))
	}
	if m.config.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(m.config.UserAgent))
	}
	if m.config.IgnoreHTTPSErrors {
		opts = append(opts, chromedp.Flag("ignore-certificate-errors", true))
	}

	for _, arg := range m.config.BrowserArgs {
		name, value := splitFlag(arg)
		if name == "" {
			continue
		}
		if value == "" {
			opts = append(opts, chromedp.Flag(name, true))
		} else {
			opts = append(opts, chromedp.Flag(name, value))
		}
	}

	return opts
}

// Start allocates the browser process and its root context
func (m *CDPManager) Start() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.isRunning {
		return nil
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), m.allocatorOptions()...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(format string, args ...any) {
			m.logger.Debug().Msgf(format, args...)
		}),
	)

	// The first Run starts the browser.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return fmt.Errorf("failed to start browser: %w", err)
	}

	m.allocCtx, m.allocCancel = allocCtx, allocCancel
	m.browserCtx, m.browserCancel = browserCtx, browserCancel
	m.isRunning = true

	m.logger.Info().Msg("Chromedp browser manager started")
	return nil
}

// Stop closes the browser and releases the allocator
func (m *CDPManager) Stop() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if !m.isRunning {
		return
	}
	m.isRunning = false

	if m.browserCancel != nil {
		m.browserCancel()
	}
	if m.allocCancel != nil {
		m.allocCancel()
	}

	m.logger.Info().Msg("Chromedp browser manager stopped")
}

// Open creates a tab, navigates to url and waits for it to load
func (m *CDPManager) Open(ctx context.Context, url string) (Page, error) {
	m.mutex.Lock()
	if !m.isRunning {
		m.mutex.Unlock()
		return nil, fmt.Errorf("chromedp browser manager not running")
	}
	browserCtx := m.browserCtx
	m.mutex.Unlock()

	tabCtx, tabCancel := chromedp.NewContext(browserCtx)
	page := &CDPPage{ctx: tabCtx, cancel: tabCancel}

	if err := chromedp.Run(tabCtx); err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("failed to create tab: %w", err)
	}

	loadCtx, cancel := page.bind(ctx)
	defer cancel()

	loadCtx, timeoutCancel := context.WithTimeout(loadCtx, pageLoadTimeout(m.config))
	defer timeoutCancel()

	if err := chromedp.Run(loadCtx, chromedp.Navigate(url)); err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("failed to navigate to %s: %w", url, err)
	}

	if err := settle(ctx, m.config); err != nil {
		_ = page.Close()
		return nil, err
	}

	m.logger.Debug().Str("url", url).Msg("Page loaded")
	return page, nil
}

// CDPPage is a chromedp tab exposed as an audit session
type CDPPage struct {
	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
}

// bind derives a context from the tab that is also cancelled with ctx.
func (p *CDPPage) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	runCtx, cancel := context.WithCancel(p.ctx)
	stop := context.AfterFunc(ctx, cancel)
	return runCtx, func() {
		stop()
		cancel()
	}
}

// Inject evaluates source as a classic script
func (p *CDPPage) Inject(ctx context.Context, source string) error {
	runCtx, cancel := p.bind(ctx)
	defer cancel()

	return chromedp.Run(runCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		_, exception, err := runtime.Evaluate(source).Do(ctx)
		if err != nil {
			return err
		}
		if exception != nil {
			return fmt.Errorf("script threw: %s", cdpExceptionText(exception))
		}
		return nil
	}))
}

func (p *CDPPage) Execute(ctx context.Context, script string, args ...any) (json.RawMessage, error) {
	call, err := callExpression(script, args...)
	if err != nil {
		return nil, err
	}

	// Serialized in the page so undefined and null both come back as a string.
	expr := fmt.Sprintf("Promise.resolve(%s).then((v) => JSON.stringify(v === undefined ? null : v))", call)

	runCtx, cancel := p.bind(ctx)
	defer cancel()

	var out string
	if err := chromedp.Run(runCtx, chromedp.Evaluate(expr, &out, func(ep *runtime.EvaluateParams) *runtime.EvaluateParams {
		return ep.WithAwaitPromise(true)
	})); err != nil {
		return nil, err
	}
	return rawOrNull([]byte(out)), nil
}

func (p *CDPPage) ExecuteAsync(ctx context.Context, script string, args ...any) (json.RawMessage, error) {
	return p.Execute(ctx, asyncFunction(script), args...)
}

func (p *CDPPage) URL(ctx context.Context) (string, error) {
	runCtx, cancel := p.bind(ctx)
	defer cancel()

	var url string
	if err := chromedp.Run(runCtx, chromedp.Location(&url)); err != nil {
		return "", err
	}
	return url, nil
}

func (p *CDPPage) Title(ctx context.Context) (string, error) {
	runCtx, cancel := p.bind(ctx)
	defer cancel()

	var title string
	if err := chromedp.Run(runCtx, chromedp.Title(&title)); err != nil {
		return "", err
	}
	return title, nil
}

// Close closes the tab
func (p *CDPPage) Close() error {
	p.once.Do(func() {
		if p.cancel != nil {
			p.cancel()
		}
	})
	return nil
}

func cdpExceptionText(d *runtime.ExceptionDetails) string {
	if d.Exception != nil && d.Exception.Description != "" {
		return d.Exception.Description
	}
	return d.Text
}
