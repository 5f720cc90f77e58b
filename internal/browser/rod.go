package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/aleister1102/axeaudit/internal/config"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/rs/zerolog"
)

// RodManager manages a pool of go-rod browser connections
type RodManager struct {
	config      config.BrowserConfig
	logger      zerolog.Logger
	browserPool chan *rod.Browser
	launcher    *launcher.Launcher
	mutex       sync.Mutex
	isRunning   bool
}

// NewRodManager creates a new go-rod browser manager
func NewRodManager(cfg config.BrowserConfig, logger zerolog.Logger) *RodManager {
	poolSize := cfg.PoolSize
	if poolSize <= 0 {
		poolSize = config.DefaultBrowserPoolSize
	}
	cfg.PoolSize = poolSize

	return &RodManager{
		config:      cfg,
		logger:      logger.With().Str("component", "RodManager").Logger(),
		browserPool: make(chan *rod.Browser, poolSize),
	}
}

// Start launches the browser and fills the connection pool
func (m *RodManager) Start() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.isRunning {
		return nil
	}

	l := launcher.New().Headless(m.config.Headless)

	if m.config.ChromePath != "" {
		l = l.Bin(m.config.ChromePath)
	}

	if m.config.UserDataDir != "" {
		l = l.UserDataDir(m.config.UserDataDir)
	}

	l = l.
		Set("no-sandbox").
		Set("disable-dev-shm-usage").
		Set("disable-gpu").
		Set("no-first-run").
		Set("disable-default-apps").
		Set("disable-sync")

	for _, arg := range m.config.BrowserArgs {
		name, value := splitFlag(arg)
		if name == "" {
			continue
		}
		if value == "" {
			l = l.Set(flags.Flag(name))
		} else {
			l = l.Set(flags.Flag(name), value)
		}
	}

	controlURL, err := l.Launch()
	if err != nil {
		return fmt.Errorf("failed to launch browser: %w", err)
	}
	m.launcher = l

	for i := 0; i < m.config.PoolSize; i++ {
		browser := rod.New().ControlURL(controlURL)
		if err := browser.Connect(); err != nil {
			m.logger.Error().Err(err).Int("browser_index", i).Msg("Failed to connect browser")
			continue
		}
		if m.config.IgnoreHTTPSErrors {
			if err := browser.IgnoreCertErrors(true); err != nil {
				m.logger.Warn().Err(err).Msg("Failed to ignore certificate errors")
			}
		}

		m.browserPool <- browser
		m.logger.Debug().Int("browser_index", i).Msg("Browser instance created and added to pool")
	}

	if len(m.browserPool) == 0 {
		l.Cleanup()
		return fmt.Errorf("failed to connect any browser instance")
	}

	m.isRunning = true
	m.logger.Info().Int("pool_size", len(m.browserPool)).Msg("Rod browser manager started")
	return nil
}

// Stop closes all browser instances and the launcher
func (m *RodManager) Stop() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if !m.isRunning {
		return
	}
	m.isRunning = false

	close(m.browserPool)
	for browser := range m.browserPool {
		if browser != nil {
			_ = browser.Close()
		}
	}

	if m.launcher != nil {
		m.launcher.Cleanup()
	}

	m.logger.Info().Msg("Rod browser manager stopped")
}

func (m *RodManager) running() bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.isRunning
}

// getBrowser takes a connection from the pool
func (m *RodManager) getBrowser(ctx context.Context) (*rod.Browser, error) {
	if !m.running() {
		return nil, fmt.Errorf("rod browser manager not running")
	}

	select {
	case browser, ok := <-m.browserPool:
		if !ok || browser == nil {
			return nil, fmt.Errorf("rod browser manager stopped")
		}
		return browser, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(pageLoadTimeout(m.config)):
		return nil, fmt.Errorf("timeout waiting for browser from pool")
	}
}

// returnBrowser puts a connection back, closing it when the manager stopped or the pool is full
func (m *RodManager) returnBrowser(browser *rod.Browser) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if !m.isRunning || browser == nil {
		return
	}

	select {
	case m.browserPool <- browser:
	default:
		_ = browser.Close()
	}
}

// Open creates a page, navigates to url and waits for it to load
func (m *RodManager) Open(ctx context.Context, url string) (Page, error) {
	browser, err := m.getBrowser(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get browser: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		m.returnBrowser(browser)
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	rp := &RodPage{
		page:    page,
		release: func() { m.returnBrowser(browser) },
	}

	if err := m.load(ctx, page, url); err != nil {
		_ = rp.Close()
		return nil, err
	}

	m.logger.Debug().Str("url", url).Msg("Page loaded")
	return rp, nil
}

func (m *RodManager) load(ctx context.Context, page *rod.Page, url string) error {
	if m.config.WindowWidth > 0 && m.config.WindowHeight > 0 {
		if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
			Width:  m.config.WindowWidth,
			Height: m.config.WindowHeight,
		}); err != nil {
			m.logger.Warn().Err(err).Msg("Failed to set viewport")
		}
	}

	if m.config.UserAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
			UserAgent: m.config.UserAgent,
		}); err != nil {
			m.logger.Warn().Err(err).Msg("Failed to set user agent")
		}
	}

	loadCtx, cancel := context.WithTimeout(ctx, pageLoadTimeout(m.config))
	defer cancel()

	p := page.Context(loadCtx)
	if err := p.Navigate(url); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	if err := p.WaitLoad(); err != nil {
		return fmt.Errorf("page load timeout for %s: %w", url, err)
	}

	return settle(ctx, m.config)
}

// RodPage is a go-rod tab exposed as an audit session
type RodPage struct {
	page    *rod.Page
	release func()
	once    sync.Once
}

// Inject evaluates source as a classic script, bypassing page CSP
func (p *RodPage) Inject(ctx context.Context, source string) error {
	res, err := proto.RuntimeEvaluate{Expression: source}.Call(p.page.Context(ctx))
	if err != nil {
		return err
	}
	if res.ExceptionDetails != nil {
		return fmt.Errorf("script threw: %s", exceptionText(res.ExceptionDetails))
	}
	return nil
}

func (p *RodPage) Execute(ctx context.Context, script string, args ...any) (json.RawMessage, error) {
	obj, err := p.page.Context(ctx).Evaluate(rod.Eval(script, args...).ByPromise())
	if err != nil {
		return nil, err
	}
	return rawOrNull([]byte(obj.Value.JSON("", ""))), nil
}

func (p *RodPage) ExecuteAsync(ctx context.Context, script string, args ...any) (json.RawMessage, error) {
	return p.Execute(ctx, asyncFunction(script), args...)
}

func (p *RodPage) URL(ctx context.Context) (string, error) {
	info, err := p.page.Context(ctx).Info()
	if err != nil {
		return "", err
	}
	return info.URL, nil
}

func (p *RodPage) Title(ctx context.Context) (string, error) {
	info, err := p.page.Context(ctx).Info()
	if err != nil {
		return "", err
	}
	return info.Title, nil
}

// Close closes the tab and returns its browser connection to the pool
func (p *RodPage) Close() error {
	var err error
	p.once.Do(func() {
		err = p.page.Close()
		if p.release != nil {
			p.release()
		}
	})
	return err
}

func exceptionText(d *proto.RuntimeExceptionDetails) string {
	if d.Exception != nil && d.Exception.Description != "" {
		return d.Exception.Description
	}
	return d.Text
}
