package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/aleister1102/axeaudit/internal/auditor"
	"github.com/aleister1102/axeaudit/internal/axe"
	"github.com/aleister1102/axeaudit/internal/browser"
	"github.com/aleister1102/axeaudit/internal/common"
	"github.com/aleister1102/axeaudit/internal/config"
	"github.com/aleister1102/axeaudit/internal/logger"
	"github.com/aleister1102/axeaudit/internal/reporter"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
)

// app is the wiring for a single CLI invocation.
type app struct {
	cfg      *config.GlobalConfig
	log      *logger.Logger
	logger   zerolog.Logger
	auditor  *auditor.Auditor
	reporter reporter.Reporter
	opts     *rootOptions
}

// loadConfig reads the config file and applies the flags the user set.
func loadConfig(opts *rootOptions, flags *pflag.FlagSet) (*config.GlobalConfig, error) {
	cfg, err := config.LoadGlobalConfig(opts.configPath)
	if err != nil {
		return nil, err
	}

	applyOverrides(cfg, opts, flags)

	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyOverrides copies explicitly set flags over the file configuration.
func applyOverrides(cfg *config.GlobalConfig, opts *rootOptions, flags *pflag.FlagSet) {
	if flags.Changed("driver") {
		cfg.BrowserConfig.Driver = opts.driver
	}
	if flags.Changed("format") {
		cfg.ReporterConfig.Format = opts.format
	}
	if flags.Changed("log-level") {
		cfg.LogConfig.LogLevel = opts.logLevel
	}
	if flags.Changed("axe-config") {
		cfg.AuditConfig.ConfigurationFile = opts.axeConfig
	}
	if flags.Changed("reset") {
		cfg.AuditConfig.ResetBeforeRun = opts.reset
	}
	if flags.Changed("no-color") {
		cfg.ReporterConfig.NoColor = opts.noColor
	}
}

func newApp(opts *rootOptions, flags *pflag.FlagSet, out io.Writer) (*app, error) {
	cfg, err := loadConfig(opts, flags)
	if err != nil {
		return nil, err
	}

	zLogger, err := logger.NewWithRunID(cfg.LogConfig, time.Now().Format(config.RunIDLayout))
	if err != nil {
		return nil, common.WrapError(err, "could not initialize logger")
	}
	appLogger := zLogger.GetZerolog().With().Str("component", "CLI").Logger()

	rep, err := reporter.NewReporter(cfg.ReporterConfig, opts.output, out, *zLogger.GetZerolog())
	if err != nil {
		_ = zLogger.Close()
		return nil, err
	}

	client, err := common.NewHTTPClientBuilder(*zLogger.GetZerolog()).
		WithTimeout(time.Duration(cfg.EngineConfig.FetchTimeoutSecs) * time.Second).
		WithProxy(cfg.EngineConfig.Proxy).
		WithInsecureSkipVerify(cfg.EngineConfig.InsecureSkipVerify).
		Build()
	if err != nil {
		_ = zLogger.Close()
		return nil, err
	}
	source := axe.NewSourceLoader(cfg.EngineConfig, client, *zLogger.GetZerolog())

	return &app{
		cfg:      cfg,
		log:      zLogger,
		logger:   appLogger,
		auditor:  auditor.NewAuditor(source, *zLogger.GetZerolog()),
		reporter: rep,
		opts:     opts,
	}, nil
}

func (a *app) Close() {
	_ = a.log.Close()
}

// auditContext bounds a whole invocation by audit.timeout_secs.
func (a *app) auditContext(ctx context.Context) (context.Context, context.CancelFunc) {
	secs := a.cfg.AuditConfig.TimeoutSecs
	if secs <= 0 {
		secs = config.DefaultAuditTimeoutSecs
	}
	return context.WithTimeout(ctx, time.Duration(secs)*time.Second)
}

// withPage opens url, applies the reset and configuration options, then runs fn.
func (a *app) withPage(ctx context.Context, url string, fn func(ctx context.Context, page browser.Page) error) error {
	ctx, cancel := a.auditContext(ctx)
	defer cancel()

	manager, err := browser.NewManager(a.cfg.BrowserConfig, *a.log.GetZerolog())
	if err != nil {
		return err
	}
	if err := manager.Start(); err != nil {
		return common.WrapErrorf(err, "%s driver", a.cfg.BrowserConfig.Driver)
	}
	defer manager.Stop()

	page, err := manager.Open(ctx, url)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := page.Close(); cerr != nil {
			a.logger.Warn().Err(cerr).Msg("Failed to close page")
		}
	}()

	if a.cfg.AuditConfig.ResetBeforeRun {
		if err := a.auditor.Reset(ctx, page); err != nil {
			return err
		}
	}

	if path := a.cfg.AuditConfig.ConfigurationFile; path != "" {
		spec, err := readConfiguration(path)
		if err != nil {
			return err
		}
		if err := a.auditor.Configure(ctx, page, spec); err != nil {
			return err
		}
		a.logger.Debug().Str("file", path).Msg("Applied engine configuration")
	}

	return fn(ctx, page)
}

func readConfiguration(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, common.WrapErrorf(err, "failed to read axe configuration '%s'", path)
	}
	return auditor.ParseConfiguration(data)
}

// audit runs op against url and writes the outcome.
func (a *app) audit(ctx context.Context, operation, url string, op func(ctx context.Context, page browser.Page) (axe.Outcome, error)) error {
	return a.withPage(ctx, url, func(ctx context.Context, page browser.Page) error {
		outcome, err := op(ctx, page)
		if err != nil {
			return err
		}

		report := buildReport(ctx, operation, url, outcome, page)
		a.logger.Info().Str("op", operation).Str("url", report.PageURL).Int("findings", len(outcome.Findings)).Msg("Audit finished")
		return a.write(report)
	})
}

// pageInfo is the part of a page a report header needs.
type pageInfo interface {
	URL(ctx context.Context) (string, error)
	Title(ctx context.Context) (string, error)
}

// buildReport takes the page identity from the first finding, or from the
// live page when there are none. requested is kept only if the page cannot answer.
func buildReport(ctx context.Context, operation, requested string, outcome axe.Outcome, page pageInfo) reporter.Report {
	report := reporter.Report{
		Operation:   operation,
		PageURL:     requested,
		GeneratedAt: time.Now(),
		Outcome:     outcome,
	}
	if outcome.HasFindings() {
		report.PageURL = outcome.Findings[0].PageURL
		report.PageTitle = outcome.Findings[0].PageTitle
		return report
	}
	if current, err := page.URL(ctx); err == nil && current != "" {
		report.PageURL = current
	}
	if title, err := page.Title(ctx); err == nil {
		report.PageTitle = title
	}
	return report
}

func (a *app) write(report reporter.Report) error {
	path, err := a.reporter.Write(report)
	if err != nil {
		return err
	}
	if path != "" {
		fmt.Fprintf(os.Stderr, "Report written to %s\n", path)
	}
	return nil
}
