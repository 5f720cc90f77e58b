package reporter

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/aleister1102/axeaudit/internal/axe"
	"github.com/aleister1102/axeaudit/internal/config"
	"github.com/rs/zerolog"
)

// ImpactCount is one badge of the report header.
type ImpactCount struct {
	Impact string
	Count  int
}

// HtmlPageData is the data handed to the report template.
type HtmlPageData struct {
	ReportTitle string
	Operation   string
	PageURL     string
	PageTitle   string
	GeneratedAt string
	Message     string
	Findings    []axe.Finding
	Summary     Summary
	Impacts     []ImpactCount
	Rules       []axe.Rule
	IsCatalog   bool
	CustomCSS   template.CSS
}

// HtmlReporter renders reports into standalone HTML files
type HtmlReporter struct {
	cfg          config.ReporterConfig
	outputPath   string
	logger       zerolog.Logger
	template     *template.Template
	assetManager *AssetManager
	directoryMgr *DirectoryManager
}

// NewHtmlReporter creates a new HtmlReporter using the embedded template
func NewHtmlReporter(cfg config.ReporterConfig, outputPath string, appLogger zerolog.Logger) (*HtmlReporter, error) {
	moduleLogger := appLogger.With().Str("component", "HtmlReporter").Logger()

	reporter := &HtmlReporter{
		cfg:          cfg,
		outputPath:   outputPath,
		logger:       moduleLogger,
		assetManager: NewAssetManager(embeddedFS, moduleLogger),
		directoryMgr: NewDirectoryManager(moduleLogger),
	}

	if reporter.cfg.OutputDir == "" {
		reporter.cfg.OutputDir = config.DefaultReporterOutputDir
		moduleLogger.Debug().Str("default_dir", reporter.cfg.OutputDir).Msg("OutputDir not specified, using default.")
	}

	if err := reporter.setupTemplate(); err != nil {
		return nil, err
	}

	moduleLogger.Debug().Msg("HtmlReporter initialized successfully.")
	return reporter, nil
}

// setupTemplate parses the embedded report template
func (r *HtmlReporter) setupTemplate() error {
	content, err := r.assetManager.ReadText(EmbeddedTemplatePath)
	if err != nil {
		return fmt.Errorf("failed to load embedded report template: %w", err)
	}

	tmpl, err := template.New(DefaultReportTemplateName).Funcs(GetCommonTemplateFunctions()).Parse(content)
	if err != nil {
		r.logger.Error().Err(err).Msg("Failed to parse embedded report template.")
		return fmt.Errorf("failed to parse embedded report template: %w", err)
	}

	r.template = tmpl
	return nil
}

// prepareReportData builds the template data for report
func (r *HtmlReporter) prepareReportData(report Report) HtmlPageData {
	title := r.cfg.ReportTitle
	if title == "" {
		title = config.DefaultReportTitle
	}
	generatedAt := report.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = time.Now()
	}

	data := HtmlPageData{
		ReportTitle: title,
		Operation:   report.Operation,
		PageURL:     report.PageURL,
		PageTitle:   report.PageTitle,
		GeneratedAt: generatedAt.Format(GeneratedAtLayout),
		Message:     report.Outcome.Message,
		Findings:    report.Outcome.Findings,
		Rules:       report.Rules,
		IsCatalog:   report.Rules != nil,
		CustomCSS:   r.assetManager.StyleSheet(),
	}

	data.Summary = Summarize(report.Outcome.Findings)
	for _, level := range impactLevels {
		if n := data.Summary.ByImpact[level]; n > 0 {
			data.Impacts = append(data.Impacts, ImpactCount{Impact: level, Count: n})
		}
	}

	return data
}

// Render executes the template for report.
func (r *HtmlReporter) Render(report Report) ([]byte, error) {
	var htmlBuffer bytes.Buffer
	if err := r.template.Execute(&htmlBuffer, r.prepareReportData(report)); err != nil {
		r.logger.Error().Err(err).Msg("Failed to execute template")
		return nil, fmt.Errorf("template execution failed: %w", err)
	}
	return htmlBuffer.Bytes(), nil
}

func (r *HtmlReporter) Write(report Report) (string, error) {
	data, err := r.Render(report)
	if err != nil {
		return "", err
	}

	outputPath := buildOutputPath(r.cfg.OutputDir, r.outputPath, report, HTMLExtension)
	if err := r.directoryMgr.EnsureOutputDirectories(filepath.Dir(outputPath)); err != nil {
		return "", err
	}
	if err := os.WriteFile(outputPath, data, FilePermissions); err != nil {
		r.logger.Error().Err(err).Str("output", outputPath).Msg("Failed to write report file")
		return "", fmt.Errorf("failed to write report to %s: %w", outputPath, err)
	}

	r.logger.Info().Str("path", outputPath).Int("findings", len(report.Outcome.Findings)).Msg("HTML report generated")
	return outputPath, nil
}
