package reporter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aleister1102/axeaudit/internal/axe"
	"github.com/aleister1102/axeaudit/internal/config"
	"github.com/rs/zerolog"
)

// jsonDocument is the on-disk shape of a JSON report.
type jsonDocument struct {
	Operation   string        `json:"operation"`
	PageURL     string        `json:"pageUrl,omitempty"`
	PageTitle   string        `json:"pageTitle,omitempty"`
	GeneratedAt time.Time     `json:"generatedAt"`
	Message     string        `json:"message,omitempty"`
	Findings    []axe.Finding `json:"findings,omitempty"`
	Summary     *Summary      `json:"summary,omitempty"`
	Rules       []axe.Rule    `json:"rules,omitempty"`
}

// JSONReporter writes reports as indented JSON files.
type JSONReporter struct {
	cfg          config.ReporterConfig
	outputPath   string
	logger       zerolog.Logger
	directoryMgr *DirectoryManager
}

// NewJSONReporter creates a JSON reporter. outputPath may be empty.
func NewJSONReporter(cfg config.ReporterConfig, outputPath string, logger zerolog.Logger) (*JSONReporter, error) {
	moduleLogger := logger.With().Str("component", "JSONReporter").Logger()
	if cfg.OutputDir == "" {
		cfg.OutputDir = config.DefaultReporterOutputDir
	}

	return &JSONReporter{
		cfg:          cfg,
		outputPath:   outputPath,
		logger:       moduleLogger,
		directoryMgr: NewDirectoryManager(moduleLogger),
	}, nil
}

// Encode renders report as the JSON document written by Write.
func (r *JSONReporter) Encode(report Report) ([]byte, error) {
	doc := jsonDocument{
		Operation:   report.Operation,
		PageURL:     report.PageURL,
		PageTitle:   report.PageTitle,
		GeneratedAt: report.GeneratedAt,
		Message:     report.Outcome.Message,
		Findings:    report.Outcome.Findings,
		Rules:       report.Rules,
	}
	if report.Outcome.HasFindings() {
		summary := Summarize(report.Outcome.Findings)
		doc.Summary = &summary
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *JSONReporter) Write(report Report) (string, error) {
	data, err := r.Encode(report)
	if err != nil {
		return "", err
	}

	path := buildOutputPath(r.cfg.OutputDir, r.outputPath, report, JSONExtension)
	if err := r.directoryMgr.EnsureOutputDirectories(filepath.Dir(path)); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, FilePermissions); err != nil {
		r.logger.Error().Err(err).Str("output", path).Msg("Failed to write report file")
		return "", fmt.Errorf("failed to write report to %s: %w", path, err)
	}

	r.logger.Info().Str("path", path).Int("findings", len(report.Outcome.Findings)).Msg("JSON report generated")
	return path, nil
}
