// Package reporter renders audit outcomes to the terminal, JSON or HTML files.
package reporter

import (
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/aleister1102/axeaudit/internal/axe"
	"github.com/aleister1102/axeaudit/internal/common"
	"github.com/aleister1102/axeaudit/internal/config"
	"github.com/rs/zerolog"
)

// Report is one audit run as handed to a Reporter. Rule catalog listings
// set Rules and leave Outcome empty.
type Report struct {
	Operation   string
	PageURL     string
	PageTitle   string
	GeneratedAt time.Time
	Outcome     axe.Outcome
	Rules       []axe.Rule
}

// Reporter writes a report and returns the file it produced, if any.
type Reporter interface {
	Write(report Report) (string, error)
}

// NewReporter returns the reporter for cfg.Format. outputPath overrides the
// generated file name for file based formats; console output goes to out.
func NewReporter(cfg config.ReporterConfig, outputPath string, out io.Writer, logger zerolog.Logger) (Reporter, error) {
	switch strings.ToLower(cfg.Format) {
	case "", config.FormatConsole:
		return NewConsoleReporter(cfg, out, logger), nil
	case config.FormatJSON:
		return NewJSONReporter(cfg, outputPath, logger)
	case config.FormatHTML:
		return NewHtmlReporter(cfg, outputPath, logger)
	default:
		return nil, common.NewValidationError("format", cfg.Format, "unsupported report format")
	}
}

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// baseName derives a file name stem such as "violations-example.com-20240101-120000".
func baseName(report Report) string {
	parts := []string{report.Operation}
	if u, err := url.Parse(report.PageURL); err == nil && u.Host != "" {
		parts = append(parts, u.Host)
	}
	ts := report.GeneratedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	parts = append(parts, ts.Format(fileTimestampLayout))

	name := unsafeNameChars.ReplaceAllString(strings.Join(parts, "-"), "_")
	return strings.Trim(name, "-_")
}

// buildOutputPath resolves where a report with extension ext is written.
// An explicit path wins; otherwise the stem lands in outputDir.
func buildOutputPath(outputDir, explicit string, report Report, ext string) string {
	if explicit != "" {
		if filepath.Ext(explicit) == "" {
			return explicit + ext
		}
		return explicit
	}
	return filepath.Join(outputDir, fmt.Sprintf("%s%s", baseName(report), ext))
}
