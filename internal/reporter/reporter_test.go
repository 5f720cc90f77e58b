package reporter

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aleister1102/axeaudit/internal/axe"
	"github.com/aleister1102/axeaudit/internal/common"
	"github.com/aleister1102/axeaudit/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleFindings() []axe.Finding {
	return []axe.Finding{
		{
			ID:      "color-contrast",
			Impact:  "serious",
			Help:    "Elements must meet minimum color contrast ratio thresholds",
			HelpURL: "https://dequeuniversity.com/rules/axe/4.10/color-contrast",
			Message: "Element has insufficient color contrast",
			HTML:    `<i class="icon-2x icon-signin"></i>`,
			Target:  `["i"]`,
			PageURL: "https://the-internet.herokuapp.com/login",
		},
		{
			ID:      "color-contrast",
			Impact:  "serious",
			Help:    "Elements must meet minimum color contrast ratio thresholds",
			HTML:    `<a href="/" class="button">Back</a>`,
			Target:  `["#content > a.button"]`,
			PageURL: "https://the-internet.herokuapp.com/login",
		},
		{
			ID:      "image-alt",
			Impact:  "critical",
			Help:    "Images must have alternate text",
			HTML:    `<img src="/logo.png">`,
			Target:  `["img"]`,
			PageURL: "https://the-internet.herokuapp.com/login",
		},
		{
			ID:      "region",
			Impact:  "moderate",
			Help:    "All page content should be contained by landmarks",
			PageURL: "https://the-internet.herokuapp.com/login",
		},
	}
}

func sampleReport() Report {
	return Report{
		Operation:   "violations",
		PageURL:     "https://the-internet.herokuapp.com/login",
		PageTitle:   "The Internet",
		GeneratedAt: time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC),
		Outcome:     axe.Outcome{Findings: sampleFindings()},
	}
}

func TestSummarize(t *testing.T) {
	summary := Summarize(sampleFindings())

	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, map[string]int{"serious": 2, "critical": 1, "moderate": 1}, summary.ByImpact)

	require.Len(t, summary.Rules, 3)
	assert.Equal(t, RuleCount{RuleID: "image-alt", Impact: "critical", Help: "Images must have alternate text", Count: 1}, summary.Rules[0])
	assert.Equal(t, "color-contrast", summary.Rules[1].RuleID)
	assert.Equal(t, 2, summary.Rules[1].Count)
	assert.Equal(t, "region", summary.Rules[2].RuleID)
}

func TestSummarize_Empty(t *testing.T) {
	summary := Summarize(nil)
	assert.Zero(t, summary.Total)
	assert.Empty(t, summary.Rules)
	assert.NotNil(t, summary.ByImpact)
}

func TestImpactRank(t *testing.T) {
	assert.Greater(t, ImpactRank("critical"), ImpactRank("serious"))
	assert.Greater(t, ImpactRank("serious"), ImpactRank("moderate"))
	assert.Greater(t, ImpactRank("moderate"), ImpactRank("minor"))
	assert.Zero(t, ImpactRank(""))
	assert.Zero(t, ImpactRank("bogus"))
}

func TestElementLabel(t *testing.T) {
	tests := []struct {
		name    string
		snippet string
		want    string
	}{
		{name: "classes", snippet: `<a href="/" class="button  primary">Back</a>`, want: "a.button.primary"},
		{name: "id", snippet: `<input id="username" type="text">`, want: "input#username"},
		{name: "id and class", snippet: `<div id="page-footer" class="row"><p>x</p></div>`, want: "div#page-footer.row"},
		{name: "bare tag", snippet: `<img src="/logo.png">`, want: "img"},
		{name: "text only", snippet: "  plain \n text ", want: "plain text"},
		{name: "empty", snippet: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ElementLabel(tt.snippet))
		})
	}
}

func TestElementLabel_Truncates(t *testing.T) {
	long := strings.Repeat("x", MaxElementLabelLength+20)
	got := ElementLabel(long)
	assert.Equal(t, MaxElementLabelLength, len([]rune(got)))
	assert.True(t, strings.HasSuffix(got, "…"))
}

func TestNewReporter(t *testing.T) {
	cfg := config.NewDefaultReporterConfig()
	cfg.OutputDir = t.TempDir()

	for format, want := range map[string]any{
		"":        &ConsoleReporter{},
		"console": &ConsoleReporter{},
		"json":    &JSONReporter{},
		"HTML":    &HtmlReporter{},
	} {
		cfg.Format = format
		r, err := NewReporter(cfg, "", &bytes.Buffer{}, zerolog.Nop())
		require.NoError(t, err, format)
		assert.IsType(t, want, r, format)
	}

	cfg.Format = "pdf"
	_, err := NewReporter(cfg, "", nil, zerolog.Nop())
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrInvalidInput))
}

func TestBuildOutputPath(t *testing.T) {
	report := sampleReport()

	assert.Equal(t,
		filepath.Join("out", "violations-the-internet.herokuapp.com-20240301-103000.json"),
		buildOutputPath("out", "", report, JSONExtension))
	assert.Equal(t, "custom/report.html", buildOutputPath("out", "custom/report", report, HTMLExtension))
	assert.Equal(t, "custom/report.htm", buildOutputPath("out", "custom/report.htm", report, HTMLExtension))

	report.PageURL = ""
	report.Operation = "rules"
	assert.Equal(t, "rules-20240301-103000", baseName(report))
}

func TestConsoleReporter_Findings(t *testing.T) {
	var out bytes.Buffer
	cfg := config.NewDefaultReporterConfig()
	cfg.NoColor = true

	path, err := NewConsoleReporter(cfg, &out, zerolog.Nop()).Write(sampleReport())
	require.NoError(t, err)
	assert.Empty(t, path)

	text := out.String()
	assert.Contains(t, text, config.DefaultReportTitle)
	assert.Contains(t, text, "4 findings")
	assert.Contains(t, text, "1 critical")
	assert.Contains(t, text, "2 serious")
	assert.Contains(t, text, "[serious] color-contrast")
	assert.Contains(t, text, "element: a.button")
	assert.Contains(t, text, `target:  ["#content > a.button"]`)
	assert.Contains(t, text, "Element has insufficient color contrast")
	assert.Contains(t, text, "Rules")
	assert.NotContains(t, text, "\x1b[")
	assert.Regexp(t, `image-alt\s+1\n`, text)
	assert.Less(t, strings.Index(text, "image-alt"), strings.Index(text, "region"))
}

func TestConsoleReporter_Message(t *testing.T) {
	var out bytes.Buffer
	cfg := config.NewDefaultReporterConfig()
	cfg.NoColor = true

	report := sampleReport()
	report.Operation = "best-practice"
	report.Outcome = axe.Outcome{Message: `Page ("https://example.com") is aligned with best practice standards.`}

	_, err := NewConsoleReporter(cfg, &out, zerolog.Nop()).Write(report)
	require.NoError(t, err)
	assert.Contains(t, out.String(), `Page ("https://example.com") is aligned with best practice standards.`)
	assert.NotContains(t, out.String(), "findings")
}

func TestConsoleReporter_Rules(t *testing.T) {
	cfg := config.NewDefaultReporterConfig()
	cfg.NoColor = true

	report := Report{
		Operation: "rules",
		Rules: []axe.Rule{
			{RuleID: "area-alt", Help: "Active <area> elements must have alternate text", Tags: []string{"wcag2a", "wcag244"}},
		},
	}

	text := NewConsoleReporter(cfg, nil, zerolog.Nop()).Render(report)
	assert.Contains(t, text, "1 rules")
	assert.Contains(t, text, "area-alt  Active <area> elements must have alternate text")
	assert.Contains(t, text, "wcag2a, wcag244")
}

func TestJSONReporter_Write(t *testing.T) {
	cfg := config.NewDefaultReporterConfig()
	cfg.OutputDir = filepath.Join(t.TempDir(), "nested")

	r, err := NewJSONReporter(cfg, "", zerolog.Nop())
	require.NoError(t, err)

	path, err := r.Write(sampleReport())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cfg.OutputDir, "violations-the-internet.herokuapp.com-20240301-103000.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc struct {
		Operation string        `json:"operation"`
		Findings  []axe.Finding `json:"findings"`
		Summary   Summary       `json:"summary"`
		Message   string        `json:"message"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "violations", doc.Operation)
	require.Len(t, doc.Findings, 4)
	assert.Equal(t, 4, doc.Summary.Total)
	assert.Empty(t, doc.Message)

	// target is itself a JSON document; selectors keep their '>' unescaped
	var target []string
	require.NoError(t, json.Unmarshal([]byte(doc.Findings[1].Target), &target))
	assert.Equal(t, []string{"#content > a.button"}, target)
}

func TestJSONReporter_MessageOnly(t *testing.T) {
	r, err := NewJSONReporter(config.NewDefaultReporterConfig(), "", zerolog.Nop())
	require.NoError(t, err)

	report := sampleReport()
	report.Outcome = axe.Outcome{Message: `No Violations found in this page "https://example.com"`}

	data, err := r.Encode(report)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message": "No Violations found in this page \"https://example.com\""`)
	assert.NotContains(t, string(data), `"summary"`)
	assert.NotContains(t, string(data), `"findings"`)
}

func TestHtmlReporter_Write(t *testing.T) {
	dir := t.TempDir()
	cfg := config.NewDefaultReporterConfig()
	cfg.OutputDir = dir
	cfg.ReportTitle = "Login audit"

	r, err := NewHtmlReporter(cfg, filepath.Join(dir, "login"), zerolog.Nop())
	require.NoError(t, err)

	path, err := r.Write(sampleReport())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "login.html"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	html := string(data)

	assert.Contains(t, html, "<title>Login audit</title>")
	assert.Contains(t, html, "4 findings")
	assert.Contains(t, html, "impact-critical")
	assert.Contains(t, html, "a.button")
	assert.Contains(t, html, "&lt;img src=&#34;/logo.png&#34;&gt;")
	assert.Contains(t, html, ".badge")
	assert.NotContains(t, html, "<img src=")
}

func TestHtmlReporter_RenderMessageAndRules(t *testing.T) {
	r, err := NewHtmlReporter(config.NewDefaultReporterConfig(), "", zerolog.Nop())
	require.NoError(t, err)

	report := sampleReport()
	report.Outcome = axe.Outcome{Message: "No Violations found"}
	data, err := r.Render(report)
	require.NoError(t, err)
	assert.Contains(t, string(data), `<p class="notice">No Violations found</p>`)

	report = Report{Operation: "rules", Rules: []axe.Rule{{RuleID: "region", Tags: []string{"best-practice"}}}}
	data, err = r.Render(report)
	require.NoError(t, err)
	assert.Contains(t, string(data), "1 rules")
	assert.Contains(t, string(data), "best-practice")
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Best Practice", titleCase("best-practice"))
	assert.Equal(t, "Analyze With Tags", titleCase("analyze-with-tags"))
	assert.Equal(t, "", titleCase(""))
}
