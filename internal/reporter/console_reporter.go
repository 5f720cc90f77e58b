package reporter

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aleister1102/axeaudit/internal/axe"
	"github.com/aleister1102/axeaudit/internal/config"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
)

var (
	colorAccent   = lipgloss.Color("#7C3AED")
	colorMuted    = lipgloss.Color("#6B7280")
	colorSuccess  = lipgloss.Color("#10B981")
	colorLink     = lipgloss.Color("#3B82F6")
	impactPalette = map[string]lipgloss.Color{
		ImpactCritical: lipgloss.Color("#DC2626"),
		ImpactSerious:  lipgloss.Color("#F97316"),
		ImpactModerate: lipgloss.Color("#F59E0B"),
		ImpactMinor:    lipgloss.Color("#9CA3AF"),
	}
)

// consoleStyles binds the palette to one renderer so colour can be turned off per writer.
type consoleStyles struct {
	renderer  *lipgloss.Renderer
	title     lipgloss.Style
	muted     lipgloss.Style
	success   lipgloss.Style
	link      lipgloss.Style
	ruleID    lipgloss.Style
	separator string
}

func newConsoleStyles(r *lipgloss.Renderer) consoleStyles {
	muted := r.NewStyle().Foreground(colorMuted)
	return consoleStyles{
		renderer:  r,
		title:     r.NewStyle().Bold(true).Foreground(colorAccent),
		muted:     muted,
		success:   r.NewStyle().Bold(true).Foreground(colorSuccess),
		link:      r.NewStyle().Foreground(colorLink).Underline(true),
		ruleID:    r.NewStyle().Bold(true),
		separator: muted.Render(strings.Repeat("─", 64)),
	}
}

func (s consoleStyles) impact(impact string) lipgloss.Style {
	color, ok := impactPalette[impact]
	if !ok {
		color = colorMuted
	}
	return s.renderer.NewStyle().Bold(true).Foreground(color)
}

// ConsoleReporter prints findings with impact colours and per-rule counters.
type ConsoleReporter struct {
	cfg    config.ReporterConfig
	out    io.Writer
	styles consoleStyles
	logger zerolog.Logger
}

// NewConsoleReporter creates a console reporter writing to out (stdout when nil)
func NewConsoleReporter(cfg config.ReporterConfig, out io.Writer, logger zerolog.Logger) *ConsoleReporter {
	if out == nil {
		out = os.Stdout
	}

	renderer := lipgloss.NewRenderer(out)
	if cfg.NoColor {
		renderer.SetColorProfile(termenv.Ascii)
	}

	return &ConsoleReporter{
		cfg:    cfg,
		out:    out,
		styles: newConsoleStyles(renderer),
		logger: logger.With().Str("component", "ConsoleReporter").Logger(),
	}
}

// Write prints report and returns an empty path.
func (r *ConsoleReporter) Write(report Report) (string, error) {
	if _, err := io.WriteString(r.out, r.Render(report)); err != nil {
		return "", fmt.Errorf("failed to write console report: %w", err)
	}
	return "", nil
}

// Render formats report as terminal text.
func (r *ConsoleReporter) Render(report Report) string {
	var b strings.Builder
	s := r.styles

	title := r.cfg.ReportTitle
	if title == "" {
		title = config.DefaultReportTitle
	}
	b.WriteString(s.title.Render(title) + "\n")

	header := report.Operation
	if report.PageURL != "" {
		header += "  " + report.PageURL
	}
	if report.PageTitle != "" {
		header += fmt.Sprintf("  %q", report.PageTitle)
	}
	b.WriteString(s.muted.Render(header) + "\n\n")

	if report.Rules != nil {
		r.renderRules(&b, report.Rules)
		return b.String()
	}

	if !report.Outcome.HasFindings() {
		b.WriteString(s.success.Render(report.Outcome.Message) + "\n")
		return b.String()
	}

	summary := Summarize(report.Outcome.Findings)
	r.renderTotals(&b, summary)

	for _, f := range report.Outcome.Findings {
		r.renderFinding(&b, f)
	}

	b.WriteString(s.separator + "\n")
	r.renderRuleCounts(&b, summary)
	return b.String()
}

func (r *ConsoleReporter) renderTotals(b *strings.Builder, summary Summary) {
	s := r.styles
	noun := "findings"
	if summary.Total == 1 {
		noun = "finding"
	}
	b.WriteString(s.ruleID.Render(fmt.Sprintf("%d %s", summary.Total, noun)))
	for _, level := range impactLevels {
		if n := summary.ByImpact[level]; n > 0 {
			b.WriteString("  " + s.impact(level).Render(fmt.Sprintf("%d %s", n, level)))
		}
	}
	b.WriteString("\n\n")
}

func (r *ConsoleReporter) renderFinding(b *strings.Builder, f axe.Finding) {
	s := r.styles
	impact := f.Impact
	if impact == "" {
		impact = "n/a"
	}

	fmt.Fprintf(b, "%s %s  %s\n",
		s.impact(f.Impact).Render("["+impact+"]"),
		s.ruleID.Render(f.ID),
		f.Help,
	)
	if f.HTML != "" {
		fmt.Fprintf(b, "  element: %s\n", ElementLabel(f.HTML))
	}
	if f.Target != "" {
		fmt.Fprintf(b, "  target:  %s\n", s.muted.Render(f.Target))
	}
	if f.Message != "" {
		fmt.Fprintf(b, "  %s\n", f.Message)
	}
	if f.HelpURL != "" {
		fmt.Fprintf(b, "  %s\n", s.link.Render(f.HelpURL))
	}
	b.WriteString("\n")
}

func (r *ConsoleReporter) renderRuleCounts(b *strings.Builder, summary Summary) {
	s := r.styles
	width := 0
	for _, rc := range summary.Rules {
		if len(rc.RuleID) > width {
			width = len(rc.RuleID)
		}
	}
	b.WriteString(s.title.Render("Rules") + "\n")
	for _, rc := range summary.Rules {
		fmt.Fprintf(b, "  %-*s  %s\n", width, rc.RuleID, s.impact(rc.Impact).Render(fmt.Sprintf("%d", rc.Count)))
	}
}

func (r *ConsoleReporter) renderRules(b *strings.Builder, rules []axe.Rule) {
	s := r.styles
	fmt.Fprintf(b, "%s\n\n", s.ruleID.Render(fmt.Sprintf("%d rules", len(rules))))
	for _, rule := range rules {
		fmt.Fprintf(b, "%s  %s\n", s.ruleID.Render(rule.RuleID), rule.Help)
		if len(rule.Tags) > 0 {
			fmt.Fprintf(b, "  %s\n", s.muted.Render(strings.Join(rule.Tags, ", ")))
		}
	}
}
