// Package auditor drives the axe-core engine inside a browser session and
// reshapes its output into flat findings.
package auditor

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aleister1102/axeaudit/internal/axe"
	"github.com/rs/zerolog"
)

// Auditor runs audits against caller supplied sessions. It keeps no per-page
// state, so one Auditor may serve many sessions.
type Auditor struct {
	source EngineSource
	logger zerolog.Logger
}

// NewAuditor creates an auditor that injects the script from source when a page lacks it.
func NewAuditor(source EngineSource, logger zerolog.Logger) *Auditor {
	return &Auditor{
		source: source,
		logger: logger.With().Str("component", "Auditor").Logger(),
	}
}

// Violations runs the WCAG 2.0 A/AA rule set.
func (a *Auditor) Violations(ctx context.Context, s Session) (axe.Outcome, error) {
	return a.Run(ctx, s, Request{Kind: axe.KindViolations})
}

// BestPractice runs the best-practice rule set.
func (a *Auditor) BestPractice(ctx context.Context, s Session) (axe.Outcome, error) {
	return a.Run(ctx, s, Request{Kind: axe.KindBestPractice})
}

// AnalyzeWithTags runs the rules carrying any of tags. A nil slice is rejected with ErrTagsNotList.
func (a *Auditor) AnalyzeWithTags(ctx context.Context, s Session, tags []string) (axe.Outcome, error) {
	return a.Run(ctx, s, Request{Kind: axe.KindTags, Tags: tags})
}

// AnalyzeWithContext runs every rule scoped to selectors[0]. An empty list is rejected with ErrContextNotList.
func (a *Auditor) AnalyzeWithContext(ctx context.Context, s Session, selectors []axe.Selector) (axe.Outcome, error) {
	return a.Run(ctx, s, Request{Kind: axe.KindContext, Selectors: selectors})
}

// Run executes req against the page loaded in s.
func (a *Auditor) Run(ctx context.Context, s Session, req Request) (axe.Outcome, error) {
	if err := req.validate(); err != nil {
		return axe.Outcome{}, err
	}

	op := req.Kind.String()
	arg, async := req.argument()
	if arg == nil {
		return axe.Outcome{}, a.fail(op, fmt.Errorf("unsupported call kind %d", req.Kind))
	}

	if err := a.prepare(ctx, s); err != nil {
		return axe.Outcome{}, a.fail(op, err)
	}

	page, err := a.pageInfo(ctx, s)
	if err != nil {
		return axe.Outcome{}, a.fail(op, err)
	}

	a.logger.Debug().Str("op", op).Str("url", page.URL).Bool("async", async).Msg("Running audit")

	var raw json.RawMessage
	if async {
		raw, err = s.ExecuteAsync(ctx, runAsyncScript, arg)
	} else {
		raw, err = s.Execute(ctx, runScript, arg)
	}
	if err != nil {
		return axe.Outcome{}, a.fail(op, fmt.Errorf("run audit: %w", err))
	}

	res, err := axe.DecodeResults(raw)
	if err != nil {
		return axe.Outcome{}, a.fail(op, err)
	}

	out, err := axe.Reshape(res, page, req.Kind)
	if err != nil {
		return axe.Outcome{}, a.fail(op, err)
	}

	a.logger.Info().Str("op", op).Str("url", page.URL).Int("findings", len(out.Findings)).Msg("Audit completed")
	return out, nil
}

// Rules returns the engine rule catalog, filtered to rules carrying any of tags when tags is non-empty.
func (a *Auditor) Rules(ctx context.Context, s Session, tags []string) ([]axe.Rule, error) {
	const op = "rules"

	if err := a.prepare(ctx, s); err != nil {
		return nil, a.fail(op, err)
	}

	if tags == nil {
		tags = []string{}
	}
	raw, err := s.Execute(ctx, rulesScript, tags)
	if err != nil {
		return nil, a.fail(op, fmt.Errorf("get rules: %w", err))
	}

	var rules []axe.Rule
	if err := json.Unmarshal(raw, &rules); err != nil {
		return nil, a.fail(op, fmt.Errorf("decode rules: %w", err))
	}
	if rules == nil {
		return nil, a.fail(op, fmt.Errorf("decode rules: %w", axe.ErrMalformedResults))
	}

	a.logger.Debug().Strs("tags", tags).Int("rules", len(rules)).Msg("Rule catalog fetched")
	return rules, nil
}

// Configure hands spec to axe.configure inside the page. The setting lasts until Reset or the next navigation.
func (a *Auditor) Configure(ctx context.Context, s Session, spec map[string]any) error {
	const op = "configure"

	if spec == nil {
		return ErrConfigNotObject
	}

	if err := a.prepare(ctx, s); err != nil {
		return a.fail(op, err)
	}

	if _, err := s.Execute(ctx, configureScript, spec); err != nil {
		return a.fail(op, fmt.Errorf("configure engine: %w", err))
	}

	a.logger.Debug().Int("keys", len(spec)).Msg("Engine configured")
	return nil
}

// Reset restores the engine default configuration in the page.
func (a *Auditor) Reset(ctx context.Context, s Session) error {
	const op = "reset"

	if err := a.prepare(ctx, s); err != nil {
		return a.fail(op, err)
	}

	if _, err := s.Execute(ctx, resetScript); err != nil {
		return a.fail(op, fmt.Errorf("reset engine: %w", err))
	}

	a.logger.Debug().Msg("Engine configuration reset")
	return nil
}

// prepare injects the engine unless the page already has it, which keeps
// configuration applied earlier in the same page load.
func (a *Auditor) prepare(ctx context.Context, s Session) error {
	raw, err := s.Execute(ctx, engineLoadedScript)
	if err != nil {
		return fmt.Errorf("check engine: %w", err)
	}

	var present bool
	if err := json.Unmarshal(raw, &present); err != nil {
		return fmt.Errorf("check engine: %w", err)
	}
	if present {
		return nil
	}

	src, err := a.source.Load(ctx)
	if err != nil {
		return fmt.Errorf("load engine source: %w", err)
	}
	if err := s.Inject(ctx, src); err != nil {
		return fmt.Errorf("inject engine: %w", err)
	}

	a.logger.Debug().Int("bytes", len(src)).Msg("Engine injected")
	return nil
}

func (a *Auditor) pageInfo(ctx context.Context, s Session) (axe.PageInfo, error) {
	url, err := s.URL(ctx)
	if err != nil {
		return axe.PageInfo{}, fmt.Errorf("read page url: %w", err)
	}
	title, err := s.Title(ctx)
	if err != nil {
		return axe.PageInfo{}, fmt.Errorf("read page title: %w", err)
	}
	return axe.PageInfo{URL: url, Title: title}, nil
}

func (a *Auditor) fail(op string, err error) error {
	a.logger.Warn().Err(err).Str("op", op).Msg("Audit operation failed")
	return &AuditError{Op: op, Err: err}
}
