package main

import (
	"context"
	"time"

	"github.com/aleister1102/axeaudit/internal/auditor"
	"github.com/aleister1102/axeaudit/internal/axe"
	"github.com/aleister1102/axeaudit/internal/browser"
	"github.com/aleister1102/axeaudit/internal/reporter"
	"github.com/spf13/cobra"
)

// runAudit builds the app for cmd and runs op against the page at args[0].
func runAudit(cmd *cobra.Command, opts *rootOptions, url string, kind axe.CallKind, op func(ctx context.Context, a *auditor.Auditor, page browser.Page) (axe.Outcome, error)) error {
	a, err := newApp(opts, cmd.Flags(), cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer a.Close()

	return a.audit(cmd.Context(), kind.String(), url, func(ctx context.Context, page browser.Page) (axe.Outcome, error) {
		return op(ctx, a.auditor, page)
	})
}

func newViolationsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "violations <url>",
		Short: "Audit a page against WCAG 2.0 A and AA rules",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAudit(cmd, opts, args[0], axe.KindViolations,
				func(ctx context.Context, a *auditor.Auditor, page browser.Page) (axe.Outcome, error) {
					return a.Violations(ctx, page)
				})
		},
	}
}

func newBestPracticeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "best-practice <url>",
		Aliases: []string{"bp"},
		Short:   "Audit a page against best-practice rules",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAudit(cmd, opts, args[0], axe.KindBestPractice,
				func(ctx context.Context, a *auditor.Auditor, page browser.Page) (axe.Outcome, error) {
					return a.BestPractice(ctx, page)
				})
		},
	}
}

func newTagsCmd(opts *rootOptions) *cobra.Command {
	var (
		tags     []string
		tagsJSON string
	)

	cmd := &cobra.Command{
		Use:   "tags <url>",
		Short: "Audit a page with the rules carrying the given tags",
		Example: "  axeaudit tags https://example.com --tag wcag21aa --tag best-practice\n" +
			`  axeaudit tags https://example.com --tags-json '["wcag2a"]'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			selected, err := resolveTags(tags, tagsJSON, cmd.Flags().Changed("tags-json"))
			if err != nil {
				return err
			}
			if selected == nil {
				return auditor.ErrTagsNotList
			}
			return runAudit(cmd, opts, args[0], axe.KindTags,
				func(ctx context.Context, a *auditor.Auditor, page browser.Page) (axe.Outcome, error) {
					return a.AnalyzeWithTags(ctx, page, selected)
				})
		},
	}

	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "Rule tag to run, repeatable")
	cmd.Flags().StringVar(&tagsJSON, "tags-json", "", "Tags as a JSON array")
	cmd.MarkFlagsMutuallyExclusive("tag", "tags-json")
	return cmd
}

// resolveTags returns the tags from --tags-json when given, else from --tag.
// No tags at all comes back as nil.
func resolveTags(tags []string, tagsJSON string, jsonSet bool) ([]string, error) {
	if jsonSet {
		return auditor.ParseTags([]byte(tagsJSON))
	}
	if len(tags) == 0 {
		return nil, nil
	}
	return tags, nil
}

func newContextCmd(opts *rootOptions) *cobra.Command {
	var contextJSON string

	cmd := &cobra.Command{
		Use:     "context <url>",
		Short:   "Audit part of a page selected by an include/exclude context",
		Example: `  axeaudit context https://example.com --context '[{"include":["#main"]}]'`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			selectors, err := auditor.ParseSelectors([]byte(contextJSON))
			if err != nil {
				return err
			}
			return runAudit(cmd, opts, args[0], axe.KindContext,
				func(ctx context.Context, a *auditor.Auditor, page browser.Page) (axe.Outcome, error) {
					return a.AnalyzeWithContext(ctx, page, selectors)
				})
		},
	}

	cmd.Flags().StringVar(&contextJSON, "context", "", "Context as a JSON array of {include, exclude} objects")
	_ = cmd.MarkFlagRequired("context")
	return cmd
}

func newRulesCmd(opts *rootOptions) *cobra.Command {
	var (
		tags     []string
		tagsJSON string
		url      string
	)

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the engine rule catalog, optionally filtered by tag",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("tags-json") {
				parsed, err := auditor.ParseRuleTags([]byte(tagsJSON))
				if err != nil {
					return err
				}
				tags = parsed
			}

			a, err := newApp(opts, cmd.Flags(), cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer a.Close()

			return a.withPage(cmd.Context(), url, func(ctx context.Context, page browser.Page) error {
				rules, err := a.auditor.Rules(ctx, page, tags)
				if err != nil {
					return err
				}
				a.logger.Info().Int("rules", len(rules)).Strs("tags", tags).Msg("Rule catalog loaded")
				return a.write(reporter.Report{
					Operation:   "rules",
					GeneratedAt: time.Now(),
					Rules:       rules,
				})
			})
		},
	}

	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "Only list rules carrying this tag, repeatable")
	cmd.Flags().StringVar(&tagsJSON, "tags-json", "", "Tag filter as a JSON array")
	cmd.Flags().StringVar(&url, "url", "about:blank", "Page to load the engine into")
	cmd.MarkFlagsMutuallyExclusive("tag", "tags-json")
	return cmd
}
