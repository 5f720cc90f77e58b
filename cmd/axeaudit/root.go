package main

import (
	"github.com/spf13/cobra"
)

var version = "dev"

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
	driver     string
	format     string
	output     string
	logLevel   string
	axeConfig  string
	reset      bool
	noColor    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "axeaudit",
		Short: "Run axe-core accessibility audits against web pages",
		Long: "axeaudit loads a page in a headless browser, injects the axe-core engine and " +
			"reports accessibility violations as flat findings.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Path to the YAML/JSON configuration file")
	flags.StringVar(&opts.driver, "driver", "", "Browser driver: rod or chromedp")
	flags.StringVar(&opts.format, "format", "", "Report format: console, json or html")
	flags.StringVarP(&opts.output, "output", "o", "", "Report file path for json and html formats")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.StringVar(&opts.axeConfig, "axe-config", "", "JSON file passed to axe.configure before the audit")
	flags.BoolVar(&opts.reset, "reset", false, "Call axe.reset before the audit")
	flags.BoolVar(&opts.noColor, "no-color", false, "Disable coloured console output")

	cmd.AddCommand(newViolationsCmd(opts))
	cmd.AddCommand(newBestPracticeCmd(opts))
	cmd.AddCommand(newTagsCmd(opts))
	cmd.AddCommand(newContextCmd(opts))
	cmd.AddCommand(newRulesCmd(opts))
	return cmd
}
