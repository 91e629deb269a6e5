// Package cmd implements the seoaudit command-line interface.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	auditcmd "github.com/jonesrussell/seoaudit/cmd/audit"
	checkcmd "github.com/jonesrussell/seoaudit/cmd/check"
	httpdcmd "github.com/jonesrussell/seoaudit/cmd/httpd"
	redirectscmd "github.com/jonesrussell/seoaudit/cmd/redirects"
	reportcmd "github.com/jonesrussell/seoaudit/cmd/report"
	schedulercmd "github.com/jonesrussell/seoaudit/cmd/scheduler"
	schemacmd "github.com/jonesrussell/seoaudit/cmd/schema"
)

var (
	version = "dev"
	commit  = "none"
)

// Execute runs the root command.
func Execute() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		cfgFile string
		debug   bool
	)

	root := &cobra.Command{
		Use:   "seoaudit",
		Short: "On-page SEO auditing engine",
		Long: `seoaudit crawls a configured set of pages and audits each for on-page
SEO problems: title and description quality, heading structure, structured
data, internal linking, mobile readiness, and unprocessed template
placeholders. Results are persisted per run and summarized into periodic
reports with new/fixed issue diffs.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	root.AddCommand(
		auditcmd.Command(&cfgFile, &debug),
		checkcmd.Command(&cfgFile, &debug),
		schemacmd.Command(),
		redirectscmd.Command(&cfgFile, &debug),
		reportcmd.Command(&cfgFile, &debug),
		schedulercmd.Command(&cfgFile, &debug),
		httpdcmd.Command(&cfgFile, &debug),
		newVersionCmd(),
	)

	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "seoaudit %s (%s)\n", version, commit)
		},
	}
}
