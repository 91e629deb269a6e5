// Package check implements the check command, a one-off audit of a single
// URL or local HTML file that prints issues without touching the database.
package check

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/seoaudit/cmd/common"
	"github.com/jonesrussell/seoaudit/internal/audit"
	"github.com/jonesrussell/seoaudit/internal/domain"
)

// Command returns the check command.
func Command(cfgFile *string, debug *bool) *cobra.Command {
	var pageURL string

	cmd := &cobra.Command{
		Use:   "check <url|file>",
		Short: "Audit a single URL or HTML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := common.Bootstrap(*cfgFile, *debug)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			html, resolvedURL, err := common.ReadInput(ctx, args[0])
			if err != nil {
				return err
			}
			if pageURL != "" {
				resolvedURL = pageURL
			}

			page := &domain.Page{URL: resolvedURL, Title: args[0]}
			issues, err := common.NewAuditor(app.Config, app.Logger).AuditPage(ctx, page, html)
			if err != nil {
				return fmt.Errorf("audit %s: %w", args[0], err)
			}

			printIssues(args[0], issues)
			return nil
		},
	}

	cmd.Flags().StringVar(&pageURL, "url", "", "page URL to attribute to file input")

	return cmd
}

func printIssues(target string, issues []domain.Issue) {
	if len(issues) == 0 {
		fmt.Printf("%s: no issues found (score 100)\n", target)
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Severity", "Issue", "Description", "Dev Fix"})
	for _, issue := range issues {
		devFix := ""
		if issue.RequiresDevFix {
			devFix = "yes"
		}
		t.AppendRow(table.Row{issue.Severity.String(), issue.IssueType, issue.Description, devFix})
	}
	t.Render()

	fmt.Printf("\n%d issue(s), score %d\n", len(issues), audit.Score(len(issues), 1))
}
