// Package schema implements the schema command, which validates the
// JSON-LD structured data on a URL or local HTML file.
package schema

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/seoaudit/cmd/common"
	"github.com/jonesrussell/seoaudit/internal/schema"
)

// Command returns the schema command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "schema <url|file>",
		Short: "Validate JSON-LD structured data on a page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			html, _, err := common.ReadInput(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			report, err := schema.Validate(html)
			if err != nil {
				return fmt.Errorf("validate %s: %w", args[0], err)
			}

			printReport(args[0], report)
			return nil
		},
	}
}

func printReport(target string, report *schema.Report) {
	if !report.HasSchema {
		fmt.Printf("%s: no JSON-LD structured data found\n", target)
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Type", "Status", "Missing Required", "Missing Recommended", "Note"})
	for _, r := range report.Schemas {
		note := r.Note
		if r.Error != "" {
			note = r.Error
		}
		t.AppendRow(table.Row{
			r.Type,
			r.Status,
			strings.Join(r.MissingRequired, ", "),
			strings.Join(r.MissingRecommended, ", "),
			note,
		})
	}
	t.Render()

	for _, syntaxErr := range report.SyntaxErrors {
		fmt.Printf("syntax error: %s\n", syntaxErr)
	}
	fmt.Printf("\n%d schema(s), %d eligible for rich results\n", report.TotalSchemas, report.EligibleCount)
}
