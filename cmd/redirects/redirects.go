// Package redirects implements the redirects command, which audits a
// redirect inventory for chains, loops, and dead targets.
package redirects

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/seoaudit/cmd/common"
	"github.com/jonesrussell/seoaudit/internal/redirects"
)

// Command returns the redirects command.
func Command(cfgFile *string, debug *bool) *cobra.Command {
	var (
		file          string
		flatten       bool
		checkExternal bool
	)

	cmd := &cobra.Command{
		Use:   "redirects",
		Short: "Audit redirects for chains, loops, and dead targets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := common.Bootstrap(*cfgFile, *debug)
			if err != nil {
				return err
			}

			if file == "" {
				file = app.Config.Redirects.File
			}
			if !cmd.Flags().Changed("check-external") {
				checkExternal = app.Config.Redirects.CheckExternal
			}

			inv, err := redirects.Load(file)
			if err != nil {
				return err
			}

			analyzer := redirects.NewAnalyzer(app.Logger, redirects.WithExternalChecks(checkExternal))
			return run(cmd.Context(), analyzer, inv, flatten, app)
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "redirects inventory file (overrides config)")
	cmd.Flags().BoolVar(&flatten, "flatten", false, "collapse redirect chains before auditing")
	cmd.Flags().BoolVar(&checkExternal, "check-external", false, "probe external redirect targets over HTTP")

	return cmd
}

func run(
	ctx context.Context,
	analyzer *redirects.Analyzer,
	inv *redirects.Inventory,
	flatten bool,
	app *common.App,
) error {
	for _, site := range inv.Sites {
		siteRedirects := inv.SiteRedirects(site.ID)
		if flatten {
			collapsed := redirects.Flatten(site, siteRedirects, app.Logger)
			if collapsed > 0 {
				fmt.Printf("%s: flattened %d redirect(s)\n", site.Name, collapsed)
			}
		}
		report := analyzer.Audit(ctx, site, siteRedirects)
		printReport(site.Name, report)
	}

	if global := inv.GlobalRedirects(); len(global) > 0 {
		if flatten {
			collapsed := redirects.Flatten(nil, global, app.Logger)
			if collapsed > 0 {
				fmt.Printf("global: flattened %d redirect(s)\n", collapsed)
			}
		}
		report := analyzer.Audit(ctx, nil, global)
		printReport("global", report)
	}

	return nil
}

func printReport(siteName string, report *redirects.Report) {
	fmt.Printf("\n=== %s: %d redirect(s), %d external ===\n",
		siteName, report.TotalRedirects, report.ExternalRedirects)

	if len(report.Chains) == 0 && len(report.Loops) == 0 &&
		len(report.RedirectsTo404) == 0 && len(report.RedirectsToUnpublished) == 0 {
		fmt.Println("no problems found")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Problem", "Path", "Detail"})
	for _, c := range report.Chains {
		t.AppendRow(table.Row{"chain", strings.Join(c.ChainPath, " -> "), fmt.Sprintf("%d hops", c.Hops)})
	}
	for _, l := range report.Loops {
		t.AppendRow(table.Row{"loop", strings.Join(l.LoopPath, " -> "), fmt.Sprintf("%d redirect(s)", len(l.RedirectIDs))})
	}
	for _, d := range report.RedirectsTo404 {
		t.AppendRow(table.Row{"dead target", d.OldPath + " -> " + d.Target, d.Reason})
	}
	for _, u := range report.RedirectsToUnpublished {
		t.AppendRow(table.Row{"unpublished target", u.OldPath, u.TargetPageTitle})
	}
	t.Render()
}
