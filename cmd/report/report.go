// Package report implements the report command, which generates periodic
// reports comparing the latest completed run against a baseline, and
// lists previously generated reports.
package report

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/seoaudit/cmd/common"
	"github.com/jonesrussell/seoaudit/internal/database"
	"github.com/jonesrussell/seoaudit/internal/report"
)

const listLimit = 20

// Command returns the report command.
func Command(cfgFile *string, debug *bool) *cobra.Command {
	var (
		force bool
		list  bool
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate or list periodic audit reports",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := common.Bootstrap(*cfgFile, *debug)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			store, db, err := app.ConnectStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			if list {
				return listReports(ctx, store)
			}
			return generate(ctx, app, store, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "generate even if the interval has not elapsed")
	cmd.Flags().BoolVar(&list, "list", false, "list generated reports instead of generating one")

	return cmd
}

func generate(ctx context.Context, app *common.App, store *database.Store, force bool) error {
	current, err := store.LatestCompletedRunBefore(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("find latest run: %w", err)
	}
	if current == nil {
		return errors.New("no completed audit runs yet")
	}

	cfg := app.Config.Report
	interval := report.IntervalOrDefault(cfg.Interval, app.Logger)
	if force {
		// Small but nonzero so the baseline search excludes the current
		// run itself.
		interval = time.Nanosecond
	}

	var notifier report.Notifier
	if n := report.NewEmailNotifier(
		cfg.SMTPHost, cfg.SMTPPort, cfg.FromEmail, cfg.Recipients, app.Logger,
	); n != nil {
		notifier = n
	}

	gen := report.NewGenerator(store, notifier, interval, app.Logger)
	generated, err := gen.Generate(ctx, current)
	if err != nil {
		return err
	}
	if generated == nil {
		fmt.Println("report not due yet")
		return nil
	}

	fmt.Printf("report %s: score %d -> %d, %d new, %d fixed\n",
		generated.ID, generated.ScoreBefore, generated.ScoreAfter,
		generated.IssuesNew, generated.IssuesResolved)
	return nil
}

func listReports(ctx context.Context, store *database.Store) error {
	reports, err := store.ListReports(ctx, listLimit, 0)
	if err != nil {
		return fmt.Errorf("list reports: %w", err)
	}
	if len(reports) == 0 {
		fmt.Println("no reports yet")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Created", "Score", "New", "Fixed", "Emailed"})
	for _, r := range reports {
		emailed := ""
		if r.EmailSent {
			emailed = "yes"
		}
		t.AppendRow(table.Row{
			r.CreatedAt.Format(time.RFC3339),
			fmt.Sprintf("%d -> %d", r.ScoreBefore, r.ScoreAfter),
			r.IssuesNew,
			r.IssuesResolved,
			emailed,
		})
	}
	t.Render()
	return nil
}
