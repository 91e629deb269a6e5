// Package audit implements the audit command, which runs a full audit
// over the configured page inventory and persists the results.
package audit

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/seoaudit/cmd/common"
	"github.com/jonesrussell/seoaudit/internal/audit"
	"github.com/jonesrussell/seoaudit/internal/domain"
)

// Command returns the audit command.
func Command(cfgFile *string, debug *bool) *cobra.Command {
	var pagesFile string

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Run a full audit over the configured pages",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := common.Bootstrap(*cfgFile, *debug)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if pagesFile == "" {
				pagesFile = app.Config.Audit.PagesFile
			}
			return run(ctx, app, pagesFile)
		},
	}

	cmd.Flags().StringVar(&pagesFile, "pages", "", "pages inventory file (overrides config)")

	return cmd
}

func run(ctx context.Context, app *common.App, pagesFile string) error {
	pages, err := audit.LoadPages(pagesFile)
	if err != nil {
		return fmt.Errorf("load pages: %w", err)
	}
	if len(pages) == 0 {
		return errors.New("no pages to audit")
	}

	store, db, err := app.ConnectStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := store.UpsertPages(ctx, pages); err != nil {
		return fmt.Errorf("sync pages: %w", err)
	}

	runner := audit.NewRunner(
		store,
		audit.NewHTTPSource(app.Config.Audit.FetchTimeout),
		common.NewAuditor(app.Config, app.Logger),
		app.Config.Audit.Workers,
		app.Logger,
	)

	auditRun, err := runner.Run(ctx, pages)
	if err != nil {
		if errors.Is(err, audit.ErrRunActive) {
			return errors.New("another audit run is already in progress")
		}
		return err
	}

	printSummary(auditRun)
	return nil
}

func printSummary(run *domain.AuditRun) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Run", "Status", "Pages", "Issues", "Score"})
	t.AppendRow(table.Row{run.ID, run.Status, run.TotalPages, run.TotalIssues, run.Score})
	t.Render()
}
