// Package scheduler implements the scheduler command, which runs audits
// and report generation on a cron schedule until interrupted.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/seoaudit/cmd/common"
	"github.com/jonesrussell/seoaudit/internal/audit"
	"github.com/jonesrussell/seoaudit/internal/database"
	"github.com/jonesrussell/seoaudit/internal/report"
)

// Command returns the scheduler command.
func Command(cfgFile *string, debug *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "scheduler",
		Short: "Run audits and reports on a cron schedule",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := common.Bootstrap(*cfgFile, *debug)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			store, db, err := app.ConnectStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			return run(ctx, app, store)
		},
	}
}

func run(ctx context.Context, app *common.App, store *database.Store) error {
	schedule := app.Config.Scheduler.AuditSchedule

	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		if err := runOnce(ctx, app, store); err != nil {
			app.Logger.Error("scheduled audit failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", schedule, err)
	}

	app.Logger.Info("scheduler started", "schedule", schedule)
	c.Start()

	<-ctx.Done()
	app.Logger.Info("scheduler stopping")
	<-c.Stop().Done()
	return nil
}

func runOnce(ctx context.Context, app *common.App, store *database.Store) error {
	pages, err := audit.LoadPages(app.Config.Audit.PagesFile)
	if err != nil {
		return fmt.Errorf("load pages: %w", err)
	}
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
			app.Logger.Warn("skipping scheduled audit, previous run still active")
			return nil
		}
		return err
	}

	cfg := app.Config.Report
	var notifier report.Notifier
	if n := report.NewEmailNotifier(
		cfg.SMTPHost, cfg.SMTPPort, cfg.FromEmail, cfg.Recipients, app.Logger,
	); n != nil {
		notifier = n
	}

	gen := report.NewGenerator(store, notifier, report.IntervalOrDefault(cfg.Interval, app.Logger), app.Logger)
	if _, err := gen.Generate(ctx, auditRun); err != nil {
		app.Logger.Error("report generation failed", "run_id", auditRun.ID, "error", err)
	}
	return nil
}
