// Package httpd implements the httpd command, which serves the read-only
// HTTP API over audit runs and reports.
package httpd

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/seoaudit/cmd/common"
	"github.com/jonesrussell/seoaudit/internal/api"
)

const shutdownTimeout = 10 * time.Second

// Command returns the httpd command.
func Command(cfgFile *string, debug *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "httpd",
		Short: "Serve the HTTP API",
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

			server := api.NewServer(
				app.Config.Server,
				api.NewHandler(store, app.Logger),
				app.Logger,
			)

			errCh := make(chan error, 1)
			go func() { errCh <- server.Start() }()

			app.Logger.Info("http server started", "address", app.Config.Server.Address)

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			app.Logger.Info("http server stopping")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return server.Stop(shutdownCtx)
		},
	}
}
