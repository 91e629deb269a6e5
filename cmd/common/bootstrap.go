// Package common provides shared bootstrap helpers for the CLI commands.
package common

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/seoaudit/internal/config"
	"github.com/jonesrussell/seoaudit/internal/database"
	"github.com/jonesrussell/seoaudit/internal/logger"
)

// App holds the dependencies most commands need.
type App struct {
	Config *config.Config
	Logger logger.Interface
}

// Bootstrap loads configuration and builds the logger.
func Bootstrap(cfgFile string, debug bool) (*App, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	settings := cfg.LoggerSettings()
	if debug {
		settings.Level = logger.DebugLevel
		settings.Development = true
	}

	log, err := logger.New(settings)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	return &App{Config: cfg, Logger: log}, nil
}

// ConnectStore opens the database, applies migrations and returns the
// repository set. The caller owns the connection.
func (a *App) ConnectStore(ctx context.Context) (*database.Store, *sqlx.DB, error) {
	db, err := database.NewPostgresConnection(a.Config.DatabaseSettings())
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}

	if err := database.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	return database.NewStore(db), db, nil
}
