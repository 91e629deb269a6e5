// Package config loads application configuration from YAML files and
// environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/jonesrussell/seoaudit/internal/database"
	"github.com/jonesrussell/seoaudit/internal/logger"
)

// Server defaults
const (
	defaultServerAddress      = ":8080"
	defaultServerReadTimeout  = 30 * time.Second
	defaultServerWriteTimeout = 30 * time.Second
	defaultServerIdleTimeout  = 60 * time.Second
)

// Config represents the application configuration.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger"`
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Audit     AuditConfig     `mapstructure:"audit"`
	PageSpeed PageSpeedConfig `mapstructure:"pagespeed"`
	Report    ReportConfig    `mapstructure:"report"`
	Redirects RedirectsConfig `mapstructure:"redirects"`
	Metadata  MetadataConfig  `mapstructure:"metadata"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

// LoggerConfig controls log output.
type LoggerConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
	Encoding    string `mapstructure:"encoding"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Address      string        `mapstructure:"address"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// DatabaseConfig holds PostgreSQL settings.
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

// AuditConfig controls audit runs.
type AuditConfig struct {
	// PagesFile is a YAML inventory of pages to audit.
	PagesFile string `mapstructure:"pages_file"`
	// Workers bounds concurrent page audits.
	Workers int `mapstructure:"workers"`
	// IncludeDevFixes keeps issues that require developer changes.
	IncludeDevFixes bool `mapstructure:"include_dev_fixes"`
	// FetchTimeout bounds a single page render fetch.
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
}

// PageSpeedConfig controls the performance checker.
type PageSpeedConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	APIKey   string `mapstructure:"api_key"`
	DryRun   bool   `mapstructure:"dry_run"`
	Strategy string `mapstructure:"strategy"`
}

// ReportConfig controls historical reporting.
type ReportConfig struct {
	// Interval is the report cadence, e.g. "7d", "2w", "1m".
	Interval   string   `mapstructure:"interval"`
	Recipients []string `mapstructure:"recipients"`
	SMTPHost   string   `mapstructure:"smtp_host"`
	SMTPPort   int      `mapstructure:"smtp_port"`
	FromEmail  string   `mapstructure:"from_email"`
}

// RedirectsConfig controls redirect auditing.
type RedirectsConfig struct {
	// File is a YAML inventory of sites and redirects.
	File string `mapstructure:"file"`
	// CheckExternal probes external redirect targets over the network.
	CheckExternal bool `mapstructure:"check_external"`
}

// MetadataConfig controls placeholder template handling.
type MetadataConfig struct {
	SiteName string `mapstructure:"site_name"`
	// RuntimeProcessing resolves placeholders at serve time; when off, the
	// audit flags unresolved tokens left in saved metadata.
	RuntimeProcessing bool `mapstructure:"runtime_processing"`
}

// SchedulerConfig controls the cron scheduler.
type SchedulerConfig struct {
	// AuditSchedule is a cron expression for recurring audits.
	AuditSchedule string `mapstructure:"audit_schedule"`
}

// LoggerSettings converts the logger section to the logger package config.
func (c *Config) LoggerSettings() *logger.Config {
	return &logger.Config{
		Level:       logger.Level(c.Logger.Level),
		Development: c.Logger.Development,
		Encoding:    c.Logger.Encoding,
	}
}

// DatabaseSettings converts the database section to the database config.
func (c *Config) DatabaseSettings() database.Config {
	return database.Config{
		Host:     c.Database.Host,
		Port:     c.Database.Port,
		User:     c.Database.User,
		Password: c.Database.Password,
		DBName:   c.Database.Name,
		SSLMode:  c.Database.SSLMode,
	}
}

// Validate checks the configuration for inconsistencies.
func (c *Config) Validate() error {
	if c.Audit.Workers < 0 {
		return errors.New("audit.workers must not be negative")
	}
	if c.Server.Address == "" {
		return errors.New("server.address is required")
	}
	if c.Database.Host == "" || c.Database.Name == "" {
		return errors.New("database.host and database.name are required")
	}
	return nil
}

// Load reads configuration from an optional YAML file plus SEOAUDIT_*
// environment variables. A missing file is not an error; defaults apply.
func Load(path string) (*Config, error) {
	// Best effort: a .env file is a development convenience.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("SEOAUDIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", string(logger.DefaultLevel))
	v.SetDefault("logger.development", false)
	v.SetDefault("logger.encoding", logger.DefaultEncoding)

	v.SetDefault("server.address", defaultServerAddress)
	v.SetDefault("server.read_timeout", defaultServerReadTimeout)
	v.SetDefault("server.write_timeout", defaultServerWriteTimeout)
	v.SetDefault("server.idle_timeout", defaultServerIdleTimeout)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "seoaudit")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "seoaudit")
	v.SetDefault("database.sslmode", "disable")

	v.SetDefault("audit.pages_file", "pages.yaml")
	v.SetDefault("audit.workers", 4)
	v.SetDefault("audit.include_dev_fixes", true)
	v.SetDefault("audit.fetch_timeout", 30*time.Second)

	v.SetDefault("pagespeed.enabled", false)
	v.SetDefault("pagespeed.api_key", "")
	v.SetDefault("pagespeed.dry_run", false)
	v.SetDefault("pagespeed.strategy", "mobile")

	v.SetDefault("report.interval", "7d")
	v.SetDefault("report.recipients", []string{})
	v.SetDefault("report.smtp_host", "")
	v.SetDefault("report.smtp_port", 587)
	v.SetDefault("report.from_email", "noreply@example.com")

	v.SetDefault("redirects.file", "redirects.yaml")
	v.SetDefault("redirects.check_external", false)

	v.SetDefault("metadata.site_name", "")
	v.SetDefault("metadata.runtime_processing", true)

	v.SetDefault("scheduler.audit_schedule", "0 3 * * *")
}
