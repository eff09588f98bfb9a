// Package config handles configuration for the facturas command,
// including defaults, a JSON or YAML file overlay, environment variables
// and command-line flags.
package config

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/facturas/internal/common"
	"github.com/dmitrijs2005/facturas/internal/dbx"
	"github.com/dmitrijs2005/facturas/internal/invoice"
	"github.com/dmitrijs2005/facturas/internal/querylog"
	"github.com/spf13/pflag"
)

// Config holds runtime settings.
//
// Fields:
//   - DatabaseDriver / DatabaseDSN: database/sql driver ("pgx" or "sqlite") and its DSN.
//   - QueriesFile: query log location, resolved against the working
//     directory and then the executable's directory.
//   - CodePrefix: prefix of generated invoice codes.
//   - OutputDir: where emitted XML and PDF files are written.
//   - LogLevel / LogFormat: slog level and handler ("text" or "json").
//   - S3RootUser / S3RootPassword: credentials for the S3-compatible backend.
//   - S3Bucket / S3Region / S3BaseEndpoint: object storage settings.
type Config struct {
	DatabaseDriver string
	DatabaseDSN    string
	QueriesFile    string
	CodePrefix     string
	OutputDir      string
	LogLevel       string
	LogFormat      string
	S3RootUser     string
	S3RootPassword string
	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
}

// LoadDefaults populates Config with local development defaults.
func (c *Config) LoadDefaults() {
	c.DatabaseDriver = dbx.DriverSQLite
	c.DatabaseDSN = "Data/facturas.db"
	c.QueriesFile = querylog.DefaultPath
	c.CodePrefix = invoice.DefaultCodePrefix
	c.OutputDir = "."
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = "facturas"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
}

// Validate reports settings no command can work with.
func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case dbx.DriverPostgres, dbx.DriverSQLite:
	default:
		return fmt.Errorf("%w: unsupported database driver %q", common.ErrInvalidConfig, c.DatabaseDriver)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unsupported log level %q", common.ErrInvalidConfig, c.LogLevel)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("%w: unsupported log format %q", common.ErrInvalidConfig, c.LogFormat)
	}
	if c.QueriesFile == "" {
		return fmt.Errorf("%w: queries file is empty", common.ErrInvalidConfig)
	}
	return nil
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional config file, the environment (after loading .env) and
// finally the flags in fs that were set explicitly.
func LoadConfig(fs *pflag.FlagSet) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	path, err := fs.GetString(FlagConfig)
	if err != nil {
		return nil, err
	}
	if err := parseFile(cfg, path); err != nil {
		return nil, err
	}

	if err := loadDotEnv(); err != nil {
		return nil, err
	}
	parseEnv(cfg, lookupEnv)

	if err := parseFlags(cfg, fs); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
