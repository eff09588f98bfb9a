package config

import (
	"github.com/spf13/pflag"
)

// Flag names registered by RegisterFlags.
const (
	FlagConfig     = "config"
	FlagDriver     = "driver"
	FlagDSN        = "dsn"
	FlagQueries    = "queries"
	FlagPrefix     = "prefix"
	FlagOutputDir  = "output-dir"
	FlagLogLevel   = "log-level"
	FlagLogFormat  = "log-format"
	FlagS3Bucket   = "s3-bucket"
	FlagS3Endpoint = "s3-endpoint"
)

// RegisterFlags defines the configuration flags on fs. Their defaults are
// shown in help only; values reach Config through parseFlags, and only when
// the flag was given.
func RegisterFlags(fs *pflag.FlagSet) {
	var d Config
	d.LoadDefaults()

	fs.StringP(FlagConfig, "c", "", "config file (JSON, or YAML by extension)")
	fs.String(FlagDriver, d.DatabaseDriver, "database driver: pgx or sqlite")
	fs.StringP(FlagDSN, "d", d.DatabaseDSN, "database DSN")
	fs.StringP(FlagQueries, "q", d.QueriesFile, "query log file")
	fs.String(FlagPrefix, d.CodePrefix, "invoice code prefix")
	fs.StringP(FlagOutputDir, "o", d.OutputDir, "output directory")
	fs.String(FlagLogLevel, d.LogLevel, "log level: debug, info, warn, error")
	fs.String(FlagLogFormat, d.LogFormat, "log format: text or json")
	fs.String(FlagS3Bucket, d.S3Bucket, "S3 bucket")
	fs.String(FlagS3Endpoint, d.S3BaseEndpoint, "S3 base endpoint")
}

// parseFlags copies the flags that were set on the command line.
func parseFlags(config *Config, fs *pflag.FlagSet) error {
	targets := map[string]*string{
		FlagDriver:     &config.DatabaseDriver,
		FlagDSN:        &config.DatabaseDSN,
		FlagQueries:    &config.QueriesFile,
		FlagPrefix:     &config.CodePrefix,
		FlagOutputDir:  &config.OutputDir,
		FlagLogLevel:   &config.LogLevel,
		FlagLogFormat:  &config.LogFormat,
		FlagS3Bucket:   &config.S3Bucket,
		FlagS3Endpoint: &config.S3BaseEndpoint,
	}

	for name, dst := range targets {
		if fs.Lookup(name) == nil || !fs.Changed(name) {
			continue
		}
		v, err := fs.GetString(name)
		if err != nil {
			return err
		}
		*dst = v
	}
	return nil
}
