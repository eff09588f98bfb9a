package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/dmitrijs2005/facturas/internal/common"
	"github.com/joho/godotenv"
)

// EnvPrefix starts the name of every environment variable read by parseEnv.
const EnvPrefix = "FACTURAS_"

// DotEnvFile is loaded into the environment when present. Variables that
// are already set win.
var DotEnvFile = ".env"

// seams for tests
var (
	lookupEnv  = os.LookupEnv
	dotenvLoad = godotenv.Load
)

func loadDotEnv() error {
	err := dotenvLoad(DotEnvFile)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", common.ErrInvalidConfig, DotEnvFile, err)
}

// parseEnv overlays FACTURAS_* variables, e.g. FACTURAS_DATABASE_DSN.
func parseEnv(config *Config, lookup func(string) (string, bool)) {
	vars := map[string]*string{
		"DATABASE_DRIVER":  &config.DatabaseDriver,
		"DATABASE_DSN":     &config.DatabaseDSN,
		"QUERIES_FILE":     &config.QueriesFile,
		"CODE_PREFIX":      &config.CodePrefix,
		"OUTPUT_DIR":       &config.OutputDir,
		"LOG_LEVEL":        &config.LogLevel,
		"LOG_FORMAT":       &config.LogFormat,
		"S3_ROOT_USER":     &config.S3RootUser,
		"S3_ROOT_PASSWORD": &config.S3RootPassword,
		"S3_BUCKET":        &config.S3Bucket,
		"S3_REGION":        &config.S3Region,
		"S3_BASE_ENDPOINT": &config.S3BaseEndpoint,
	}

	for name, dst := range vars {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			*dst = v
		}
	}
}
