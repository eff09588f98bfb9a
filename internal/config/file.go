package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/facturas/internal/common"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk form of Config. Empty fields leave the current
// value in place.
type FileConfig struct {
	DatabaseDriver string `json:"database_driver" yaml:"database_driver"`
	DatabaseDSN    string `json:"database_dsn" yaml:"database_dsn"`
	QueriesFile    string `json:"queries_file" yaml:"queries_file"`
	CodePrefix     string `json:"code_prefix" yaml:"code_prefix"`
	OutputDir      string `json:"output_dir" yaml:"output_dir"`
	LogLevel       string `json:"log_level" yaml:"log_level"`
	LogFormat      string `json:"log_format" yaml:"log_format"`
	S3RootUser     string `json:"s3_root_user" yaml:"s3_root_user"`
	S3RootPassword string `json:"s3_root_password" yaml:"s3_root_password"`
	S3Bucket       string `json:"s3_bucket" yaml:"s3_bucket"`
	S3Region       string `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint string `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
}

// parseFile overlays the file at path onto config. The format follows the
// extension: .yaml and .yml are YAML, anything else is JSON. An empty path
// loads nothing.
func parseFile(config *Config, path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}

	c := &FileConfig{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, c)
	default:
		err = json.Unmarshal(data, c)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", common.ErrInvalidConfig, path, err)
	}

	c.apply(config)
	return nil
}

func (c *FileConfig) apply(config *Config) {
	set(&config.DatabaseDriver, c.DatabaseDriver)
	set(&config.DatabaseDSN, c.DatabaseDSN)
	set(&config.QueriesFile, c.QueriesFile)
	set(&config.CodePrefix, c.CodePrefix)
	set(&config.OutputDir, c.OutputDir)
	set(&config.LogLevel, c.LogLevel)
	set(&config.LogFormat, c.LogFormat)
	set(&config.S3RootUser, c.S3RootUser)
	set(&config.S3RootPassword, c.S3RootPassword)
	set(&config.S3Bucket, c.S3Bucket)
	set(&config.S3Region, c.S3Region)
	set(&config.S3BaseEndpoint, c.S3BaseEndpoint)
}

func set(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
