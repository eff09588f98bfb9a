// Package migrations embeds the goose migrations for each supported database.
package migrations

import "embed"

// Directories inside Migrations, one per dialect.
const (
	PostgresDir = "postgres"
	SQLiteDir   = "sqlite"
)

//go:embed postgres/*.sql sqlite/*.sql
var Migrations embed.FS
