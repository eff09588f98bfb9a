// Package repomanager provides RepositoryManager implementations for
// PostgreSQL and SQLite, wiring together repository constructors and
// database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/facturas/internal/dbx"
	"github.com/dmitrijs2005/facturas/internal/migrations"
	"github.com/dmitrijs2005/facturas/internal/repositories/invoices"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations
// and exposes a schema migration hook.
type PostgresRepositoryManager struct{}

// Invoices returns an invoices.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Invoices(db dbx.DBTX) invoices.Repository {
	return invoices.NewPostgresRepository(db)
}

// RunMigrations applies the embedded postgres migrations.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return migrate(ctx, db, "pgx", migrations.PostgresDir)
}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager() (RepositoryManager, error) {
	return &PostgresRepositoryManager{}, nil
}
