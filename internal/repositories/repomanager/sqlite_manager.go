package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/facturas/internal/dbx"
	"github.com/dmitrijs2005/facturas/internal/migrations"
	"github.com/dmitrijs2005/facturas/internal/repositories/invoices"
)

// SQLiteRepositoryManager is the local-file counterpart of PostgresRepositoryManager.
type SQLiteRepositoryManager struct{}

func (m *SQLiteRepositoryManager) Invoices(db dbx.DBTX) invoices.Repository {
	return invoices.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return migrate(ctx, db, "sqlite3", migrations.SQLiteDir)
}

func NewSQLiteRepositoryManager() (RepositoryManager, error) {
	return &SQLiteRepositoryManager{}, nil
}
