package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/facturas/internal/common"
	"github.com/dmitrijs2005/facturas/internal/dbx"
	"github.com/dmitrijs2005/facturas/internal/repositories/invoices"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Invoices(db dbx.DBTX) invoices.Repository
}

// New returns the manager for a database/sql driver name.
func New(driver string) (RepositoryManager, error) {
	switch driver {
	case dbx.DriverPostgres:
		return NewPostgresRepositoryManager()
	case dbx.DriverSQLite:
		return NewSQLiteRepositoryManager()
	default:
		return nil, fmt.Errorf("%w: unsupported database driver %q", common.ErrInvalidConfig, driver)
	}
}
