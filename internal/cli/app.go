package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/facturas/internal/archive"
	"github.com/dmitrijs2005/facturas/internal/config"
	"github.com/dmitrijs2005/facturas/internal/dbx"
	"github.com/dmitrijs2005/facturas/internal/filex"
	"github.com/dmitrijs2005/facturas/internal/invoice"
	"github.com/dmitrijs2005/facturas/internal/logging"
	"github.com/dmitrijs2005/facturas/internal/querylog"
	"github.com/dmitrijs2005/facturas/internal/repositories/repomanager"
	"github.com/dmitrijs2005/facturas/internal/services"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// seams for tests
var (
	now          invoice.Clock = time.Now
	openDatabase               = dbx.Open
)

// App carries what every command needs once flags are parsed.
type App struct {
	config *config.Config
	logger logging.Logger
	reader *bufio.Reader
	out    io.Writer
}

// init loads configuration and the logger for the command being run.
func (a *App) init(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig(cmd.Flags())
	if err != nil {
		return err
	}

	l, err := logging.New(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}

	a.config = cfg
	a.logger = l.With("run_id", uuid.NewString(), "cmd", cmd.CommandPath())
	a.reader = bufio.NewReader(cmd.InOrStdin())
	a.out = cmd.OutOrStdout()
	return nil
}

func (a *App) queryLog(ctx context.Context) (*querylog.Service, error) {
	return querylog.New(ctx, a.config.QueriesFile, a.logger)
}

// openInvoices opens the configured database, applies migrations and
// returns the service with a closer for the pool.
func (a *App) openInvoices(ctx context.Context) (*services.InvoiceService, func(), error) {
	if a.config.DatabaseDriver == dbx.DriverSQLite {
		if err := filex.EnsureParentDir(a.config.DatabaseDSN); err != nil {
			return nil, nil, err
		}
	}

	db, err := openDatabase(ctx, a.config.DatabaseDriver, a.config.DatabaseDSN)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() { _ = db.Close() }

	m, err := a.migrate(ctx, db)
	if err != nil {
		closeDB()
		return nil, nil, err
	}

	return services.NewInvoiceService(db, m, a.logger), closeDB, nil
}

func (a *App) migrate(ctx context.Context, db *sql.DB) (repomanager.RepositoryManager, error) {
	m, err := repomanager.New(a.config.DatabaseDriver)
	if err != nil {
		return nil, err
	}
	if err := m.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}
	return m, nil
}

func (a *App) archive() *archive.Service {
	return archive.NewService(a.config, a.logger)
}

// readDocument loads and parses an invoice file.
func readDocument(path string) (*invoice.Invoice, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	inv, err := invoice.Parse(data)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return inv, data, nil
}

// writeDocument serializes inv into dir as <code>.xml.
func writeDocument(dir string, inv *invoice.Invoice) (string, []byte, error) {
	data, err := invoice.Serialize(inv)
	if err != nil {
		return "", nil, err
	}

	path := filepath.Join(dir, inv.Code+".xml")
	if err := filex.EnsureParentDir(path); err != nil {
		return "", nil, err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", nil, fmt.Errorf("write %s: %w", path, err)
	}
	return path, data, nil
}
