package invoices

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/facturas/internal/common"
	"github.com/dmitrijs2005/facturas/internal/dbx"
	"github.com/dmitrijs2005/facturas/internal/models"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// sqliteDateLayout is how fecha is stored; it sorts as text.
const sqliteDateLayout = "2006-01-02"

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// sqliteRow mirrors the stored column types; fecha is TEXT.
type sqliteRow struct {
	ID        int64           `db:"id"`
	Codigo    string          `db:"codigo"`
	Proveedor string          `db:"proveedor"`
	NIF       string          `db:"nif"`
	Fecha     string          `db:"fecha"`
	Total     decimal.Decimal `db:"total"`
	XML       string          `db:"xml"`
}

func (r sqliteRow) toModel() (models.Invoice, error) {
	t, err := time.Parse(sqliteDateLayout, r.Fecha)
	if err != nil {
		return models.Invoice{}, fmt.Errorf("invoice %d: bad fecha %q: %w", r.ID, r.Fecha, err)
	}
	return models.Invoice{
		ID:        r.ID,
		Codigo:    r.Codigo,
		Proveedor: r.Proveedor,
		NIF:       r.NIF,
		Fecha:     t,
		Total:     r.Total,
		XML:       r.XML,
	}, nil
}

// GetAll lists invoices by fecha descending, newest insert first within a day.
func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Invoice, error) {
	query := `select id, codigo, proveedor, nif, fecha, total, xml from invoices order by fecha desc, id desc`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select invoices: %w", err)
	}

	var stored []sqliteRow
	if err := sqlx.StructScan(rows, &stored); err != nil {
		return nil, fmt.Errorf("failed to scan invoices: %w", err)
	}

	result := make([]models.Invoice, 0, len(stored))
	for _, row := range stored {
		item, err := row.toModel()
		if err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*models.Invoice, error) {
	query := `select id, codigo, proveedor, nif, fecha, total, xml from invoices where id=?`
	return r.getOne(ctx, query, id)
}

func (r *SQLiteRepository) GetByCode(ctx context.Context, code string) (*models.Invoice, error) {
	query := `select id, codigo, proveedor, nif, fecha, total, xml from invoices where codigo=?`
	return r.getOne(ctx, query, code)
}

func (r *SQLiteRepository) getOne(ctx context.Context, query string, arg any) (*models.Invoice, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}

	var stored []sqliteRow
	if err := sqlx.StructScan(rows, &stored); err != nil {
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}
	if len(stored) == 0 {
		return nil, common.ErrorNotFound
	}

	item, err := stored[0].toModel()
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Insert stores fecha as yyyy-MM-dd and total with two decimals.
func (r *SQLiteRepository) Insert(ctx context.Context, inv *models.Invoice) (int64, error) {
	query := `insert into invoices (codigo, proveedor, nif, fecha, total, xml) values (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		inv.Codigo, inv.Proveedor, inv.NIF, inv.Fecha.Format(sqliteDateLayout), inv.Total.StringFixed(2), inv.XML)
	if err != nil {
		return 0, fmt.Errorf("failed to insert invoice: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert id: %w", err)
	}

	inv.ID = id
	return id, nil
}

// DeleteByID removes the row; it expects exactly one row to be affected.
func (r *SQLiteRepository) DeleteByID(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `delete from invoices where id=?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete invoice: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return common.ErrorNotFound
	}
	if ra != 1 {
		return fmt.Errorf("wrong rows affected count: %d", ra)
	}
	return nil
}
