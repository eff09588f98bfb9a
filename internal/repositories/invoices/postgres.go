package invoices

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/facturas/internal/common"
	"github.com/dmitrijs2005/facturas/internal/dbx"
	"github.com/dmitrijs2005/facturas/internal/models"
)

const postgresColumns = `id, codigo, proveedor, nif, fecha, total, xml`

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetAll(ctx context.Context) ([]models.Invoice, error) {
	query := `SELECT ` + postgresColumns + ` FROM invoices
		ORDER BY fecha DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select invoices: %w", err)
	}
	defer rows.Close()

	result := []models.Invoice{}
	for rows.Next() {
		var item models.Invoice
		if err := rows.Scan(&item.ID, &item.Codigo, &item.Proveedor, &item.NIF, &item.Fecha, &item.Total, &item.XML); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Invoice, error) {
	query := `SELECT ` + postgresColumns + ` FROM invoices WHERE id = $1`
	return r.getOne(ctx, query, id)
}

func (r *PostgresRepository) GetByCode(ctx context.Context, code string) (*models.Invoice, error) {
	query := `SELECT ` + postgresColumns + ` FROM invoices WHERE codigo = $1`
	return r.getOne(ctx, query, code)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*models.Invoice, error) {
	item := &models.Invoice{}
	err := r.db.QueryRowContext(ctx, query, arg).
		Scan(&item.ID, &item.Codigo, &item.Proveedor, &item.NIF, &item.Fecha, &item.Total, &item.XML)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return item, nil
}

func (r *PostgresRepository) Insert(ctx context.Context, inv *models.Invoice) (int64, error) {
	query :=
		`INSERT INTO invoices (codigo, proveedor, nif, fecha, total, xml)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id
		 `

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		inv.Codigo, inv.Proveedor, inv.NIF, inv.Fecha, inv.Total, inv.XML).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	inv.ID = id
	return id, nil
}

func (r *PostgresRepository) DeleteByID(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrorNotFound
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}
