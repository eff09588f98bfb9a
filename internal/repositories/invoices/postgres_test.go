package invoices

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/facturas/internal/common"
	"github.com/dmitrijs2005/facturas/internal/models"
	"github.com/shopspring/decimal"
)

var invoiceColumns = []string{"id", "codigo", "proveedor", "nif", "fecha", "total", "xml"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPostgres_GetAll_OrderedRows(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := regexp.QuoteMeta(`SELECT id, codigo, proveedor, nif, fecha, total, xml FROM invoices`) + `\s+ORDER BY fecha DESC, id DESC`
	mock.ExpectQuery(q).
		WillReturnRows(sqlmock.NewRows(invoiceColumns).
			AddRow(int64(2), "CTI-2", "Servicios Atlánticos SA", "A87654321", day(2025, 11, 3), "847.00", "<Factura/>").
			AddRow(int64(1), "CTI-1", "Proveedor Canarias S.L.", "B12345678", day(2025, 11, 1), "12.50", "<Factura/>"))

	got, err := repo.GetAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 rows, got %d", len(got))
	}
	if got[0].Codigo != "CTI-2" || !got[0].Total.Equal(decimal.RequireFromString("847")) {
		t.Fatalf("unexpected first row: %+v", got[0])
	}
	if !got[1].Fecha.Equal(day(2025, 11, 1)) {
		t.Fatalf("unexpected fecha: %v", got[1].Fecha)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgres_GetAll_Empty(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM invoices`).WillReturnRows(sqlmock.NewRows(invoiceColumns))

	got, err := repo.GetAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("want empty non-nil slice, got %#v", got)
	}
}

func TestPostgres_GetAll_QueryError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM invoices`).WillReturnError(errors.New("db is down"))

	_, err := repo.GetAll(context.Background())
	if err == nil || !regexp.MustCompile(`failed to select invoices: .*db is down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestPostgres_GetByID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM invoices WHERE id = \$1`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(invoiceColumns).
			AddRow(int64(7), "CTI-7", "P", "N", day(2025, 1, 2), "968.00", "<Factura/>"))

	got, err := repo.GetByID(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != 7 || got.Codigo != "CTI-7" || !got.Total.Equal(decimal.NewFromInt(968)) {
		t.Fatalf("unexpected invoice: %+v", got)
	}
}

func TestPostgres_GetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM invoices WHERE id = \$1`).
		WithArgs(int64(9)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 9)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestPostgres_GetByCode_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM invoices WHERE codigo = \$1`).
		WithArgs("CTI-1").
		WillReturnError(errors.New("conn reset"))

	_, err := repo.GetByCode(context.Background(), "CTI-1")
	if err == nil || !regexp.MustCompile(`db error: .*conn reset`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestPostgres_Insert_ReturnsID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	inv := &models.Invoice{
		Codigo:    "CTI-20251101120000",
		Proveedor: "Proveedor Canarias S.L.",
		NIF:       "B12345678",
		Fecha:     day(2025, 11, 1),
		Total:     decimal.RequireFromString("847.00"),
		XML:       "<Factura/>",
	}

	mock.ExpectQuery(`INSERT INTO invoices \(codigo, proveedor, nif, fecha, total, xml\)\s+VALUES \(\$1, \$2, \$3, \$4, \$5, \$6\)\s+RETURNING id`).
		WithArgs(inv.Codigo, inv.Proveedor, inv.NIF, inv.Fecha, inv.Total, inv.XML).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))

	id, err := repo.Insert(context.Background(), inv)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 42 || inv.ID != 42 {
		t.Fatalf("want id 42, got %d / %d", id, inv.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgres_Insert_Error(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO invoices`).WillReturnError(errors.New("duplicate key"))

	_, err := repo.Insert(context.Background(), &models.Invoice{Codigo: "X"})
	if err == nil || !regexp.MustCompile(`db error: .*duplicate key`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestPostgres_DeleteByID(t *testing.T) {
	cases := []struct {
		name    string
		result  driver.Result
		wantErr string
		notFnd  bool
	}{
		{name: "deleted", result: sqlmock.NewResult(0, 1)},
		{name: "missing", result: sqlmock.NewResult(0, 0), notFnd: true},
		{name: "too many", result: sqlmock.NewResult(0, 2), wantErr: `unexpected rows affected: 2`},
		{name: "rows error", result: sqlmock.NewErrorResult(errors.New("rows-err")), wantErr: `rows affected error: .*rows-err`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo, mock, db := newRepoWithMock(t)
			defer db.Close()

			mock.ExpectExec(`DELETE FROM invoices WHERE id = \$1`).
				WithArgs(int64(3)).
				WillReturnResult(tc.result)

			err := repo.DeleteByID(context.Background(), 3)
			switch {
			case tc.notFnd:
				if !errors.Is(err, common.ErrorNotFound) {
					t.Fatalf("want ErrorNotFound, got %v", err)
				}
			case tc.wantErr != "":
				if err == nil || !regexp.MustCompile(tc.wantErr).MatchString(err.Error()) {
					t.Fatalf("want %q, got %v", tc.wantErr, err)
				}
			default:
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
			}
		})
	}
}
