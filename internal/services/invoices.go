package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/facturas/internal/common"
	"github.com/dmitrijs2005/facturas/internal/dbx"
	"github.com/dmitrijs2005/facturas/internal/invoice"
	"github.com/dmitrijs2005/facturas/internal/logging"
	"github.com/dmitrijs2005/facturas/internal/models"
	"github.com/dmitrijs2005/facturas/internal/querylog"
	"github.com/dmitrijs2005/facturas/internal/repositories/repomanager"
)

// InvoiceService stores, lists and removes invoices in the database.
type InvoiceService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
	now         invoice.Clock
}

// NewInvoiceService returns an InvoiceService using the repositories of repomanager over db.
func NewInvoiceService(db *sql.DB, repomanager repomanager.RepositoryManager, logger logging.Logger) *InvoiceService {
	return &InvoiceService{
		db:          db,
		repomanager: repomanager,
		logger:      logger,
		now:         time.Now,
	}
}

// ApplyResult counts what ApplyQueryLog did with each record.
type ApplyResult struct {
	Inserted int
	Skipped  int
}

func (s *InvoiceService) List(ctx context.Context) ([]models.Invoice, error) {
	return s.repomanager.Invoices(s.db).GetAll(ctx)
}

func (s *InvoiceService) Get(ctx context.Context, id int64) (*models.Invoice, error) {
	return s.repomanager.Invoices(s.db).GetByID(ctx, id)
}

func (s *InvoiceService) Delete(ctx context.Context, id int64) error {
	if err := s.repomanager.Invoices(s.db).DeleteByID(ctx, id); err != nil {
		return err
	}
	s.logger.Info(ctx, "invoice deleted", "id", id)
	return nil
}

// Import stores an invoice document directly, bypassing the query log.
// A document whose code is already stored is common.ErrorAlreadyExists.
func (s *InvoiceService) Import(ctx context.Context, xmlText string) (*models.Invoice, error) {
	inv, err := invoice.Parse([]byte(xmlText))
	if err != nil {
		return nil, err
	}

	row := RowFromInvoice(inv, xmlText, s.now())

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Invoices(tx)

		_, err := repo.GetByCode(ctx, row.Codigo)
		switch {
		case err == nil:
			return fmt.Errorf("invoice %q: %w", row.Codigo, common.ErrorAlreadyExists)
		case !errors.Is(err, common.ErrorNotFound):
			return err
		}

		_, err = repo.Insert(ctx, row)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "invoice imported", "id", row.ID, "codigo", row.Codigo)
	return row, nil
}

// ApplyQueryLog executes the logged INSERT records in one transaction.
// Records whose codigo is already stored, including duplicates earlier in
// the same log, are skipped. Any other failure rolls everything back.
func (s *InvoiceService) ApplyQueryLog(ctx context.Context, records []querylog.QueryRecord) (ApplyResult, error) {
	var res ApplyResult

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Invoices(tx)

		for i, rec := range records {
			row, err := RowFromRecord(rec)
			if err != nil {
				return fmt.Errorf("record %d: %w", i, err)
			}

			_, err = repo.GetByCode(ctx, row.Codigo)
			if err == nil {
				s.logger.Debug(ctx, "skipping stored invoice", "codigo", row.Codigo)
				res.Skipped++
				continue
			}
			if !errors.Is(err, common.ErrorNotFound) {
				return fmt.Errorf("record %d: %w", i, err)
			}

			if _, err := repo.Insert(ctx, row); err != nil {
				return fmt.Errorf("record %d: %w", i, err)
			}
			res.Inserted++
		}
		return nil
	})
	if err != nil {
		return ApplyResult{}, err
	}

	s.logger.Info(ctx, "query log applied", "inserted", res.Inserted, "skipped", res.Skipped)
	return res, nil
}

// RowFromInvoice maps a parsed document to a table row. A missing header
// date becomes now's UTC calendar date.
func RowFromInvoice(inv *invoice.Invoice, xmlText string, now time.Time) *models.Invoice {
	fecha := inv.Header.Date
	if fecha.IsZero() {
		now = now.UTC()
		fecha = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}

	return &models.Invoice{
		Codigo:    inv.Code,
		Proveedor: inv.Header.Supplier,
		NIF:       inv.Header.TaxID,
		Fecha:     fecha,
		Total:     inv.Footer.Total,
		XML:       xmlText,
	}
}

// RowFromRecord maps the parameters of a logged INSERT to a table row.
func RowFromRecord(rec querylog.QueryRecord) (*models.Invoice, error) {
	if rec.SQL != querylog.InsertSQL {
		return nil, fmt.Errorf("%w: %q", common.ErrUnsupportedRecord, rec.SQL)
	}

	p := rec.Parameters
	row := &models.Invoice{
		Codigo:    p[querylog.ParamCode].Str(),
		Proveedor: p[querylog.ParamSupplier].Str(),
		NIF:       p[querylog.ParamTaxID].Str(),
		XML:       p[querylog.ParamXML].Str(),
	}

	if row.Codigo == "" {
		return nil, fmt.Errorf("%w: missing %s", common.ErrUnsupportedRecord, querylog.ParamCode)
	}

	fecha := p[querylog.ParamDate]
	if fecha.Kind() != querylog.KindDate {
		return nil, fmt.Errorf("%w: %s is not a date", common.ErrUnsupportedRecord, querylog.ParamDate)
	}
	row.Fecha = fecha.Time()

	total := p[querylog.ParamTotal]
	if total.Kind() != querylog.KindDecimal {
		return nil, fmt.Errorf("%w: %s is not a number", common.ErrUnsupportedRecord, querylog.ParamTotal)
	}
	row.Total = total.Decimal()

	return row, nil
}
