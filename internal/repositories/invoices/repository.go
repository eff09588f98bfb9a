package invoices

import (
	"context"

	"github.com/dmitrijs2005/facturas/internal/models"
)

// Repository describes persistence of stored invoices.
type Repository interface {
	// GetAll returns every invoice, most recent fecha first.
	GetAll(ctx context.Context) ([]models.Invoice, error)

	// GetByID returns the invoice with the given id or common.ErrorNotFound.
	GetByID(ctx context.Context, id int64) (*models.Invoice, error)

	// GetByCode returns the invoice with the given codigo or common.ErrorNotFound.
	GetByCode(ctx context.Context, code string) (*models.Invoice, error)

	// Insert stores inv and returns the generated id.
	Insert(ctx context.Context, inv *models.Invoice) (int64, error)

	// DeleteByID removes one invoice; a missing id is common.ErrorNotFound.
	DeleteByID(ctx context.Context, id int64) error
}
