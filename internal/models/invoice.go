package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is one row of the invoices table.
type Invoice struct {
	ID        int64           `db:"id"`
	Codigo    string          `db:"codigo"`
	Proveedor string          `db:"proveedor"`
	NIF       string          `db:"nif"`
	Fecha     time.Time       `db:"fecha"`
	Total     decimal.Decimal `db:"total"`
	XML       string          `db:"xml"`
}
