package invoice

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCodePrefix is prepended to generated codes for issued invoices.
const DefaultCodePrefix = "CTI-"

// CodeLayout is the timestamp part of a generated code.
const CodeLayout = "20060102150405"

// Clock supplies the current time.
type Clock func() time.Time

// GenerateCode returns prefix followed by clock's time as yyyyMMddHHmmss.
// Two calls within the same second return the same code.
func GenerateCode(prefix string, clock Clock) string {
	return prefix + clock().Format(CodeLayout)
}

// Compose builds a new invoice with a freshly generated code. An empty
// header number defaults to the code, and totals are computed from items.
func Compose(prefix string, clock Clock, header Header, items []LineItem, notes string) *Invoice {
	code := GenerateCode(prefix, clock)

	if header.Number == "" {
		header.Number = code
	}

	inv := &Invoice{
		Code:   code,
		Header: header,
		Items:  append([]LineItem(nil), items...),
		Footer: Footer{Notes: notes},
	}
	inv.Recompute()
	return inv
}

// Samples returns two realistic received invoices for trying out the viewer
// and the query log. Codes use the "CTI-REC-" prefix, one minute apart.
func Samples(clock Clock) []*Invoice {
	now := clock()
	items := []LineItem{
		{Code: "PRD-001", Description: "Suministro de hardware", Quantity: 2, UnitPrice: decimal.NewFromInt(250)},
		{Code: "SRV-010", Description: "Instalación y soporte", Quantity: 5, UnitPrice: decimal.NewFromInt(40)},
	}

	first := Compose("CTI-REC-", func() time.Time { return now }, Header{
		Supplier: "Proveedor Canarias S.L.",
		TaxID:    "B12345678",
		Address:  "Calle La Palma 12, 35000 Las Palmas",
		Phone:    "(+34) 928 111 222",
		Date:     time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC),
		Number:   "INV-2025-001",
	}, items, "Pago a 30 días")

	second := Compose("CTI-REC-", func() time.Time { return now.Add(time.Minute) }, Header{
		Supplier: "Servicios Atlánticos SA",
		TaxID:    "B87654321",
		Address:  "Avenida Gran Canaria 45, 38002 Las Palmas",
		Phone:    "(+34) 928 333 444",
		Date:     time.Date(2025, 11, 5, 0, 0, 0, 0, time.UTC),
		Number:   "INV-2025-002",
	}, items, "Pago a 30 días")

	return []*Invoice{first, second}
}
