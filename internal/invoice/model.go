// Package invoice is the in-memory model of a factura: header, ordered line
// items and a footer whose monetary totals are derived from the items.
//
// All money is fixed-point (shopspring/decimal) and rounded to cents with
// round-half-away-from-zero. Totals are not kept up to date implicitly: the
// mutators on Invoice call Recompute, and code that edits Items directly must
// call it too.
package invoice

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaxRate is the IVA applied to the taxable base.
var TaxRate = decimal.RequireFromString("0.21")

// Header identifies the issuer and the document.
type Header struct {
	Supplier string
	TaxID    string
	Address  string
	Phone    string
	// Date is a calendar date; the zero value means "not set".
	Date   time.Time
	Number string
}

// LineItem is one billable line (a concepto).
type LineItem struct {
	Code        string
	Description string
	Quantity    int
	UnitPrice   decimal.Decimal
}

// Amount is quantity × unit price rounded to cents.
func (li LineItem) Amount() decimal.Decimal {
	return li.gross().Round(2)
}

func (li LineItem) gross() decimal.Decimal {
	return decimal.NewFromInt(int64(li.Quantity)).Mul(li.UnitPrice)
}

// Footer carries the computed totals and free-text notes.
type Footer struct {
	Base  decimal.Decimal
	Tax   decimal.Decimal
	Total decimal.Decimal
	Notes string
}

// Invoice is a Factura document: its code, header, line items and footer.
type Invoice struct {
	Code   string
	Header Header
	Items  []LineItem
	Footer Footer
}

// ComputeTotals returns the taxable base, the tax and the total for items.
// The base is summed from unrounded line amounts and rounded once; tax and
// total are derived from the rounded base.
func ComputeTotals(items []LineItem) (base, tax, total decimal.Decimal) {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.gross())
	}

	base = sum.Round(2)
	tax = base.Mul(TaxRate).Round(2)
	total = base.Add(tax).Round(2)
	return base, tax, total
}

// Recompute refreshes the footer totals from the current items.
func (inv *Invoice) Recompute() {
	inv.Footer.Base, inv.Footer.Tax, inv.Footer.Total = ComputeTotals(inv.Items)
}

// AddItem appends item and recomputes the footer.
func (inv *Invoice) AddItem(item LineItem) {
	inv.Items = append(inv.Items, item)
	inv.Recompute()
}

// SetItem replaces the item at i. It reports false when i is out of range.
func (inv *Invoice) SetItem(i int, item LineItem) bool {
	if i < 0 || i >= len(inv.Items) {
		return false
	}
	inv.Items[i] = item
	inv.Recompute()
	return true
}

// RemoveItem deletes the item at i, keeping the order of the rest.
func (inv *Invoice) RemoveItem(i int) bool {
	if i < 0 || i >= len(inv.Items) {
		return false
	}
	inv.Items = append(inv.Items[:i], inv.Items[i+1:]...)
	inv.Recompute()
	return true
}
