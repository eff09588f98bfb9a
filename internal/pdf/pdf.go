// Package pdf prints an invoice as a single A4 document.
package pdf

import (
	"fmt"
	"io"
	"strconv"

	"github.com/dmitrijs2005/facturas/internal/invoice"
	"github.com/jung-kurt/gofpdf"
)

const (
	pageMargin = 15.0
	lineHeight = 6.0
)

// item table columns: code, description, quantity, unit price, amount
var (
	colWidths = []float64{25, 75, 20, 30, 30}
	colTitles = []string{"Código", "Descripción", "Cantidad", "Precio", "Importe"}
	colAlign  = []string{"L", "L", "R", "R", "R"}
)

// Render writes inv to w as PDF.
func Render(w io.Writer, inv *invoice.Invoice) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetTitle("Factura "+inv.Code, true)
	pdf.SetCreator("facturas", true)
	pdf.AddPage()

	// core fonts are cp1252
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, tr("Factura "+inv.Code), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Arial", "", 10)
	header := [][2]string{
		{"Proveedor", inv.Header.Supplier},
		{"NIF", inv.Header.TaxID},
		{"Dirección", inv.Header.Address},
		{"Teléfono", inv.Header.Phone},
		{"Fecha", invoice.FormatDate(inv.Header.Date)},
		{"Número", inv.Header.Number},
	}
	for _, row := range header {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(30, lineHeight, tr(row[0]+":"), "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, lineHeight, tr(row[1]), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, title := range colTitles {
		pdf.CellFormat(colWidths[i], 7, tr(title), "1", 0, colAlign[i], true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for _, it := range inv.Items {
		cells := []string{
			it.Code,
			it.Description,
			strconv.Itoa(it.Quantity),
			invoice.FormatMoney(it.UnitPrice),
			invoice.FormatMoney(it.Amount()),
		}
		for i, c := range cells {
			pdf.CellFormat(colWidths[i], lineHeight, tr(c), "1", 0, colAlign[i], false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(4)

	labelWidth := colWidths[0] + colWidths[1] + colWidths[2] + colWidths[3]
	totals := [][2]string{
		{"Base imponible", invoice.FormatMoney(inv.Footer.Base)},
		{"IVA 21%", invoice.FormatMoney(inv.Footer.Tax)},
		{"Total", invoice.FormatMoney(inv.Footer.Total)},
	}
	for i, row := range totals {
		style := ""
		if i == len(totals)-1 {
			style = "B"
		}
		pdf.SetFont("Arial", style, 10)
		pdf.CellFormat(labelWidth, lineHeight, tr(row[0]), "", 0, "R", false, 0, "")
		pdf.CellFormat(colWidths[4], lineHeight, row[1], "", 1, "R", false, 0, "")
	}

	if inv.Footer.Notes != "" {
		pdf.Ln(6)
		pdf.SetFont("Arial", "I", 10)
		pdf.MultiCell(0, lineHeight, tr(inv.Footer.Notes), "", "L", false)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}
