package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/facturas/internal/invoice"
)

var itemColumns = []column{
	{title: "Código", width: 10},
	{title: "Descripción", width: 28},
	{title: "Cant.", width: 6, right: true},
	{title: "Precio", width: 12, right: true},
	{title: "Importe", width: 12, right: true},
}

// RenderInvoice shows one document: header block, items and totals.
func RenderInvoice(inv *invoice.Invoice) string {
	var b strings.Builder

	fields := [][2]string{
		{"Proveedor", inv.Header.Supplier},
		{"NIF", inv.Header.TaxID},
		{"Dirección", inv.Header.Address},
		{"Teléfono", inv.Header.Phone},
		{"Fecha", invoice.FormatDate(inv.Header.Date)},
		{"Número", inv.Header.Number},
	}
	lines := []string{titleStyle.Render("Factura " + inv.Code)}
	for _, f := range fields {
		lines = append(lines, labelStyle.Render(f[0])+valueStyle.Render(f[1]))
	}
	b.WriteString(boxStyle.Render(strings.Join(lines, "\n")))
	b.WriteString("\n\n")

	b.WriteString(header(itemColumns) + "\n")
	b.WriteString(separatorLine + "\n")
	if len(inv.Items) == 0 {
		b.WriteString(emptyStyle.Render("sin conceptos") + "\n")
	}
	for _, it := range inv.Items {
		b.WriteString(row(itemColumns, []string{
			it.Code,
			it.Description,
			strconv.Itoa(it.Quantity),
			invoice.FormatMoney(it.UnitPrice),
			invoice.FormatMoney(it.Amount()),
		}, valueStyle) + "\n")
	}
	b.WriteString(separatorLine + "\n")

	b.WriteString(fmt.Sprintf("%s %s\n", dimStyle.Render("Base imponible"), valueStyle.Render(invoice.FormatMoney(inv.Footer.Base))))
	b.WriteString(fmt.Sprintf("%s %s\n", dimStyle.Render("IVA 21%"), valueStyle.Render(invoice.FormatMoney(inv.Footer.Tax))))
	b.WriteString(fmt.Sprintf("%s %s\n", dimStyle.Render("Total"), totalStyle.Render(invoice.FormatMoney(inv.Footer.Total))))

	if inv.Footer.Notes != "" {
		b.WriteString("\n" + dimStyle.Render(inv.Footer.Notes) + "\n")
	}

	return b.String()
}
