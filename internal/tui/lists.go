package tui

import (
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/facturas/internal/invoice"
	"github.com/dmitrijs2005/facturas/internal/models"
	"github.com/dmitrijs2005/facturas/internal/querylog"
)

var logColumns = []column{
	{title: "#", width: 4, right: true},
	{title: "Generada", width: 20},
	{title: "Código", width: 24},
	{title: "Proveedor", width: 24},
	{title: "Fecha", width: 10},
	{title: "Total", width: 12, right: true},
}

var invoiceColumns = []column{
	{title: "ID", width: 6, right: true},
	{title: "Código", width: 24},
	{title: "Proveedor", width: 24},
	{title: "NIF", width: 10},
	{title: "Fecha", width: 10},
	{title: "Total", width: 12, right: true},
}

// RenderQueryLog lists logged statements oldest first.
func RenderQueryLog(records []querylog.QueryRecord) string {
	if len(records) == 0 {
		return emptyStyle.Render("query log is empty") + "\n"
	}

	var b strings.Builder
	b.WriteString(header(logColumns) + "\n")
	b.WriteString(separatorLine + "\n")

	for i, rec := range records {
		p := rec.Parameters
		b.WriteString(row(logColumns, []string{
			strconv.Itoa(i + 1),
			rec.Timestamp.UTC().Format(time.DateTime),
			p[querylog.ParamCode].Str(),
			p[querylog.ParamSupplier].Str(),
			dateParam(p[querylog.ParamDate]),
			totalParam(p[querylog.ParamTotal]),
		}, valueStyle) + "\n")
	}

	b.WriteString(separatorLine + "\n")
	b.WriteString(dimStyle.Render(strconv.Itoa(len(records))+" records") + "\n")
	return b.String()
}

func dateParam(v querylog.Value) string {
	if v.Kind() != querylog.KindDate {
		return v.Str()
	}
	return invoice.FormatDate(v.Time())
}

func totalParam(v querylog.Value) string {
	if v.Kind() != querylog.KindDecimal {
		return v.Str()
	}
	return invoice.FormatMoney(v.Decimal())
}

// RenderInvoiceList shows stored rows in the order given.
func RenderInvoiceList(rows []models.Invoice) string {
	if len(rows) == 0 {
		return emptyStyle.Render("no invoices stored") + "\n"
	}

	var b strings.Builder
	b.WriteString(header(invoiceColumns) + "\n")
	b.WriteString(separatorLine + "\n")

	for _, r := range rows {
		b.WriteString(row(invoiceColumns, []string{
			strconv.FormatInt(r.ID, 10),
			r.Codigo,
			r.Proveedor,
			r.NIF,
			invoice.FormatDate(r.Fecha),
			invoice.FormatMoney(r.Total),
		}, valueStyle) + "\n")
	}
	return b.String()
}
