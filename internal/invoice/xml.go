package invoice

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/facturas/internal/common"
	"github.com/shopspring/decimal"
)

// RootElement is the name of the document element.
const RootElement = "Factura"

// DateLayout is the textual form of Cabecera/Fecha.
const DateLayout = "2006-01-02"

type xmlFactura struct {
	XMLName   xml.Name
	Codigo    string       `xml:"Codigo"`
	Cabecera  xmlCabecera  `xml:"Cabecera"`
	Conceptos xmlConceptos `xml:"Conceptos"`
	Pie       xmlPie       `xml:"Pie"`
}

type xmlCabecera struct {
	Proveedor string `xml:"Proveedor"`
	NIF       string `xml:"NIF"`
	Direccion string `xml:"Direccion"`
	Telefono  string `xml:"Telefono"`
	Fecha     string `xml:"Fecha"`
	Numero    string `xml:"Numero"`
}

type xmlConceptos struct {
	Items []xmlConcepto `xml:"Concepto"`
}

type xmlConcepto struct {
	Codigo         string `xml:"Codigo"`
	Descripcion    string `xml:"Descripcion"`
	Cantidad       string `xml:"Cantidad"`
	PrecioUnitario string `xml:"PrecioUnitario"`
	Importe        string `xml:"Importe"`
}

type xmlPie struct {
	BaseImponible string `xml:"BaseImponible"`
	Iva           string `xml:"Iva"`
	Total         string `xml:"Total"`
	Observaciones string `xml:"Observaciones"`
}

// Serialize renders inv as an indented UTF-8 Factura document. Money is
// written with exactly two fractional digits and a '.' separator.
func Serialize(inv *Invoice) ([]byte, error) {
	doc := xmlFactura{
		XMLName: xml.Name{Local: RootElement},
		Codigo:  inv.Code,
		Cabecera: xmlCabecera{
			Proveedor: inv.Header.Supplier,
			NIF:       inv.Header.TaxID,
			Direccion: inv.Header.Address,
			Telefono:  inv.Header.Phone,
			Fecha:     FormatDate(inv.Header.Date),
			Numero:    inv.Header.Number,
		},
		Pie: xmlPie{
			BaseImponible: FormatMoney(inv.Footer.Base),
			Iva:           FormatMoney(inv.Footer.Tax),
			Total:         FormatMoney(inv.Footer.Total),
			Observaciones: inv.Footer.Notes,
		},
	}

	doc.Conceptos.Items = make([]xmlConcepto, 0, len(inv.Items))
	for _, it := range inv.Items {
		doc.Conceptos.Items = append(doc.Conceptos.Items, xmlConcepto{
			Codigo:         it.Code,
			Descripcion:    it.Description,
			Cantidad:       strconv.Itoa(it.Quantity),
			PrecioUnitario: FormatMoney(it.UnitPrice),
			Importe:        FormatMoney(it.Amount()),
		})
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)

	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode invoice: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode invoice: %w", err)
	}
	buf.WriteByte('\n')

	return buf.Bytes(), nil
}

// Parse reads a Factura document. Only a missing or misnamed root element
// (or text that is not XML at all) is an error, wrapping
// common.ErrMalformedDocument. Every other field is optional: absent text
// becomes "", absent or non-numeric quantities and money become zero, and an
// unreadable date becomes the zero time.
//
// Footer totals are taken from the document as written, not recomputed.
func Parse(data []byte) (*Invoice, error) {
	var doc xmlFactura
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrMalformedDocument, err)
	}
	if doc.XMLName.Local != RootElement {
		return nil, fmt.Errorf("%w: root element is <%s>, want <%s>",
			common.ErrMalformedDocument, doc.XMLName.Local, RootElement)
	}

	inv := &Invoice{
		Code: doc.Codigo,
		Header: Header{
			Supplier: doc.Cabecera.Proveedor,
			TaxID:    doc.Cabecera.NIF,
			Address:  doc.Cabecera.Direccion,
			Phone:    doc.Cabecera.Telefono,
			Date:     ParseDate(doc.Cabecera.Fecha),
			Number:   doc.Cabecera.Numero,
		},
		Items: make([]LineItem, 0, len(doc.Conceptos.Items)),
		Footer: Footer{
			Base:  ParseMoney(doc.Pie.BaseImponible),
			Tax:   ParseMoney(doc.Pie.Iva),
			Total: ParseMoney(doc.Pie.Total),
			Notes: doc.Pie.Observaciones,
		},
	}

	for _, c := range doc.Conceptos.Items {
		inv.Items = append(inv.Items, LineItem{
			Code:        c.Codigo,
			Description: c.Descripcion,
			Quantity:    parseQuantity(c.Cantidad),
			UnitPrice:   ParseMoney(c.PrecioUnitario),
		})
	}

	return inv, nil
}

// FormatMoney renders d rounded to cents, e.g. "968.00".
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// ParseMoney reads a '.'-separated decimal, sign included. Empty or
// malformed input yields zero.
func ParseMoney(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// FormatDate renders a calendar date, or "" for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// ParseDate accepts yyyy-MM-dd or an RFC 3339 timestamp and returns the
// calendar date at UTC midnight; anything else yields the zero time.
func ParseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}

	t, err := time.Parse(DateLayout, s)
	if err != nil {
		var rerr error
		t, rerr = time.Parse(time.RFC3339, s)
		if rerr != nil {
			return time.Time{}
		}
	}

	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func parseQuantity(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
