package invoice

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) Clock { return func() time.Time { return t } }

func TestGenerateCode(t *testing.T) {
	at := time.Date(2025, 11, 5, 17, 4, 9, 0, time.Local)

	assert.Equal(t, "CTI-20251105170409", GenerateCode(DefaultCodePrefix, fixedClock(at)))
	assert.Equal(t, "20251105170409", GenerateCode("", fixedClock(at)))
}

func TestGenerateCode_SameSecondCollides(t *testing.T) {
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	a := GenerateCode("X-", fixedClock(at))
	b := GenerateCode("X-", fixedClock(at.Add(500*time.Millisecond)))
	assert.Equal(t, a, b)
}

func TestCompose_DefaultsNumberToCode(t *testing.T) {
	at := time.Date(2025, 11, 5, 10, 0, 0, 0, time.UTC)

	inv := Compose("CTI-", fixedClock(at), Header{Supplier: "ACME"}, []LineItem{
		{Code: "SRV-001", Description: "Consultoría", Quantity: 10, UnitPrice: dec("60.00")},
	}, "gracias")

	assert.Equal(t, "CTI-20251105100000", inv.Code)
	assert.Equal(t, inv.Code, inv.Header.Number)
	assert.Equal(t, "gracias", inv.Footer.Notes)
	requireDecimal(t, "600.00", inv.Footer.Base)
	requireDecimal(t, "126.00", inv.Footer.Tax)
	requireDecimal(t, "726.00", inv.Footer.Total)
}

func TestCompose_KeepsExplicitNumber(t *testing.T) {
	inv := Compose("CTI-", fixedClock(time.Now()), Header{Number: "INV-7"}, nil, "")
	assert.Equal(t, "INV-7", inv.Header.Number)
}

func TestCompose_CopiesItems(t *testing.T) {
	items := []LineItem{{Code: "A", Quantity: 1, UnitPrice: dec("1")}}
	inv := Compose("", fixedClock(time.Now()), Header{}, items, "")

	inv.Items[0].Code = "changed"
	assert.Equal(t, "A", items[0].Code)
}

func TestSamples(t *testing.T) {
	at := time.Date(2025, 11, 5, 12, 0, 0, 0, time.UTC)
	samples := Samples(fixedClock(at))

	require.Len(t, samples, 2)
	assert.Equal(t, "CTI-REC-20251105120000", samples[0].Code)
	assert.Equal(t, "CTI-REC-20251105120100", samples[1].Code)
	assert.Equal(t, "INV-2025-001", samples[0].Header.Number)
	assert.Equal(t, "Servicios Atlánticos SA", samples[1].Header.Supplier)

	for _, s := range samples {
		requireDecimal(t, "700.00", s.Footer.Base)
		requireDecimal(t, "147.00", s.Footer.Tax)
		requireDecimal(t, "847.00", s.Footer.Total)
	}
}
