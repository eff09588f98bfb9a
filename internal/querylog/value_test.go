package querylog

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_JSONForms(t *testing.T) {
	params := Parameters{
		"s":     String("B12345678"),
		"d":     Decimal(decimal.RequireFromString("847.00")),
		"fecha": Date(time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)),
		"none":  Null(),
	}

	raw, err := json.Marshal(params)
	require.NoError(t, err)
	assert.JSONEq(t, `{"s":"B12345678","d":847,"fecha":"2025-11-01T00:00:00Z"}`, string(raw))

	var back Parameters
	require.NoError(t, json.Unmarshal(raw, &back))
	require.Len(t, back, 3)
	assert.Equal(t, KindString, back["s"].Kind())
	assert.Equal(t, KindDecimal, back["d"].Kind())
	assert.Equal(t, KindDate, back["fecha"].Kind())
	for k, v := range back {
		assert.True(t, v.Equal(params[k]), k)
	}
}

func TestParameters_TimestampShapedStringsStayStrings(t *testing.T) {
	params := Parameters{
		ParamSupplier: String("2025-11-01T10:00:00Z"),
		ParamCode:     String("2025-11-01T00:00:00Z"),
	}

	raw, err := json.Marshal(params)
	require.NoError(t, err)

	var back Parameters
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, KindString, back[ParamSupplier].Kind())
	assert.Equal(t, "2025-11-01T10:00:00Z", back[ParamSupplier].Str())
	assert.Equal(t, KindString, back[ParamCode].Kind())
	assert.Equal(t, "2025-11-01T00:00:00Z", back[ParamCode].Str())
}

func TestParameters_DateKeyIsCaseInsensitive(t *testing.T) {
	var back Parameters
	require.NoError(t, json.Unmarshal([]byte(`{"Fecha":"2025-11-01T00:00:00Z"}`), &back))
	assert.Equal(t, KindDate, back["Fecha"].Kind())

	require.NoError(t, json.Unmarshal([]byte(`{"fecha":"mañana"}`), &back))
	assert.Equal(t, KindString, back[ParamDate].Kind())
}

func TestValue_UnmarshalNullAndErrors(t *testing.T) {
	var p Parameters
	require.NoError(t, json.Unmarshal([]byte(`{"a":null,"b":"x"}`), &p))
	assert.Len(t, p, 1)

	require.Error(t, json.Unmarshal([]byte(`{"a":true}`), &p))
	require.Error(t, json.Unmarshal([]byte(`{"a":{"b":1}}`), &p))
}

func TestValue_Any(t *testing.T) {
	assert.Equal(t, "x", String("x").Any())
	assert.Nil(t, Null().Any())

	at := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, at, Date(at).Any())

	d, ok := Decimal(decimal.NewFromInt(5)).Any().(decimal.Decimal)
	require.True(t, ok)
	assert.True(t, d.Equal(decimal.NewFromInt(5)))
}

func TestValue_Equal(t *testing.T) {
	assert.True(t, Decimal(decimal.RequireFromString("1.50")).Equal(Decimal(decimal.RequireFromString("1.5"))))
	assert.False(t, String("1.5").Equal(Decimal(decimal.RequireFromString("1.5"))))
	assert.True(t, Null().Equal(Null()))
}

func TestQueryRecord_Equal(t *testing.T) {
	a := sampleRecord(1)
	b := sampleRecord(1)
	assert.True(t, a.Equal(b))

	b.Parameters[ParamCode] = String("other")
	assert.False(t, a.Equal(b))

	c := sampleRecord(1)
	c.Timestamp = c.Timestamp.Add(time.Nanosecond)
	assert.False(t, a.Equal(c))

	d := sampleRecord(1)
	d.Parameters["extra"] = Null()
	assert.True(t, a.Equal(d), "null parameters do not count")
}

func TestQueryRecord_CaseInsensitiveFields(t *testing.T) {
	var recs []QueryRecord
	raw := `[{"Sql":"INSERT","Parameters":{"total":12.5},"Timestamp":"2025-11-05T10:00:00Z"}]`
	require.NoError(t, json.Unmarshal([]byte(raw), &recs))

	require.Len(t, recs, 1)
	assert.Equal(t, "INSERT", recs[0].SQL)
	assert.True(t, recs[0].Parameters["total"].Decimal().Equal(decimal.RequireFromString("12.5")))
}
