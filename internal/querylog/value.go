package querylog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Kind tells which member of a Value is set.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindDecimal
	KindDate
)

// Value is a bound statement parameter: a string, a decimal or an instant.
//
// On disk a string is a JSON string, a decimal a JSON number and an instant
// an RFC 3339 string in UTC. A JSON string always decodes as a string;
// Parameters restores the date of the fecha parameter.
type Value struct {
	kind Kind
	str  string
	dec  decimal.Decimal
	at   time.Time
}

func String(s string) Value { return Value{kind: KindString, str: s} }
func Decimal(d decimal.Decimal) Value { return Value{kind: KindDecimal, dec: d} }
func Date(t time.Time) Value { return Value{kind: KindDate, at: t.UTC()} }
func Null() Value { return Value{} }

func (v Value) Kind() Kind { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }
func (v Value) Str() string { return v.str }
func (v Value) Decimal() decimal.Decimal { return v.dec }
func (v Value) Time() time.Time { return v.at }

// Any returns the Go value for use as a database/sql argument.
func (v Value) Any() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindDecimal:
		return v.dec
	case KindDate:
		return v.at
	default:
		return nil
	}
}

// Equal compares kind and value; decimals and instants compare numerically.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == o.str
	case KindDecimal:
		return v.dec.Equal(o.dec)
	case KindDate:
		return v.at.Equal(o.at)
	default:
		return true
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindDecimal:
		return v.dec.String()
	case KindDate:
		return v.at.Format(time.RFC3339)
	default:
		return "NULL"
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindDecimal:
		return []byte(v.dec.String()), nil
	case KindDate:
		return json.Marshal(v.at.UTC().Format(time.RFC3339Nano))
	default:
		return []byte("null"), nil
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	switch {
	case bytes.Equal(data, []byte("null")):
		*v = Null()
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = String(s)
	default:
		d, err := decimal.NewFromString(string(data))
		if err != nil {
			return fmt.Errorf("unsupported parameter value %s", data)
		}
		*v = Decimal(d)
	}

	return nil
}

// Parameters maps placeholder names (without the '@') to bound values.
type Parameters map[string]Value

// MarshalJSON writes the non-null parameters.
func (p Parameters) MarshalJSON() ([]byte, error) {
	m := make(map[string]Value, len(p))
	for k, v := range p {
		if !v.IsNull() {
			m[k] = v
		}
	}
	return json.Marshal(m)
}

func (p *Parameters) UnmarshalJSON(data []byte) error {
	var m map[string]Value
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	out := make(Parameters, len(m))
	for k, v := range m {
		if v.IsNull() {
			continue
		}
		if strings.EqualFold(k, ParamDate) && v.Kind() == KindString {
			if t, err := time.Parse(time.RFC3339Nano, v.Str()); err == nil {
				v = Date(t)
			}
		}
		out[k] = v
	}
	*p = out
	return nil
}
