package schema

import "github.com/shopspring/decimal"

// Value is the typed content of one canonical field: either a numeric
// amount or an optional text. The zero Value is an absent text.
type Value struct {
	domain Domain
	num    decimal.Decimal
	text   *string
}

func NumericValue(d decimal.Decimal) Value {
	return Value{domain: Numeric, num: d}
}

func TextValue(s string) Value {
	return Value{domain: Text, text: &s}
}

// AbsentText is the explicit absence of a text value, distinct from "".
func AbsentText() Value {
	return Value{domain: Text}
}

func (v Value) Domain() Domain { return v.domain }

func (v Value) Decimal() decimal.Decimal { return v.num }

// Text returns the text content and whether it is present.
func (v Value) Text() (string, bool) {
	if v.text == nil {
		return "", false
	}
	return *v.text, true
}

func (v Value) IsAbsent() bool {
	return v.domain == Text && v.text == nil
}

// String is the canonical comparison form used by the diff engine: numeric
// values render without trailing zeros, absent text renders empty.
func (v Value) String() string {
	if v.domain == Numeric {
		return v.num.String()
	}
	if v.text == nil {
		return ""
	}
	return *v.text
}

// Payload maps canonical field ids to coerced values resolved from one
// source row.
type Payload map[FieldID]Value

// Text is a convenience accessor returning "" for absent or non-text values.
func (p Payload) Text(id FieldID) string {
	v, ok := p[id]
	if !ok {
		return ""
	}
	s, _ := v.Text()
	return s
}
