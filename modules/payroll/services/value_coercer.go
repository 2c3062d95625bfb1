package services

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iota-uz/payroll-sync/modules/payroll/domain/schema"
)

// Coercer converts raw cell text into typed field values. It is pure and
// never fails: unparsable numerics coerce to zero, empty text to absence.
type Coercer struct {
	dict *schema.Dictionary
}

func NewCoercer(dict *schema.Dictionary) *Coercer {
	return &Coercer{dict: dict}
}

// Arabic-Indic digits appear in sheets authored with Arabic locales.
var digitReplacer = strings.NewReplacer(
	"٠", "0", "١", "1", "٢", "2", "٣", "3", "٤", "4",
	"٥", "5", "٦", "6", "٧", "7", "٨", "8", "٩", "9",
	"٫", ".", // Arabic decimal separator
)

func (c *Coercer) Coerce(raw string, field schema.Field) schema.Value {
	if field.Domain == schema.Numeric {
		return c.coerceNumeric(raw)
	}
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return schema.AbsentText()
	}
	return schema.TextValue(trimmed)
}

func (c *Coercer) coerceNumeric(raw string) schema.Value {
	s := strings.TrimSpace(digitReplacer.Replace(raw))
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "٬", "")
	if s == "" {
		return schema.NumericValue(decimal.Zero)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return schema.NumericValue(decimal.Zero)
	}
	return schema.NumericValue(d)
}

// ResolvePayload coerces one source row through the column mapping.
func (c *Coercer) ResolvePayload(row []string, mapping ColumnMapping) schema.Payload {
	payload := make(schema.Payload, len(mapping))
	for col, field := range mapping {
		raw := ""
		if col < len(row) {
			raw = row[col]
		}
		payload[field.ID] = c.Coerce(raw, field)
	}
	return payload
}
