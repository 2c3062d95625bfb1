package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iota-uz/payroll-sync/modules/payroll/domain/schema"
)

func TestCoercer_Numeric(t *testing.T) {
	c := NewCoercer(schema.DefaultDictionary())
	field := schema.Field{ID: schema.FieldNominalSalary, Domain: schema.Numeric}

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain integer", "1234", "1234"},
		{"thousands separators", "1,234", "1234"},
		{"large with separators", "1,250,000", "1250000"},
		{"decimal point", "750.50", "750.5"},
		{"arabic-indic digits", "٧٥٠", "750"},
		{"empty is zero", "", "0"},
		{"whitespace is zero", "   ", "0"},
		{"unparsable is zero", "n/a", "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := c.Coerce(tc.in, field)
			require.Equal(t, schema.Numeric, v.Domain())
			require.Equal(t, tc.want, v.String())
		})
	}
}

func TestCoercer_Text(t *testing.T) {
	c := NewCoercer(schema.DefaultDictionary())
	field := schema.Field{ID: schema.FieldJobTitle, Domain: schema.Text}

	v := c.Coerce("  مهندس  ", field)
	s, ok := v.Text()
	require.True(t, ok)
	require.Equal(t, "مهندس", s)

	// Empty text coerces to explicit absence, not "".
	v = c.Coerce("   ", field)
	require.True(t, v.IsAbsent())
	_, ok = v.Text()
	require.False(t, ok)
	require.Equal(t, "", v.String())
}

func TestCoercer_ResolvePayload(t *testing.T) {
	c := NewCoercer(schema.DefaultDictionary())
	mapping := ColumnMapping{
		0: {ID: schema.FieldFullName, Domain: schema.Text},
		1: {ID: schema.FieldNominalSalary, Domain: schema.Numeric},
		5: {ID: schema.FieldIBAN, Domain: schema.Text},
	}

	// The row is shorter than the mapped column span; missing cells coerce
	// like empty ones.
	payload := c.ResolvePayload([]string{" علي ", "1,000"}, mapping)
	require.Len(t, payload, 3)
	require.Equal(t, "علي", payload.Text(schema.FieldFullName))
	require.Equal(t, "1000", payload[schema.FieldNominalSalary].String())
	require.True(t, payload[schema.FieldIBAN].IsAbsent())
}
