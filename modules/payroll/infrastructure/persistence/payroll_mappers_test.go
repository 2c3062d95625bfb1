package persistence

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/payroll-sync/modules/payroll/domain/schema"
)

func TestPayloadJSONRoundTrip(t *testing.T) {
	dict := schema.DefaultDictionary()
	payload := schema.Payload{
		schema.FieldNominalSalary:        schema.NumericValue(decimal.RequireFromString("850000")),
		schema.FieldCertificateAllowance: schema.NumericValue(decimal.RequireFromString("750.50")),
		schema.FieldJobTitle:             schema.TextValue("مهندس"),
		schema.FieldCertificate:          schema.AbsentText(),
	}

	raw, err := payloadToJSON(payload)
	require.NoError(t, err)

	decoded, err := payloadFromJSON(dict, raw)
	require.NoError(t, err)

	// Absent text is not stored, everything else comes back typed.
	require.Len(t, decoded, 3)
	require.Equal(t, schema.Numeric, decoded[schema.FieldNominalSalary].Domain())
	require.Equal(t, "850000", decoded[schema.FieldNominalSalary].String())
	require.Equal(t, "750.5", decoded[schema.FieldCertificateAllowance].String())
	require.Equal(t, "مهندس", decoded[schema.FieldJobTitle].String())
}

func TestPayloadFromJSON_UnknownKeysKeptAsText(t *testing.T) {
	dict := schema.DefaultDictionary()
	decoded, err := payloadFromJSON(dict, []byte(`{"legacy_field":"some value"}`))
	require.NoError(t, err)

	v, ok := decoded[schema.FieldID("legacy_field")]
	require.True(t, ok)
	require.Equal(t, schema.Text, v.Domain())
	require.Equal(t, "some value", v.String())
}

func TestPayloadFromJSON_EmptyDocument(t *testing.T) {
	decoded, err := payloadFromJSON(schema.DefaultDictionary(), nil)
	require.NoError(t, err)
	require.Empty(t, decoded)
}

func TestToDomainEmployee(t *testing.T) {
	dict := schema.DefaultDictionary()
	entityID := uuid.New()
	recordID := uuid.New()
	iban := "IQ00ZAIN1234"

	e, err := toDomainEmployee(dict, entityID, "123", "علي حسن محمد", nil, nil, &iban, &recordID,
		[]byte(`{"nominal_salary":"850000"}`))
	require.NoError(t, err)

	require.Equal(t, entityID, e.EntityID())
	require.Equal(t, recordID, e.SalaryRecordID())
	require.True(t, e.HasSalaryRecord())
	require.Equal(t, "123", e.JobNumber())

	v, ok := e.FieldValue(schema.FieldIBAN)
	require.True(t, ok)
	require.Equal(t, iban, v.String())
	v, ok = e.FieldValue(schema.FieldNominalSalary)
	require.True(t, ok)
	require.Equal(t, "850000", v.String())

	_, ok = e.FieldValue(schema.FieldUsername)
	require.False(t, ok)
}

func TestToDomainEmployee_NoSalaryRecord(t *testing.T) {
	e, err := toDomainEmployee(schema.DefaultDictionary(), uuid.New(), "", "سارة محمود", nil, nil, nil, nil, nil)
	require.NoError(t, err)
	require.False(t, e.HasSalaryRecord())
}
