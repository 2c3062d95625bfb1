package services

import (
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/payroll-sync/modules/payroll/domain/aggregates/employee"
	"github.com/iota-uz/payroll-sync/modules/payroll/domain/reconciliation"
	"github.com/iota-uz/payroll-sync/modules/payroll/domain/schema"
)

func discardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Columns: job number, full name, certificate allowance, nominal salary.
func sheetRows(dataRows ...[]string) [][]string {
	rows := [][]string{
		{"كشف رواتب شهر آب"},
		{},
		{"الرقم الوظيفي", "الاسم الكامل", "مخصصات الشهادة", "الراتب الاسمي"},
	}
	return append(rows, dataRows...)
}

func snapshotEmployee(jobNumber, fullName string, certAllowance string) employee.Employee {
	return employee.Hydrate(uuid.New(), uuid.New(), jobNumber, fullName, schema.Payload{
		schema.FieldCertificateAllowance: schema.NumericValue(decimal.RequireFromString(certAllowance)),
	})
}

func TestClassifier_MatchedRowWithChangedAllowance(t *testing.T) {
	c := NewClassifier(schema.DefaultDictionary(), discardLogger())
	existing := snapshotEmployee("123", "علي حسن محمد", "500")

	set, err := c.Classify(uuid.New(), sheetRows(
		[]string{"123", "علي حسن محمد", "750", ""},
	), []employee.Employee{existing})
	require.NoError(t, err)

	require.Equal(t, 1, set.Total)
	require.Equal(t, 1, set.Matched)
	require.Equal(t, 0, set.New)

	r := set.Results[0]
	require.Equal(t, reconciliation.StatusMatched, r.Status)
	require.Equal(t, existing.EntityID(), r.Entity.EntityID())
	require.Len(t, r.Diffs, 1)
	require.Equal(t, schema.FieldCertificateAllowance, r.Diffs[0].FieldID)
	require.Equal(t, "500", r.Diffs[0].Old.String())
	require.Equal(t, "750", r.Diffs[0].New.String())
}

func TestClassifier_ContractRowGetsPlaceholder(t *testing.T) {
	c := NewClassifier(schema.DefaultDictionary(), discardLogger())

	set, err := c.Classify(uuid.New(), sheetRows(
		[]string{"", "سارة محمود كاظم", "250", "600000"},
		[]string{"000", "نور عباس صالح", "0", "550000"},
	), nil)
	require.NoError(t, err)

	require.Equal(t, 2, set.Total)
	require.Equal(t, 2, set.New)
	require.Equal(t, 2, set.Contract)

	first := set.Results[0].Payload.Text(schema.FieldJobNumber)
	second := set.Results[1].Payload.Text(schema.FieldJobNumber)
	require.NotEmpty(t, first)
	require.NotEmpty(t, second)
	require.NotEqual(t, first, second)

	for _, r := range set.Results {
		require.True(t, r.IsContract)
		require.Equal(t, reconciliation.StatusNew, r.Status)
		require.Len(t, r.Diffs, 1)
		require.Equal(t, reconciliation.SentinelNewRecord, r.Diffs[0].FieldID)
	}
}

func TestClassifier_DropsNamelessRows(t *testing.T) {
	c := NewClassifier(schema.DefaultDictionary(), discardLogger())

	set, err := c.Classify(uuid.New(), sheetRows(
		[]string{"123", "", "500", "850000"},
		[]string{"124", "   ", "500", "850000"},
	), nil)
	require.NoError(t, err)
	require.Equal(t, 0, set.Total)
	require.Empty(t, set.Results)
}

func TestClassifier_DuplicateTargetRowsSkipped(t *testing.T) {
	c := NewClassifier(schema.DefaultDictionary(), discardLogger())
	existing := snapshotEmployee("123", "علي حسن محمد", "500")

	// Second row resolves by name to the same employee the first row already
	// claimed by job number; it is counted and skipped.
	set, err := c.Classify(uuid.New(), sheetRows(
		[]string{"123", "علي حسن محمد", "750", ""},
		[]string{"", "علي حسن محمد", "900", ""},
	), []employee.Employee{existing})
	require.NoError(t, err)

	require.Equal(t, 1, set.Total)
	require.Equal(t, 1, set.Matched)
	require.Equal(t, 1, set.Duplicates)
	require.Len(t, set.Results, 1)
	require.Equal(t, 3, set.Results[0].RowIndex)
}

func TestClassifier_NameSuggestionForNearMiss(t *testing.T) {
	c := NewClassifier(schema.DefaultDictionary(), discardLogger())
	existing := snapshotEmployee("123", "علي حسن محمد جاسم", "500")

	// One trailing letter differs; close enough for a hint, not a match.
	set, err := c.Classify(uuid.New(), sheetRows(
		[]string{"777", "علي حسن محمد جاسب", "500", ""},
	), []employee.Employee{existing})
	require.NoError(t, err)

	require.Equal(t, 1, set.New)
	require.Equal(t, "علي حسن محمد جاسم", set.Results[0].NameSuggestion)
}

func TestClassifier_StructuralErrors(t *testing.T) {
	c := NewClassifier(schema.DefaultDictionary(), discardLogger())

	_, err := c.Classify(uuid.New(), [][]string{
		{"ملاحظات"},
		{"بيانات", "متفرقة"},
	}, nil)
	require.ErrorIs(t, err, ErrHeaderNotFound)
}
