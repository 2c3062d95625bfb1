package employee

import (
	"strings"

	"github.com/google/uuid"

	"github.com/iota-uz/payroll-sync/modules/payroll/domain/schema"
)

// Employee is a read-only snapshot of one persisted employee, including the
// embedded salary sub-record, loaded once per import run.
type Employee struct {
	entityID       uuid.UUID
	salaryRecordID uuid.UUID
	jobNumber      string
	fullName       string
	fieldValues    schema.Payload
}

func New(jobNumber string, fullName string) Employee {
	return Employee{
		entityID:  uuid.New(),
		jobNumber: strings.TrimSpace(jobNumber),
		fullName:  strings.TrimSpace(fullName),
	}
}

func Hydrate(
	entityID uuid.UUID,
	salaryRecordID uuid.UUID,
	jobNumber string,
	fullName string,
	fieldValues schema.Payload,
) Employee {
	return Employee{
		entityID:       entityID,
		salaryRecordID: salaryRecordID,
		jobNumber:      strings.TrimSpace(jobNumber),
		fullName:       strings.TrimSpace(fullName),
		fieldValues:    fieldValues,
	}
}

func (e Employee) EntityID() uuid.UUID { return e.entityID }

// SalaryRecordID is the id of the embedded salary sub-record; uuid.Nil means
// the employee has no salary record yet and the insert path applies.
func (e Employee) SalaryRecordID() uuid.UUID { return e.salaryRecordID }

func (e Employee) HasSalaryRecord() bool { return e.salaryRecordID != uuid.Nil }

func (e Employee) JobNumber() string { return e.jobNumber }

func (e Employee) FullName() string { return e.fullName }

// FieldValue returns the current persisted value for a canonical field.
func (e Employee) FieldValue(id schema.FieldID) (schema.Value, bool) {
	v, ok := e.fieldValues[id]
	return v, ok
}

func (e Employee) IsZero() bool { return e.entityID == uuid.Nil && e.jobNumber == "" }
