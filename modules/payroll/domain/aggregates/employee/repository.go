package employee

import (
	"context"

	"github.com/google/uuid"

	"github.com/iota-uz/payroll-sync/modules/payroll/domain/schema"
)

// ProfileChanges are the identity-field updates applied directly to the
// profile record, outside the diff set.
type ProfileChanges struct {
	Username  *string
	Password  *string
	FullName  *string
	JobNumber *string
	IBAN      *string
}

func (c ProfileChanges) IsEmpty() bool {
	return c.Username == nil && c.Password == nil && c.FullName == nil &&
		c.JobNumber == nil && c.IBAN == nil
}

// Repository is the record-store surface the reconciliation engine depends
// on: one bulk snapshot read plus per-row writes during commit.
type Repository interface {
	// GetAll loads every employee with its embedded salary record.
	GetAll(ctx context.Context) ([]Employee, error)
	// UpdateProfile applies identity-field changes to one profile record.
	UpdateProfile(ctx context.Context, entityID uuid.UUID, changes ProfileChanges) error
	// UpdateSalary overwrites fields on an existing salary record.
	UpdateSalary(ctx context.Context, salaryRecordID uuid.UUID, values schema.Payload) error
	// InsertSalary creates the salary record for an employee that has none.
	InsertSalary(ctx context.Context, entityID uuid.UUID, values schema.Payload) (uuid.UUID, error)
	// Insert creates the profile and salary records for a brand-new employee
	// whose login identity was already provisioned.
	Insert(ctx context.Context, entityID uuid.UUID, data *CreateDTO, values schema.Payload) error
}
