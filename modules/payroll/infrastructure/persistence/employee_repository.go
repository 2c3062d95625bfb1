package persistence

import (
	"context"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/iota-uz/payroll-sync/modules/payroll/domain/aggregates/employee"
	"github.com/iota-uz/payroll-sync/modules/payroll/domain/schema"
	"github.com/iota-uz/payroll-sync/pkg/composables"
)

var ErrEmployeeNotFound = gerrors.New("employee not found")

const (
	selectAllQuery = `
		SELECT e.id, e.job_number, e.full_name, e.username, e.password, e.iban,
		       s.id, s.field_values
		FROM employees e
		LEFT JOIN salary_records s ON s.employee_id = e.id
		ORDER BY e.job_number`

	updateProfileQuery = `
		UPDATE employees
		SET username   = COALESCE($2, username),
		    password   = COALESCE($3, password),
		    full_name  = COALESCE($4, full_name),
		    job_number = COALESCE($5, job_number),
		    iban       = COALESCE($6, iban),
		    updated_at = now()
		WHERE id = $1`

	updateSalaryQuery = `
		UPDATE salary_records
		SET field_values = $2, updated_at = now()
		WHERE id = $1`

	insertSalaryQuery = `
		INSERT INTO salary_records (id, employee_id, field_values)
		VALUES ($1, $2, $3)
		ON CONFLICT (employee_id)
		DO UPDATE SET field_values = EXCLUDED.field_values, updated_at = now()
		RETURNING id`

	insertEmployeeQuery = `
		INSERT INTO employees (id, job_number, full_name, username, password, iban, is_contract)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
)

// PgEmployeeRepository is the Postgres record-store adapter. Salary fields
// are stored as a jsonb document keyed by canonical field id.
type PgEmployeeRepository struct {
	dict *schema.Dictionary
}

func NewEmployeeRepository(dict *schema.Dictionary) employee.Repository {
	return &PgEmployeeRepository{dict: dict}
}

func (g *PgEmployeeRepository) GetAll(ctx context.Context) ([]employee.Employee, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, selectAllQuery)
	if err != nil {
		return nil, gerrors.Wrap(err, "query employees")
	}
	defer rows.Close()

	var out []employee.Employee
	for rows.Next() {
		var (
			id             uuid.UUID
			jobNumber      string
			fullName       string
			username       *string
			password       *string
			iban           *string
			salaryRecordID *uuid.UUID
			fieldValuesRaw []byte
		)
		if err := rows.Scan(&id, &jobNumber, &fullName, &username, &password, &iban, &salaryRecordID, &fieldValuesRaw); err != nil {
			return nil, gerrors.Wrap(err, "scan employee")
		}
		e, err := toDomainEmployee(g.dict, id, jobNumber, fullName, username, password, iban, salaryRecordID, fieldValuesRaw)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (g *PgEmployeeRepository) UpdateProfile(ctx context.Context, entityID uuid.UUID, changes employee.ProfileChanges) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, updateProfileQuery,
		entityID, changes.Username, changes.Password, changes.FullName, changes.JobNumber, changes.IBAN)
	if err != nil {
		return gerrors.Wrap(err, "update profile")
	}
	if tag.RowsAffected() == 0 {
		return ErrEmployeeNotFound
	}
	return nil
}

func (g *PgEmployeeRepository) UpdateSalary(ctx context.Context, salaryRecordID uuid.UUID, values schema.Payload) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	raw, err := payloadToJSON(values)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, updateSalaryQuery, salaryRecordID, raw)
	if err != nil {
		return gerrors.Wrap(err, "update salary record")
	}
	if tag.RowsAffected() == 0 {
		return gerrors.New("salary record not found")
	}
	return nil
}

func (g *PgEmployeeRepository) InsertSalary(ctx context.Context, entityID uuid.UUID, values schema.Payload) (uuid.UUID, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	raw, err := payloadToJSON(values)
	if err != nil {
		return uuid.Nil, err
	}
	var id uuid.UUID
	if err := tx.QueryRow(ctx, insertSalaryQuery, uuid.New(), entityID, raw).Scan(&id); err != nil {
		return uuid.Nil, gerrors.Wrap(err, "insert salary record")
	}
	return id, nil
}

func (g *PgEmployeeRepository) Insert(ctx context.Context, entityID uuid.UUID, data *employee.CreateDTO, values schema.Payload) error {
	if err := data.Validate(); err != nil {
		return gerrors.Wrap(err, "validate employee")
	}
	return composables.InTx(ctx, func(txCtx context.Context) error {
		tx, err := composables.UseTx(txCtx)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(txCtx, insertEmployeeQuery,
			entityID,
			data.JobNumber,
			data.FullName,
			nullable(data.Username),
			nullable(data.Password),
			nullable(data.IBAN),
			data.IsContract,
		); err != nil {
			return gerrors.Wrap(err, "insert employee")
		}
		raw, err := payloadToJSON(values)
		if err != nil {
			return err
		}
		if err := tx.QueryRow(txCtx, insertSalaryQuery, uuid.New(), entityID, raw).Scan(new(uuid.UUID)); err != nil {
			return gerrors.Wrap(err, "insert salary record")
		}
		return nil
	})
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
