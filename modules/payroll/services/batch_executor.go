package services

import (
	"context"
	"fmt"
	"sync"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/payroll-sync/modules/payroll/domain/aggregates/employee"
	"github.com/iota-uz/payroll-sync/modules/payroll/domain/identity"
	"github.com/iota-uz/payroll-sync/modules/payroll/domain/reconciliation"
	"github.com/iota-uz/payroll-sync/modules/payroll/domain/schema"
)

// chunkSize is the number of rows committed concurrently. Chunks run
// strictly sequentially: chunk N fully resolves before chunk N+1 starts.
const chunkSize = 10

const defaultEmailDomain = "payroll.local"

// BatchExecutor commits a classification set to the record store and the
// identity-provisioning service. Failures are isolated per row; there are
// no retries and no cancellation once a chunk is in flight.
type BatchExecutor struct {
	repo        employee.Repository
	provisioner identity.Provisioner
	emailDomain string
	log         logrus.FieldLogger
}

func NewBatchExecutor(repo employee.Repository, provisioner identity.Provisioner, log logrus.FieldLogger) *BatchExecutor {
	return &BatchExecutor{
		repo:        repo,
		provisioner: provisioner,
		emailDomain: defaultEmailDomain,
		log:         log,
	}
}

// WithEmailDomain overrides the domain of synthesized login emails.
func (e *BatchExecutor) WithEmailDomain(domain string) *BatchExecutor {
	if domain != "" {
		e.emailDomain = domain
	}
	return e
}

// Execute commits the set chunk by chunk. The returned error is fatal to
// the run (context cancellation between chunks); per-row errors are only
// reflected in the outcome counts.
func (e *BatchExecutor) Execute(ctx context.Context, set *reconciliation.Set) (*reconciliation.Outcome, error) {
	outcome := &reconciliation.Outcome{}
	m := getMetrics()

	results := set.Results
	for start := 0; start < len(results); start += chunkSize {
		if err := ctx.Err(); err != nil {
			return outcome, err
		}

		end := start + chunkSize
		if end > len(results) {
			end = len(results)
		}
		chunk := results[start:end]

		var (
			wg sync.WaitGroup
			mu sync.Mutex
		)
		for i := range chunk {
			wg.Add(1)
			go func(r *reconciliation.MatchResult) {
				defer wg.Done()
				err := e.commitRow(ctx, r)

				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					outcome.Failed++
					outcome.Rows = append(outcome.Rows, reconciliation.RowOutcome{RowIndex: r.RowIndex, Err: err})
					m.rowsCommitted.WithLabelValues("failed").Inc()
					e.log.WithError(err).WithField("row", r.RowIndex).Error("row commit failed")
					return
				}
				if r.Status == reconciliation.StatusMatched {
					outcome.Updates++
					m.rowsCommitted.WithLabelValues("updated").Inc()
				} else {
					outcome.Inserts++
					m.rowsCommitted.WithLabelValues("inserted").Inc()
				}
				outcome.Rows = append(outcome.Rows, reconciliation.RowOutcome{RowIndex: r.RowIndex, Succeeded: true})
			}(&chunk[i])
		}
		wg.Wait()
	}

	return outcome, nil
}

func (e *BatchExecutor) commitRow(ctx context.Context, r *reconciliation.MatchResult) (err error) {
	// Row-level isolation: a panicking repository must not abort the chunk.
	defer func() {
		if rec := recover(); rec != nil {
			err = gerrors.Errorf("row %d: panic during commit: %v", r.RowIndex, rec)
		}
	}()

	if r.Status == reconciliation.StatusMatched {
		return e.commitMatched(ctx, r)
	}
	return e.commitNew(ctx, r)
}

func (e *BatchExecutor) commitMatched(ctx context.Context, r *reconciliation.MatchResult) error {
	entity := r.Entity
	if changes := profileChanges(*entity, r.Payload, r.IsContract); !changes.IsEmpty() {
		if err := e.repo.UpdateProfile(ctx, entity.EntityID(), changes); err != nil {
			return gerrors.Wrap(err, "update profile")
		}
	}

	values := salaryValues(r.Payload)
	if entity.HasSalaryRecord() {
		if err := e.repo.UpdateSalary(ctx, entity.SalaryRecordID(), values); err != nil {
			return gerrors.Wrap(err, "update salary record")
		}
		return nil
	}
	if _, err := e.repo.InsertSalary(ctx, entity.EntityID(), values); err != nil {
		return gerrors.Wrap(err, "insert salary record")
	}
	return nil
}

// commitNew is the two-phase create: the login identity first, then the
// profile and salary records. Phase two never runs without phase one.
func (e *BatchExecutor) commitNew(ctx context.Context, r *reconciliation.MatchResult) error {
	jobNumber := r.Payload.Text(schema.FieldJobNumber)
	password := r.Payload.Text(schema.FieldPassword)
	if password == "" {
		password = uuid.New().String()
	}

	dto := &identity.CreateLoginDTO{
		LoginID:   uuid.New(),
		Email:     fmt.Sprintf("%s@%s", jobNumber, e.emailDomain),
		Password:  password,
		FullName:  r.Payload.Text(schema.FieldFullName),
		JobNumber: jobNumber,
	}
	if err := dto.Validate(); err != nil {
		return gerrors.Wrap(err, "validate login dto")
	}

	createdID, err := e.provisioner.CreateLogin(ctx, dto)
	if err != nil {
		return gerrors.Wrap(ErrIdentityCreate.WithMessage("%v", err), "create login")
	}

	createDTO := &employee.CreateDTO{
		FullName:   dto.FullName,
		JobNumber:  jobNumber,
		Username:   r.Payload.Text(schema.FieldUsername),
		Password:   password,
		IBAN:       r.Payload.Text(schema.FieldIBAN),
		IsContract: r.IsContract,
	}
	if err := e.repo.Insert(ctx, createdID, createDTO, salaryValues(r.Payload)); err != nil {
		return gerrors.Wrap(err, "insert employee")
	}
	return nil
}

// profileChanges collects identity-field updates: an incoming value is
// applied when present and different from the persisted one. A contract
// row's synthesized placeholder never overwrites a persisted job number.
func profileChanges(entity employee.Employee, payload schema.Payload, isContract bool) employee.ProfileChanges {
	changes := employee.ProfileChanges{}
	setIfChanged := func(incoming, current string, target **string) {
		if incoming != "" && incoming != current {
			v := incoming
			*target = &v
		}
	}

	currentText := func(id schema.FieldID) string {
		v, ok := entity.FieldValue(id)
		if !ok {
			return ""
		}
		s, _ := v.Text()
		return s
	}

	setIfChanged(payload.Text(schema.FieldUsername), currentText(schema.FieldUsername), &changes.Username)
	setIfChanged(payload.Text(schema.FieldPassword), currentText(schema.FieldPassword), &changes.Password)
	setIfChanged(payload.Text(schema.FieldFullName), entity.FullName(), &changes.FullName)
	if !isContract {
		setIfChanged(payload.Text(schema.FieldJobNumber), entity.JobNumber(), &changes.JobNumber)
	}
	setIfChanged(payload.Text(schema.FieldIBAN), currentText(schema.FieldIBAN), &changes.IBAN)
	return changes
}

// salaryValues filters the payload down to the fields stored on the salary
// record, which is everything except the identity fields.
func salaryValues(payload schema.Payload) schema.Payload {
	out := make(schema.Payload, len(payload))
	for id, v := range payload {
		switch id {
		case schema.FieldUsername, schema.FieldPassword, schema.FieldFullName,
			schema.FieldJobNumber, schema.FieldIBAN:
			continue
		}
		out[id] = v
	}
	return out
}
