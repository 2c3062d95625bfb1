package services

import (
	"context"
	"sync"
	"testing"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/payroll-sync/modules/payroll/domain/aggregates/employee"
	"github.com/iota-uz/payroll-sync/modules/payroll/domain/identity"
	"github.com/iota-uz/payroll-sync/modules/payroll/domain/reconciliation"
	"github.com/iota-uz/payroll-sync/modules/payroll/domain/schema"
)

type mockRepository struct {
	getAll        func(ctx context.Context) ([]employee.Employee, error)
	updateProfile func(ctx context.Context, entityID uuid.UUID, changes employee.ProfileChanges) error
	updateSalary  func(ctx context.Context, salaryRecordID uuid.UUID, values schema.Payload) error
	insertSalary  func(ctx context.Context, entityID uuid.UUID, values schema.Payload) (uuid.UUID, error)
	insert        func(ctx context.Context, entityID uuid.UUID, data *employee.CreateDTO, values schema.Payload) error
}

func (m *mockRepository) GetAll(ctx context.Context) ([]employee.Employee, error) {
	if m.getAll == nil {
		return nil, nil
	}
	return m.getAll(ctx)
}

func (m *mockRepository) UpdateProfile(ctx context.Context, entityID uuid.UUID, changes employee.ProfileChanges) error {
	if m.updateProfile == nil {
		return nil
	}
	return m.updateProfile(ctx, entityID, changes)
}

func (m *mockRepository) UpdateSalary(ctx context.Context, salaryRecordID uuid.UUID, values schema.Payload) error {
	if m.updateSalary == nil {
		return nil
	}
	return m.updateSalary(ctx, salaryRecordID, values)
}

func (m *mockRepository) InsertSalary(ctx context.Context, entityID uuid.UUID, values schema.Payload) (uuid.UUID, error) {
	if m.insertSalary == nil {
		return uuid.New(), nil
	}
	return m.insertSalary(ctx, entityID, values)
}

func (m *mockRepository) Insert(ctx context.Context, entityID uuid.UUID, data *employee.CreateDTO, values schema.Payload) error {
	if m.insert == nil {
		return nil
	}
	return m.insert(ctx, entityID, data, values)
}

type mockProvisioner struct {
	createLogin func(ctx context.Context, data *identity.CreateLoginDTO) (uuid.UUID, error)
}

func (m *mockProvisioner) CreateLogin(ctx context.Context, data *identity.CreateLoginDTO) (uuid.UUID, error) {
	if m.createLogin == nil {
		return uuid.New(), nil
	}
	return m.createLogin(ctx, data)
}

func matchedSet(n int) (*reconciliation.Set, map[uuid.UUID]int) {
	set := &reconciliation.Set{}
	rowByRecordID := make(map[uuid.UUID]int, n)
	for i := 0; i < n; i++ {
		e := employee.Hydrate(uuid.New(), uuid.New(), "100", "موظف", schema.Payload{})
		rowByRecordID[e.SalaryRecordID()] = i
		set.Results = append(set.Results, reconciliation.MatchResult{
			RowIndex: i,
			Status:   reconciliation.StatusMatched,
			Entity:   &e,
			Payload: schema.Payload{
				schema.FieldNominalSalary: schema.NumericValue(decimal.NewFromInt(int64(i))),
			},
		})
	}
	set.Total = n
	set.Matched = n
	return set, rowByRecordID
}

func TestBatchExecutor_ChunkedCommitWithIsolatedFailure(t *testing.T) {
	set, rowByRecordID := matchedSet(25)

	var (
		mu    sync.Mutex
		calls int
	)
	repo := &mockRepository{
		updateSalary: func(_ context.Context, recordID uuid.UUID, _ schema.Payload) error {
			mu.Lock()
			calls++
			mu.Unlock()
			if rowByRecordID[recordID] == 15 {
				return gerrors.New("record store rejected the write")
			}
			return nil
		},
	}

	exec := NewBatchExecutor(repo, &mockProvisioner{}, discardLogger())
	outcome, err := exec.Execute(context.Background(), set)
	require.NoError(t, err)

	// Every row was attempted, including all of the final chunk of 5; the
	// single failure in the second chunk did not stop the third.
	require.Equal(t, 25, calls)
	require.Equal(t, 24, outcome.Updates)
	require.Equal(t, 1, outcome.Failed)
	require.Len(t, outcome.Rows, 25)
}

func TestBatchExecutor_ChunksRunSequentially(t *testing.T) {
	set, rowByRecordID := matchedSet(25)

	var mu sync.Mutex
	completed := make(map[int]bool)
	repo := &mockRepository{
		updateSalary: func(_ context.Context, recordID uuid.UUID, _ schema.Payload) error {
			row := rowByRecordID[recordID]

			mu.Lock()
			chunkStart := (row / chunkSize) * chunkSize
			for prior := 0; prior < chunkStart; prior++ {
				if !completed[prior] {
					mu.Unlock()
					return gerrors.Errorf("row %d started before row %d finished", row, prior)
				}
			}
			mu.Unlock()

			mu.Lock()
			completed[row] = true
			mu.Unlock()
			return nil
		},
	}

	exec := NewBatchExecutor(repo, &mockProvisioner{}, discardLogger())
	outcome, err := exec.Execute(context.Background(), set)
	require.NoError(t, err)
	require.Equal(t, 25, outcome.Updates)
	require.Zero(t, outcome.Failed)
}

func TestBatchExecutor_MatchedSalaryPaths(t *testing.T) {
	withRecord := employee.Hydrate(uuid.New(), uuid.New(), "1", "علي", schema.Payload{})
	withoutRecord := employee.Hydrate(uuid.New(), uuid.Nil, "2", "سارة", schema.Payload{})

	var updates, inserts int
	repo := &mockRepository{
		updateSalary: func(_ context.Context, recordID uuid.UUID, _ schema.Payload) error {
			updates++
			if recordID != withRecord.SalaryRecordID() {
				return gerrors.New("update aimed at the wrong salary record")
			}
			return nil
		},
		insertSalary: func(_ context.Context, entityID uuid.UUID, _ schema.Payload) (uuid.UUID, error) {
			inserts++
			if entityID != withoutRecord.EntityID() {
				return uuid.Nil, gerrors.New("insert aimed at the wrong employee")
			}
			return uuid.New(), nil
		},
	}

	set := &reconciliation.Set{Results: []reconciliation.MatchResult{
		{RowIndex: 0, Status: reconciliation.StatusMatched, Entity: &withRecord, Payload: schema.Payload{}},
		{RowIndex: 1, Status: reconciliation.StatusMatched, Entity: &withoutRecord, Payload: schema.Payload{}},
	}}

	exec := NewBatchExecutor(repo, &mockProvisioner{}, discardLogger())
	outcome, err := exec.Execute(context.Background(), set)
	require.NoError(t, err)
	require.Equal(t, 2, outcome.Updates)
	require.Zero(t, outcome.Failed)
	require.Equal(t, 1, updates)
	require.Equal(t, 1, inserts)
}

func TestBatchExecutor_FailedProvisioningSkipsInserts(t *testing.T) {
	var inserted int
	repo := &mockRepository{
		insert: func(context.Context, uuid.UUID, *employee.CreateDTO, schema.Payload) error {
			inserted++
			return nil
		},
	}
	prov := &mockProvisioner{
		createLogin: func(context.Context, *identity.CreateLoginDTO) (uuid.UUID, error) {
			return uuid.Nil, gerrors.New("directory unavailable")
		},
	}

	set := &reconciliation.Set{Results: []reconciliation.MatchResult{{
		RowIndex: 0,
		Status:   reconciliation.StatusNew,
		Payload: schema.Payload{
			schema.FieldFullName:  schema.TextValue("سارة محمود"),
			schema.FieldJobNumber: schema.TextValue("C-abc12345-001"),
		},
	}}}

	exec := NewBatchExecutor(repo, prov, discardLogger())
	outcome, err := exec.Execute(context.Background(), set)
	require.NoError(t, err)

	require.Zero(t, inserted)
	require.Zero(t, outcome.Inserts)
	require.Equal(t, 1, outcome.Failed)
	require.ErrorIs(t, outcome.Rows[0].Err, ErrIdentityCreate)
}

func TestBatchExecutor_NewRowTwoPhaseCreate(t *testing.T) {
	loginID := uuid.New()
	var captured *identity.CreateLoginDTO
	var insertedID uuid.UUID
	var insertedDTO *employee.CreateDTO

	repo := &mockRepository{
		insert: func(_ context.Context, entityID uuid.UUID, data *employee.CreateDTO, _ schema.Payload) error {
			insertedID = entityID
			insertedDTO = data
			return nil
		},
	}
	prov := &mockProvisioner{
		createLogin: func(_ context.Context, data *identity.CreateLoginDTO) (uuid.UUID, error) {
			captured = data
			return loginID, nil
		},
	}

	set := &reconciliation.Set{Results: []reconciliation.MatchResult{{
		RowIndex:   0,
		Status:     reconciliation.StatusNew,
		IsContract: true,
		Payload: schema.Payload{
			schema.FieldFullName:  schema.TextValue("سارة محمود كاظم"),
			schema.FieldJobNumber: schema.TextValue("C-abc12345-001"),
		},
	}}}

	exec := NewBatchExecutor(repo, prov, discardLogger())
	outcome, err := exec.Execute(context.Background(), set)
	require.NoError(t, err)
	require.Equal(t, 1, outcome.Inserts)

	require.NotNil(t, captured)
	require.Equal(t, "C-abc12345-001@payroll.local", captured.Email)
	require.NotEmpty(t, captured.Password)

	require.Equal(t, loginID, insertedID)
	require.True(t, insertedDTO.IsContract)
	require.Equal(t, "C-abc12345-001", insertedDTO.JobNumber)
}

func TestBatchExecutor_PanicIsolatedToRow(t *testing.T) {
	set, rowByRecordID := matchedSet(2)

	repo := &mockRepository{
		updateSalary: func(_ context.Context, recordID uuid.UUID, _ schema.Payload) error {
			if rowByRecordID[recordID] == 0 {
				panic("salary record table vanished")
			}
			return nil
		},
	}

	exec := NewBatchExecutor(repo, &mockProvisioner{}, discardLogger())
	outcome, err := exec.Execute(context.Background(), set)
	require.NoError(t, err)
	require.Equal(t, 1, outcome.Failed)
	require.Equal(t, 1, outcome.Updates)
}

func TestBatchExecutor_CancelledContextIsFatal(t *testing.T) {
	set, _ := matchedSet(5)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exec := NewBatchExecutor(&mockRepository{}, &mockProvisioner{}, discardLogger())
	outcome, err := exec.Execute(ctx, set)
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, outcome.Rows)
}

func TestProfileChanges_ContractPlaceholderSkipsJobNumber(t *testing.T) {
	entity := employee.Hydrate(uuid.New(), uuid.New(), "456", "علي حسن", schema.Payload{})
	payload := schema.Payload{
		schema.FieldJobNumber: schema.TextValue("C-abc12345-002"),
		schema.FieldFullName:  schema.TextValue("علي حسن محمد"),
	}

	changes := profileChanges(entity, payload, true)
	require.Nil(t, changes.JobNumber)
	require.NotNil(t, changes.FullName)
	require.Equal(t, "علي حسن محمد", *changes.FullName)

	// A real job number on a non-contract row does update.
	payload[schema.FieldJobNumber] = schema.TextValue("789")
	changes = profileChanges(entity, payload, false)
	require.NotNil(t, changes.JobNumber)
	require.Equal(t, "789", *changes.JobNumber)
}
