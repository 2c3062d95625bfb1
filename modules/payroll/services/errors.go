package services

import "github.com/iota-uz/payroll-sync/pkg/serrors"

// Structural errors abort the whole analysis and return the wizard to Idle.
// Per-row errors are isolated by the batch executor and only surface in the
// aggregate outcome.
var (
	ErrHeaderNotFound  = serrors.NewError("PAYROLL_HEADER_NOT_FOUND", "no header row found in the scan window", "")
	ErrNoMappedColumns = serrors.NewError("PAYROLL_NO_MAPPED_COLUMNS", "no header cell maps to a canonical field", "")
	ErrEntityFetch     = serrors.NewError("PAYROLL_ENTITY_FETCH_FAILED", "bulk read of existing employees failed", "")
	ErrIdentityCreate  = serrors.NewError("PAYROLL_IDENTITY_CREATE_FAILED", "identity provisioning failed", "")
	ErrInvalidStage    = serrors.NewError("PAYROLL_INVALID_STAGE", "operation not allowed in the current wizard stage", "")
)
