package services

import (
	"sort"

	"github.com/iota-uz/payroll-sync/modules/payroll/domain/aggregates/employee"
	"github.com/iota-uz/payroll-sync/modules/payroll/domain/reconciliation"
	"github.com/iota-uz/payroll-sync/modules/payroll/domain/schema"
)

// DiffEngine computes field-level differences between an employee snapshot
// and an incoming payload. Identity fields never appear in a diff set; they
// are applied as direct profile updates during commit.
type DiffEngine struct {
	dict *schema.Dictionary
}

func NewDiffEngine(dict *schema.Dictionary) *DiffEngine {
	return &DiffEngine{dict: dict}
}

// Diff emits one FieldDiff per mapped non-identity field whose stringified
// persisted and incoming values differ. Old and New carry raw values.
func (d *DiffEngine) Diff(existing employee.Employee, payload schema.Payload) []reconciliation.FieldDiff {
	ids := make([]schema.FieldID, 0, len(payload))
	for id := range payload {
		if d.dict.IsIdentity(id) {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var diffs []reconciliation.FieldDiff
	for _, id := range ids {
		incoming := payload[id]
		// A field missing from the snapshot compares as the empty string.
		old, ok := existing.FieldValue(id)
		if !ok {
			old = schema.AbsentText()
		}
		if old.String() == incoming.String() {
			continue
		}
		diffs = append(diffs, reconciliation.FieldDiff{
			FieldID: id,
			Old:     old,
			New:     incoming,
		})
	}
	return diffs
}
