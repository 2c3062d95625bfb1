package services

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/iota-uz/payroll-sync/modules/payroll/domain/aggregates/employee"
	"github.com/iota-uz/payroll-sync/modules/payroll/domain/reconciliation"
	"github.com/iota-uz/payroll-sync/modules/payroll/domain/schema"
	"github.com/iota-uz/payroll-sync/pkg/textnorm"
)

// EntityIndex is the pair of lookup maps built once per run from the
// employee snapshot: job number and normalized full name, in that order of
// resolution precedence.
type EntityIndex struct {
	byJobNumber map[string]*employee.Employee
	byName      map[string]*employee.Employee
	names       []string
}

func NewEntityIndex(employees []employee.Employee) *EntityIndex {
	idx := &EntityIndex{
		byJobNumber: make(map[string]*employee.Employee, len(employees)),
		byName:      make(map[string]*employee.Employee, len(employees)),
		names:       make([]string, 0, len(employees)),
	}
	for i := range employees {
		e := &employees[i]
		if jn := strings.TrimSpace(e.JobNumber()); jn != "" {
			idx.byJobNumber[jn] = e
		}
		if name := textnorm.Normalize(e.FullName()); name != "" {
			idx.byName[name] = e
			idx.names = append(idx.names, name)
		}
	}
	return idx
}

func (idx *EntityIndex) ByJobNumber(jobNumber string) (*employee.Employee, bool) {
	e, ok := idx.byJobNumber[strings.TrimSpace(jobNumber)]
	return e, ok
}

func (idx *EntityIndex) HasJobNumber(jobNumber string) bool {
	_, ok := idx.ByJobNumber(jobNumber)
	return ok
}

// NormalizedNames returns the normalized full names in the index, for
// near-miss suggestions.
func (idx *EntityIndex) NormalizedNames() []string {
	return idx.names
}

func (idx *EntityIndex) ByNormalizedName(name string) (*employee.Employee, bool) {
	e, ok := idx.byName[name]
	return e, ok
}

// Resolver matches a resolved payload to an existing employee. Job-number
// matches always win over name matches; a synthesized contract placeholder
// is never used as a resolution key.
type Resolver struct {
	index *EntityIndex
}

func NewResolver(index *EntityIndex) *Resolver {
	return &Resolver{index: index}
}

// Resolve returns the matched employee, or nil with StatusNew. jobNumber
// must be the row's real job-number cell, not a placeholder.
func (r *Resolver) Resolve(jobNumber string, payload schema.Payload) (*employee.Employee, reconciliation.Status) {
	if jn := strings.TrimSpace(jobNumber); jn != "" {
		if e, ok := r.index.ByJobNumber(jn); ok {
			return e, reconciliation.StatusMatched
		}
	}
	if name := textnorm.Normalize(payload.Text(schema.FieldFullName)); name != "" {
		if e, ok := r.index.ByNormalizedName(name); ok {
			return e, reconciliation.StatusMatched
		}
	}
	return nil, reconciliation.StatusNew
}

// placeholderGen issues run-scoped contract placeholders. The sequence is
// deterministic within a run and every issued value is checked against the
// snapshot's real job numbers.
type placeholderGen struct {
	prefix string
	seq    int
	index  *EntityIndex
}

func newPlaceholderGen(runID uuid.UUID, index *EntityIndex) *placeholderGen {
	return &placeholderGen{prefix: runID.String()[:8], index: index}
}

func (g *placeholderGen) Next() string {
	for {
		g.seq++
		candidate := fmt.Sprintf("C-%s-%03d", g.prefix, g.seq)
		if !g.index.HasJobNumber(candidate) {
			return candidate
		}
	}
}
