// Package reconciliation holds the classification output of one import run:
// per-row match results with their diff sets, and the commit outcome.
package reconciliation

import (
	"github.com/iota-uz/payroll-sync/modules/payroll/domain/aggregates/employee"
	"github.com/iota-uz/payroll-sync/modules/payroll/domain/schema"
)

type Status string

const (
	StatusMatched Status = "matched"
	StatusNew     Status = "new"
)

// FieldDiff records one field whose persisted and incoming values differ.
// Old and New carry the raw typed values, not their string forms.
type FieldDiff struct {
	FieldID schema.FieldID
	Old     schema.Value
	New     schema.Value
}

// SentinelNewRecord marks the single display diff attached to New rows.
const SentinelNewRecord schema.FieldID = "__new_record__"

// MatchResult is the per-row classification outcome held across the human
// review gate and consumed by the batch executor.
type MatchResult struct {
	RowIndex int
	Status   Status
	// Entity is the matched snapshot; nil for New rows.
	Entity     *employee.Employee
	Payload    schema.Payload
	Diffs      []FieldDiff
	IsContract bool
	// NameSuggestion is a non-binding near-miss hint for the review UI,
	// set only on New rows whose name closely resembles an existing one.
	NameSuggestion string
}

// Set is the classification set plus its summary counts.
type Set struct {
	Results []MatchResult

	Total      int
	Matched    int
	New        int
	Contract   int
	Duplicates int
}

// Prune removes the rows whose index appears in done and recomputes the
// summary counts. Duplicates is an analysis-time count and is left alone.
func (s *Set) Prune(done map[int]bool) {
	if len(done) == 0 {
		return
	}
	kept := s.Results[:0]
	s.Matched, s.New, s.Contract = 0, 0, 0
	for _, r := range s.Results {
		if done[r.RowIndex] {
			continue
		}
		kept = append(kept, r)
		if r.Status == StatusMatched {
			s.Matched++
		} else {
			s.New++
		}
		if r.IsContract {
			s.Contract++
		}
	}
	s.Results = kept
	s.Total = len(kept)
}
