package services

import (
	"strings"

	"github.com/google/uuid"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/payroll-sync/modules/payroll/domain/aggregates/employee"
	"github.com/iota-uz/payroll-sync/modules/payroll/domain/reconciliation"
	"github.com/iota-uz/payroll-sync/modules/payroll/domain/schema"
	"github.com/iota-uz/payroll-sync/pkg/textnorm"
)

// maxSuggestDistance bounds how far a near-miss name hint may be from an
// existing name before it is withheld.
const maxSuggestDistance = 3

// Classifier composes column mapping, value coercion, identity resolution
// and diffing into the per-row classification pass. The pass is pure with
// respect to the employee snapshot; nothing is written.
type Classifier struct {
	dict    *schema.Dictionary
	mapper  *ColumnMapper
	coercer *Coercer
	diff    *DiffEngine
	log     logrus.FieldLogger
}

func NewClassifier(dict *schema.Dictionary, log logrus.FieldLogger) *Classifier {
	return &Classifier{
		dict:    dict,
		mapper:  NewColumnMapper(dict),
		coercer: NewCoercer(dict),
		diff:    NewDiffEngine(dict),
		log:     log,
	}
}

// Classify runs the full analysis pass over raw sheet rows against the
// employee snapshot. Structural failures (no header, no mappable columns)
// abort; everything past that is per-row.
func (c *Classifier) Classify(runID uuid.UUID, rows [][]string, employees []employee.Employee) (*reconciliation.Set, error) {
	headerIdx, err := c.mapper.DetectHeaderRow(rows)
	if err != nil {
		return nil, err
	}
	mapping, err := c.mapper.MapColumns(rows[headerIdx])
	if err != nil {
		return nil, err
	}

	index := NewEntityIndex(employees)
	resolver := NewResolver(index)
	placeholders := newPlaceholderGen(runID, index)
	claimed := make(map[uuid.UUID]int)
	m := getMetrics()

	set := &reconciliation.Set{}
	for i := headerIdx + 1; i < len(rows); i++ {
		payload := c.coercer.ResolvePayload(rows[i], mapping)

		name := payload.Text(schema.FieldFullName)
		if name == "" {
			// A name is mandatory; nameless rows are dropped entirely.
			c.log.WithField("row", i).Debug("dropping row without a name")
			continue
		}

		rawJobNumber := payload.Text(schema.FieldJobNumber)
		isContract := isBlankJobNumber(rawJobNumber)
		if isContract {
			// Assign the placeholder before diffing so the field has a
			// defined value; it is never used as a resolution key.
			payload[schema.FieldJobNumber] = schema.TextValue(placeholders.Next())
			rawJobNumber = ""
		}

		entity, status := resolver.Resolve(rawJobNumber, payload)

		result := reconciliation.MatchResult{
			RowIndex:   i,
			Status:     status,
			Payload:    payload,
			IsContract: isContract,
		}

		if status == reconciliation.StatusMatched {
			if prevRow, dup := claimed[entity.EntityID()]; dup {
				set.Duplicates++
				c.log.WithFields(logrus.Fields{
					"row":       i,
					"first_row": prevRow,
					"entity_id": entity.EntityID(),
				}).Warn("row resolves to an already-claimed employee, skipping")
				continue
			}
			claimed[entity.EntityID()] = i

			result.Entity = entity
			result.Diffs = c.diff.Diff(*entity, payload)
			set.Matched++
			m.rowsClassified.WithLabelValues(string(reconciliation.StatusMatched)).Inc()
		} else {
			result.Diffs = []reconciliation.FieldDiff{{
				FieldID: reconciliation.SentinelNewRecord,
				Old:     schema.AbsentText(),
				New:     schema.TextValue("new record"),
			}}
			result.NameSuggestion = c.suggestName(index, name)
			set.New++
			m.rowsClassified.WithLabelValues(string(reconciliation.StatusNew)).Inc()
		}

		if isContract {
			set.Contract++
		}
		set.Results = append(set.Results, result)
	}

	set.Total = len(set.Results)
	if set.Total == 0 && set.Duplicates == 0 {
		c.log.Warn("classification produced no rows")
	}
	return set, nil
}

// suggestName returns the closest existing full name within the distance
// bound, empty when nothing is close enough.
func (c *Classifier) suggestName(index *EntityIndex, name string) string {
	normalized := textnorm.Normalize(name)
	best := ""
	bestDistance := maxSuggestDistance + 1
	for _, candidate := range index.NormalizedNames() {
		if d := fuzzy.LevenshteinDistance(normalized, candidate); d < bestDistance {
			best = candidate
			bestDistance = d
		}
	}
	if best == "" {
		return ""
	}
	if e, ok := index.ByNormalizedName(best); ok {
		return e.FullName()
	}
	return ""
}

// isBlankJobNumber treats empty and zero-valued cells as "no job number",
// which flags the row as a contract employee.
func isBlankJobNumber(raw string) bool {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return true
	}
	for _, r := range trimmed {
		if r != '0' {
			return false
		}
	}
	return true
}
