package services

import (
	"strings"

	"github.com/iota-uz/payroll-sync/modules/payroll/domain/schema"
	"github.com/iota-uz/payroll-sync/pkg/textnorm"
)

// headerScanWindow bounds how deep into the sheet the header row may sit.
const headerScanWindow = 10

// ColumnMapping maps a column position to the canonical field its header
// resolved to. Unrecognized headers are simply not present.
type ColumnMapping map[int]schema.Field

func (m ColumnMapping) HasField(id schema.FieldID) bool {
	for _, f := range m {
		if f.ID == id {
			return true
		}
	}
	return false
}

// ColumnMapper detects the header row of an externally authored sheet and
// maps its headers onto the canonical dictionary.
type ColumnMapper struct {
	dict *schema.Dictionary
}

func NewColumnMapper(dict *schema.Dictionary) *ColumnMapper {
	return &ColumnMapper{dict: dict}
}

// DetectHeaderRow scans at most the first ten rows for one containing a
// recognized anchor header and returns its index.
func (m *ColumnMapper) DetectHeaderRow(rows [][]string) (int, error) {
	limit := len(rows)
	if limit > headerScanWindow {
		limit = headerScanWindow
	}
	for i := 0; i < limit; i++ {
		for _, cell := range rows[i] {
			if m.isAnchor(cell) {
				return i, nil
			}
		}
	}
	return 0, ErrHeaderNotFound
}

func (m *ColumnMapper) isAnchor(cell string) bool {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" {
		return false
	}
	normalized := textnorm.Normalize(trimmed)
	for _, anchor := range m.dict.AnchorHeaders() {
		if trimmed == anchor || normalized == textnorm.Normalize(anchor) {
			return true
		}
	}
	return false
}

// MapColumns resolves each header cell against the dictionary. Unmapped
// headers are ignored; an entirely unmappable header row is an error.
func (m *ColumnMapper) MapColumns(headerRow []string) (ColumnMapping, error) {
	mapping := make(ColumnMapping)
	for col, header := range headerRow {
		if strings.TrimSpace(header) == "" {
			continue
		}
		if field, ok := m.dict.Lookup(header); ok {
			mapping[col] = field
		}
	}
	if len(mapping) == 0 {
		return nil, ErrNoMappedColumns
	}
	return mapping, nil
}
