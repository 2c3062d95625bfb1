// Package sheet extracts raw cell rows from uploaded spreadsheet files.
// Only the first worksheet is read; all cells come back as raw strings for
// the coercer to type.
package sheet

import (
	gerrors "github.com/go-faster/errors"
	"github.com/xuri/excelize/v2"

	"github.com/iota-uz/payroll-sync/pkg/serrors"
)

var (
	ErrUnreadable = serrors.NewError("PAYROLL_FILE_UNREADABLE", "spreadsheet file could not be opened", "")
	ErrEmptySheet = serrors.NewError("PAYROLL_EMPTY_SHEET", "spreadsheet contains no rows", "")
)

type Reader struct{}

func NewReader() *Reader {
	return &Reader{}
}

// Rows returns every row of the first worksheet as raw strings.
func (r *Reader) Rows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, gerrors.Wrap(ErrUnreadable.WithMessage("%v", err), "open")
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptySheet
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, gerrors.Wrap(ErrUnreadable.WithMessage("%v", err), "read rows")
	}
	if len(rows) == 0 {
		return nil, ErrEmptySheet
	}
	return rows, nil
}
