package reconciliation

// RowOutcome is the terminal result of committing one classified row.
type RowOutcome struct {
	RowIndex  int
	Succeeded bool
	Err       error
}

// Outcome aggregates the commit phase. Partial success is a valid terminal
// state: failed rows are counted, never retried.
type Outcome struct {
	Updates int
	Inserts int
	Failed  int

	Rows []RowOutcome
}

func (o *Outcome) Succeeded() int { return o.Updates + o.Inserts }

// SucceededRows returns the indexes of the rows that committed.
func (o *Outcome) SucceededRows() map[int]bool {
	out := make(map[int]bool, o.Succeeded())
	for _, r := range o.Rows {
		if r.Succeeded {
			out[r.RowIndex] = true
		}
	}
	return out
}
