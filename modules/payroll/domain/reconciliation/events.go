package reconciliation

import "github.com/google/uuid"

type AnalysisCompletedEvent struct {
	RunID  uuid.UUID
	Result *Set
}

type ExecutionCompletedEvent struct {
	RunID   uuid.UUID
	Outcome *Outcome
}
