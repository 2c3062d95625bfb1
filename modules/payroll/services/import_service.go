package services

import (
	"context"
	"sync"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/payroll-sync/modules/payroll/domain/aggregates/employee"
	"github.com/iota-uz/payroll-sync/modules/payroll/domain/identity"
	"github.com/iota-uz/payroll-sync/modules/payroll/domain/reconciliation"
	"github.com/iota-uz/payroll-sync/modules/payroll/domain/schema"
	"github.com/iota-uz/payroll-sync/pkg/eventbus"
)

// Stage is the import wizard's position. Analysis failures fall back to
// Idle; a fatal execution error falls back to Preview so the reviewed set
// is not lost.
type Stage string

const (
	StageIdle      Stage = "idle"
	StageAnalyzing Stage = "analyzing"
	StagePreview   Stage = "preview"
	StageExecuting Stage = "executing"
	StageDone      Stage = "done"
)

// ImportService drives one monthly reconciliation run: analyze raw sheet
// rows into a reviewable classification set, then commit the reviewed set.
// One run at a time; the service serializes itself.
type ImportService struct {
	repo      employee.Repository
	executor  *BatchExecutor
	publisher eventbus.EventBus
	log       logrus.FieldLogger

	mu         sync.Mutex
	stage      Stage
	runID      uuid.UUID
	classifier *Classifier
	set        *reconciliation.Set
}

func NewImportService(
	repo employee.Repository,
	provisioner identity.Provisioner,
	publisher eventbus.EventBus,
	log logrus.FieldLogger,
) *ImportService {
	dict := schema.DefaultDictionary()
	return &ImportService{
		repo:       repo,
		executor:   NewBatchExecutor(repo, provisioner, log),
		publisher:  publisher,
		log:        log,
		stage:      StageIdle,
		classifier: NewClassifier(dict, log),
	}
}

func (s *ImportService) Stage() Stage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stage
}

// Set returns the classification set held for review, nil outside Preview.
func (s *ImportService) Set() *reconciliation.Set {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set
}

// Analyze ingests raw sheet rows and produces the classification set for
// human review. On any structural or fetch failure the wizard returns to
// Idle with nothing retained.
func (s *ImportService) Analyze(ctx context.Context, rows [][]string) (*reconciliation.Set, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stage == StageAnalyzing || s.stage == StageExecuting {
		return nil, ErrInvalidStage.WithMessage("cannot analyze while %s", s.stage)
	}
	s.stage = StageAnalyzing
	s.runID = uuid.New()
	s.set = nil
	m := getMetrics()
	m.runsTotal.WithLabelValues(string(StageAnalyzing)).Inc()

	employees, err := s.repo.GetAll(ctx)
	if err != nil {
		s.stage = StageIdle
		return nil, gerrors.Wrap(ErrEntityFetch.WithMessage("%v", err), "analyze")
	}

	set, err := s.classifier.Classify(s.runID, rows, employees)
	if err != nil {
		s.stage = StageIdle
		return nil, err
	}

	s.set = set
	s.stage = StagePreview
	m.runsTotal.WithLabelValues(string(StagePreview)).Inc()
	s.log.WithFields(logrus.Fields{
		"run_id":     s.runID,
		"total":      set.Total,
		"matched":    set.Matched,
		"new":        set.New,
		"contract":   set.Contract,
		"duplicates": set.Duplicates,
	}).Info("analysis complete, awaiting review")

	s.publisher.Publish(&reconciliation.AnalysisCompletedEvent{RunID: s.runID, Result: set})
	return set, nil
}

// Execute commits the reviewed set. The set is consumed: on success the
// wizard is Done; on a fatal executor error it falls back to Preview with
// the uncommitted remainder of the set retained for another attempt.
func (s *ImportService) Execute(ctx context.Context) (*reconciliation.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stage != StagePreview || s.set == nil {
		return nil, ErrInvalidStage.WithMessage("cannot execute while %s", s.stage)
	}
	s.stage = StageExecuting
	m := getMetrics()
	m.runsTotal.WithLabelValues(string(StageExecuting)).Inc()

	outcome, err := s.executor.Execute(ctx, s.set)
	if err != nil {
		// Rows that already committed are dropped from the retained set so
		// a retry from Preview does not commit them twice.
		s.set.Prune(outcome.SucceededRows())
		s.stage = StagePreview
		return outcome, gerrors.Wrap(err, "execute")
	}

	s.set = nil
	s.stage = StageDone
	m.runsTotal.WithLabelValues(string(StageDone)).Inc()
	s.log.WithFields(logrus.Fields{
		"run_id":    s.runID,
		"succeeded": outcome.Succeeded(),
		"updates":   outcome.Updates,
		"inserts":   outcome.Inserts,
		"failed":    outcome.Failed,
	}).Info("execution complete")

	s.publisher.Publish(&reconciliation.ExecutionCompletedEvent{RunID: s.runID, Outcome: outcome})
	return outcome, nil
}

// Reset returns the wizard to Idle, discarding any held set.
func (s *ImportService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stage = StageIdle
	s.set = nil
}
