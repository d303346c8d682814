// Package analysis is the application service around the batch evaluator:
// it assigns analysis identifiers, delegates to the analyzer and optionally
// persists completed analyses.
package analysis

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/compound-analyzer/internal/analyzer"
	"github.com/turtacn/compound-analyzer/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/compound-analyzer/pkg/errors"
	"github.com/turtacn/compound-analyzer/pkg/types/compound"
)

// Store persists completed analyses.  A nil store disables persistence;
// GetAnalysis then reports every id as unknown.
type Store interface {
	Save(ctx context.Context, a *compound.Analysis) error
	GetByID(ctx context.Context, id string) (*compound.Analysis, error)
	ListRecent(ctx context.Context, limit int) ([]compound.Analysis, error)
	Delete(ctx context.Context, id string) error
}

// Service orchestrates analyses.
type Service struct {
	analyzer *analyzer.Analyzer
	store    Store
	opts     analyzer.Options
	logger   logging.Logger
	now      func() time.Time
	newID    func() string
}

// ServiceOption customizes a Service.
type ServiceOption func(*Service)

// WithStore enables persistence of completed analyses.
func WithStore(store Store) ServiceOption {
	return func(s *Service) { s.store = store }
}

// WithLogger replaces the default logger.
func WithLogger(l logging.Logger) ServiceOption {
	return func(s *Service) { s.logger = l }
}

// WithClock replaces the timestamp source, for tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

// NewService builds a Service.  opts configures every evaluation the
// service runs.
func NewService(a *analyzer.Analyzer, opts analyzer.Options, sopts ...ServiceOption) *Service {
	s := &Service{
		analyzer: a,
		opts:     opts,
		logger:   logging.Default().Named("analysis-service"),
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range sopts {
		opt(s)
	}
	return s
}

// Analyze evaluates the batch and returns the completed analysis.  When a
// store is attached, persistence failures are logged but do not fail the
// request; the evaluation result is already in hand.
func (s *Service) Analyze(ctx context.Context, inputs []compound.Input) (*compound.Analysis, error) {
	results, err := s.analyzer.Evaluate(ctx, inputs, s.opts)
	if err != nil {
		return nil, err
	}

	a := &compound.Analysis{
		ID:          s.newID(),
		SubmittedAt: s.now().UTC(),
		Count:       len(results),
		Results:     results,
	}
	if s.store != nil {
		if err := s.store.Save(ctx, a); err != nil {
			s.logger.Error("failed to persist analysis",
				logging.String("analysis_id", a.ID),
				logging.Err(err),
			)
		}
	}
	return a, nil
}

// AnalyzeLists is the list-pair variant used by the CLI and the HTTP API's
// separate-lists request shape.
func (s *Service) AnalyzeLists(ctx context.Context, smiles, ids []string) (*compound.Analysis, error) {
	inputs, err := pairInputs(smiles, ids)
	if err != nil {
		return nil, err
	}
	return s.Analyze(ctx, inputs)
}

// GetAnalysis loads a persisted analysis by id.
func (s *Service) GetAnalysis(ctx context.Context, id string) (*compound.Analysis, error) {
	if s.store == nil {
		return nil, errors.New(errors.CodeAnalysisNotFound, "analysis not found").WithDetail(id)
	}
	return s.store.GetByID(ctx, id)
}

// DeleteAnalysis removes a persisted analysis by id.
func (s *Service) DeleteAnalysis(ctx context.Context, id string) error {
	if s.store == nil {
		return errors.New(errors.CodeAnalysisNotFound, "analysis not found").WithDetail(id)
	}
	return s.store.Delete(ctx, id)
}

// ListAnalyses returns recent persisted analyses without result payloads.
func (s *Service) ListAnalyses(ctx context.Context, limit int) ([]compound.Analysis, error) {
	if s.store == nil {
		return []compound.Analysis{}, nil
	}
	return s.store.ListRecent(ctx, limit)
}

func pairInputs(smiles, ids []string) ([]compound.Input, error) {
	if len(ids) != 0 && len(ids) != len(smiles) {
		return nil, errors.BatchConfig("identifier count does not match compound count")
	}
	inputs := make([]compound.Input, len(smiles))
	for i, s := range smiles {
		inputs[i].SMILES = s
		if len(ids) != 0 {
			inputs[i].ID = ids[i]
		}
	}
	return inputs, nil
}
