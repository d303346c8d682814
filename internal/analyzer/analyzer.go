// Package analyzer implements the batch descriptor evaluator: it fans a
// list of SMILES inputs over the chemistry toolkit, applies the rule set to
// each computed descriptor block, and assembles the results in input order.
package analyzer

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/turtacn/compound-analyzer/internal/chem"
	domain "github.com/turtacn/compound-analyzer/internal/domain/compound"
	"github.com/turtacn/compound-analyzer/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/compound-analyzer/pkg/errors"
	"github.com/turtacn/compound-analyzer/pkg/types/compound"
)

const (
	// DefaultWorkers is the worker count used when none is configured.
	DefaultWorkers = 4

	// DefaultParallelThreshold is the batch size above which the evaluator
	// switches from sequential to parallel execution.
	DefaultParallelThreshold = 1000
)

// invalidSMILESViolation is the violation string recorded for inputs the
// toolkit cannot parse.
const invalidSMILESViolation = "invalid SMILES"

// DescriptorCache is an optional read-through cache keyed by SMILES string.
// A nil cache disables caching.  Errors inside an implementation must be
// absorbed and surfaced as a miss; the evaluator treats the cache as purely
// best-effort.
type DescriptorCache interface {
	Get(ctx context.Context, smiles string) (compound.Descriptors, bool)
	Set(ctx context.Context, smiles string, d compound.Descriptors)
}

// Metrics receives evaluation counters.  A nil Metrics disables reporting.
type Metrics interface {
	ObserveBatch(size int, duration time.Duration)
	AddInvalid(n int)
	AddViolations(n int)
	CacheHit()
	CacheMiss()
}

// Options configures a single evaluation run.  Zero values select defaults.
type Options struct {
	// Workers is the parallel worker count.  Defaults to DefaultWorkers;
	// the effective count never exceeds the batch size.
	Workers int

	// ParallelThreshold is the batch size that must be exceeded before the
	// parallel path is taken.  Defaults to DefaultParallelThreshold.
	ParallelThreshold int

	// MaxBatchSize rejects oversized batches before any computation.
	// Zero means unlimited.
	MaxBatchSize int
}

func (o Options) normalize() (Options, error) {
	if o.Workers < 0 {
		return o, errors.BatchConfig(fmt.Sprintf("worker count must be positive, got %d", o.Workers))
	}
	if o.ParallelThreshold < 0 {
		return o, errors.BatchConfig(fmt.Sprintf("parallel threshold must be positive, got %d", o.ParallelThreshold))
	}
	if o.MaxBatchSize < 0 {
		return o, errors.BatchConfig(fmt.Sprintf("max batch size must not be negative, got %d", o.MaxBatchSize))
	}
	if o.Workers == 0 {
		o.Workers = DefaultWorkers
	}
	if o.ParallelThreshold == 0 {
		o.ParallelThreshold = DefaultParallelThreshold
	}
	return o, nil
}

// Analyzer evaluates batches of compounds against a rule set.
type Analyzer struct {
	toolkit chem.Toolkit
	rules   domain.RuleSet
	cache   DescriptorCache
	metrics Metrics
	logger  logging.Logger
}

// Option customizes an Analyzer at construction time.
type Option func(*Analyzer)

// WithCache attaches a descriptor cache.
func WithCache(c DescriptorCache) Option {
	return func(a *Analyzer) { a.cache = c }
}

// WithMetrics attaches a metrics sink.
func WithMetrics(m Metrics) Option {
	return func(a *Analyzer) { a.metrics = m }
}

// WithLogger replaces the default logger.
func WithLogger(l logging.Logger) Option {
	return func(a *Analyzer) { a.logger = l }
}

// WithRules replaces the default rule set.
func WithRules(rs domain.RuleSet) Option {
	return func(a *Analyzer) { a.rules = rs }
}

// New builds an Analyzer around the given toolkit with the default rule set.
func New(toolkit chem.Toolkit, opts ...Option) *Analyzer {
	a := &Analyzer{
		toolkit: toolkit,
		rules:   domain.DefaultRuleSet(),
		logger:  logging.Default().Named("analyzer"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// EvaluateLists is the list-pair entry point: parallel slices of SMILES
// strings and optional identifiers.  A nil or empty ids slice auto-assigns
// identifiers; a non-empty slice whose length differs from the SMILES list
// is a batch configuration error.
func (a *Analyzer) EvaluateLists(ctx context.Context, smiles, ids []string, opts Options) ([]compound.Result, error) {
	if len(ids) != 0 && len(ids) != len(smiles) {
		return nil, errors.BatchConfig(fmt.Sprintf(
			"identifier count %d does not match compound count %d", len(ids), len(smiles)))
	}
	inputs := make([]compound.Input, len(smiles))
	for i, s := range smiles {
		inputs[i].SMILES = s
		if len(ids) != 0 {
			inputs[i].ID = ids[i]
		}
	}
	return a.Evaluate(ctx, inputs, opts)
}

// Evaluate runs the batch.  Configuration problems fail fast before any
// compound is touched; per-compound failures are recorded in that compound's
// row and never abort the batch.  Results are returned in input order, and
// the parallel path produces results identical to the sequential path.
func (a *Analyzer) Evaluate(ctx context.Context, inputs []compound.Input, opts Options) ([]compound.Result, error) {
	opts, err := opts.normalize()
	if err != nil {
		return nil, err
	}
	if opts.MaxBatchSize > 0 && len(inputs) > opts.MaxBatchSize {
		return nil, errors.BatchConfig(fmt.Sprintf(
			"batch size %d exceeds limit %d", len(inputs), opts.MaxBatchSize))
	}
	if len(inputs) == 0 {
		return []compound.Result{}, nil
	}

	start := time.Now()
	results := make([]compound.Result, len(inputs))

	workers := opts.Workers
	if workers > len(inputs) {
		workers = len(inputs)
	}
	if cores := runtime.NumCPU(); workers > cores {
		workers = cores
	}

	parallel := len(inputs) > opts.ParallelThreshold && workers > 1
	a.logger.Debug("starting batch evaluation",
		logging.Int("compounds", len(inputs)),
		logging.Int("workers", workers),
		logging.Bool("parallel", parallel),
	)

	if parallel {
		a.evaluateParallel(ctx, inputs, results, workers)
	} else {
		for i := range inputs {
			results[i] = a.evaluateOne(ctx, i, inputs[i])
		}
	}

	invalid, violations := 0, 0
	for i := range results {
		if !results[i].IsValid {
			invalid++
		}
		violations += len(results[i].RuleViolations)
	}
	if a.metrics != nil {
		a.metrics.ObserveBatch(len(inputs), time.Since(start))
		a.metrics.AddInvalid(invalid)
		a.metrics.AddViolations(violations)
	}
	a.logger.Info("batch evaluation finished",
		logging.Int("compounds", len(inputs)),
		logging.Int("invalid", invalid),
		logging.Duration("elapsed", time.Since(start)),
	)
	return results, nil
}

// evaluateParallel partitions the input into contiguous chunks, one per
// worker.  Every worker writes only to its own index range of the shared
// results slice, so reassembly is implicit and ordering is preserved.
func (a *Analyzer) evaluateParallel(ctx context.Context, inputs []compound.Input, results []compound.Result, workers int) {
	chunk := (len(inputs) + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo := w * chunk
		if lo >= len(inputs) {
			break
		}
		hi := lo + chunk
		if hi > len(inputs) {
			hi = len(inputs)
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				results[i] = a.evaluateOne(ctx, i, inputs[i])
			}
		}(lo, hi)
	}
	wg.Wait()
}

// evaluateOne computes a single result row.  Panics from the toolkit are
// recovered here and converted into a processing-error row so one bad
// compound cannot take down the batch.
func (a *Analyzer) evaluateOne(ctx context.Context, index int, in compound.Input) (res compound.Result) {
	res.CompoundID = in.ID
	if res.CompoundID == "" {
		res.CompoundID = fmt.Sprintf("CPND%06d", index+1)
	}
	res.SMILES = in.SMILES

	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("recovered panic during compound evaluation",
				logging.String("compound_id", res.CompoundID),
				logging.Any("panic", r),
			)
			res.IsValid = false
			res.IsCompliant = false
			res.MolecularWeight = nil
			res.LogP = nil
			res.RuleViolations = []string{fmt.Sprintf("processing error: %v", r)}
		}
	}()

	d, err := a.descriptors(ctx, in.SMILES)
	if err != nil {
		res.IsValid = false
		res.IsCompliant = false
		if errors.IsCode(err, errors.CodeInvalidSMILES) {
			res.RuleViolations = []string{invalidSMILESViolation}
		} else {
			a.logger.Warn("descriptor computation failed",
				logging.String("compound_id", res.CompoundID),
				logging.Err(err),
			)
			res.RuleViolations = []string{fmt.Sprintf("processing error: %s", errors.GetMessage(err))}
		}
		return res
	}

	res.IsValid = true
	mw, logP := d.MolecularWeight, d.LogP
	res.MolecularWeight = &mw
	res.LogP = &logP
	res.RuleViolations = a.rules.Evaluate(d)
	res.IsCompliant = len(res.RuleViolations) == 0
	return res
}

func (a *Analyzer) descriptors(ctx context.Context, smiles string) (compound.Descriptors, error) {
	if a.cache != nil {
		if d, ok := a.cache.Get(ctx, smiles); ok {
			if a.metrics != nil {
				a.metrics.CacheHit()
			}
			return d, nil
		}
		if a.metrics != nil {
			a.metrics.CacheMiss()
		}
	}
	d, err := a.toolkit.Descriptors(smiles)
	if err != nil {
		return compound.Descriptors{}, err
	}
	if a.cache != nil {
		a.cache.Set(ctx, smiles, d)
	}
	return d, nil
}
