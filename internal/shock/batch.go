package shock

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"scenario-shock-lab/internal/domain"
)

// FactorResolver maps raw column names to canonical factors.
type FactorResolver interface {
	Resolve(raw string) (domain.Factor, error)
}

// MetricSource returns the metric definitions of a factor.
type MetricSource interface {
	MetricsFor(factorID string) ([]domain.MetricDefinition, error)
	Factors() []string
}

// Request is one vintage's evaluation input.
type Request struct {
	Vintage   string
	Scenario  string
	Path      *domain.Table              // scenario path; columns named by raw name, id or display name
	Baselines map[string]domain.Baseline // T0 per canonical factor id
	Factors   []string                   // factors to evaluate; empty means every path column plus every configured factor
}

// Result holds every computed shock and every per-factor failure of a request.
type Result struct {
	Shocks []domain.ComputedShock
	Errors []*domain.FactorError
}

// Err joins all factor errors, or returns nil.
func (r *Result) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	errs := make([]error, len(r.Errors))
	for i, e := range r.Errors {
		errs[i] = e
	}
	return errors.Join(errs...)
}

// ShocksFor returns the shocks of one factor in metric declaration order.
func (r *Result) ShocksFor(factorID string) []domain.ComputedShock {
	var out []domain.ComputedShock
	for _, s := range r.Shocks {
		if s.FactorID == factorID {
			out = append(out, s)
		}
	}
	return out
}

func (r *Result) fail(factorID, metric string, err error) {
	r.Errors = append(r.Errors, &domain.FactorError{FactorID: factorID, Metric: metric, Err: err})
}

// Evaluator runs the formula table over a scenario path.
type Evaluator struct {
	registry FactorResolver
	formulas MetricSource
	logger   *zap.Logger
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Evaluator) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEvaluator creates an evaluator over an immutable registry and formula table.
func NewEvaluator(registry FactorResolver, formulas MetricSource, opts ...Option) *Evaluator {
	e := &Evaluator{
		registry: registry,
		formulas: formulas,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// EvaluateAll evaluates every (factor, metric) pair of the request.
// Each requested pair yields either a shock or a FactorError; failures never abort other factors.
func (e *Evaluator) EvaluateAll(req Request) *Result {
	res := &Result{}

	columns, order, ambiguous := e.resolveColumns(req, res)

	requested := e.requestedFactors(req, order, res)
	for _, factorID := range requested {
		if ambiguous[factorID] {
			// already reported as ErrDuplicateSeries
			continue
		}
		defs, err := e.formulas.MetricsFor(factorID)
		if err != nil {
			res.fail(factorID, "", err)
			continue
		}

		var series domain.Series
		column, hasColumn := columns[factorID]
		if hasColumn && req.Path != nil {
			series, err = req.Path.Series(column, factorID, req.Scenario, req.Vintage)
			if err != nil {
				res.fail(factorID, "", err)
				continue
			}
		} else {
			series = domain.Series{FactorID: factorID, Scenario: req.Scenario, Vintage: req.Vintage}
		}

		baseline, hasBaseline := req.Baselines[factorID]
		for _, def := range defs {
			if !hasColumn {
				res.fail(factorID, def.Kind(), fmt.Errorf("%w: no column in scenario path", ErrEmptySeries))
				continue
			}
			if def.Formula.NeedsBaseline() && !hasBaseline {
				res.fail(factorID, def.Kind(), fmt.Errorf("%w: vintage %s", ErrMissingBaseline, req.Vintage))
				continue
			}
			s, err := Evaluate(series, baseline, def)
			if err != nil {
				res.fail(factorID, def.Kind(), err)
				continue
			}
			s.Vintage = req.Vintage
			res.Shocks = append(res.Shocks, s)
		}
	}

	e.logger.Debug("evaluated scenario path",
		zap.String("vintage", req.Vintage),
		zap.Int("factors", len(requested)),
		zap.Int("shocks", len(res.Shocks)),
		zap.Int("errors", len(res.Errors)),
	)
	return res
}

// resolveColumns maps factor ids to path columns, recording unknown and duplicate columns.
// A factor fed by more than one column is ambiguous and gets no series at all.
func (e *Evaluator) resolveColumns(req Request, res *Result) (map[string]string, []string, map[string]bool) {
	columns := make(map[string]string)
	ambiguous := make(map[string]bool)
	var order []string
	if req.Path == nil {
		return columns, order, ambiguous
	}

	for _, col := range req.Path.Columns() {
		f, err := e.registry.Resolve(col)
		if err != nil {
			res.fail(col, "", err)
			continue
		}
		if prev, dup := columns[f.ID]; dup {
			res.fail(f.ID, "", fmt.Errorf("%w: %q and %q", ErrDuplicateSeries, prev, col))
			ambiguous[f.ID] = true
			continue
		}
		columns[f.ID] = col
		order = append(order, f.ID)
	}

	kept := order[:0]
	for _, id := range order {
		if ambiguous[id] {
			delete(columns, id)
			continue
		}
		kept = append(kept, id)
	}
	return columns, kept, ambiguous
}

func (e *Evaluator) requestedFactors(req Request, fromPath []string, res *Result) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(id string) {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}

	if len(req.Factors) > 0 {
		for _, ref := range req.Factors {
			f, err := e.registry.Resolve(ref)
			if err != nil {
				res.fail(ref, "", err)
				continue
			}
			add(f.ID)
		}
		return out
	}

	for _, id := range fromPath {
		add(id)
	}
	for _, id := range e.formulas.Factors() {
		add(id)
	}
	return out
}
