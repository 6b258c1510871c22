// Package pipeline runs the steps of a vintage: preprocess, derive, select,
// shocks, tables, commentary, summary and timeline.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"scenario-shock-lab/internal/config"
	"scenario-shock-lab/internal/domain"
	"scenario-shock-lab/internal/normalization"
	"scenario-shock-lab/internal/observability"
	"scenario-shock-lab/internal/registry"
	"scenario-shock-lab/internal/reporting"
	"scenario-shock-lab/internal/storage"
)

// Scenario labels the shocks computed from the severely adverse path.
const Scenario = "severely_adverse"

// Options for creating a Pipeline.
type Options struct {
	Paths   config.Paths
	Sources config.SourcesConfig
	Formats []string // report formats, empty means all

	// Optional stores. Shocks and baselines are only written to files without them.
	ShockStore    storage.ShockStore
	BaselineStore storage.BaselineStore

	Metrics *observability.Metrics
	Logger  *zap.Logger
	Strict  bool // any factor error fails the run
}

// Pipeline coordinates the steps of one vintage.
type Pipeline struct {
	paths     config.Paths
	sources   config.SourcesConfig
	shocks    storage.ShockStore
	baselines storage.BaselineStore
	reports   *reporting.Generator
	metrics   *observability.Metrics
	logger    *zap.Logger
	strict    bool
	clock     func() time.Time
	newRunID  func() string
}

// New creates a Pipeline.
func New(opts Options) *Pipeline {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = observability.NewMetrics("")
	}
	clock := func() time.Time { return time.Now().UTC() }

	return &Pipeline{
		paths:     opts.Paths,
		sources:   opts.Sources,
		shocks:    opts.ShockStore,
		baselines: opts.BaselineStore,
		reports: reporting.NewGenerator(opts.Paths, opts.ShockStore, opts.Formats).
			WithLogger(logger.Named("reporting")).
			WithClock(clock),
		metrics:  metrics,
		logger:   logger,
		strict:   opts.Strict,
		clock:    clock,
		newRunID: uuid.NewString,
	}
}

// WithClock sets a custom clock function for deterministic output.
func (p *Pipeline) WithClock(clock func() time.Time) *Pipeline {
	p.clock = clock
	p.reports = p.reports.WithClock(clock)
	return p
}

// WithRunID fixes the run id instead of generating a uuid.
func (p *Pipeline) WithRunID(id string) *Pipeline {
	p.newRunID = func() string { return id }
	return p
}

// stepOutcome is what a step reports back to the run.
type stepOutcome struct {
	detail    string
	errs      []*domain.FactorError
	artifacts []string
	skipped   bool
}

// run holds state shared by the steps of one Run.
type run struct {
	id       string
	registry *registry.Registry
	current  []domain.ComputedShock
	loaded   bool
}

// Run executes the selected steps in canonical order and writes RUN_REPORT.md.
//
// Factor errors are collected into the report and never stop the run. A step
// error stops the run and marks the remaining steps skipped. In strict mode a
// run with factor errors returns ErrFactorErrors.
func (p *Pipeline) Run(ctx context.Context, selection []string) (*reporting.RunReport, error) {
	steps, err := ResolveSteps(selection)
	if err != nil {
		return nil, err
	}

	r := &run{id: p.newRunID()}
	report := &reporting.RunReport{RunID: r.id, Vintage: p.paths.Vintage}
	logger := p.logger.With(zap.String("run_id", r.id), zap.String("vintage", p.paths.Vintage))
	logger.Info("run started", zap.Strings("steps", steps))

	if err := os.MkdirAll(p.paths.ArtifactsDir(), 0o755); err != nil {
		return nil, fmt.Errorf("create artifacts dir: %w", err)
	}

	var runErr error
	for i, name := range steps {
		if err := ctx.Err(); err != nil {
			runErr = err
		}
		if runErr != nil {
			for _, rest := range steps[i:] {
				report.Steps = append(report.Steps, reporting.StepResult{Name: rest, Status: reporting.StepSkipped})
			}
			break
		}

		start := p.clock()
		out, err := p.step(ctx, r, name)
		elapsed := p.clock().Sub(start)

		result := reporting.StepResult{Name: name, Status: reporting.StepOK, Duration: elapsed}
		factorErrs := 0
		if out != nil {
			factorErrs = len(out.errs)
			result.Detail = out.detail
			if out.skipped {
				result.Status = reporting.StepSkipped
			}
			report.FactorErrors = append(report.FactorErrors, out.errs...)
			report.Artifacts = append(report.Artifacts, out.artifacts...)
			p.metrics.RecordFactorErrors(name, len(out.errs))
			for _, a := range out.artifacts {
				p.metrics.RecordReport(strings.TrimPrefix(filepath.Ext(a), "."))
			}
		}
		if err != nil {
			result.Status = reporting.StepFailed
			result.Detail = err.Error()
			runErr = fmt.Errorf("step %s: %w", name, err)
			logger.Error("step failed", zap.String("step", name), zap.Error(err))
		} else {
			logger.Info("step finished",
				zap.String("step", name),
				zap.String("status", string(result.Status)),
				zap.Duration("duration", elapsed),
				zap.Int("factor_errors", factorErrs),
			)
		}
		p.metrics.RecordStep(name, string(result.Status), elapsed)
		report.Steps = append(report.Steps, result)
	}

	report.ShockCount = len(r.current)
	path, err := p.reports.WriteRunReport(report)
	if err != nil {
		return report, errors.Join(runErr, err)
	}
	report.Artifacts = append(report.Artifacts, path)

	if runErr != nil {
		return report, runErr
	}
	if len(report.FactorErrors) > 0 {
		logger.Warn("run completed with factor errors", zap.Int("count", len(report.FactorErrors)))
		if p.strict {
			return report, fmt.Errorf("%w: %d", ErrFactorErrors, len(report.FactorErrors))
		}
	}
	p.metrics.MarkSuccess(p.clock())
	logger.Info("run finished", zap.Int("shocks", report.ShockCount), zap.Int("artifacts", len(report.Artifacts)))
	return report, nil
}

func (p *Pipeline) step(ctx context.Context, r *run, name string) (*stepOutcome, error) {
	switch name {
	case StepPreprocess:
		return &stepOutcome{}, p.runner(nil).Preprocess(ctx)
	case StepDerive:
		return &stepOutcome{}, p.runner(nil).Derive(ctx)
	case StepSelect:
		reg, err := p.registry(r)
		if err != nil {
			return nil, err
		}
		return &stepOutcome{}, p.runner(reg).Select(ctx)
	case StepShocks:
		return p.computeShocks(ctx, r)
	case StepTables:
		return p.buildTables(ctx, r)
	case StepCommentary:
		return p.buildKeyCommentary(r)
	case StepSummary:
		return p.buildSummary(r)
	case StepTimeline:
		return p.buildTimeline()
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownStep, name)
}

func (p *Pipeline) runner(reg *registry.Registry) *normalization.Runner {
	opts := []normalization.Option{normalization.WithLogger(p.logger.Named("normalization"))}
	if p.baselines != nil {
		opts = append(opts, normalization.WithBaselineStore(p.baselines))
	}
	return normalization.NewRunner(p.paths, p.sources, reg, opts...)
}

func (p *Pipeline) registry(r *run) (*registry.Registry, error) {
	if r.registry != nil {
		return r.registry, nil
	}
	reg, err := registry.Load(p.paths.FactorMapping())
	if err != nil {
		return nil, err
	}
	r.registry = reg
	return reg, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
