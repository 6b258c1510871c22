// Package normalization turns regulator source tables into the canonical
// scenario paths and T0 snapshot consumed by the shock evaluator.
package normalization

import (
	"context"

	"go.uber.org/zap"

	"scenario-shock-lab/internal/config"
	"scenario-shock-lab/internal/registry"
	"scenario-shock-lab/internal/storage"
)

// Engine defines the preprocessing steps of a vintage.
type Engine interface {
	// Preprocess extracts T0 and merges regional tables into one path per scenario.
	Preprocess(ctx context.Context) error
	// Derive adds derived factor columns to the paths and T0.
	Derive(ctx context.Context) error
	// Select keeps registered factors under their canonical ids and stores the baselines.
	Select(ctx context.Context) error
}

// Runner implements Engine over the per-vintage file layout.
type Runner struct {
	paths     config.Paths
	sources   config.SourcesConfig
	registry  *registry.Registry
	baselines storage.BaselineStore
	logger    *zap.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the runner logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// WithBaselineStore persists selected T0 values during Select.
func WithBaselineStore(s storage.BaselineStore) Option {
	return func(r *Runner) { r.baselines = s }
}

// NewRunner creates a new normalization runner.
func NewRunner(paths config.Paths, sources config.SourcesConfig, reg *registry.Registry, opts ...Option) *Runner {
	r := &Runner{
		paths:    paths,
		sources:  sources,
		registry: reg,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var _ Engine = (*Runner)(nil)
