package pipeline

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"scenario-shock-lab/internal/domain"
	"scenario-shock-lab/internal/formula"
	"scenario-shock-lab/internal/idhash"
	"scenario-shock-lab/internal/normalization"
	"scenario-shock-lab/internal/shock"
	"scenario-shock-lab/internal/storage"
)

// computeShocks evaluates the formula table over path_SA.csv against t0.json,
// writes shock_data.json and stores the shocks stamped with the run id.
func (p *Pipeline) computeShocks(ctx context.Context, r *run) (*stepOutcome, error) {
	reg, err := p.registry(r)
	if err != nil {
		return nil, err
	}
	formulas, err := formula.Load(p.paths.ShockConfig(), reg)
	if err != nil {
		return nil, err
	}
	path, err := normalization.ReadTableFile(p.paths.PathSA())
	if err != nil {
		return nil, err
	}
	t0, err := normalization.ReadSnapshotFile(p.paths.T0())
	if err != nil {
		return nil, err
	}

	baselines := make(map[string]domain.Baseline)
	for _, b := range normalization.Baselines(t0, p.paths.Vintage) {
		baselines[b.FactorID] = *b
	}

	evaluator := shock.NewEvaluator(reg, formulas, shock.WithLogger(p.logger.Named("shock")))
	res := evaluator.EvaluateAll(shock.Request{
		Vintage:   p.paths.Vintage,
		Scenario:  Scenario,
		Path:      path,
		Baselines: baselines,
	})
	for _, e := range res.Errors {
		p.logger.Warn("shock not computed",
			zap.String("factor_id", e.FactorID),
			zap.String("metric", e.Metric),
			zap.Error(e.Err),
		)
	}

	file := shock.NewDataFile(p.paths.Vintage, Scenario, r.id, res.Shocks)
	file.InputsDigest, err = idhash.InputsDigest(p.paths.PathSA(), p.paths.T0(), p.paths.ShockConfig())
	if err != nil {
		return nil, err
	}
	if last, err := shock.ReadDataFile(p.paths.ShockData()); err == nil && last.InputsDigest == file.InputsDigest {
		p.logger.Info("inputs unchanged since last run", zap.String("last_run_id", last.RunID))
	}
	if err := shock.WriteDataFile(p.paths.ShockData(), file); err != nil {
		return nil, err
	}
	for _, s := range res.Shocks {
		p.metrics.RecordShock(string(s.Formula))
	}

	if p.shocks != nil && len(res.Shocks) > 0 {
		batch := make([]*domain.ComputedShock, len(res.Shocks))
		for i := range res.Shocks {
			batch[i] = &res.Shocks[i]
		}
		err := p.shocks.InsertBulk(ctx, r.id, batch)
		switch {
		case errors.Is(err, storage.ErrDuplicateKey):
			p.logger.Warn("shocks already stored for vintage, keeping stored run",
				zap.String("vintage", p.paths.Vintage))
		case err != nil:
			return nil, fmt.Errorf("store shocks: %w", err)
		}
	}

	r.current, r.loaded = res.Shocks, true
	return &stepOutcome{
		detail:    fmt.Sprintf("%d shocks, %d factor errors", len(res.Shocks), len(res.Errors)),
		errs:      res.Errors,
		artifacts: []string{p.paths.ShockData()},
	}, nil
}

// currentShocks returns the shocks of this run, or of the last run's shock_data.json.
func (p *Pipeline) currentShocks(r *run) ([]domain.ComputedShock, error) {
	if r.loaded {
		return r.current, nil
	}
	f, err := shock.ReadDataFile(p.paths.ShockData())
	if err != nil {
		return nil, fmt.Errorf("load current shocks (run the shocks step first): %w", err)
	}
	r.current, r.loaded = f.ComputedShocks(), true
	return r.current, nil
}
