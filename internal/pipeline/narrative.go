package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"

	"go.uber.org/zap"

	"scenario-shock-lab/internal/commentary"
	"scenario-shock-lab/internal/domain"
	"scenario-shock-lab/internal/normalization"
)

func (p *Pipeline) buildTables(ctx context.Context, r *run) (*stepOutcome, error) {
	current, err := p.currentShocks(r)
	if err != nil {
		return nil, err
	}
	res, err := p.reports.Tables(ctx, current)
	if err != nil {
		return nil, err
	}
	out := &stepOutcome{errs: res.FactorErrors, artifacts: res.Artifacts}
	if len(res.Artifacts) == 0 {
		out.skipped = true
		out.detail = "no table configs"
	}
	return out, nil
}

func (p *Pipeline) buildKeyCommentary(r *run) (*stepOutcome, error) {
	path := p.paths.KeyCommentary()
	if !fileExists(path) {
		return skipped(path), nil
	}
	spec, err := commentary.LoadKeyCommentarySpec(path)
	if err != nil {
		return nil, err
	}
	values, err := p.values(r)
	if err != nil {
		return nil, err
	}
	md, errs := commentary.BuildKeyCommentary(spec, values)
	return p.writeNarrative(commentary.KeyCommentaryName, md, errs)
}

func (p *Pipeline) buildSummary(r *run) (*stepOutcome, error) {
	path := p.paths.Summary()
	if !fileExists(path) {
		return skipped(path), nil
	}
	spec, err := commentary.LoadSummarySpec(path)
	if err != nil {
		return nil, err
	}
	values, err := p.values(r)
	if err != nil {
		return nil, err
	}
	md, errs := commentary.BuildSummary(spec, values)
	return p.writeNarrative(commentary.SummaryName, md, errs)
}

func (p *Pipeline) buildTimeline() (*stepOutcome, error) {
	path := p.paths.Timeline()
	if !fileExists(path) {
		return skipped(path), nil
	}
	spec, err := commentary.LoadTimelineSpec(path)
	if err != nil {
		return nil, err
	}
	md, err := commentary.BuildTimeline(spec)
	if err != nil {
		return nil, err
	}
	return p.writeNarrative(commentary.TimelineName, md, nil)
}

func (p *Pipeline) writeNarrative(name, md string, errs []*domain.FactorError) (*stepOutcome, error) {
	for _, e := range errs {
		p.logger.Warn("placeholder not resolved", zap.String("artifact", name), zap.Error(e))
	}
	path, err := p.reports.WriteMarkdown(name, md)
	if err != nil {
		return nil, err
	}
	return &stepOutcome{errs: errs, artifacts: []string{path}}, nil
}

// values gathers the current shocks, T0 and the baseline path. T0 and the
// baseline path are optional; placeholders reading them render as N/A.
func (p *Pipeline) values(r *run) (*commentary.Values, error) {
	current, err := p.currentShocks(r)
	if err != nil {
		return nil, err
	}

	var t0 map[string]float64
	snap, err := normalization.ReadSnapshotFile(p.paths.T0())
	switch {
	case err == nil:
		t0 = make(map[string]float64, len(snap.Factors))
		for _, f := range snap.Factors {
			if f.Value != nil {
				t0[f.Name] = *f.Value
			} else {
				t0[f.Name] = math.NaN()
			}
		}
	case !errors.Is(err, os.ErrNotExist):
		return nil, err
	}

	baseline, err := normalization.ReadTableFile(p.paths.PathBaseline())
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		baseline = nil
	}

	// display names resolve when a factor mapping exists
	var resolver commentary.Resolver
	if fileExists(p.paths.FactorMapping()) {
		reg, err := p.registry(r)
		if err != nil {
			return nil, err
		}
		resolver = reg
	}
	return commentary.NewValues(current, t0, baseline, resolver), nil
}

func skipped(path string) *stepOutcome {
	return &stepOutcome{skipped: true, detail: fmt.Sprintf("no config at %s", path)}
}
