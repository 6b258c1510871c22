package normalization

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"scenario-shock-lab/internal/storage"
)

// Preprocess reads the historic, baseline and severely adverse source tables,
// writes t0_source.json and the merged path_*_source.csv files.
func (r *Runner) Preprocess(ctx context.Context) error {
	var historic, baseline, adverse []Source

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		historic, err = readSources(gctx, r.paths.SourceFiles(r.sources.Historic))
		return err
	})
	g.Go(func() (err error) {
		baseline, err = readSources(gctx, r.paths.SourceFiles(r.sources.Baseline))
		return err
	})
	g.Go(func() (err error) {
		adverse, err = readSources(gctx, r.paths.SourceFiles(r.sources.SeverelyAdverse))
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	t0, err := ExtractT0(historic...)
	if err != nil {
		return fmt.Errorf("extract t0: %w", err)
	}
	saPath, err := MergePaths(adverse...)
	if err != nil {
		return fmt.Errorf("merge severely adverse path: %w", err)
	}
	basePath, err := MergePaths(baseline...)
	if err != nil {
		return fmt.Errorf("merge baseline path: %w", err)
	}

	if err := os.MkdirAll(r.paths.IntermediateDir(), 0o755); err != nil {
		return fmt.Errorf("create intermediate dir: %w", err)
	}
	if err := WriteSnapshotFile(r.paths.T0Source(), t0); err != nil {
		return err
	}
	if err := WriteTableFile(r.paths.PathSASource(), saPath); err != nil {
		return err
	}
	if err := WriteTableFile(r.paths.PathBaselineSource(), basePath); err != nil {
		return err
	}

	r.logger.Info("preprocessed source tables",
		zap.String("t0", t0.Date.String()),
		zap.Int("t0_factors", len(t0.Factors)),
		zap.Int("sa_periods", saPath.Len()),
		zap.Int("baseline_periods", basePath.Len()),
	)
	return nil
}

// Derive adds derived columns to both source paths and to t0_source.json in place.
func (r *Runner) Derive(ctx context.Context) error {
	for _, path := range []string{r.paths.PathSASource(), r.paths.PathBaselineSource()} {
		if err := ctx.Err(); err != nil {
			return err
		}
		t, err := ReadTableFile(path)
		if err != nil {
			return err
		}
		if err := DeriveFeatures(t); err != nil {
			return fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		if err := WriteTableFile(path, t); err != nil {
			return err
		}
	}

	t0, err := ReadSnapshotFile(r.paths.T0Source())
	if err != nil {
		return err
	}
	DeriveSnapshot(t0)
	if err := WriteSnapshotFile(r.paths.T0Source(), t0); err != nil {
		return err
	}

	r.logger.Info("derived macro features",
		zap.Strings("columns", []string{RealGDPLevel, BBBSpread, MortgageSpread}))
	return nil
}

// Select filters paths and T0 to registered factors renamed to canonical ids,
// then stores T0 as the vintage baselines.
func (r *Runner) Select(ctx context.Context) error {
	if r.registry == nil {
		return errors.New("select: no factor registry")
	}

	pairs := [][2]string{
		{r.paths.PathSASource(), r.paths.PathSA()},
		{r.paths.PathBaselineSource(), r.paths.PathBaseline()},
	}
	for _, p := range pairs {
		t, err := ReadTableFile(p[0])
		if err != nil {
			return err
		}
		selected, err := Select(t, r.registry)
		if err != nil {
			return fmt.Errorf("%s: %w", filepath.Base(p[0]), err)
		}
		if err := WriteTableFile(p[1], selected); err != nil {
			return err
		}
	}

	t0, err := ReadSnapshotFile(r.paths.T0Source())
	if err != nil {
		return err
	}
	selected, err := SelectSnapshot(t0, r.registry)
	if err != nil {
		return err
	}
	if err := WriteSnapshotFile(r.paths.T0(), selected); err != nil {
		return err
	}

	if r.baselines != nil {
		err := r.baselines.InsertBulk(ctx, Baselines(selected, r.paths.Vintage))
		switch {
		case errors.Is(err, storage.ErrDuplicateKey):
			r.logger.Warn("baselines already stored for vintage", zap.String("vintage", r.paths.Vintage))
		case err != nil:
			return fmt.Errorf("store baselines: %w", err)
		}
	}

	r.logger.Info("selected registered factors",
		zap.Int("factors", len(selected.Factors)),
		zap.String("t0", selected.Date.String()),
	)
	return nil
}

// readSources reads files concurrently, keeping their order.
func readSources(ctx context.Context, paths []string) ([]Source, error) {
	out := make([]Source, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			t, err := ReadTableFile(path)
			if err != nil {
				return err
			}
			out[i] = Source{Name: filepath.Base(path), Table: t}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
