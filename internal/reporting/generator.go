package reporting

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"scenario-shock-lab/internal/config"
	"scenario-shock-lab/internal/domain"
	"scenario-shock-lab/internal/shock"
	"scenario-shock-lab/internal/storage"
)

// Output formats.
const (
	FormatMarkdown = "md"
	FormatCSV      = "csv"
	FormatXLSX     = "xlsx"
)

// RunReportName is the run summary artifact.
const RunReportName = "RUN_REPORT.md"

// Generator builds the comparison tables of a vintage and writes them out.
type Generator struct {
	paths   config.Paths
	shocks  storage.ShockStore // optional, prior vintages fall back to shock_data.json
	formats []string
	logger  *zap.Logger
	now     func() time.Time
}

// NewGenerator creates a report generator writing into paths.
func NewGenerator(paths config.Paths, shocks storage.ShockStore, formats []string) *Generator {
	if len(formats) == 0 {
		formats = []string{FormatMarkdown, FormatCSV, FormatXLSX}
	}
	return &Generator{
		paths:   paths,
		shocks:  shocks,
		formats: formats,
		logger:  zap.NewNop(),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// WithLogger sets the logger.
func (g *Generator) WithLogger(l *zap.Logger) *Generator {
	g.logger = l
	return g
}

// TablesResult lists what Tables produced.
type TablesResult struct {
	Artifacts    []string
	FactorErrors []*domain.FactorError
}

// Tables builds every table whose config exists for the vintage. Missing
// table configs are skipped; a table that renders with factor errors is still written.
func (g *Generator) Tables(ctx context.Context, current []domain.ComputedShock) (*TablesResult, error) {
	res := &TablesResult{}

	refs, err := g.loadReferences()
	if err != nil {
		return nil, err
	}

	if path := g.paths.TableVsLastYear(); exists(path) {
		spec, err := LoadLastYearSpec(path)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		prior, err := g.PriorShocks(ctx, spec.PriorVintage)
		if err != nil {
			return nil, err
		}
		table, errs := BuildLastYear(spec, current, prior)
		if err := g.emit(res, table.Grid(), table, errs); err != nil {
			return nil, err
		}
	} else {
		g.logger.Info("table config not found, skipping", zap.String("path", path))
	}

	if path := g.paths.TableVsHistory(); exists(path) {
		spec, err := LoadHistorySpec(path)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		table, errs := BuildHistory(spec, refs, current)
		if err := g.emit(res, table.Grid(), table, errs); err != nil {
			return nil, err
		}
	} else {
		g.logger.Info("table config not found, skipping", zap.String("path", path))
	}

	if path := g.paths.TableVsAvgGFC(); exists(path) {
		spec, err := LoadAvgGFCSpec(path)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		table, errs := BuildAvgGFC(spec, refs, current)
		if err := g.emit(res, table.Grid(), table, errs); err != nil {
			return nil, err
		}
	} else {
		g.logger.Info("table config not found, skipping", zap.String("path", path))
	}

	return res, nil
}

func (g *Generator) emit(res *TablesResult, grid *Grid, table any, errs []*domain.FactorError) error {
	for _, e := range errs {
		g.logger.Warn("table factor error",
			zap.String("table", grid.Name),
			zap.String("factor_id", e.FactorID),
			zap.Error(e.Err),
		)
	}
	res.FactorErrors = append(res.FactorErrors, errs...)

	written, err := g.WriteGrid(grid)
	if err != nil {
		return err
	}
	res.Artifacts = append(res.Artifacts, written...)

	jsonPath, err := g.WriteJSON(grid.Name+".json", table)
	if err != nil {
		return err
	}
	res.Artifacts = append(res.Artifacts, jsonPath)
	return nil
}

// PriorShocks loads the shocks of another vintage from the store, then from
// that vintage's shock_data.json.
func (g *Generator) PriorShocks(ctx context.Context, vintage string) ([]domain.ComputedShock, error) {
	if g.shocks != nil {
		stored, err := g.shocks.GetByVintage(ctx, vintage)
		if err != nil {
			return nil, fmt.Errorf("load prior vintage %s: %w", vintage, err)
		}
		if len(stored) > 0 {
			out := make([]domain.ComputedShock, len(stored))
			for i, s := range stored {
				out[i] = *s
			}
			return out, nil
		}
	}

	path := g.paths.PriorShockData(vintage)
	f, err := shock.ReadDataFile(path)
	if errors.Is(err, os.ErrNotExist) {
		g.logger.Warn("no prior shocks", zap.String("vintage", vintage), zap.String("path", path))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load prior vintage %s: %w", vintage, err)
	}
	return f.ComputedShocks(), nil
}

func (g *Generator) loadReferences() (*ReferenceSet, error) {
	path := g.paths.ReferenceShocks()
	if !exists(path) {
		g.logger.Info("no reference shocks", zap.String("path", path))
		return &ReferenceSet{}, nil
	}
	refs, err := LoadReferences(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return refs, nil
}

// WriteGrid writes grid in every configured format and returns the written paths.
func (g *Generator) WriteGrid(grid *Grid) ([]string, error) {
	if err := os.MkdirAll(g.paths.ArtifactsDir(), 0o755); err != nil {
		return nil, fmt.Errorf("create artifacts dir: %w", err)
	}

	var written []string
	for _, format := range g.formats {
		path := g.paths.Artifact(grid.Name + "." + format)
		var err error
		switch format {
		case FormatMarkdown:
			err = os.WriteFile(path, []byte(RenderMarkdown(grid)), 0o644)
		case FormatCSV:
			var text string
			if text, err = RenderCSV(grid); err == nil {
				err = os.WriteFile(path, []byte(text), 0o644)
			}
		case FormatXLSX:
			err = WriteXLSX(grid, path)
		default:
			return written, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
		}
		if err != nil {
			return written, fmt.Errorf("write %s: %w", path, err)
		}
		g.logger.Info("artifact written", zap.String("path", path))
		written = append(written, path)
	}
	return written, nil
}

// WriteJSON writes v as indented JSON into the vintage's current dir.
func (g *Generator) WriteJSON(name string, v any) (string, error) {
	path := filepath.Join(g.paths.CurrentDir(), name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create current dir: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal %s: %w", name, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// WriteMarkdown writes a Markdown document into the artifacts dir.
func (g *Generator) WriteMarkdown(name, text string) (string, error) {
	if err := os.MkdirAll(g.paths.ArtifactsDir(), 0o755); err != nil {
		return "", fmt.Errorf("create artifacts dir: %w", err)
	}
	path := g.paths.Artifact(name)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	g.logger.Info("artifact written", zap.String("path", path))
	return path, nil
}

// WriteRunReport stamps r with the generator clock and writes RUN_REPORT.md.
func (g *Generator) WriteRunReport(r *RunReport) (string, error) {
	if r.GeneratedAt.IsZero() {
		r.GeneratedAt = g.now()
	}
	return g.WriteMarkdown(RunReportName, RenderRunReport(r))
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
