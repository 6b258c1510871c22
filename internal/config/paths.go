package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Paths resolves the on-disk layout of one vintage.
//
//	data/<vintage>/{source,intermediate,current,history}
//	config/<vintage>/{table_config,md_config}
//	config/{factor_mapping,shock_config}.yaml
//	artifacts/<vintage>/
type Paths struct {
	Root    string
	Vintage string
}

// NewPaths creates a resolver rooted at root.
func NewPaths(root, vintage string) Paths {
	if root == "" {
		root = "."
	}
	return Paths{Root: root, Vintage: vintage}
}

func (p Paths) DataDir() string         { return filepath.Join(p.Root, "data", p.Vintage) }
func (p Paths) SourceDir() string       { return filepath.Join(p.DataDir(), "source") }
func (p Paths) IntermediateDir() string { return filepath.Join(p.DataDir(), "intermediate") }
func (p Paths) CurrentDir() string      { return filepath.Join(p.DataDir(), "current") }
func (p Paths) HistoryDir() string      { return filepath.Join(p.DataDir(), "history") }
func (p Paths) ConfigDir() string       { return filepath.Join(p.Root, "config", p.Vintage) }
func (p Paths) TableConfigDir() string  { return filepath.Join(p.ConfigDir(), "table_config") }
func (p Paths) MDConfigDir() string     { return filepath.Join(p.ConfigDir(), "md_config") }
func (p Paths) SharedConfigDir() string { return filepath.Join(p.Root, "config") }
func (p Paths) ArtifactsDir() string    { return filepath.Join(p.Root, "artifacts", p.Vintage) }

// Intermediate files.
func (p Paths) PathSASource() string { return filepath.Join(p.IntermediateDir(), "path_SA_source.csv") }
func (p Paths) PathBaselineSource() string {
	return filepath.Join(p.IntermediateDir(), "path_baseline_source.csv")
}
func (p Paths) T0Source() string     { return filepath.Join(p.IntermediateDir(), "t0_source.json") }
func (p Paths) PathSA() string       { return filepath.Join(p.IntermediateDir(), "path_SA.csv") }
func (p Paths) PathBaseline() string { return filepath.Join(p.IntermediateDir(), "path_baseline.csv") }
func (p Paths) T0() string           { return filepath.Join(p.IntermediateDir(), "t0.json") }
func (p Paths) ShockData() string    { return filepath.Join(p.IntermediateDir(), "shock_data.json") }

// Declarative documents. Each accepts .yaml, .yml or .json.
func (p Paths) FactorMapping() string   { return resolveDoc(p.SharedConfigDir(), "factor_mapping") }
func (p Paths) ShockConfig() string     { return resolveDoc(p.SharedConfigDir(), "shock_config") }
func (p Paths) TableVsLastYear() string { return resolveDoc(p.TableConfigDir(), "table_vs_lastyear") }
func (p Paths) TableVsHistory() string  { return resolveDoc(p.TableConfigDir(), "table_vs_history") }
func (p Paths) TableVsAvgGFC() string   { return resolveDoc(p.TableConfigDir(), "table_vs_avg_gfc") }
func (p Paths) KeyCommentary() string   { return resolveDoc(p.MDConfigDir(), "key_commentary") }
func (p Paths) Summary() string         { return resolveDoc(p.MDConfigDir(), "summary") }
func (p Paths) Timeline() string        { return resolveDoc(p.MDConfigDir(), "timeline") }
func (p Paths) ReferenceShocks() string { return resolveDoc(p.HistoryDir(), "reference_shocks") }

// Artifact returns the path of an output file in the artifacts dir.
func (p Paths) Artifact(name string) string {
	return filepath.Join(p.ArtifactsDir(), name)
}

// PriorShockData returns the shock_data.json of another vintage.
func (p Paths) PriorShockData(vintage string) string {
	return NewPaths(p.Root, vintage).ShockData()
}

// SourceFiles expands {vintage} in names and joins them onto the source dir.
func (p Paths) SourceFiles(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = filepath.Join(p.SourceDir(), strings.ReplaceAll(n, "{vintage}", p.Vintage))
	}
	return out
}

// EnsureDirs creates every directory of the layout.
func (p Paths) EnsureDirs() error {
	for _, d := range []string{
		p.SourceDir(),
		p.IntermediateDir(),
		p.CurrentDir(),
		p.HistoryDir(),
		p.TableConfigDir(),
		p.MDConfigDir(),
		p.ArtifactsDir(),
	} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", d, err)
		}
	}
	return nil
}

func resolveDoc(dir, base string) string {
	for _, ext := range []string{".yaml", ".yml", ".json"} {
		candidate := filepath.Join(dir, base+ext)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return filepath.Join(dir, base+".yaml")
}
