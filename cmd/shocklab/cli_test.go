package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"scenario-shock-lab/internal/config"
	"scenario-shock-lab/internal/pipeline"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	return &config.Config{
		Vintage: "2025",
		Root:    root,
		Sources: config.SourcesConfig{
			Historic:        []string{"{vintage}-Table_1A.csv"},
			Baseline:        []string{"{vintage}-Table_2A.csv"},
			SeverelyAdverse: []string{"{vintage}-Table_3A.csv"},
		},
		Storage: config.StorageConfig{Driver: config.DriverMemory},
		Metrics: config.MetricsConfig{Namespace: "shocklab", File: filepath.Join(root, "shocklab.prom")},
		Report:  config.ReportConfig{Formats: []string{"md"}},
	}
}

func testCommand() (*cobra.Command, *bytes.Buffer) {
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetContext(context.Background())
	return cmd, &out
}

func TestStepCommands(t *testing.T) {
	cmds := stepCommands()
	require.Len(t, cmds, len(pipeline.Sequence))
	for i, c := range cmds {
		assert.Equal(t, pipeline.Sequence[i], c.Name())
		assert.NotEmpty(t, c.Short, "step %s has no help", c.Name())
	}
}

func TestNewLogger(t *testing.T) {
	l, err := newLogger(config.LoggingConfig{Level: "warn", Encoding: "json"}, false)
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))

	l, err = newLogger(config.LoggingConfig{Level: "warn"}, true)
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))

	_, err = newLogger(config.LoggingConfig{Level: "loud"}, false)
	assert.Error(t, err)
}

func TestOpenStores_Memory(t *testing.T) {
	st, err := openStores(context.Background(), testConfig(t), zap.NewNop())
	require.NoError(t, err)
	defer st.Close()

	assert.NotNil(t, st.shocks)
	assert.NotNil(t, st.baselines)
}

func TestRunSteps_UnknownStep(t *testing.T) {
	cfg = testConfig(t)
	logger = zap.NewNop()
	cmd, _ := testCommand()

	err := runSteps(cmd, []string{"bogus"})
	assert.ErrorIs(t, err, pipeline.ErrUnknownStep)
}

func TestRunSteps_FailureWritesSummaryAndMetrics(t *testing.T) {
	cfg = testConfig(t)
	logger = zap.NewNop()
	cmd, out := testCommand()

	err := runSteps(cmd, []string{pipeline.StepPreprocess})
	require.Error(t, err, "source tables are missing")

	assert.Contains(t, out.String(), "vintage 2025")
	assert.Regexp(t, `preprocess\s+failed`, out.String())

	data, err := os.ReadFile(cfg.Metrics.File)
	require.NoError(t, err)
	assert.Contains(t, string(data), "shocklab_step_runs_total")

	_, err = os.Stat(filepath.Join(cfg.Paths().ArtifactsDir(), "RUN_REPORT.md"))
	assert.NoError(t, err)
}

func TestHistory_EmptyStore(t *testing.T) {
	cfg = testConfig(t)
	logger = zap.NewNop()
	cmd, out := testCommand()

	require.NoError(t, historyCmd.RunE(cmd, nil))
	assert.True(t, strings.HasPrefix(out.String(), "VINTAGE"))

	out.Reset()
	require.NoError(t, historyCmd.RunE(cmd, []string{"real_gdp"}))
	assert.Contains(t, out.String(), "METRIC")
}

func TestVersion(t *testing.T) {
	cmd, out := testCommand()
	versionCmd.Run(cmd, nil)
	assert.Equal(t, "shocklab dev\n", out.String())
}
