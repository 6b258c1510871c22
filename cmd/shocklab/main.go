// Command shocklab computes stress-test scenario shocks for a vintage and
// renders the comparison tables and commentary built on them.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"scenario-shock-lab/internal/config"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	configPath  string
	vintage     string
	verbose     bool
	strict      bool
	metricsFile string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "shocklab",
	Short: "Stress-test scenario shock lab",
	Long: `shocklab turns the regulator's published scenario tables into
computed shocks per factor, compares them with prior vintages and the
historical record, and renders tables and commentary.

Run without a subcommand to see the available steps.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}

		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if vintage != "" {
			cfg.Vintage = vintage
		}
		if cmd.Flags().Changed("strict") {
			cfg.Strict = strict
		}
		if metricsFile != "" {
			cfg.Metrics.File = metricsFile
		}

		logger, err = newLogger(cfg.Logging, verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ./config/shocklab.yaml)")
	rootCmd.PersistentFlags().StringVarP(&vintage, "vintage", "y", "", "vintage to process, e.g. 2025 or 2026-proposed")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().BoolVar(&strict, "strict", false, "fail the run on any factor error")
	rootCmd.PersistentFlags().StringVar(&metricsFile, "metrics-file", "", "write prometheus metrics to this file after the run")

	rootCmd.AddCommand(runCmd, migrateCmd, historyCmd, versionCmd)
	for _, c := range stepCommands() {
		rootCmd.AddCommand(c)
	}
}

func newLogger(lc config.LoggingConfig, verbose bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if lc.Encoding == "console" {
		zc = zap.NewDevelopmentConfig()
	}
	if lc.Level != "" {
		level, err := zapcore.ParseLevel(lc.Level)
		if err != nil {
			return nil, err
		}
		zc.Level = zap.NewAtomicLevelAt(level)
	}
	if verbose {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return zc.Build()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
