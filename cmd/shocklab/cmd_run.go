package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"scenario-shock-lab/internal/observability"
	"scenario-shock-lab/internal/pipeline"
	"scenario-shock-lab/internal/reporting"
)

var runCmd = &cobra.Command{
	Use:   "run [steps...]",
	Short: "Run the pipeline, or a subset of its steps",
	Long: `Runs the steps of a vintage in canonical order:
  preprocess, derive, select, shocks, tables, commentary, summary, timeline

A subset keeps canonical order regardless of argument order.

Example:
  shocklab run -y 2026-proposed
  shocklab run shocks tables`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSteps(cmd, args)
	},
}

var stepHelp = map[string]string{
	pipeline.StepPreprocess: "Merge source tables and extract T0",
	pipeline.StepDerive:     "Add derived macro features (GDP level, spreads)",
	pipeline.StepSelect:     "Keep registered factors renamed to canonical ids",
	pipeline.StepShocks:     "Compute shocks from the formula table",
	pipeline.StepTables:     "Build the comparison tables",
	pipeline.StepCommentary: "Render the key factor commentary",
	pipeline.StepSummary:    "Render the summary page",
	pipeline.StepTimeline:   "Render the timeline",
}

// stepCommands returns one subcommand per pipeline step.
func stepCommands() []*cobra.Command {
	cmds := make([]*cobra.Command, 0, len(pipeline.Sequence))
	for _, step := range pipeline.Sequence {
		step := step
		cmds = append(cmds, &cobra.Command{
			Use:   step,
			Short: stepHelp[step],
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runSteps(cmd, []string{step})
			},
		})
	}
	return cmds
}

func runSteps(cmd *cobra.Command, steps []string) error {
	ctx := cmd.Context()

	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	metrics := observability.NewMetrics(cfg.Metrics.Namespace)
	p := pipeline.New(pipeline.Options{
		Paths:         cfg.Paths(),
		Sources:       cfg.Sources,
		Formats:       cfg.Report.Formats,
		ShockStore:    st.shocks,
		BaselineStore: st.baselines,
		Metrics:       metrics,
		Logger:        logger,
		Strict:        cfg.Strict,
	})

	report, runErr := p.Run(ctx, steps)

	if cfg.Metrics.File != "" {
		if err := metrics.WriteTextfile(cfg.Metrics.File); err != nil {
			logger.Warn("metrics not written", zap.Error(err))
		}
	}
	if report != nil {
		printSummary(cmd, report)
	}
	return runErr
}

func printSummary(cmd *cobra.Command, r *reporting.RunReport) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run %s (vintage %s)\n", r.RunID, r.Vintage)
	for _, s := range r.Steps {
		fmt.Fprintf(out, "  %-11s %s\n", s.Name, s.Status)
	}
	if r.ShockCount > 0 {
		fmt.Fprintf(out, "Shocks: %d\n", r.ShockCount)
	}
	if len(r.FactorErrors) > 0 {
		fmt.Fprintf(out, "Factor errors: %d\n", len(r.FactorErrors))
		for _, fe := range r.FactorErrors {
			fmt.Fprintf(out, "  - %s\n", fe.Error())
		}
	}
}
