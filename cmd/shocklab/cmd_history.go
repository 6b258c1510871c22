package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"scenario-shock-lab/internal/numfmt"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the shock history schema to the configured database",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStores(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		st.Close()
		fmt.Fprintf(cmd.OutOrStdout(), "Schema up to date (%s)\n", cfg.Storage.Driver)
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history [factor]",
	Short: "List stored vintages, or one factor's shocks across vintages",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := openStores(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer st.Close()

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		defer w.Flush()

		if len(args) == 0 {
			vintages, err := st.shocks.Vintages(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(w, "VINTAGE\tRUN")
			for _, v := range vintages {
				runID, err := st.shocks.RunID(ctx, v)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s\t%s\n", v, runID)
			}
			return nil
		}

		shocks, err := st.shocks.GetByFactor(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(w, "VINTAGE\tMETRIC\tVALUE\tPERIOD")
		for _, s := range shocks {
			if s.IsRange() {
				fmt.Fprintf(w, "%s\t%s\t%s .. %s\t%s .. %s\n", s.Vintage, s.Kind(),
					numfmt.MustFormat(s.Low.Value, ".2f"), numfmt.MustFormat(s.High.Value, ".2f"),
					s.Low.Period, s.High.Period)
				continue
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.Vintage, s.Kind(), numfmt.MustFormat(s.Value, ".2f"), s.Extreme.Period)
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the shocklab version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "shocklab %s\n", version)
	},
}
