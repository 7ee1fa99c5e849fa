package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/github-contribs/internal/chart"
)

func newLeastActiveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "least-active",
		Short: "Charts contribution types for the least active authors",
		Long: `Renders a vertical bar chart of commits, issues and pull requests for the N authors with the fewest contributions.
Records of the --exclude author are removed before counting.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			topN, err := a.topN(cmd)
			if err != nil {
				return err
			}
			out, _ := cmd.Flags().GetString("out")
			format, err := a.chartFormat(cmd, out)
			if err != nil {
				return err
			}

			records, err := a.records(cmd.Context(), cmd)
			if err != nil {
				return fmt.Errorf("failed to read records: %w", err)
			}

			plotter := chart.NewPlotter(records, a.logger)
			fig, err := plotter.LeastActivePlot(topN, a.exclude(cmd))
			if err != nil {
				return fmt.Errorf("failed to plot least active contributors: %w", err)
			}
			return writeFigure(cmd, out, fig, format)
		},
	}
	addChartFlags(cmd)
	cmd.Flags().StringP("exclude", "x", "", "Author whose records are dropped before counting")
	return cmd
}
