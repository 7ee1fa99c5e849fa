package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/github-contribs/internal/chart"
)

func newActivityCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Charts contribution types for the most active authors",
		Long:  `Renders a horizontal bar chart of commits, issues and pull requests for the N authors with the most contributions.`,
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

			// --out is only created once the figure is built.
			plotter := chart.NewPlotter(records, a.logger)
			fig, err := plotter.ContributorActivityPlot(topN)
			if err != nil {
				return fmt.Errorf("failed to plot contributor activity: %w", err)
			}
			return writeFigure(cmd, out, fig, format)
		},
	}
	addChartFlags(cmd)
	return cmd
}

func addChartFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("top", "n", chart.DefaultTopN, "Number of authors to show")
	cmd.Flags().StringP("out", "o", "", "Output file (defaults to stdout)")
	cmd.Flags().StringP("format", "f", "", "Chart format: svg, png or pdf (guessed from --out by default)")
}

// chartFormat resolves --format, then the --out extension, then the configured default.
func (a *app) chartFormat(cmd *cobra.Command, out string) (chart.Format, error) {
	if f, _ := cmd.Flags().GetString("format"); f != "" {
		return chart.ParseFormat(f)
	}
	if out != "" && out != "-" && filepath.Ext(out) != "" {
		return chart.FormatFromPath(out)
	}
	return chart.ParseFormat(a.cfg.Format)
}
