package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/naka-gawa/github-contribs/internal/chart"
	"github.com/naka-gawa/github-contribs/internal/gateway"
	"github.com/naka-gawa/github-contribs/internal/usecase"
)

const (
	activityFile    = "activity"
	leastActiveFile = "least-active"
	statsFile       = "stats.json"
)

func newReportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Writes both charts and the stats JSON into a directory",
		Long:  `Renders the contributor activity chart, the least active contributors chart and stats.json into --dir.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			topN, err := a.topN(cmd)
			if err != nil {
				return err
			}
			dir, _ := cmd.Flags().GetString("dir")
			if dir == "" {
				dir = a.cfg.OutDir
			}
			format, err := a.chartFormat(cmd, "")
			if err != nil {
				return err
			}
			exclude := a.exclude(cmd)

			records, err := a.records(cmd.Context(), cmd)
			if err != nil {
				return fmt.Errorf("failed to read records: %w", err)
			}

			// Both figures are built before anything is written.
			plotter := chart.NewPlotter(records, a.logger)
			activity, err := plotter.ContributorActivityPlot(topN)
			if err != nil {
				return fmt.Errorf("failed to plot contributor activity: %w", err)
			}
			leastActive, err := plotter.LeastActivePlot(topN, exclude)
			if err != nil {
				return fmt.Errorf("failed to plot least active contributors: %w", err)
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
			ext := "." + string(format)

			// Use an errgroup to write all outputs concurrently.
			eg, egCtx := errgroup.WithContext(cmd.Context())

			eg.Go(func() error {
				return writeFigure(cmd, filepath.Join(dir, activityFile+ext), activity, format)
			})

			eg.Go(func() error {
				return writeFigure(cmd, filepath.Join(dir, leastActiveFile+ext), leastActive, format)
			})

			eg.Go(func() error {
				return writeStats(egCtx, filepath.Join(dir, statsFile), a, records, exclude)
			})

			if err := eg.Wait(); err != nil {
				return err
			}
			a.logger.Printf("Report written to %s", dir)
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
	cmd.Flags().IntP("top", "n", chart.DefaultTopN, "Number of authors to show in each chart")
	cmd.Flags().StringP("dir", "d", "", "Output directory")
	cmd.Flags().StringP("format", "f", "", "Chart format: svg, png or pdf")
	cmd.Flags().StringP("exclude", "x", "", "Author left out of the least active chart and the stats")
	return cmd
}

func writeStats(ctx context.Context, path string, a *app, records gateway.MemoryGateway, exclude string) error {
	aggregator := usecase.NewAggregator(records, a.logger)
	result, err := aggregator.Aggregate(ctx, usecase.Options{Exclude: exclude})
	if err != nil {
		return fmt.Errorf("failed to aggregate stats: %w", err)
	}
	jsonData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results to JSON: %w", err)
	}
	return writeFile(path, func(f *os.File) error {
		_, err := f.Write(append(jsonData, '\n'))
		return err
	})
}
