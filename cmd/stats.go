package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/github-contribs/internal/usecase"
)

func newStatsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Aggregates contributions per author and outputs as JSON",
		Long:  `Counts commits, issues and pull requests per author, optionally truncated to the most or least active authors, and outputs the table with a summary in JSON format.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			order, _ := cmd.Flags().GetString("order")
			parsed, err := usecase.ParseOrder(order)
			if err != nil {
				return err
			}
			opts := usecase.Options{Exclude: a.exclude(cmd), Order: parsed}
			if cmd.Flags().Changed("top") {
				n, err := a.topN(cmd)
				if err != nil {
					return err
				}
				opts.Limit = n
			}

			// Inject dependencies and run the main business logic.
			fetcher, err := a.fetcher(cmd)
			if err != nil {
				return err
			}
			aggregator := usecase.NewAggregator(fetcher, a.logger)
			result, err := aggregator.Aggregate(cmd.Context(), opts)
			if err != nil {
				return fmt.Errorf("failed to aggregate stats: %w", err)
			}

			// Marshal the results into a pretty-printed JSON string.
			jsonData, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal results to JSON: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(jsonData))
			return nil
		},
	}
	cmd.Flags().IntP("top", "n", 0, "Keep only this many authors (default: all)")
	cmd.Flags().StringP("exclude", "x", "", "Author whose records are dropped before counting")
	cmd.Flags().String("order", string(usecase.OrderDesc), "Which authors --top keeps: desc (most active) or asc (least active)")
	return cmd
}
