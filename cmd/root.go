// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/naka-gawa/github-contribs/internal/chart"
	"github.com/naka-gawa/github-contribs/internal/config"
	"github.com/naka-gawa/github-contribs/internal/domain"
	"github.com/naka-gawa/github-contribs/internal/gateway"
)

const inputDateLayout = "2006/01/02"

// app carries the state shared by every subcommand of one invocation.
type app struct {
	cfg    *config.Config
	logger *log.Logger
}

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	a := &app{logger: log.New(io.Discard, "", log.LstdFlags)}

	cmd := &cobra.Command{
		Use:   "github-contribs",
		Short: "A CLI tool to chart per-author GitHub contributions.",
		Long: `github-contribs reads a table of contribution records (author, type, date, repo)
and renders bar charts of commits, issues and pull requests per author.
Records may be given as CSV or JSON, and filtered to a date range.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Default: discard all logs. If verbose, log to standard error.
			if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
				a.logger.SetOutput(cmd.ErrOrStderr())
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			a.cfg = cfg
			return nil
		},
	}

	// Add persistent flags available to all commands.
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	cmd.PersistentFlags().StringP("input", "i", "", "Contribution table, CSV or JSON (\"-\" for stdin)")
	cmd.PersistentFlags().String("input-format", "", "Input format (csv or json); guessed from the extension by default")
	cmd.PersistentFlags().String("from", "", "Only count records on or after this date (YYYY/MM/DD)")
	cmd.PersistentFlags().String("to", "", "Only count records on or before this date (YYYY/MM/DD)")

	cmd.AddCommand(
		newActivityCmd(a),
		newLeastActiveCmd(a),
		newStatsCmd(a),
		newReportCmd(a),
	)
	return cmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed, color.Bold).Fprint(os.Stderr, "Error: ")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// fetcher builds the gateway for the --input, --input-format, --from and --to flags.
func (a *app) fetcher(cmd *cobra.Command) (gateway.Fetcher, error) {
	input, _ := cmd.Flags().GetString("input")
	if input == "" {
		input = a.cfg.Input
	}
	opts := []gateway.Option{gateway.WithStdin(cmd.InOrStdin())}

	if format, _ := cmd.Flags().GetString("input-format"); format != "" {
		opts = append(opts, gateway.WithFormat(gateway.Format(format)))
	}

	fromStr, _ := cmd.Flags().GetString("from")
	toStr, _ := cmd.Flags().GetString("to")
	if fromStr != "" || toStr != "" {
		var from, to time.Time
		var err error
		if fromStr != "" {
			if from, err = time.Parse(inputDateLayout, fromStr); err != nil {
				return nil, fmt.Errorf("invalid --from date format, please use YYYY/MM/DD: %w", err)
			}
		}
		if toStr != "" {
			if to, err = time.Parse(inputDateLayout, toStr); err != nil {
				return nil, fmt.Errorf("invalid --to date format, please use YYYY/MM/DD: %w", err)
			}
		}
		opts = append(opts, gateway.WithDateRange(from, to))
	}

	g, err := gateway.NewFileGateway(input, a.logger, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create input gateway: %w", err)
	}
	return g, nil
}

func (a *app) records(ctx context.Context, cmd *cobra.Command) ([]domain.Record, error) {
	g, err := a.fetcher(cmd)
	if err != nil {
		return nil, err
	}
	return g.FetchRecords(ctx)
}

// topN returns --top, or the configured default when the flag was not given.
func (a *app) topN(cmd *cobra.Command) (int, error) {
	if !cmd.Flags().Changed("top") {
		return a.cfg.TopN, nil
	}
	n, _ := cmd.Flags().GetInt("top")
	if n <= 0 {
		return 0, fmt.Errorf("--top must be a positive integer, got %d", n)
	}
	return n, nil
}

func (a *app) exclude(cmd *cobra.Command) string {
	if cmd.Flags().Changed("exclude") {
		v, _ := cmd.Flags().GetString("exclude")
		return v
	}
	return a.cfg.Exclude
}

// writeFigure renders fig to stdout for an empty path or "-", and to a new file
// otherwise. The file is removed again if rendering fails.
func writeFigure(cmd *cobra.Command, path string, fig *chart.Figure, format chart.Format) error {
	if path == "" || path == "-" {
		return fig.WriteTo(cmd.OutOrStdout(), format)
	}
	return writeFile(path, func(f *os.File) error {
		return fig.WriteTo(f, format)
	})
}

// writeFile creates path and fills it with fn, removing it again on failure.
func writeFile(path string, fn func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := fn(f); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}
