package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/nvandessel/voter/internal/output"
	"github.com/nvandessel/voter/internal/samples"
	"github.com/nvandessel/voter/internal/simulation"
	"github.com/nvandessel/voter/internal/timer"
	"github.com/spf13/cobra"
)

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <OrderParameter.dat>",
		Short: "Recompute statistics from a saved order parameter series",
		Long: `Read a "<sweep> <value>" series written by a previous run and print its
mean, naive error and autocorrelation function.

By default the autocorrelation treats the series as cyclic, matching the
AutoCorrelation.dat written by 'voter run'. --truncated uses only the pairs
that fit inside the series.

Examples:
  voter analyze runs/a/OrderParameter.dat
  voter analyze --max-lag 50 --truncated runs/a/OrderParameter.dat`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			maxLag, _ := cmd.Flags().GetInt("max-lag")
			truncated, _ := cmd.Flags().GetBool("truncated")
			jsonOut, _ := cmd.Flags().GetBool("json")
			if maxLag < 0 {
				return fmt.Errorf("max-lag must be non-negative, got %d", maxLag)
			}

			clock := timer.Start()
			series, err := readSeries(args[0])
			if err != nil {
				return err
			}

			a := analyzeSeries(series, min(maxLag, series.Len()), truncated)
			a.summary.Elapsed = clock.Elapsed()

			out := cmd.OutOrStdout()
			if jsonOut {
				return json.NewEncoder(out).Encode(a.report())
			}
			if err := output.WriteResults(out, a.summary); err != nil {
				return err
			}
			if a.acErr != nil {
				fmt.Fprintf(out, "\nAuto-Correlation: undefined (%v)\n", a.acErr)
				return nil
			}
			if len(a.autoCorrelation) > 0 {
				fmt.Fprintln(out)
				fmt.Fprintln(out, "Auto-Correlation...")
				return output.WriteAutoCorrelation(out, a.autoCorrelation)
			}
			return nil
		},
	}

	cmd.Flags().Int("max-lag", 100, "Number of autocorrelation lags to report")
	cmd.Flags().Bool("truncated", false, "Use the non-cyclic autocorrelation estimator")

	return cmd
}

func readSeries(path string) (*samples.Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open series: %w", err)
	}
	defer f.Close()

	series := samples.New(0)
	if _, err := series.ReadFrom(f); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return series, nil
}

type analysis struct {
	summary         output.Summary
	autoCorrelation []float64
	acErr           error
}

func analyzeSeries(series *samples.Series, lags int, truncated bool) analysis {
	var a analysis
	a.summary.Sweeps = series.Len()
	if n := series.Len(); n > 0 {
		a.summary.FinalOrder, _ = series.At(n - 1)
	}
	if m, err := series.Mean(); err == nil {
		a.summary.Mean = m
		a.summary.MeanAbs = series.Apply(simulation.MeanAbsOrder)
	}
	if e, err := series.Error(); err == nil {
		a.summary.Error = e
		a.summary.ErrorDefined = true
	}

	if truncated {
		for t := 0; t < lags; t++ {
			c, err := series.TruncatedAutoCorrelation(t)
			if err != nil {
				a.autoCorrelation, a.acErr = nil, err
				return a
			}
			a.autoCorrelation = append(a.autoCorrelation, c)
		}
		return a
	}
	a.autoCorrelation, a.acErr = series.AutoCorrelationRange(0, lags)
	return a
}

func (a analysis) report() map[string]interface{} {
	report := map[string]interface{}{
		"samples":         a.summary.Sweeps,
		"final_order":     a.summary.FinalOrder,
		"mean":            a.summary.Mean,
		"mean_abs":        a.summary.MeanAbs,
		"error":           nil,
		"autocorrelation": a.autoCorrelation,
	}
	if a.summary.ErrorDefined {
		report["error"] = a.summary.Error
	}
	if a.acErr != nil {
		report["autocorrelation_error"] = a.acErr.Error()
	}
	return report
}
