package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/nvandessel/voter/internal/config"
	"github.com/nvandessel/voter/internal/logging"
	"github.com/nvandessel/voter/internal/output"
	"github.com/nvandessel/voter/internal/randsrc"
	"github.com/nvandessel/voter/internal/simulation"
	"github.com/nvandessel/voter/internal/store"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a voter model simulation",
		Long: `Run a voter model simulation and write its files to an output directory.

The directory receives Lattice.dat, OrderParameter.dat, Input.txt,
Results.txt and AutoCorrelation.dat. Without --output a directory named
after the current time is created in the working directory.

Ctrl+C stops the run after the current sweep; the samples recorded so far
are still summarised.

Examples:
  voter run -r 100 -c 100 -s 5000
  voter run -i 0.5 -n 20 --seed 42 -o runs/stubborn
  voter run -a --db ~/.voter/runs.db`,
		Args: cobra.NoArgs,
		RunE: runSimulation,
	}

	cmd.Flags().IntP("row-count", "r", 0, "Number of lattice rows")
	cmd.Flags().IntP("column-count", "c", 0, "Number of lattice columns")
	cmd.Flags().Float64P("initial-order", "i", 0, "Initial order parameter in [-1, 1]")
	cmd.Flags().IntP("sweeps", "s", 0, "Number of sweeps")
	cmd.Flags().IntP("stubborn-number", "n", 0, "Number of stubborn voters")
	cmd.Flags().StringP("output", "o", "", "Output directory (default: timestamp)")
	cmd.Flags().BoolP("animate", "a", false, "Rewrite Lattice.dat after every sweep")
	cmd.Flags().Uint64("seed", 0, "Random seed (0 draws a fresh one)")
	cmd.Flags().Int("max-lag", 0, "Number of autocorrelation lags to report")
	cmd.Flags().String("db", "", "Record the run in this SQLite run index")

	return cmd
}

// applyRunFlags copies every flag the user set onto cfg.
func applyRunFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("row-count") {
		cfg.Lattice.Rows, _ = flags.GetInt("row-count")
	}
	if flags.Changed("column-count") {
		cfg.Lattice.Cols, _ = flags.GetInt("column-count")
	}
	if flags.Changed("initial-order") {
		cfg.Lattice.InitialOrder, _ = flags.GetFloat64("initial-order")
	}
	if flags.Changed("sweeps") {
		cfg.Run.Sweeps, _ = flags.GetInt("sweeps")
	}
	if flags.Changed("stubborn-number") {
		cfg.Lattice.Stubborn, _ = flags.GetInt("stubborn-number")
	}
	if flags.Changed("output") {
		cfg.Output.Directory, _ = flags.GetString("output")
	}
	if flags.Changed("animate") {
		cfg.Run.Animate, _ = flags.GetBool("animate")
	}
	if flags.Changed("seed") {
		cfg.Run.Seed, _ = flags.GetUint64("seed")
	}
	if flags.Changed("max-lag") {
		cfg.Run.MaxLag, _ = flags.GetInt("max-lag")
	}
	if flags.Changed("db") {
		cfg.Store.Path, _ = flags.GetString("db")
		cfg.Store.Enabled = true
	}
}

// runReport is the JSON form of a finished run.
type runReport struct {
	RunID           string    `json:"run_id,omitempty"`
	Directory       string    `json:"directory"`
	Seed            uint64    `json:"seed"`
	SweepsCompleted int       `json:"sweeps_completed"`
	FinalOrder      float64   `json:"final_order"`
	Mean            float64   `json:"mean"`
	MeanAbs         float64   `json:"mean_abs"`
	Error           *float64  `json:"error"`
	AutoCorrelation []float64 `json:"autocorrelation"`
	ElapsedSeconds  float64   `json:"elapsed_seconds"`
	Interrupted     bool      `json:"interrupted"`
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	applyRunFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.Run.Seed == 0 {
		cfg.Run.Seed = randsrc.Entropy()
	}

	jsonOut, _ := cmd.Flags().GetBool("json")
	logger := logging.NewLogger(cfg.Logging.Level, cmd.ErrOrStderr())

	var sinks simulation.Sinks
	if cfg.Store.Enabled {
		path, err := store.ResolvePath(cfg.Store.Path)
		if err != nil {
			return err
		}
		st, err := store.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open run index: %w", err)
		}
		defer st.Close()
		sinks.Store = st
		logger.Debug("recording run", "store", path)
	}

	runner, err := simulation.NewRunner(cfg, randsrc.New(cfg.Run.Seed), sinks, logger)
	if err != nil {
		return err
	}

	// The run directory is created only once nothing else can fail to start.
	dir := output.ResolveDirectory(cfg.Output.Directory, time.Now())
	files, err := output.Open(dir)
	if err != nil {
		return err
	}
	defer files.Close()

	tracer := logging.NewTracer(dir, cfg.Logging.Level)
	defer tracer.Close()

	sinks.Files = files
	sinks.Tracer = tracer
	runner.SetSinks(sinks)

	out := cmd.OutOrStdout()
	if !jsonOut {
		if err := output.WriteParameters(out, cfg, dir, cfg.Run.Seed); err != nil {
			return err
		}
		fmt.Fprintln(out)
	}

	ctx, stop := watchSignals(cmd.Context())
	defer stop()

	result, err := runner.Run(ctx)
	if err != nil {
		return err
	}
	if err := files.Close(); err != nil {
		return err
	}

	if jsonOut {
		return json.NewEncoder(out).Encode(newRunReport(dir, result))
	}
	return printRunResult(out, result)
}

func newRunReport(dir string, result simulation.Result) runReport {
	report := runReport{
		RunID:           result.RunID,
		Directory:       dir,
		Seed:            result.Seed,
		SweepsCompleted: result.SweepsCompleted,
		FinalOrder:      result.FinalOrder,
		Mean:            result.Mean,
		MeanAbs:         result.MeanAbs,
		AutoCorrelation: result.AutoCorrelation,
		ElapsedSeconds:  result.Elapsed.Seconds(),
		Interrupted:     result.Interrupted,
	}
	if result.ErrorDefined {
		e := result.Error
		report.Error = &e
	}
	return report
}

func printRunResult(w io.Writer, result simulation.Result) error {
	if result.Interrupted {
		fmt.Fprintf(w, "Interrupted after %d sweeps\n\n", result.SweepsCompleted)
	}
	return output.WriteResults(w, result.Summary())
}
