package simulation

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"

	"github.com/nvandessel/voter/internal/config"
	"github.com/nvandessel/voter/internal/lattice"
	"github.com/nvandessel/voter/internal/logging"
	"github.com/nvandessel/voter/internal/output"
	"github.com/nvandessel/voter/internal/randsrc"
	"github.com/nvandessel/voter/internal/samples"
	"github.com/nvandessel/voter/internal/store"
	"github.com/nvandessel/voter/internal/timer"
)

// Sinks are the destinations a run reports to. Any of them may be nil.
type Sinks struct {
	Files  *output.RunDir
	Tracer *logging.Tracer
	Store  store.RunStore
}

// Runner owns one lattice, its random source and the series of order
// parameters it produces.
type Runner struct {
	cfg     *config.Config
	src     randsrc.Source
	sinks   Sinks
	logger  *slog.Logger
	lattice *lattice.Lattice
	series  *samples.Series
}

// NewRunner validates cfg and builds the initial lattice from src.
// cfg.Run.Seed is reported as the run's seed; the caller seeds src with it.
func NewRunner(cfg *config.Config, src randsrc.Source, sinks Sinks, logger *slog.Logger) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if logger == nil {
		logger = logging.Discard()
	}

	lat, err := lattice.New(src, cfg.Lattice.Rows, cfg.Lattice.Cols, cfg.Lattice.InitialOrder,
		lattice.WithStubborn(cfg.Lattice.Stubborn))
	if err != nil {
		return nil, err
	}

	return &Runner{
		cfg:     cfg,
		src:     src,
		sinks:   sinks,
		logger:  logger,
		lattice: lat,
		series:  samples.New(cfg.Run.Sweeps),
	}, nil
}

// SetSinks replaces the sinks given to NewRunner. It must not be called
// while Run is in progress.
func (r *Runner) SetSinks(sinks Sinks) {
	r.sinks = sinks
}

// Lattice returns the lattice being simulated.
func (r *Runner) Lattice() *lattice.Lattice {
	return r.lattice
}

// Series returns the order parameters recorded so far.
func (r *Runner) Series() *samples.Series {
	return r.series
}

// Run performs the configured sweeps. Cancelling ctx stops the run between
// sweeps; the partial series is still summarised and Result.Interrupted is
// set. Run returns an error only when a sink fails.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	clock := timer.Start()
	res := Result{Seed: r.cfg.Run.Seed}

	if r.sinks.Store != nil {
		run, err := r.sinks.Store.CreateRun(ctx, r.params())
		if err != nil {
			return res, fmt.Errorf("failed to register run: %w", err)
		}
		res.RunID = run.ID
	}

	if err := r.writeInputs(); err != nil {
		return res, err
	}
	r.sinks.Tracer.Start(logging.RunStart{
		RunID:        res.RunID,
		Rows:         r.cfg.Lattice.Rows,
		Cols:         r.cfg.Lattice.Cols,
		Sweeps:       r.cfg.Run.Sweeps,
		Stubborn:     r.cfg.Lattice.Stubborn,
		Seed:         strconv.FormatUint(r.cfg.Run.Seed, 10),
		InitialOrder: r.lattice.OrderParameter(),
	})
	r.logger.Debug("simulation started",
		"rows", r.cfg.Lattice.Rows,
		"cols", r.cfg.Lattice.Cols,
		"sweeps", r.cfg.Run.Sweeps,
		"run_id", res.RunID)

	for sweep := 0; sweep < r.cfg.Run.Sweeps; sweep++ {
		if ctx.Err() != nil {
			res.Interrupted = true
			r.logger.Warn("simulation interrupted", "sweeps_completed", sweep)
			break
		}
		if err := r.step(ctx, sweep, res.RunID); err != nil {
			return res, err
		}
		res.SweepsCompleted++
	}

	res.FinalOrder = r.lattice.OrderParameter()
	r.summarise(&res)
	res.Elapsed = clock.Elapsed()

	// Finishing must not be cut short by the cancellation that ended the loop.
	if err := r.finish(context.WithoutCancel(ctx), res); err != nil {
		return res, err
	}
	return res, nil
}

func (r *Runner) step(ctx context.Context, sweep int, runID string) error {
	r.lattice.Sweep(r.src)
	m := r.lattice.OrderParameter()
	r.series.Append(m)

	if files := r.sinks.Files; files != nil {
		if err := files.AppendOrder(sweep, m); err != nil {
			return err
		}
		if r.cfg.Run.Animate {
			if err := files.WriteLattice(r.lattice); err != nil {
				return err
			}
		}
	}
	if r.sinks.Store != nil {
		// The sweep is complete, so its sample is kept even if ctx was
		// cancelled while it ran.
		if err := r.sinks.Store.RecordSample(context.WithoutCancel(ctx), runID, sweep, m); err != nil {
			return fmt.Errorf("failed to record sweep %d: %w", sweep, err)
		}
	}
	r.sinks.Tracer.Sweep(sweep, m)
	r.logger.Log(ctx, logging.LevelTrace, "sweep", "sweep", sweep, "order", m)
	return nil
}

func (r *Runner) writeInputs() error {
	files := r.sinks.Files
	if files == nil {
		return nil
	}
	if err := files.WriteLattice(r.lattice); err != nil {
		return err
	}
	return files.WriteFile(output.InputFile, func(w io.Writer) error {
		return output.WriteParameters(w, r.cfg, files.Path(), r.cfg.Run.Seed)
	})
}

// summarise fills the statistics of res from the recorded series.
// Statistics that are undefined for the series are left at zero.
func (r *Runner) summarise(res *Result) {
	res.Series = r.series

	if m, err := r.series.Mean(); err == nil {
		res.Mean = m
		res.MeanAbs = r.series.Apply(MeanAbsOrder)
	}
	if e, err := r.series.Error(); err == nil {
		res.Error = e
		res.ErrorDefined = true
	} else {
		r.logger.Debug("naive error undefined", "error", err)
	}

	lags := min(r.cfg.Run.MaxLag, r.series.Len())
	ac, err := r.series.AutoCorrelationRange(0, lags)
	if err != nil {
		r.logger.Warn("autocorrelation undefined", "error", err, "samples", r.series.Len())
		return
	}
	res.AutoCorrelation = ac
}

func (r *Runner) finish(ctx context.Context, res Result) error {
	if files := r.sinks.Files; files != nil {
		if err := files.WriteFile(output.ResultsFile, func(w io.Writer) error {
			return output.WriteResults(w, res.Summary())
		}); err != nil {
			return err
		}
		if err := files.WriteFile(output.AutoCorrelationFile, func(w io.Writer) error {
			return output.WriteAutoCorrelation(w, res.AutoCorrelation)
		}); err != nil {
			return err
		}
	}

	if r.sinks.Store != nil {
		summary := store.Summary{
			SweepsCompleted: res.SweepsCompleted,
			FinalOrder:      res.FinalOrder,
			Mean:            res.Mean,
			Interrupted:     res.Interrupted,
		}
		if res.ErrorDefined {
			e := res.Error
			summary.Error = &e
		}
		if err := r.sinks.Store.FinishRun(ctx, res.RunID, summary); err != nil {
			return fmt.Errorf("failed to finish run: %w", err)
		}
	}

	r.sinks.Tracer.Finish(logging.RunFinish{
		SweepsCompleted: res.SweepsCompleted,
		FinalOrder:      res.FinalOrder,
		Mean:            res.Mean,
		Interrupted:     res.Interrupted,
		ElapsedMillis:   res.Elapsed.Milliseconds(),
	})
	r.logger.Debug("simulation finished",
		"sweeps_completed", res.SweepsCompleted,
		"mean", res.Mean,
		"elapsed", res.Elapsed)
	return nil
}

func (r *Runner) params() store.RunParams {
	dir := ""
	if r.sinks.Files != nil {
		dir = r.sinks.Files.Path()
	}
	return store.RunParams{
		Rows:         r.cfg.Lattice.Rows,
		Cols:         r.cfg.Lattice.Cols,
		InitialOrder: r.cfg.Lattice.InitialOrder,
		Stubborn:     r.cfg.Lattice.Stubborn,
		Sweeps:       r.cfg.Run.Sweeps,
		Seed:         r.cfg.Run.Seed,
		OutputDir:    dir,
	}
}

// MeanAbsOrder is the mean of |m| over a series.
var MeanAbsOrder = samples.FunctionalFunc(func(v samples.View) float64 {
	n := v.Len()
	if n == 0 {
		return 0
	}
	var sum float64
	for _, m := range v.Values() {
		sum += math.Abs(m)
	}
	return sum / float64(n)
})
