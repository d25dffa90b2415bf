package simulation

import (
	"time"

	"github.com/nvandessel/voter/internal/output"
	"github.com/nvandessel/voter/internal/samples"
)

// Result is the outcome of a run.
type Result struct {
	RunID           string // empty when no store is attached
	Seed            uint64
	SweepsCompleted int
	FinalOrder      float64
	Mean            float64
	MeanAbs         float64
	Error           float64
	ErrorDefined    bool
	AutoCorrelation []float64 // nil when the series has zero variance
	Elapsed         time.Duration
	Interrupted     bool
	Series          *samples.Series
}

// Summary converts r to the table written as Results.txt.
func (r Result) Summary() output.Summary {
	return output.Summary{
		RunID:        r.RunID,
		Seed:         r.Seed,
		Sweeps:       r.SweepsCompleted,
		FinalOrder:   r.FinalOrder,
		Mean:         r.Mean,
		MeanAbs:      r.MeanAbs,
		Error:        r.Error,
		ErrorDefined: r.ErrorDefined,
		Elapsed:      r.Elapsed,
		Interrupted:  r.Interrupted,
	}
}
