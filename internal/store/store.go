// Package store defines the RunStore interface for indexing simulation runs
// and the order parameter series they produce.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/nvandessel/voter/internal/samples"
)

// ErrRunNotFound is returned when a run ID does not exist.
var ErrRunNotFound = errors.New("store: run not found")

// SampleBatch is the number of buffered samples written per transaction.
const SampleBatch = 256

// RunParams are the inputs that define a run.
type RunParams struct {
	Rows         int     `json:"rows"`
	Cols         int     `json:"cols"`
	InitialOrder float64 `json:"initial_order"`
	Stubborn     int     `json:"stubborn"`
	Sweeps       int     `json:"sweeps"`
	Seed         uint64  `json:"seed"`
	OutputDir    string  `json:"output_dir"`
}

// Summary is what a finished run reports back to the store.
type Summary struct {
	SweepsCompleted int      `json:"sweeps_completed"`
	FinalOrder      float64  `json:"final_order"`
	Mean            float64  `json:"mean"`
	Error           *float64 `json:"error,omitempty"` // nil when the naive error is undefined
	Interrupted     bool     `json:"interrupted"`
}

// Run is a stored run record.
type Run struct {
	ID         string     `json:"id"`
	Params     RunParams  `json:"params"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Summary    Summary    `json:"summary"`
}

// RunStore records runs and their sample series.
type RunStore interface {
	// CreateRun registers a new run and assigns its ID.
	CreateRun(ctx context.Context, params RunParams) (Run, error)

	// RecordSample stores the order parameter observed after a sweep.
	// Implementations may buffer; FinishRun and Close flush.
	RecordSample(ctx context.Context, runID string, sweep int, value float64) error

	// FinishRun flushes buffered samples and stores the run summary.
	FinishRun(ctx context.Context, runID string, summary Summary) error

	// GetRun returns a single run or ErrRunNotFound.
	GetRun(ctx context.Context, runID string) (Run, error)

	// ListRuns returns all runs, newest first.
	ListRuns(ctx context.Context) ([]Run, error)

	// LoadSamples returns the stored series of a run in sweep order.
	LoadSamples(ctx context.Context, runID string) (*samples.Series, error)

	Close() error
}
