package output

import (
	"fmt"
	"io"
	"time"

	"github.com/nvandessel/voter/internal/config"
	"github.com/nvandessel/voter/internal/samples"
)

// labelWidth is the column width of the label side of a report table.
const labelWidth = 30

// Summary is the outcome of a run as reported in Results.txt.
type Summary struct {
	RunID        string
	Seed         uint64
	Sweeps       int
	FinalOrder   float64
	Mean         float64
	MeanAbs      float64
	Error        float64
	ErrorDefined bool
	Elapsed      time.Duration
	Interrupted  bool
}

type row struct {
	label string
	value any
}

func writeTable(w io.Writer, title string, rows []row) error {
	if _, err := fmt.Fprintf(w, "%s\n", title); err != nil {
		return err
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(w, "%-*s%v\n", labelWidth, r.label, r.value); err != nil {
			return err
		}
	}
	return nil
}

// WriteParameters writes the input parameter table shown at the start of a
// run and saved as Input.txt.
func WriteParameters(w io.Writer, cfg *config.Config, dir string, seed uint64) error {
	return writeTable(w, "Input-Parameters...", []row{
		{"Rows: ", cfg.Lattice.Rows},
		{"Columns: ", cfg.Lattice.Cols},
		{"Initial-Order: ", cfg.Lattice.InitialOrder},
		{"Sweeps: ", cfg.Run.Sweeps},
		{"Stubborn-Number: ", cfg.Lattice.Stubborn},
		{"Animate: ", cfg.Run.Animate},
		{"Seed: ", seed},
		{"Output-Directory: ", dir},
	})
}

// WriteResults writes the result table saved as Results.txt.
func WriteResults(w io.Writer, s Summary) error {
	errValue := any(s.Error)
	if !s.ErrorDefined {
		errValue = "undefined"
	}
	rows := []row{
		{"Sweeps-Completed: ", s.Sweeps},
		{"Final-Order: ", s.FinalOrder},
		{"Mean-Order: ", s.Mean},
		{"Mean-Abs-Order: ", s.MeanAbs},
		{"Naive-Error: ", errValue},
	}
	rows = append(rows, row{"Seed: ", s.Seed})
	if s.RunID != "" {
		rows = append(rows, row{"Run-ID: ", s.RunID})
	}
	if s.Interrupted {
		rows = append(rows, row{"Interrupted: ", true})
	}
	rows = append(rows, row{"Time taken to execute(s) = ", s.Elapsed.Seconds()})
	return writeTable(w, "Results...", rows)
}

// WriteAutoCorrelation writes one "<lag> <value>" line per entry, lags
// counting up from zero.
func WriteAutoCorrelation(w io.Writer, values []float64) error {
	_, err := samples.FromValues(values).WriteTo(w)
	return err
}
